package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hotel-housekeeping/models"
	"github.com/yeremiapane/hotel-housekeeping/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const tracerName = "github.com/yeremiapane/hotel-housekeeping/services"

// LifecycleManager owns every state transition of rooms, checkouts and cleaning tasks.
// Each mutating call runs in a single store transaction. Calls that read and then write a
// room or its tasks additionally hold that room's lock for the whole transaction.
type LifecycleManager struct {
	db     *gorm.DB
	locks  *roomLocks
	log    logrus.FieldLogger
	tracer trace.Tracer
	now    func() time.Time
	loc    *time.Location
}

type Option func(*LifecycleManager)

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *LifecycleManager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock replaces time.Now for stamping last_cleaned, started_at and completed_at.
func WithClock(now func() time.Time) Option {
	return func(m *LifecycleManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLocation sets the zone used for date-times submitted without an offset.
func WithLocation(loc *time.Location) Option {
	return func(m *LifecycleManager) {
		if loc != nil {
			m.loc = loc
		}
	}
}

func NewLifecycleManager(db *gorm.DB, opts ...Option) *LifecycleManager {
	m := &LifecycleManager{
		db:     db,
		locks:  newRoomLocks(),
		log:    utils.Info(),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *LifecycleManager) clock() time.Time {
	return m.now().UTC()
}

func (m *LifecycleManager) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "lifecycle."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// parseTime validates a required date-time field.
func (m *LifecycleManager) parseTime(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, validationError(field, "is required")
	}
	t, err := utils.ParseDateTime(value, m.loc)
	if err != nil {
		return time.Time{}, validationError(field, "%v", err)
	}
	return t, nil
}

func (m *LifecycleManager) roomByNumber(tx *gorm.DB, number string) (*models.Room, error) {
	var room models.Room
	if err := tx.Where("room_number = ?", number).First(&room).Error; err != nil {
		return nil, lookupError(err, "room %s not found", number)
	}
	return &room, nil
}

// lookupError turns gorm.ErrRecordNotFound into ErrNotFound and wraps anything else as
// an infrastructure failure.
func lookupError(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(format, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", validationError(field, "is required")
	}
	return value, nil
}
