package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hotel-housekeeping/models"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleCheckout registers the planned departure for a room. The room status is left
// alone; a stay only moves to checked_out when the guest actually leaves.
func (m *LifecycleManager) ScheduleCheckout(ctx context.Context, roomNumber, scheduled string) (checkout *models.Checkout, err error) {
	ctx, span := m.startSpan(ctx, "schedule_checkout", attribute.String("room.number", roomNumber))
	defer func() { endSpan(span, err) }()

	roomNumber, err = requireText("room_number", roomNumber)
	if err != nil {
		return nil, err
	}
	scheduledAt, err := m.parseTime("scheduled_checkout", scheduled)
	if err != nil {
		return nil, err
	}

	room, err := m.roomByNumber(m.db.WithContext(ctx), roomNumber)
	if err != nil {
		return nil, err
	}

	checkout = &models.Checkout{
		RoomID:            room.ID,
		ScheduledCheckout: scheduledAt,
	}
	if err := m.db.WithContext(ctx).Create(checkout).Error; err != nil {
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"room_number": room.RoomNumber,
		"checkout_id": checkout.ID,
		"scheduled":   scheduledAt.Format(time.RFC3339),
	}).Info("checkout scheduled")

	return checkout, nil
}

// RecordCheckout stamps the actual departure on the room's most recent scheduled
// checkout and marks the room checked_out.
func (m *LifecycleManager) RecordCheckout(ctx context.Context, roomNumber, actual string) (checkout *models.Checkout, err error) {
	ctx, span := m.startSpan(ctx, "record_checkout", attribute.String("room.number", roomNumber))
	defer func() { endSpan(span, err) }()

	roomNumber, err = requireText("room_number", roomNumber)
	if err != nil {
		return nil, err
	}
	actualAt, err := m.parseTime("actual_checkout", actual)
	if err != nil {
		return nil, err
	}

	room, err := m.roomByNumber(m.db.WithContext(ctx), roomNumber)
	if err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(room.ID)
	defer unlock()

	checkout = &models.Checkout{}
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(room, room.ID).Error; err != nil {
			return lookupError(err, "room %s not found", roomNumber)
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ?", room.ID).
			Order("scheduled_checkout DESC").
			Order("id DESC").
			First(checkout).Error
		if err != nil {
			return lookupError(err, "no scheduled checkout found for room %s", roomNumber)
		}

		if err := recordActualCheckout(tx, checkout, actualAt); err != nil {
			return err
		}

		room.Status = models.RoomStatusCheckedOut
		return tx.Model(room).Update("status", room.Status).Error
	})
	if err != nil {
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"room_number": room.RoomNumber,
		"checkout_id": checkout.ID,
	}).Info("checkout recorded")

	return checkout, nil
}

func (m *LifecycleManager) GetCheckout(ctx context.Context, id uint) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := m.db.WithContext(ctx).First(&checkout, id).Error; err != nil {
		return nil, lookupError(err, "checkout %d not found", id)
	}
	return &checkout, nil
}

// RequestLateCheckout records a requested departure time, which must be after the
// scheduled one. Any earlier decision is reset to not approved.
func (m *LifecycleManager) RequestLateCheckout(ctx context.Context, id uint, requested string) (checkout *models.Checkout, err error) {
	ctx, span := m.startSpan(ctx, "request_late_checkout", attribute.Int64("checkout.id", int64(id)))
	defer func() { endSpan(span, err) }()

	requestedAt, err := m.parseTime("requested_time", requested)
	if err != nil {
		return nil, err
	}

	checkout = &models.Checkout{}
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCheckout(tx, checkout, id); err != nil {
			return err
		}
		if !requestedAt.After(checkout.ScheduledCheckout) {
			return conflict("requested time %s is not after the scheduled checkout %s",
				requestedAt.Format(time.RFC3339), checkout.ScheduledCheckout.UTC().Format(time.RFC3339))
		}

		return recordLateRequest(tx, checkout, requestedAt)
	})
	if err != nil {
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"checkout_id": checkout.ID,
		"requested":   requestedAt.Format(time.RFC3339),
	}).Info("late checkout requested")

	return checkout, nil
}

// DecideLateCheckout approves or rejects a late checkout. Deciding without a pending
// request is allowed.
func (m *LifecycleManager) DecideLateCheckout(ctx context.Context, id uint, approved bool) (checkout *models.Checkout, err error) {
	ctx, span := m.startSpan(ctx, "decide_late_checkout",
		attribute.Int64("checkout.id", int64(id)),
		attribute.Bool("checkout.approved", approved),
	)
	defer func() { endSpan(span, err) }()

	checkout = &models.Checkout{}
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCheckout(tx, checkout, id); err != nil {
			return err
		}
		return recordLateDecision(tx, checkout, approved)
	})
	if err != nil {
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"checkout_id": checkout.ID,
		"approved":    approved,
	}).Info("late checkout decided")

	return checkout, nil
}

// lockCheckout reads a checkout row and holds it for the rest of the transaction. SQLite
// has no row locks; its single connection already serialises writers.
func lockCheckout(tx *gorm.DB, checkout *models.Checkout, id uint) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(checkout, id).Error
	if err != nil {
		return lookupError(err, "checkout %d not found", id)
	}
	return nil
}

// The record* writers touch only the columns their operation owns, so a stale in-memory
// checkout never overwrites another operation's fields.

func recordActualCheckout(tx *gorm.DB, checkout *models.Checkout, actualAt time.Time) error {
	checkout.ActualCheckout = &actualAt
	return tx.Model(checkout).Update("actual_checkout", actualAt).Error
}

func recordLateRequest(tx *gorm.DB, checkout *models.Checkout, requestedAt time.Time) error {
	checkout.LateCheckoutTime = &requestedAt
	checkout.LateCheckoutApproved = false
	return tx.Model(checkout).Updates(map[string]interface{}{
		"late_checkout_time":     requestedAt,
		"late_checkout_approved": false,
	}).Error
}

func recordLateDecision(tx *gorm.DB, checkout *models.Checkout, approved bool) error {
	checkout.LateCheckoutApproved = approved
	return tx.Model(checkout).Update("late_checkout_approved", approved).Error
}
