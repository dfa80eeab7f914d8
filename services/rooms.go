package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hotel-housekeeping/models"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type RoomFilter struct {
	Status string
}

// RoomStats counts rooms per lifecycle status.
type RoomStats struct {
	Occupied   int64 `json:"occupied"`
	CheckedOut int64 `json:"checked_out"`
	Cleaning   int64 `json:"cleaning"`
	Clean      int64 `json:"clean"`
	Total      int64 `json:"total"`
}

func withHistory(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Checkouts", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheduled_checkout ASC").Order("id ASC")
		}).
		Preload("CleaningTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// ListRooms returns every room with its checkout and task history, optionally filtered
// by status (e.g. "checked_out" for rooms waiting to be cleaned).
func (m *LifecycleManager) ListRooms(ctx context.Context, filter RoomFilter) ([]models.Room, error) {
	q := withHistory(m.db.WithContext(ctx)).Order("id ASC")
	if filter.Status != "" {
		status, err := models.ParseRoomStatus(filter.Status)
		if err != nil {
			return nil, validationError("status", "%v", err)
		}
		q = q.Where("status = ?", string(status))
	}

	rooms := []models.Room{}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (m *LifecycleManager) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := withHistory(m.db.WithContext(ctx)).First(&room, id).Error; err != nil {
		return nil, lookupError(err, "room %d not found", id)
	}
	return &room, nil
}

// UpdateRoomStatus is the administrative override: any of the four statuses may be set
// from any other. Setting "clean" stamps last_cleaned.
func (m *LifecycleManager) UpdateRoomStatus(ctx context.Context, id uint, status string) (room *models.Room, err error) {
	ctx, span := m.startSpan(ctx, "update_room_status",
		attribute.Int64("room.id", int64(id)),
		attribute.String("room.status", status),
	)
	defer func() { endSpan(span, err) }()

	if status == "" {
		return nil, validationError("status", "is required")
	}
	target, err := models.ParseRoomStatus(status)
	if err != nil {
		return nil, validationError("status", "%v", err)
	}

	unlock := m.locks.Lock(id)
	defer unlock()

	room = &models.Room{}
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(room, id).Error; err != nil {
			return lookupError(err, "room %d not found", id)
		}

		room.Status = target
		if target == models.RoomStatusClean {
			now := m.clock()
			room.LastCleaned = &now
		}
		return tx.Save(room).Error
	})
	if err != nil {
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"room_number": room.RoomNumber,
		"status":      room.Status,
	}).Info("room status updated")

	return room, nil
}

func (m *LifecycleManager) RoomStats(ctx context.Context) (*RoomStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := m.db.WithContext(ctx).
		Model(&models.Room{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("room stats: %w", err)
	}

	stats := &RoomStats{}
	for _, row := range rows {
		switch models.RoomStatus(row.Status) {
		case models.RoomStatusOccupied:
			stats.Occupied = row.Count
		case models.RoomStatusCheckedOut:
			stats.CheckedOut = row.Count
		case models.RoomStatusCleaning:
			stats.Cleaning = row.Count
		case models.RoomStatusClean:
			stats.Clean = row.Count
		}
		stats.Total += row.Count
	}
	return stats, nil
}
