package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hotel-housekeeping/models"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// TaskFilter narrows ListCleaningTasks. Zero values match everything.
type TaskFilter struct {
	Status        string
	HousekeeperID uint
	RoomID        uint
}

var activeTaskStatuses = []string{
	string(models.TaskStatusPending),
	string(models.TaskStatusInProgress),
}

// AssignCleaningTask creates a pending task for a checked_out room and moves the room to
// cleaning. A room can carry at most one pending or in_progress task.
func (m *LifecycleManager) AssignCleaningTask(ctx context.Context, roomNumber string, housekeeperID uint) (task *models.CleaningTask, err error) {
	ctx, span := m.startSpan(ctx, "assign_cleaning_task",
		attribute.String("room.number", roomNumber),
		attribute.Int64("housekeeper.id", int64(housekeeperID)),
	)
	defer func() { endSpan(span, err) }()

	roomNumber, err = requireText("room_number", roomNumber)
	if err != nil {
		return nil, err
	}
	if housekeeperID == 0 {
		return nil, validationError("housekeeper_id", "is required")
	}

	room, err := m.roomByNumber(m.db.WithContext(ctx), roomNumber)
	if err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(room.ID)
	defer unlock()

	task = &models.CleaningTask{}
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(room, room.ID).Error; err != nil {
			return lookupError(err, "room %s not found", roomNumber)
		}

		var housekeeper models.Housekeeper
		if err := tx.First(&housekeeper, housekeeperID).Error; err != nil {
			return lookupError(err, "housekeeper %d not found", housekeeperID)
		}

		if room.Status != models.RoomStatusCheckedOut {
			return conflict("room %s is not checked out (status %s)", room.RoomNumber, room.Status)
		}

		active, err := countActiveTasks(tx, room.ID, 0)
		if err != nil {
			return err
		}
		if active > 0 {
			return conflict("room %s already has a pending or in-progress cleaning task", room.RoomNumber)
		}

		task.RoomID = room.ID
		task.HousekeeperID = housekeeper.ID
		task.Status = models.TaskStatusPending
		if err := insertTask(tx, task); err != nil {
			return err
		}

		room.Status = models.RoomStatusCleaning
		return tx.Save(room).Error
	})
	if err != nil {
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"task_id":        task.ID,
		"room_number":    room.RoomNumber,
		"housekeeper_id": housekeeperID,
	}).Info("cleaning task assigned")

	return task, nil
}

// UpdateCleaningTaskStatus moves a task to any status. started_at and completed_at are
// stamped once, on the first transition into in_progress and completed respectively.
// The first completion also marks the room clean.
func (m *LifecycleManager) UpdateCleaningTaskStatus(ctx context.Context, id uint, status string) (task *models.CleaningTask, err error) {
	ctx, span := m.startSpan(ctx, "update_cleaning_task_status",
		attribute.Int64("task.id", int64(id)),
		attribute.String("task.status", status),
	)
	defer func() { endSpan(span, err) }()

	if status == "" {
		return nil, validationError("status", "is required")
	}
	target, err := models.ParseTaskStatus(status)
	if err != nil {
		return nil, validationError("status", "%v", err)
	}

	roomID, err := m.taskRoomID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(roomID)
	defer unlock()

	task = &models.CleaningTask{}
	var cleaned *models.Room
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(task, id).Error; err != nil {
			return lookupError(err, "cleaning task %d not found", id)
		}

		reactivated := target.Active() && !task.Status.Active()
		firstCompletion := false
		now := m.clock()

		task.Status = target
		switch target {
		case models.TaskStatusInProgress:
			if task.StartedAt == nil {
				task.StartedAt = &now
			}
		case models.TaskStatusCompleted:
			if task.CompletedAt == nil {
				task.CompletedAt = &now
				firstCompletion = true
			}
		}
		task.SyncActiveSlot()

		if reactivated {
			active, err := countActiveTasks(tx, task.RoomID, task.ID)
			if err != nil {
				return err
			}
			if active > 0 {
				return conflict("room %d already has a pending or in-progress cleaning task", task.RoomID)
			}
		}

		if err := saveTask(tx, task); err != nil {
			return err
		}

		if !firstCompletion {
			return nil
		}

		var room models.Room
		if err := tx.First(&room, task.RoomID).Error; err != nil {
			return lookupError(err, "room %d not found", task.RoomID)
		}
		room.Status = models.RoomStatusClean
		room.LastCleaned = task.CompletedAt
		if err := tx.Save(&room).Error; err != nil {
			return err
		}
		cleaned = &room
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"task_id": task.ID,
		"status":  task.Status,
	}
	if cleaned != nil {
		fields["room_number"] = cleaned.RoomNumber
	}
	m.log.WithFields(fields).Info("cleaning task status updated")

	return task, nil
}

func (m *LifecycleManager) ListCleaningTasks(ctx context.Context, filter TaskFilter) ([]models.CleaningTask, error) {
	q := m.db.WithContext(ctx).Order("id ASC")
	if filter.Status != "" {
		status, err := models.ParseTaskStatus(filter.Status)
		if err != nil {
			return nil, validationError("status", "%v", err)
		}
		q = q.Where("status = ?", string(status))
	}
	if filter.HousekeeperID != 0 {
		q = q.Where("housekeeper_id = ?", filter.HousekeeperID)
	}
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}

	tasks := []models.CleaningTask{}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list cleaning tasks: %w", err)
	}
	return tasks, nil
}

func (m *LifecycleManager) GetCleaningTask(ctx context.Context, id uint) (*models.CleaningTask, error) {
	var task models.CleaningTask
	if err := m.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, lookupError(err, "cleaning task %d not found", id)
	}
	return &task, nil
}

// DeleteCleaningTask removes a task whatever its status. The room status is untouched.
func (m *LifecycleManager) DeleteCleaningTask(ctx context.Context, id uint) (err error) {
	ctx, span := m.startSpan(ctx, "delete_cleaning_task", attribute.Int64("task.id", int64(id)))
	defer func() { endSpan(span, err) }()

	roomID, err := m.taskRoomID(ctx, id)
	if err != nil {
		return err
	}

	unlock := m.locks.Lock(roomID)
	defer unlock()

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.CleaningTask
		if err := tx.First(&task, id).Error; err != nil {
			return lookupError(err, "cleaning task %d not found", id)
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		return err
	}

	m.log.WithField("task_id", id).Info("cleaning task deleted")
	return nil
}

// taskRoomID resolves the room a task belongs to so the caller can take its lock.
// A task never changes room.
func (m *LifecycleManager) taskRoomID(ctx context.Context, id uint) (uint, error) {
	var task models.CleaningTask
	if err := m.db.WithContext(ctx).Select("id", "room_id").First(&task, id).Error; err != nil {
		return 0, lookupError(err, "cleaning task %d not found", id)
	}
	return task.RoomID, nil
}

// insertTask and saveTask report a hit on the active-task unique index as ErrConflict. The
// index catches writers that do not go through the room lock.
func insertTask(tx *gorm.DB, task *models.CleaningTask) error {
	task.SyncActiveSlot()
	if err := tx.Create(task).Error; err != nil {
		return activeSlotError(err, task.RoomID)
	}
	return nil
}

func saveTask(tx *gorm.DB, task *models.CleaningTask) error {
	task.SyncActiveSlot()
	if err := tx.Save(task).Error; err != nil {
		return activeSlotError(err, task.RoomID)
	}
	return nil
}

func activeSlotError(err error, roomID uint) error {
	if isUniqueViolation(err) {
		return conflict("room %d already has a pending or in-progress cleaning task", roomID)
	}
	return err
}

func countActiveTasks(tx *gorm.DB, roomID, excludeID uint) (int64, error) {
	q := tx.Model(&models.CleaningTask{}).
		Where("room_id = ? AND status IN ?", roomID, activeTaskStatuses)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count active tasks: %w", err)
	}
	return n, nil
}
