package models

import "time"

type CleaningTask struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RoomID        uint       `gorm:"not null;index" json:"room_id"`
	HousekeeperID uint       `gorm:"not null;index" json:"housekeeper_id"`
	Status        TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	// ActiveRoomID mirrors RoomID while the task is pending or in_progress and is NULL
	// otherwise. Its unique index allows a single active task per room.
	ActiveRoomID *uint      `gorm:"uniqueIndex:idx_cleaning_tasks_active_room" json:"-"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

// SyncActiveSlot keeps ActiveRoomID consistent with Status.
func (t *CleaningTask) SyncActiveSlot() {
	if t.Status.Active() {
		roomID := t.RoomID
		t.ActiveRoomID = &roomID
		return
	}
	t.ActiveRoomID = nil
}
