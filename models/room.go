package models

import "time"

type Room struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	RoomNumber    string         `gorm:"type:varchar(10);not null;uniqueIndex" json:"room_number"`
	Status        RoomStatus     `gorm:"type:varchar(20);not null;default:'occupied';index" json:"status"`
	LastCleaned   *time.Time     `json:"last_cleaned"`
	Checkouts     []Checkout     `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"checkouts"`
	CleaningTasks []CleaningTask `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"cleaning_tasks"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}
