package models

import "time"

type Checkout struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	RoomID               uint       `gorm:"not null;index" json:"room_id"`
	ScheduledCheckout    time.Time  `gorm:"not null;index" json:"scheduled_checkout"`
	ActualCheckout       *time.Time `json:"actual_checkout"`
	LateCheckoutApproved bool       `gorm:"not null;default:false" json:"late_checkout_approved"`
	LateCheckoutTime     *time.Time `json:"late_checkout_time"`
	CreatedAt            time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"not null" json:"updated_at"`
}
