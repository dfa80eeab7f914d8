package models

import "fmt"

// RoomStatus is the lifecycle state of a room:
// occupied -> checked_out -> cleaning -> clean -> occupied.
type RoomStatus string

const (
	RoomStatusOccupied   RoomStatus = "occupied"
	RoomStatusCheckedOut RoomStatus = "checked_out"
	RoomStatusCleaning   RoomStatus = "cleaning"
	RoomStatusClean      RoomStatus = "clean"
)

// RoomStatuses lists every room status in lifecycle order.
var RoomStatuses = []RoomStatus{
	RoomStatusOccupied,
	RoomStatusCheckedOut,
	RoomStatusCleaning,
	RoomStatusClean,
}

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusOccupied, RoomStatusCheckedOut, RoomStatusCleaning, RoomStatusClean:
		return true
	}
	return false
}

// ParseRoomStatus rejects anything outside the four known states.
func ParseRoomStatus(s string) (RoomStatus, error) {
	status := RoomStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid room status %q", s)
	}
	return status, nil
}

// TaskStatus is the state of a cleaning task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Active reports whether a task in this status still blocks new assignments for its room.
func (s TaskStatus) Active() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid task status %q", s)
	}
	return status, nil
}
