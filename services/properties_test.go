package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hotel-housekeeping/models"
	"pgregory.net/rapid"
)

func TestLateCheckoutOrderingProperty(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	scheduled := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

	rapid.Check(t, func(rt *rapid.T) {
		checkout, err := m.ScheduleCheckout(ctx, "101", scheduled.Format(time.RFC3339))
		require.NoError(rt, err)

		offset := time.Duration(rapid.IntRange(-720, 720).Draw(rt, "offset_minutes")) * time.Minute
		requested := scheduled.Add(offset)

		_, err = m.RequestLateCheckout(ctx, checkout.ID, requested.Format(time.RFC3339))
		stored, getErr := m.GetCheckout(ctx, checkout.ID)
		require.NoError(rt, getErr)

		if offset > 0 {
			require.NoError(rt, err)
			require.NotNil(rt, stored.LateCheckoutTime)
			require.True(rt, stored.LateCheckoutTime.Equal(requested))
			return
		}
		require.ErrorIs(rt, err, ErrConflict)
		require.Nil(rt, stored.LateCheckoutTime)
	})
}

func TestTaskTimestampProperty(t *testing.T) {
	m, db := newTestManager(t)
	ctx := context.Background()
	alice := findHousekeeper(t, db, "Alice")
	room := findRoom(t, db, "102")

	statuses := []string{
		string(models.TaskStatusPending),
		string(models.TaskStatusInProgress),
		string(models.TaskStatusCompleted),
	}

	rapid.Check(t, func(rt *rapid.T) {
		require.NoError(rt, db.Where("room_id = ?", room.ID).Delete(&models.CleaningTask{}).Error)
		setRoomStatus(rt, db, "102", models.RoomStatusCheckedOut)

		task, err := m.AssignCleaningTask(ctx, "102", alice.ID)
		require.NoError(rt, err)

		steps := rapid.SliceOfN(rapid.SampledFrom(statuses), 1, 8).Draw(rt, "steps")

		var started, completed *time.Time
		for _, step := range steps {
			task, err = m.UpdateCleaningTaskStatus(ctx, task.ID, step)
			require.NoError(rt, err)
			require.Equal(rt, models.TaskStatus(step), task.Status)

			if started != nil {
				require.True(rt, task.StartedAt.Equal(*started), "started_at changed")
			}
			if completed != nil {
				require.True(rt, task.CompletedAt.Equal(*completed), "completed_at changed")
			}
			started, completed = task.StartedAt, task.CompletedAt

			if step == string(models.TaskStatusInProgress) {
				require.NotNil(rt, started)
			}
			if step == string(models.TaskStatusCompleted) {
				require.NotNil(rt, completed)
			}
		}

		if completed != nil {
			stored := findRoom(rt, db, "102")
			require.NotNil(rt, stored.LastCleaned)
			require.True(rt, stored.LastCleaned.Equal(*completed))
		}
	})
}
