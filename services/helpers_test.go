package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hotel-housekeeping/config"
	"github.com/yeremiapane/hotel-housekeeping/database"
	"github.com/yeremiapane/hotel-housekeeping/models"
	"github.com/yeremiapane/hotel-housekeeping/utils"
	"gorm.io/gorm"
)

// stepClock advances one minute on every reading so successive stamps are ordered.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestManager(t *testing.T) (*LifecycleManager, *gorm.DB) {
	t.Helper()
	utils.InitLogger("error", "text")

	db, err := config.InitDB(config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		DSN:      ":memory:",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, database.Migrate(db))
	_, err = database.Seed(db, []string{"101", "102", "103", "104"}, []string{"Alice", "Bob"})
	require.NoError(t, err)

	clock := &stepClock{t: time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)}
	return NewLifecycleManager(db, WithClock(clock.Now), WithLogger(utils.Info())), db
}

func findRoom(t require.TestingT, db *gorm.DB, number string) models.Room {
	var room models.Room
	require.NoError(t, db.Where("room_number = ?", number).First(&room).Error)
	return room
}

func setRoomStatus(t require.TestingT, db *gorm.DB, number string, status models.RoomStatus) {
	err := db.Model(&models.Room{}).Where("room_number = ?", number).Update("status", status).Error
	require.NoError(t, err)
}

func findHousekeeper(t require.TestingT, db *gorm.DB, name string) models.Housekeeper {
	var hk models.Housekeeper
	require.NoError(t, db.Where("name = ?", name).First(&hk).Error)
	return hk
}

// checkOut schedules and records a checkout so the room ends up checked_out.
func checkOut(t require.TestingT, m *LifecycleManager, number string) {
	ctx := context.Background()
	_, err := m.ScheduleCheckout(ctx, number, "2024-08-01T11:00:00Z")
	require.NoError(t, err)
	_, err = m.RecordCheckout(ctx, number, "2024-08-01T10:45:00Z")
	require.NoError(t, err)
}
