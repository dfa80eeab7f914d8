package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hotel-housekeeping/config"
	"github.com/yeremiapane/hotel-housekeeping/database"
	"github.com/yeremiapane/hotel-housekeeping/models"
	"github.com/yeremiapane/hotel-housekeeping/router"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/utils"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupTestDB opens a fresh in-memory store with rooms 101-104 and two housekeepers.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger("error", "text")

	db, err := config.InitDB(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.Migrate(db))
	_, err = database.Seed(db, []string{"101", "102", "103", "104"}, []string{"Alice", "Bob"})
	require.NoError(t, err)
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		CORSOrigin:     "*",
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

func setupRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	r, err := router.SetupRouter(services.NewLifecycleManager(db), cfg)
	require.NoError(t, err)
	return r, db
}

func doRequest(t *testing.T, r http.Handler, method, url string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func decode(t *testing.T, raw json.RawMessage, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst))
}

func roomID(t *testing.T, db *gorm.DB, number string) uint {
	t.Helper()
	var room models.Room
	require.NoError(t, db.Where("room_number = ?", number).First(&room).Error)
	return room.ID
}

func housekeeperID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var hk models.Housekeeper
	require.NoError(t, db.Where("name = ?", name).First(&hk).Error)
	return hk.ID
}
