package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hotel-housekeeping/config"
	"github.com/yeremiapane/hotel-housekeeping/database"
	"github.com/yeremiapane/hotel-housekeeping/router"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger("error", "text")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks one room through a full stay:
// 1. schedule and record the checkout
// 2. assign a housekeeper
// 3. start and finish cleaning
// 4. room is clean and the dashboard agrees
func TestEndToEndIntegration(t *testing.T) {
	cfg := &config.Config{
		CORSOrigin:     "*",
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		JWTSecret:      "e2e-secret",
		Location:       time.FixedZone("WITA", 8*60*60),
	}

	db, err := config.InitDB(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	_, err = database.Seed(db, []string{"201", "202"}, []string{"Alice", "Bob"})
	require.NoError(t, err)

	manager := services.NewLifecycleManager(db, services.WithLocation(cfg.Location))
	r, err := router.SetupRouter(manager, cfg)
	require.NoError(t, err)

	frontDesk := issueToken(t, cfg, utils.RoleFrontDesk)
	housekeeping := issueToken(t, cfg, utils.RoleHousekeeping)

	var checkout struct {
		ID                uint   `json:"id"`
		ScheduledCheckout string `json:"scheduled_checkout"`
	}
	call(t, r, frontDesk, http.MethodPost, "/checkouts/schedule",
		map[string]string{"room_number": "201", "scheduled_checkout": "2024-08-01 12:00"},
		http.StatusCreated, &checkout)
	assert.Equal(t, "2024-08-01T04:00:00Z", checkout.ScheduledCheckout, "naive times are hotel-local")

	call(t, r, frontDesk, http.MethodPost, "/checkouts",
		map[string]string{"room_number": "201", "actual_checkout": "2024-08-01 11:40"},
		http.StatusOK, nil)

	var staff []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	call(t, r, housekeeping, http.MethodGet, "/housekeepers", nil, http.StatusOK, &staff)
	require.Len(t, staff, 2)

	var task struct {
		ID          uint    `json:"id"`
		Status      string  `json:"status"`
		CompletedAt *string `json:"completed_at"`
	}
	call(t, r, housekeeping, http.MethodPost, "/cleaning_tasks",
		map[string]interface{}{"room_number": "201", "housekeeper_id": staff[0].ID},
		http.StatusCreated, &task)
	assert.Equal(t, "pending", task.Status)

	taskURL := fmt.Sprintf("/cleaning_tasks/%d", task.ID)
	call(t, r, housekeeping, http.MethodPut, taskURL, map[string]string{"status": "in_progress"}, http.StatusOK, &task)
	call(t, r, housekeeping, http.MethodPut, taskURL, map[string]string{"status": "completed"}, http.StatusOK, &task)
	require.NotNil(t, task.CompletedAt)

	var rooms []struct {
		RoomNumber  string  `json:"room_number"`
		Status      string  `json:"status"`
		LastCleaned *string `json:"last_cleaned"`
	}
	call(t, r, frontDesk, http.MethodGet, "/rooms?status=clean", nil, http.StatusOK, &rooms)
	require.Len(t, rooms, 1)
	assert.Equal(t, "201", rooms[0].RoomNumber)
	require.NotNil(t, rooms[0].LastCleaned)
	assert.Equal(t, *task.CompletedAt, *rooms[0].LastCleaned)

	var stats services.RoomStats
	call(t, r, frontDesk, http.MethodGet, "/dashboard/stats", nil, http.StatusOK, &stats)
	assert.Equal(t, services.RoomStats{Occupied: 1, Clean: 1, Total: 2}, stats)

	// Deleting tasks is a manager operation.
	call(t, r, housekeeping, http.MethodDelete, taskURL, nil, http.StatusForbidden, nil)
}

func issueToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := utils.GenerateToken([]byte(cfg.JWTSecret), role+"-user", role, time.Hour)
	require.NoError(t, err)
	return token
}

func call(t *testing.T, r http.Handler, token, method, url string, body interface{}, wantCode int, out interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, wantCode, w.Code, w.Body.String())

	var resp utils.JSONResponse
	if out != nil {
		resp.Data = out
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, wantCode < 300, resp.Status)
}
