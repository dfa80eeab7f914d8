package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

type RoomController struct {
	Manager *services.LifecycleManager
}

func NewRoomController(manager *services.LifecycleManager) *RoomController {
	return &RoomController{Manager: manager}
}

// GetAllRooms -> list rooms, optional ?status= filter
func (rc *RoomController) GetAllRooms(c *gin.Context) {
	rooms, err := rc.Manager.ListRooms(c.Request.Context(), services.RoomFilter{
		Status: c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of rooms", rooms)
}

func (rc *RoomController) GetRoomByID(c *gin.Context) {
	id, ok := pathID(c, "room_id", "room")
	if !ok {
		return
	}
	room, err := rc.Manager.GetRoom(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room detail", room)
}

// UpdateRoomStatus -> administrative status override
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := pathID(c, "room_id", "room")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &body) {
		return
	}

	room, err := rc.Manager.UpdateRoomStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room status updated", room)
}

func (rc *RoomController) GetDashboardStats(c *gin.Context) {
	stats, err := rc.Manager.RoomStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room statistics", stats)
}
