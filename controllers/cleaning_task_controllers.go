package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

type CleaningTaskController struct {
	Manager *services.LifecycleManager
}

func NewCleaningTaskController(manager *services.LifecycleManager) *CleaningTaskController {
	return &CleaningTaskController{Manager: manager}
}

// AssignCleaningTask -> hand a checked out room to a housekeeper
func (tc *CleaningTaskController) AssignCleaningTask(c *gin.Context) {
	var body struct {
		RoomNumber    string `json:"room_number"`
		HousekeeperID uint   `json:"housekeeper_id"`
	}
	if !bindJSON(c, &body) {
		return
	}

	task, err := tc.Manager.AssignCleaningTask(c.Request.Context(), body.RoomNumber, body.HousekeeperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Cleaning task assigned", task)
}

func (tc *CleaningTaskController) GetAllCleaningTasks(c *gin.Context) {
	housekeeperID, err := queryID(c, "housekeeper_id")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	roomID, err := queryID(c, "room_id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tasks, err := tc.Manager.ListCleaningTasks(c.Request.Context(), services.TaskFilter{
		Status:        c.Query("status"),
		HousekeeperID: housekeeperID,
		RoomID:        roomID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of cleaning tasks", tasks)
}

func (tc *CleaningTaskController) GetCleaningTaskByID(c *gin.Context) {
	id, ok := pathID(c, "task_id", "cleaning task")
	if !ok {
		return
	}
	task, err := tc.Manager.GetCleaningTask(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaning task detail", task)
}

func (tc *CleaningTaskController) UpdateCleaningTask(c *gin.Context) {
	id, ok := pathID(c, "task_id", "cleaning task")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &body) {
		return
	}

	task, err := tc.Manager.UpdateCleaningTaskStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaning task updated", task)
}

func (tc *CleaningTaskController) DeleteCleaningTask(c *gin.Context) {
	id, ok := pathID(c, "task_id", "cleaning task")
	if !ok {
		return
	}
	if err := tc.Manager.DeleteCleaningTask(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaning task deleted", nil)
}
