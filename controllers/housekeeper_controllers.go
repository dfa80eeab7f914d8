package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

type HousekeeperController struct {
	Manager *services.LifecycleManager
}

func NewHousekeeperController(manager *services.LifecycleManager) *HousekeeperController {
	return &HousekeeperController{Manager: manager}
}

func (hc *HousekeeperController) GetAllHousekeepers(c *gin.Context) {
	housekeepers, err := hc.Manager.ListHousekeepers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of housekeepers", housekeepers)
}

func (hc *HousekeeperController) CreateHousekeeper(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &body) {
		return
	}

	housekeeper, err := hc.Manager.CreateHousekeeper(c.Request.Context(), body.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Housekeeper created", housekeeper)
}
