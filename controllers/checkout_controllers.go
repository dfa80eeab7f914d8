package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

type CheckoutController struct {
	Manager *services.LifecycleManager
}

func NewCheckoutController(manager *services.LifecycleManager) *CheckoutController {
	return &CheckoutController{Manager: manager}
}

// RecordCheckout -> guest left the room
func (cc *CheckoutController) RecordCheckout(c *gin.Context) {
	var body struct {
		RoomNumber     string `json:"room_number"`
		ActualCheckout string `json:"actual_checkout"`
	}
	if !bindJSON(c, &body) {
		return
	}

	checkout, err := cc.Manager.RecordCheckout(c.Request.Context(), body.RoomNumber, body.ActualCheckout)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout recorded", checkout)
}

func (cc *CheckoutController) ScheduleCheckout(c *gin.Context) {
	var body struct {
		RoomNumber        string `json:"room_number"`
		ScheduledCheckout string `json:"scheduled_checkout"`
	}
	if !bindJSON(c, &body) {
		return
	}

	checkout, err := cc.Manager.ScheduleCheckout(c.Request.Context(), body.RoomNumber, body.ScheduledCheckout)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Checkout scheduled", checkout)
}

func (cc *CheckoutController) GetCheckoutByID(c *gin.Context) {
	id, ok := pathID(c, "checkout_id", "checkout")
	if !ok {
		return
	}
	checkout, err := cc.Manager.GetCheckout(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout detail", checkout)
}

func (cc *CheckoutController) RequestLateCheckout(c *gin.Context) {
	id, ok := pathID(c, "checkout_id", "checkout")
	if !ok {
		return
	}
	var body struct {
		RequestedTime string `json:"requested_time"`
	}
	if !bindJSON(c, &body) {
		return
	}

	checkout, err := cc.Manager.RequestLateCheckout(c.Request.Context(), id, body.RequestedTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Late checkout requested", checkout)
}

func (cc *CheckoutController) ApproveLateCheckout(c *gin.Context) {
	id, ok := pathID(c, "checkout_id", "checkout")
	if !ok {
		return
	}
	var body struct {
		Approved *bool `json:"approved"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.Approved == nil {
		respondServiceError(c, fmt.Errorf("%w: approved: is required", services.ErrValidation))
		return
	}

	checkout, err := cc.Manager.DecideLateCheckout(c.Request.Context(), id, *body.Approved)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	message := "Late checkout denied"
	if checkout.LateCheckoutApproved {
		message = "Late checkout approved"
	}
	utils.RespondJSON(c, http.StatusOK, message, checkout)
}
