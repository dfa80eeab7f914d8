package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hotel-housekeeping/config"
	"github.com/yeremiapane/hotel-housekeeping/controllers"
	"github.com/yeremiapane/hotel-housekeeping/middlewares"
	"github.com/yeremiapane/hotel-housekeeping/services"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

func SetupRouter(manager *services.LifecycleManager, cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()

	// Rate limiting keys on ClientIP, so forwarded headers count only from known proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	if cfg.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())
	}

	roomCtrl := controllers.NewRoomController(manager)
	checkoutCtrl := controllers.NewCheckoutController(manager)
	housekeeperCtrl := controllers.NewHousekeeperController(manager)
	taskCtrl := controllers.NewCleaningTaskController(manager)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/")
	managerOnly := func(c *gin.Context) { c.Next() }
	if cfg.AuthEnabled() {
		staff.Use(middlewares.AuthMiddleware([]byte(cfg.JWTSecret)))
		managerOnly = middlewares.RequireRole(utils.RoleManager)
	}

	// ROOMS
	staff.GET("/rooms", roomCtrl.GetAllRooms)
	staff.GET("/rooms/:room_id", roomCtrl.GetRoomByID)
	staff.PUT("/rooms/:room_id", managerOnly, roomCtrl.UpdateRoomStatus)
	staff.GET("/dashboard/stats", roomCtrl.GetDashboardStats)

	// CHECKOUTS
	staff.POST("/checkouts", checkoutCtrl.RecordCheckout)
	staff.POST("/checkouts/schedule", checkoutCtrl.ScheduleCheckout)
	staff.GET("/checkouts/:checkout_id", checkoutCtrl.GetCheckoutByID)
	staff.PUT("/checkouts/:checkout_id/late", checkoutCtrl.RequestLateCheckout)
	staff.PUT("/checkouts/:checkout_id/approve_late", checkoutCtrl.ApproveLateCheckout)

	// HOUSEKEEPERS
	staff.GET("/housekeepers", housekeeperCtrl.GetAllHousekeepers)
	staff.POST("/housekeepers", managerOnly, housekeeperCtrl.CreateHousekeeper)

	// CLEANING TASKS
	staff.POST("/cleaning_tasks", taskCtrl.AssignCleaningTask)
	staff.GET("/cleaning_tasks", taskCtrl.GetAllCleaningTasks)
	staff.GET("/cleaning_tasks/:task_id", taskCtrl.GetCleaningTaskByID)
	staff.PUT("/cleaning_tasks/:task_id", taskCtrl.UpdateCleaningTask)
	staff.DELETE("/cleaning_tasks/:task_id", managerOnly, taskCtrl.DeleteCleaningTask)

	return r, nil
}
