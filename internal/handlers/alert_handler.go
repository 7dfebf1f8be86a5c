package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subtrackr_backend/internal/middleware"
	"subtrackr_backend/internal/models"
	"subtrackr_backend/internal/services"
)

type AlertHandler struct {
	*BaseHandler
	alertService services.AlertService
}

func NewAlertHandler(base *BaseHandler, alertService services.AlertService) *AlertHandler {
	return &AlertHandler{
		BaseHandler:  base,
		alertService: alertService,
	}
}

func (h *AlertHandler) RegisterRoutes(r *gin.RouterGroup) {
	alerts := r.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware())
	{
		alerts.GET("/upcoming", h.Upcoming)
		alerts.POST("/dispatch", middleware.RoleMiddleware(models.UserRoleAdmin), h.Dispatch)
	}
}

func (h *AlertHandler) Upcoming(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.alertService.UpcomingRenewals(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AlertHandler) Dispatch(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.alertService.DispatchAlerts(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
