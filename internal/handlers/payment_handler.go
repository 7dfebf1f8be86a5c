package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subtrackr_backend/internal/dto"
	"subtrackr_backend/internal/middleware"
	"subtrackr_backend/internal/services"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
	costService    services.CostService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService, costService services.CostService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
		costService:    costService,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	subscriptions := r.Group("/subscriptions")
	subscriptions.Use(middleware.AuthMiddleware())
	{
		subscriptions.POST("/:id/payments", h.RecordPayment)
		subscriptions.GET("/:id/payments", h.ListPayments)
		subscriptions.PUT("/:id/costs", h.UpsertCost)
		subscriptions.GET("/:id/costs", h.ListCosts)
	}
}

func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.paymentService.RecordPayment(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.ListPayments(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}

func (h *PaymentHandler) UpsertCost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpsertCostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.costService.UpsertCost(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) ListCosts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	costs, err := h.costService.ListCosts(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"costs": costs,
		"total": len(costs),
	})
}
