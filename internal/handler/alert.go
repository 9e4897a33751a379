package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type createAlertRequest struct {
	Email      string  `json:"email" binding:"required"`
	TargetRate float64 `json:"target_rate" binding:"required"`
}

// CreateAlert godoc
// @Summary      Create a rate alert
// @Description  Registers an email alert that fires once when the best rate reaches the target
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        alert  body  createAlertRequest  true  "Alert to create"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/alerts [post]
func (h *Handler) CreateAlert(c *gin.Context) {
	if h.alertService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.create-alert")
	defer span.End()

	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and target_rate are required"})
		return
	}
	span.SetAttributes(attribute.Float64("target_rate", req.TargetRate))

	id, err := h.alertService.Create(ctx, req.Email, req.TargetRate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          id,
		"target_rate": req.TargetRate,
		"message":     "Alert created — we'll email you when the rate hits your target",
	})
}
