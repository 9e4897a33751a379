package handler

import (
	"net/http"
	"time"

	"remitiq/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer          trace.Tracer
	intelligence    *service.IntelligenceService
	providerService *service.ProviderService
	alertService    *service.AlertService
	streamInterval  time.Duration
}

func New(
	tracer trace.Tracer,
	intelligence *service.IntelligenceService,
	providerService *service.ProviderService,
	alertService *service.AlertService,
) *Handler {
	return &Handler{
		tracer:          tracer,
		intelligence:    intelligence,
		providerService: providerService,
		alertService:    alertService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/intelligence", h.GetIntelligence)
	r.GET("/api/rates", h.GetRates)
	r.GET("/api/rates/history", h.GetRateHistory)
	r.GET("/api/providers", h.GetProviders)
	r.POST("/api/alerts", h.CreateAlert)
	r.GET("/ws/rates", h.StreamRates)
}

// Health godoc
// @Summary      Health check
// @Tags         meta
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
