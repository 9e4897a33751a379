package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetIntelligence godoc
// @Summary      Get the rate intelligence bundle
// @Description  Returns the full AUD/INR analysis: chart series, statistics, timing recommendation, forecast, backtest and macro calendar
// @Tags         intelligence
// @Produce      json
// @Success      200  {object}  domain.IntelligenceData
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/intelligence [get]
func (h *Handler) GetIntelligence(c *gin.Context) {
	if h.intelligence == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "intelligence service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-intelligence")
	defer span.End()

	data, err := h.intelligence.GetIntelligence(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("signal", string(data.Recommendation.Signal)))

	c.JSON(http.StatusOK, data)
}

// GetRates godoc
// @Summary      Get the current AUD/INR rate
// @Description  Returns the latest best platform rate and mid-market reference
// @Tags         rates
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/rates [get]
func (h *Handler) GetRates(c *gin.Context) {
	if h.intelligence == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "intelligence service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-rates")
	defer span.End()

	data, err := h.intelligence.GetIntelligence(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rate":        data.Stats.Current,
		"mid_market":  data.MidMarketRate,
		"source":      data.Source,
		"computed_at": data.ComputedAt,
	})
}

// GetRateHistory godoc
// @Summary      Get the persisted daily rate series
// @Tags         rates
// @Produce      json
// @Param        days  query  int  false  "Number of trailing days (default 180, max 180)"  default(180)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/rates/history [get]
func (h *Handler) GetRateHistory(c *gin.Context) {
	if h.intelligence == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "intelligence service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-rate-history")
	defer span.End()

	days := 0
	if rawDays := strings.TrimSpace(c.Query("days")); rawDays != "" {
		n, err := strconv.Atoi(rawDays)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}
	span.SetAttributes(attribute.Int("days", days))

	points, err := h.intelligence.RecentHistory(ctx, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": points})
}
