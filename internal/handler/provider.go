package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const defaultTransferAmount = 2000

// GetProviders godoc
// @Summary      Compare money-transfer providers
// @Description  Returns every provider quoted for the amount, ranked by INR received
// @Tags         providers
// @Produce      json
// @Param        amount  query  number  false  "Transfer amount in AUD (default 2000)"  default(2000)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/providers [get]
func (h *Handler) GetProviders(c *gin.Context) {
	if h.providerService == nil || h.intelligence == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "provider service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-providers")
	defer span.End()

	amount := float64(defaultTransferAmount)
	if rawAmount := strings.TrimSpace(c.Query("amount")); rawAmount != "" {
		n, err := strconv.ParseFloat(rawAmount, 64)
		if err != nil || n <= 0 || n > 1_000_000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be between 1 and 1000000"})
			return
		}
		amount = n
	}
	span.SetAttributes(attribute.Float64("amount", amount))

	data, err := h.intelligence.GetIntelligence(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	quotes, err := h.providerService.RankedQuotes(ctx, amount, data.MidMarketRate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount":     amount,
		"mid_market": data.MidMarketRate,
		"providers":  quotes,
	})
}
