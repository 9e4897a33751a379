package handler

import (
	"log"
	"net/http"
	"time"

	"remitiq/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultStreamInterval = 15 * time.Second
	streamWriteTimeout    = 10 * time.Second
)

var rateStreamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The stream is read-only public data, same as the REST endpoints.
	CheckOrigin: func(*http.Request) bool { return true },
}

type rateStreamFrame struct {
	Rate       float64             `json:"rate"`
	MidMarket  float64             `json:"mid_market"`
	Signal     domain.TimingSignal `json:"signal"`
	Confidence int                 `json:"confidence"`
	Source     domain.Provenance   `json:"source"`
	SentAt     time.Time           `json:"sent_at"`
}

// StreamRates godoc
// @Summary Live AUD/INR rate stream
// @Description Upgrades to a websocket and pushes the current rate snapshot on connect and then periodically
// @Tags rates
// @Produce json
// @Success 101 {object} rateStreamFrame
// @Failure 503 {object} map[string]string
// @Router /ws/rates [get]
func (h *Handler) StreamRates(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.stream-rates")
	defer span.End()

	if h.intelligence == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "intelligence service unavailable"})
		return
	}

	conn, err := rateStreamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	span.SetAttributes(attribute.String("client.addr", conn.RemoteAddr().String()))

	// Reader pump. Clients never send payloads; reading only surfaces
	// close frames and connection loss.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	interval := h.streamInterval
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := h.writeRateFrame(c, conn); err != nil {
		return
	}
	for {
		select {
		case <-ticker.C:
			if err := h.writeRateFrame(c, conn); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Handler) writeRateFrame(c *gin.Context, conn *websocket.Conn) error {
	data, err := h.intelligence.GetIntelligence(c.Request.Context())
	if err != nil {
		log.Printf("rate stream refresh failed: %v", err)
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(rateStreamFrame{
		Rate:       data.Stats.Current,
		MidMarket:  data.MidMarketRate,
		Signal:     data.Recommendation.Signal,
		Confidence: data.Recommendation.Confidence,
		Source:     data.Source,
		SentAt:     time.Now().UTC(),
	})
}
