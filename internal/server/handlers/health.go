package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/carriermap/internal/persistence"
	"github.com/agentstation/carriermap/internal/server/response"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    float64           `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *Handlers) health(status string) healthResponse {
	now := h.now()
	return healthResponse{
		Status:    status,
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Uptime:    now.Sub(h.startTime).Seconds(),
	}
}

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.health("ok"))
}

// HandleHealthDetailed handles GET /health/detailed. The service is
// degraded (503) while the operators artifact is missing.
func (h *Handlers) HandleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	body := h.health("ok")
	body.Checks = map[string]string{"operatorsData": "ok"}
	status := http.StatusOK

	if _, ok := persistence.Stat(h.artifactPath); !ok {
		body.Status = "degraded"
		body.Checks["operatorsData"] = "missing"
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, body)
}

// Uptime returns the time since the handlers were created.
func (h *Handlers) Uptime() time.Duration {
	return h.now().Sub(h.startTime)
}
