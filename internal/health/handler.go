package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sangkips/outreach-engine/internal/domains/contacts"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping() error
}

type Handler struct {
	queue   Pinger
	aliases contacts.AliasTable
}

// NewHandler builds the health handler. queue may be nil when the service
// runs without RabbitMQ.
func NewHandler(queue Pinger, aliases contacts.AliasTable) *Handler {
	return &Handler{
		queue:   queue,
		aliases: aliases,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Timestamp time.Time        `json:"timestamp"`
}

// Check represents a single health check
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health reports queue connectivity and the loaded alias table.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check)
	overallHealthy := true

	queueCheck := h.checkQueue()
	checks["queue"] = queueCheck
	if queueCheck.Status == "unhealthy" {
		overallHealthy = false
	}

	aliasCheck := h.checkAliases()
	checks["aliases"] = aliasCheck
	if aliasCheck.Status == "unhealthy" {
		overallHealthy = false
	}

	status := "healthy"
	if !overallHealthy {
		status = "unhealthy"
	}

	response := HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	statusCode := http.StatusOK
	if !overallHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// checkQueue checks if RabbitMQ is accessible
func (h *Handler) checkQueue() Check {
	if h.queue == nil {
		return Check{
			Status:  "disabled",
			Message: "queue publishing is disabled",
		}
	}

	if err := h.queue.Ping(); err != nil {
		return Check{
			Status:  "unhealthy",
			Message: "queue connection failed: " + err.Error(),
		}
	}

	return Check{
		Status:  "healthy",
		Message: "queue is accessible",
	}
}

func (h *Handler) checkAliases() Check {
	if len(h.aliases.Fields) == 0 {
		return Check{
			Status:  "unhealthy",
			Message: "no canonical fields loaded",
		}
	}

	return Check{
		Status:  "healthy",
		Message: fmt.Sprintf("%d canonical fields loaded", len(h.aliases.Fields)),
	}
}
