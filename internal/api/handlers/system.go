package handlers

import (
	"net/http"
	"time"

	"github.com/Noor7086/Obyyo-sub002/internal/api/response"
	"github.com/Noor7086/Obyyo-sub002/internal/metrics"
	"github.com/Noor7086/Obyyo-sub002/internal/version"
)

// SystemInfo supplies the values reported by the system endpoints.
type SystemInfo struct {
	StartTime     time.Time
	CatalogSource string
	ClientCount   func() int
	Metrics       *metrics.GeneratorMetrics
}

// SystemHandler handles system-related API requests.
type SystemHandler struct {
	info SystemInfo
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(info SystemInfo) *SystemHandler {
	if info.StartTime.IsZero() {
		info.StartTime = time.Now()
	}
	return &SystemHandler{info: info}
}

// Status is the body of GET /system/status.
type Status struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	Uptime           string `json:"uptime"`
	CatalogSource    string `json:"catalogSource"`
	WebSocketClients int    `json:"webSocketClients"`
}

// GetStatus returns the system status.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	status := Status{
		Status:        "ok",
		Version:       version.GetVersion(),
		Uptime:        time.Since(h.info.StartTime).Round(time.Second).String(),
		CatalogSource: h.info.CatalogSource,
	}
	if h.info.ClientCount != nil {
		status.WebSocketClients = h.info.ClientCount()
	}
	response.Success(w, status)
}

// GetVersion returns the build version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, version.Get())
}

// GetMetrics returns in-process generator statistics.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	if h.info.Metrics == nil {
		response.Success(w, metrics.Stats{})
		return
	}
	response.Success(w, h.info.Metrics.Snapshot())
}
