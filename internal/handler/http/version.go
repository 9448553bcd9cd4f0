package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/models"
)

const healthStatusHealthy = "healthy"

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.GetAppInfo(r.Context())

	writeJSON(w, r, models.HealthResponse{
		Status:  healthStatusHealthy,
		Version: info.Version,
		App:     info.Name,
	}, http.StatusOK)
}
