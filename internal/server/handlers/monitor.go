package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trendwatch/internal/domain/monitor"
)

// MonitorRunner runs a single monitor on demand
type MonitorRunner interface {
	RunMonitor(ctx context.Context, m monitor.Monitor) (*monitor.ScoreSnapshot, error)
}

// MonitorHandler handles monitor-related HTTP requests
type MonitorHandler struct {
	store  monitor.Store
	runner MonitorRunner
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(store monitor.Store, runner MonitorRunner) *MonitorHandler {
	return &MonitorHandler{
		store:  store,
		runner: runner,
	}
}

type createMonitorRequest struct {
	Terms     []string `json:"terms"`
	Threshold float64  `json:"threshold"`
	Interval  string   `json:"interval"`
}

// ListMonitors returns all monitors
func (h *MonitorHandler) ListMonitors(w http.ResponseWriter, r *http.Request) {
	monitors, err := h.store.ListMonitors(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list monitors", err)
		return
	}

	respondWithJSON(w, http.StatusOK, monitors)
}

// CreateMonitor creates a new monitor
func (h *MonitorHandler) CreateMonitor(w http.ResponseWriter, r *http.Request) {
	var req createMonitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	interval := monitor.Interval(req.Interval)
	if req.Interval == "" {
		interval = monitor.IntervalDaily
	}
	if !interval.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid interval", nil)
		return
	}

	m := monitor.Monitor{
		ID:        uuid.New().String(),
		Terms:     req.Terms,
		Threshold: req.Threshold,
		Interval:  interval,
		CreatedAt: time.Now(),
	}

	if err := m.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid monitor", err)
		return
	}

	if err := h.store.CreateMonitor(r.Context(), m); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create monitor", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, m)
}

// GetMonitor returns a specific monitor by ID
func (h *MonitorHandler) GetMonitor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing monitor ID", nil)
		return
	}

	m, err := h.store.GetMonitor(r.Context(), id)
	if err != nil {
		if errors.Is(err, monitor.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Monitor not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get monitor", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, m)
}

// DeleteMonitor removes a monitor
func (h *MonitorHandler) DeleteMonitor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing monitor ID", nil)
		return
	}

	if err := h.store.DeleteMonitor(r.Context(), id); err != nil {
		if errors.Is(err, monitor.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Monitor not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete monitor", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetHistory returns recent score snapshots for a monitor, newest first
func (h *MonitorHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing monitor ID", nil)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	snapshots, err := h.store.SnapshotHistory(r.Context(), id, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get history", err)
		return
	}

	respondWithJSON(w, http.StatusOK, snapshots)
}

// GetSnapshot returns the most recent score snapshot for a monitor
func (h *MonitorHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing monitor ID", nil)
		return
	}

	snapshots, err := h.store.SnapshotHistory(r.Context(), id, 1)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get snapshot", err)
		return
	}
	if len(snapshots) == 0 {
		respondWithError(w, http.StatusNotFound, "Monitor has not been scored yet", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, snapshots[0])
}

// RunMonitor scores a monitor immediately, outside its normal schedule
func (h *MonitorHandler) RunMonitor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing monitor ID", nil)
		return
	}

	m, err := h.store.GetMonitor(r.Context(), id)
	if err != nil {
		if errors.Is(err, monitor.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Monitor not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get monitor", err)
		}
		return
	}

	snapshot, err := h.runner.RunMonitor(r.Context(), *m)
	if err != nil {
		if errors.Is(err, monitor.ErrInvalidMonitor) {
			respondWithError(w, http.StatusUnprocessableEntity, "Monitor is invalid", err)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to run monitor", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}
	if err != nil {
		response["detail"] = err.Error()
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
