package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendwatch/internal/domain/monitor"
)

type stubStore struct {
	monitors  map[string]monitor.Monitor
	created   []monitor.Monitor
	snapshots map[string][]monitor.ScoreSnapshot
}

func newStubStore() *stubStore {
	return &stubStore{
		monitors:  map[string]monitor.Monitor{},
		snapshots: map[string][]monitor.ScoreSnapshot{},
	}
}

func (s *stubStore) CreateMonitor(ctx context.Context, m monitor.Monitor) error {
	s.created = append(s.created, m)
	s.monitors[m.ID] = m
	return nil
}

func (s *stubStore) GetMonitor(ctx context.Context, id string) (*monitor.Monitor, error) {
	m, ok := s.monitors[id]
	if !ok {
		return nil, monitor.ErrNotFound
	}
	return &m, nil
}

func (s *stubStore) ListMonitors(ctx context.Context) ([]monitor.Monitor, error) {
	var all []monitor.Monitor
	for _, m := range s.monitors {
		all = append(all, m)
	}
	return all, nil
}

func (s *stubStore) ListDue(ctx context.Context) ([]monitor.Monitor, error) { return nil, nil }

func (s *stubStore) DeleteMonitor(ctx context.Context, id string) error {
	if _, ok := s.monitors[id]; !ok {
		return monitor.ErrNotFound
	}
	delete(s.monitors, id)
	return nil
}

func (s *stubStore) UpdateSnapshot(ctx context.Context, snapshot monitor.ScoreSnapshot) error {
	s.snapshots[snapshot.MonitorID] = append([]monitor.ScoreSnapshot{snapshot}, s.snapshots[snapshot.MonitorID]...)
	return nil
}

func (s *stubStore) SnapshotHistory(ctx context.Context, id string, limit int) ([]monitor.ScoreSnapshot, error) {
	history := s.snapshots[id]
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (s *stubStore) SaveAlert(ctx context.Context, alert monitor.Alert) error { return nil }

func (s *stubStore) SmoothedScores(ctx context.Context) (map[string]float64, error) {
	return nil, nil
}

type stubRunner struct {
	snapshot monitor.ScoreSnapshot
}

func (r *stubRunner) RunMonitor(ctx context.Context, m monitor.Monitor) (*monitor.ScoreSnapshot, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	snapshot := r.snapshot
	snapshot.MonitorID = m.ID
	return &snapshot, nil
}

func newTestRouter(store monitor.Store, runner MonitorRunner) *chi.Mux {
	h := NewMonitorHandler(store, runner)

	router := chi.NewRouter()
	router.Route("/monitors", func(r chi.Router) {
		r.Get("/", h.ListMonitors)
		r.Post("/", h.CreateMonitor)
		r.Get("/{id}", h.GetMonitor)
		r.Delete("/{id}", h.DeleteMonitor)
		r.Get("/{id}/snapshot", h.GetSnapshot)
		r.Get("/{id}/history", h.GetHistory)
		r.Post("/{id}/run", h.RunMonitor)
	})
	return router
}

func TestCreateMonitor(t *testing.T) {
	store := newStubStore()
	router := newTestRouter(store, &stubRunner{})

	body, _ := json.Marshal(map[string]interface{}{
		"terms":     []string{"quantum computing"},
		"threshold": 20,
		"interval":  "daily",
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/monitors", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.created, 1)
	assert.NotEmpty(t, store.created[0].ID)
	assert.Equal(t, monitor.IntervalDaily, store.created[0].Interval)
}

func TestCreateMonitorRejectsEmptyTerms(t *testing.T) {
	router := newTestRouter(newStubStore(), &stubRunner{})

	body, _ := json.Marshal(map[string]interface{}{
		"terms":     []string{},
		"threshold": 20,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/monitors", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMonitorRejectsUnknownInterval(t *testing.T) {
	router := newTestRouter(newStubStore(), &stubRunner{})

	body, _ := json.Marshal(map[string]interface{}{
		"terms":     []string{"widget"},
		"threshold": 20,
		"interval":  "hourly",
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/monitors", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMonitorNotFound(t *testing.T) {
	router := newTestRouter(newStubStore(), &stubRunner{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitors/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSnapshotReturnsLatest(t *testing.T) {
	store := newStubStore()
	store.monitors["m1"] = monitor.Monitor{ID: "m1", Terms: []string{"widget"}, Threshold: 20}
	store.snapshots["m1"] = []monitor.ScoreSnapshot{
		{MonitorID: "m1", TrendScore: 72},
		{MonitorID: "m1", TrendScore: 65},
	}
	router := newTestRouter(store, &stubRunner{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitors/m1/snapshot", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot monitor.ScoreSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, 72, snapshot.TrendScore)
}

func TestGetSnapshotBeforeFirstRun(t *testing.T) {
	store := newStubStore()
	store.monitors["m1"] = monitor.Monitor{ID: "m1", Terms: []string{"widget"}, Threshold: 20}
	router := newTestRouter(store, &stubRunner{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monitors/m1/snapshot", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunMonitorNow(t *testing.T) {
	store := newStubStore()
	store.monitors["m1"] = monitor.Monitor{ID: "m1", Terms: []string{"widget"}, Threshold: 20}
	router := newTestRouter(store, &stubRunner{snapshot: monitor.ScoreSnapshot{TrendScore: 58}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/monitors/m1/run", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot monitor.ScoreSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "m1", snapshot.MonitorID)
	assert.Equal(t, 58, snapshot.TrendScore)
}

func TestDeleteMonitor(t *testing.T) {
	store := newStubStore()
	store.monitors["m1"] = monitor.Monitor{ID: "m1", Terms: []string{"widget"}, Threshold: 20}
	router := newTestRouter(store, &stubRunner{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/monitors/m1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.monitors)
}
