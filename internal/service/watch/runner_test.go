package watch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendwatch/internal/domain/monitor"
)

type fakeStore struct {
	due       []monitor.Monitor
	snapshots []monitor.ScoreSnapshot
	alerts    []monitor.Alert
}

func (s *fakeStore) CreateMonitor(ctx context.Context, m monitor.Monitor) error { return nil }
func (s *fakeStore) GetMonitor(ctx context.Context, id string) (*monitor.Monitor, error) {
	return nil, monitor.ErrNotFound
}
func (s *fakeStore) ListMonitors(ctx context.Context) ([]monitor.Monitor, error) { return s.due, nil }
func (s *fakeStore) ListDue(ctx context.Context) ([]monitor.Monitor, error)     { return s.due, nil }
func (s *fakeStore) DeleteMonitor(ctx context.Context, id string) error         { return nil }
func (s *fakeStore) UpdateSnapshot(ctx context.Context, snapshot monitor.ScoreSnapshot) error {
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}
func (s *fakeStore) SnapshotHistory(ctx context.Context, id string, limit int) ([]monitor.ScoreSnapshot, error) {
	return nil, nil
}
func (s *fakeStore) SaveAlert(ctx context.Context, alert monitor.Alert) error {
	s.alerts = append(s.alerts, alert)
	return nil
}
func (s *fakeStore) SmoothedScores(ctx context.Context) (map[string]float64, error) {
	return nil, nil
}

type fakeScorer struct {
	change      int
	seenSignals int
}

func (f *fakeScorer) Score(m monitor.Monitor, signals []monitor.SourceSignal) monitor.ScoreSnapshot {
	f.seenSignals = len(signals)
	return monitor.ScoreSnapshot{
		MonitorID:     m.ID,
		TrendScore:    60,
		ChangePercent: f.change,
		Direction:     "Moderate Uptrend",
		Momentum:      "Steady",
	}
}

type fakeFetcher struct {
	name string
	err  error
}

func (f fakeFetcher) Name() string { return f.name }
func (f fakeFetcher) Fetch(ctx context.Context, terms []string) (monitor.SourceSignal, error) {
	if f.err != nil {
		return monitor.SourceSignal{}, f.err
	}
	return monitor.SourceSignal{Source: f.name, TotalCount: 1}, nil
}

func newTestRunner(store *fakeStore, scorer *fakeScorer, fetchers ...monitor.Fetcher) *Runner {
	return NewRunner(store, scorer, fetchers, nil, RunnerConfig{
		ScanSpec:    "@every 15m",
		AlertsTopic: "monitor.alerts",
	})
}

func TestRunMonitorSavesSnapshot(t *testing.T) {
	store := &fakeStore{}
	scorer := &fakeScorer{change: 3}
	runner := newTestRunner(store, scorer, fakeFetcher{name: "news"})

	m := monitor.Monitor{ID: "m1", Terms: []string{"widget"}, Threshold: 20}

	snapshot, err := runner.RunMonitor(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, "m1", snapshot.MonitorID)
	require.Len(t, store.snapshots, 1)
	assert.Empty(t, store.alerts, "small change must not raise an alert")
}

func TestRunMonitorRaisesAlertAboveThreshold(t *testing.T) {
	store := &fakeStore{}
	scorer := &fakeScorer{change: -30}
	runner := newTestRunner(store, scorer, fakeFetcher{name: "news"})

	m := monitor.Monitor{ID: "m1", Terms: []string{"widget"}, Threshold: 20}

	handled := 0
	runner.RegisterAlertHandler(func(alert monitor.Alert) error {
		handled++
		return nil
	})

	_, err := runner.RunMonitor(context.Background(), m)
	require.NoError(t, err)

	require.Len(t, store.alerts, 1)
	assert.Equal(t, "m1", store.alerts[0].MonitorID)
	assert.NotEmpty(t, store.alerts[0].ID)
	assert.Contains(t, store.alerts[0].Summary, "-30%")
	assert.Equal(t, 1, handled)
}

func TestRunMonitorSkipsInvalid(t *testing.T) {
	store := &fakeStore{}
	runner := newTestRunner(store, &fakeScorer{}, fakeFetcher{name: "news"})

	m := monitor.Monitor{ID: "bad", Terms: nil, Threshold: 20}

	_, err := runner.RunMonitor(context.Background(), m)
	require.Error(t, err)
	assert.ErrorIs(t, err, monitor.ErrInvalidMonitor)
	assert.Empty(t, store.snapshots)
}

func TestCollectSignalsDropsFailedSource(t *testing.T) {
	store := &fakeStore{}
	scorer := &fakeScorer{}
	runner := newTestRunner(store, scorer,
		fakeFetcher{name: "news"},
		fakeFetcher{name: "reddit", err: errors.New("rate limited")},
		fakeFetcher{name: "hackernews"},
	)

	m := monitor.Monitor{ID: "m1", Terms: []string{"widget"}, Threshold: 50}

	_, err := runner.RunMonitor(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, 2, scorer.seenSignals)
}

func TestRunDueScoresEveryDueMonitor(t *testing.T) {
	store := &fakeStore{
		due: []monitor.Monitor{
			{ID: "m1", Terms: []string{"widget"}, Threshold: 20},
			{ID: "m2", Terms: []string{"gadget"}, Threshold: 20},
		},
	}
	runner := newTestRunner(store, &fakeScorer{change: 1}, fakeFetcher{name: "news"})

	require.NoError(t, runner.RunDue(context.Background()))

	assert.Len(t, store.snapshots, 2)
}
