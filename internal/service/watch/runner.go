package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/robfig/cron/v3"

	"trendwatch/internal/domain/monitor"
)

// RunnerConfig contains configuration for the watch runner
type RunnerConfig struct {
	// ScanSpec is a cron expression controlling scan cadence.
	ScanSpec    string
	AlertsTopic string
	RunTimeout  time.Duration
}

// Runner periodically scores due monitors against all registered sources
// and raises alerts when a monitor's change exceeds its threshold.
type Runner struct {
	store         monitor.Store
	scorer        monitor.Scorer
	fetchers      []monitor.Fetcher
	config        RunnerConfig
	eventBus      *nats.Conn
	cron          *cron.Cron
	alertHandlers []func(monitor.Alert) error
	mu            sync.RWMutex
	running       sync.Mutex
}

// NewRunner creates a new watch runner
func NewRunner(
	store monitor.Store,
	scorer monitor.Scorer,
	fetchers []monitor.Fetcher,
	eventBus *nats.Conn,
	config RunnerConfig,
) *Runner {
	return &Runner{
		store:         store,
		scorer:        scorer,
		fetchers:      fetchers,
		config:        config,
		eventBus:      eventBus,
		cron:          cron.New(),
		alertHandlers: []func(monitor.Alert) error{},
	}
}

// Start schedules the periodic scan
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.config.ScanSpec, func() {
		runCtx, cancel := context.WithTimeout(ctx, r.config.RunTimeout)
		defer cancel()

		if err := r.RunDue(runCtx); err != nil {
			log.Printf("Error running due monitors: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid scan spec %q: %w", r.config.ScanSpec, err)
	}

	r.cron.Start()
	return nil
}

// RegisterAlertHandler registers a callback for raised alerts
func (r *Runner) RegisterAlertHandler(handler func(monitor.Alert) error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alertHandlers = append(r.alertHandlers, handler)
}

// RunDue scores every monitor whose check interval has elapsed
func (r *Runner) RunDue(ctx context.Context) error {
	// Scans from overlapping cron ticks run back to back, not concurrently.
	r.running.Lock()
	defer r.running.Unlock()

	monitors, err := r.store.ListDue(ctx)
	if err != nil {
		return fmt.Errorf("error listing due monitors: %w", err)
	}

	for i := range monitors {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if _, err := r.RunMonitor(ctx, monitors[i]); err != nil {
			log.Printf("Error running monitor %s: %v", monitors[i].ID, err)
		}
	}

	return nil
}

// RunMonitor fetches all sources for one monitor, scores the result, persists
// the snapshot and raises an alert when the change exceeds the threshold.
func (r *Runner) RunMonitor(ctx context.Context, m monitor.Monitor) (*monitor.ScoreSnapshot, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("skipping monitor %s: %w", m.ID, err)
	}

	signals := r.collectSignals(ctx, m.Terms)

	snapshot := r.scorer.Score(m, signals)

	if err := r.store.UpdateSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("error saving snapshot: %w", err)
	}

	if math.Abs(float64(snapshot.ChangePercent)) >= m.Threshold {
		if err := r.raiseAlert(ctx, m, snapshot); err != nil {
			log.Printf("Error raising alert for monitor %s: %v", m.ID, err)
		}
	}

	return &snapshot, nil
}

// collectSignals fetches all sources in parallel. A failed source is logged
// and left out of the result rather than failing the whole run.
func (r *Runner) collectSignals(ctx context.Context, terms []string) []monitor.SourceSignal {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		signals []monitor.SourceSignal
	)

	for _, fetcher := range r.fetchers {
		wg.Add(1)
		go func(f monitor.Fetcher) {
			defer wg.Done()

			signal, err := f.Fetch(ctx, terms)
			if err != nil {
				log.Printf("Error fetching from %s: %v", f.Name(), err)
				return
			}

			mu.Lock()
			signals = append(signals, signal)
			mu.Unlock()
		}(fetcher)
	}

	wg.Wait()
	return signals
}

// raiseAlert persists the alert, publishes it on the event bus and notifies
// registered handlers.
func (r *Runner) raiseAlert(ctx context.Context, m monitor.Monitor, snapshot monitor.ScoreSnapshot) error {
	alert := monitor.Alert{
		ID:        uuid.New().String(),
		MonitorID: m.ID,
		Terms:     m.Terms,
		Summary: fmt.Sprintf("%s (%s): trend score %d, %+d%% change",
			snapshot.Direction, snapshot.Momentum, snapshot.TrendScore, snapshot.ChangePercent),
		Snapshot:  snapshot,
		CreatedAt: time.Now(),
	}

	if err := r.store.SaveAlert(ctx, alert); err != nil {
		return fmt.Errorf("error saving alert: %w", err)
	}

	if err := r.publishAlert(alert); err != nil {
		log.Printf("Error publishing alert: %v", err)
	}

	r.callAlertHandlers(alert)
	return nil
}

// publishAlert publishes an alert event to the event bus
func (r *Runner) publishAlert(alert monitor.Alert) error {
	if r.eventBus == nil {
		return nil
	}

	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("error marshaling alert: %w", err)
	}

	return r.eventBus.Publish(r.config.AlertsTopic, data)
}

// callAlertHandlers calls all registered alert handlers
func (r *Runner) callAlertHandlers(alert monitor.Alert) {
	r.mu.RLock()
	handlers := make([]func(monitor.Alert) error, len(r.alertHandlers))
	copy(handlers, r.alertHandlers)
	r.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(alert); err != nil {
			log.Printf("Error in alert handler: %v", err)
		}
	}
}

// Stop gracefully stops the runner, waiting for an in-flight scan to finish
func (r *Runner) Stop(ctx context.Context) error {
	stopCtx := r.cron.Stop()

	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
