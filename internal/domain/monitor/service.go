package monitor

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrNotFound       = errors.New("monitor not found")
	ErrInvalidMonitor = errors.New("invalid monitor configuration")
)

// Validate checks that a monitor is well-formed enough to score.
func (m Monitor) Validate() error {
	if len(m.Terms) == 0 {
		return ErrInvalidMonitor
	}
	for _, term := range m.Terms {
		if term == "" {
			return ErrInvalidMonitor
		}
	}
	if m.Threshold <= 0 {
		return ErrInvalidMonitor
	}
	return nil
}

// Store defines persistence for monitors and their score history
type Store interface {
	// CreateMonitor persists a new monitor
	CreateMonitor(ctx context.Context, m Monitor) error

	// GetMonitor returns a monitor by ID
	GetMonitor(ctx context.Context, id string) (*Monitor, error)

	// ListMonitors returns all monitors
	ListMonitors(ctx context.Context) ([]Monitor, error)

	// ListDue returns monitors whose interval has elapsed since their last check
	ListDue(ctx context.Context) ([]Monitor, error)

	// DeleteMonitor removes a monitor
	DeleteMonitor(ctx context.Context, id string) error

	// UpdateSnapshot writes a scoring pass's output back against the monitor
	UpdateSnapshot(ctx context.Context, snapshot ScoreSnapshot) error

	// SnapshotHistory returns recent snapshots for a monitor, newest first
	SnapshotHistory(ctx context.Context, id string, limit int) ([]ScoreSnapshot, error)

	// SaveAlert records a raised alert
	SaveAlert(ctx context.Context, alert Alert) error

	// SmoothedScores returns the last smoothed score per monitor, used to warm
	// the in-process history after a restart
	SmoothedScores(ctx context.Context) (map[string]float64, error)
}

// Fetcher retrieves raw data from one external source and projects it into a
// SourceSignal. A fetch failure degrades to "source absent" upstream.
type Fetcher interface {
	// Name returns the source name
	Name() string

	// Fetch retrieves and projects data for the monitor's terms
	Fetch(ctx context.Context, terms []string) (SourceSignal, error)
}

// Scorer turns one monitor's fetched signals into a score snapshot
type Scorer interface {
	Score(m Monitor, signals []SourceSignal) ScoreSnapshot
}
