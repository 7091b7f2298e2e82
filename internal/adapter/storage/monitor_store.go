package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trendwatch/internal/domain/monitor"
)

// MonitorStore implements monitor.Store on Postgres.
type MonitorStore struct {
	db *pgxpool.Pool
}

// NewMonitorStore creates a new monitor store
func NewMonitorStore(db *pgxpool.Pool) *MonitorStore {
	return &MonitorStore{
		db: db,
	}
}

// CreateMonitor persists a new monitor
func (s *MonitorStore) CreateMonitor(ctx context.Context, m monitor.Monitor) error {
	query := `
		INSERT INTO monitors (id, terms, threshold, interval_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(ctx, query, m.ID, m.Terms, m.Threshold, string(m.Interval), m.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting monitor: %w", err)
	}

	return nil
}

// GetMonitor retrieves a monitor by ID
func (s *MonitorStore) GetMonitor(ctx context.Context, id string) (*monitor.Monitor, error) {
	query := `
		SELECT id, terms, threshold, interval_type, last_check, created_at,
			trend_score, smoothed_score, coherence, confidence, change_percent
		FROM monitors
		WHERE id = $1
	`

	m, err := scanMonitor(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, monitor.ErrNotFound
		}
		return nil, fmt.Errorf("error querying monitor: %w", err)
	}

	return m, nil
}

// ListMonitors returns all monitors
func (s *MonitorStore) ListMonitors(ctx context.Context) ([]monitor.Monitor, error) {
	query := `
		SELECT id, terms, threshold, interval_type, last_check, created_at,
			trend_score, smoothed_score, coherence, confidence, change_percent
		FROM monitors
		ORDER BY created_at
	`

	return s.queryMonitors(ctx, query)
}

// ListDue returns monitors whose interval has elapsed since their last check
func (s *MonitorStore) ListDue(ctx context.Context) ([]monitor.Monitor, error) {
	query := `
		SELECT id, terms, threshold, interval_type, last_check, created_at,
			trend_score, smoothed_score, coherence, confidence, change_percent
		FROM monitors
		WHERE last_check IS NULL
			OR (interval_type = 'daily' AND last_check < NOW() - INTERVAL '1 day')
			OR (interval_type = 'weekly' AND last_check < NOW() - INTERVAL '7 days')
			OR (interval_type = 'monthly' AND last_check < NOW() - INTERVAL '30 days')
		ORDER BY created_at
	`

	return s.queryMonitors(ctx, query)
}

// DeleteMonitor removes a monitor
func (s *MonitorStore) DeleteMonitor(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM monitors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting monitor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return monitor.ErrNotFound
	}
	return nil
}

// UpdateSnapshot writes a scoring pass's output back against the monitor and
// appends it to the snapshot history.
func (s *MonitorStore) UpdateSnapshot(ctx context.Context, snapshot monitor.ScoreSnapshot) error {
	query := `
		UPDATE monitors
		SET last_check = $2,
			trend_score = $3,
			smoothed_score = $4,
			coherence = $5,
			confidence = $6,
			change_percent = $7
		WHERE id = $1
	`

	tag, err := s.db.Exec(
		ctx,
		query,
		snapshot.MonitorID,
		snapshot.ScoredAt,
		snapshot.TrendScore,
		snapshot.SmoothedScore,
		snapshot.Coherence.Score,
		snapshot.Confidence.Score,
		snapshot.ChangePercent,
	)
	if err != nil {
		return fmt.Errorf("error updating monitor snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return monitor.ErrNotFound
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error marshaling snapshot: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO snapshots (monitor_id, trend_score, payload, scored_at) VALUES ($1, $2, $3, $4)`,
		snapshot.MonitorID,
		snapshot.TrendScore,
		payload,
		snapshot.ScoredAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting snapshot: %w", err)
	}

	return nil
}

// SnapshotHistory returns recent snapshots for a monitor, newest first
func (s *MonitorStore) SnapshotHistory(ctx context.Context, id string, limit int) ([]monitor.ScoreSnapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := s.db.Query(
		ctx,
		`SELECT payload FROM snapshots WHERE monitor_id = $1 ORDER BY scored_at DESC LIMIT $2`,
		id,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []monitor.ScoreSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("error scanning snapshot: %w", err)
		}

		var snapshot monitor.ScoreSnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, fmt.Errorf("error unmarshaling snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// SaveAlert records a raised alert
func (s *MonitorStore) SaveAlert(ctx context.Context, alert monitor.Alert) error {
	payload, err := json.Marshal(alert.Snapshot)
	if err != nil {
		return fmt.Errorf("error marshaling alert snapshot: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO alerts (id, monitor_id, summary, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		alert.ID,
		alert.MonitorID,
		alert.Summary,
		payload,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting alert: %w", err)
	}

	return nil
}

// SmoothedScores returns the last smoothed score per monitor
func (s *MonitorStore) SmoothedScores(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.Query(ctx, `SELECT id, smoothed_score FROM monitors WHERE smoothed_score IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("error querying smoothed scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var id string
		var score float64
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("error scanning smoothed score: %w", err)
		}
		scores[id] = score
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating smoothed scores: %w", err)
	}

	return scores, nil
}

func (s *MonitorStore) queryMonitors(ctx context.Context, query string, args ...interface{}) ([]monitor.Monitor, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying monitors: %w", err)
	}
	defer rows.Close()

	var monitors []monitor.Monitor
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning monitor: %w", err)
		}
		monitors = append(monitors, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monitors: %w", err)
	}

	return monitors, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMonitor(row rowScanner) (*monitor.Monitor, error) {
	var m monitor.Monitor
	var intervalType string

	err := row.Scan(
		&m.ID,
		&m.Terms,
		&m.Threshold,
		&intervalType,
		&m.LastCheck,
		&m.CreatedAt,
		&m.PreviousTrendScore,
		&m.PreviousSmoothed,
		&m.PreviousCoherence,
		&m.PreviousConfidence,
		&m.PreviousChange,
	)
	if err != nil {
		return nil, err
	}

	m.Interval = monitor.Interval(intervalType)
	return &m, nil
}
