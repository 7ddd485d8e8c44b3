// Package stats persists per-run telemetry to a local SQLite database.
// The recorder aggregates in memory on the hot path and writes one batch
// of rows when the run finishes; gameplay never waits on the database.
package stats

import (
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Recorder implements the telemetry collaborator over SQLite
type Recorder struct {
	conn *sql.DB

	mu           sync.Mutex
	startedAt    time.Time
	weaponDamage map[string]float64
	kills        map[string]int
	maxLevel     int
}

// Open opens (or creates) the stats database at path
func Open(path string) (*Recorder, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	r := &Recorder{conn: conn}
	if err := r.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	r.StartRun()
	return r, nil
}

// Close flushes nothing; call FinishRun first
func (r *Recorder) Close() error {
	return r.conn.Close()
}

func (r *Recorder) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		duration REAL NOT NULL DEFAULT 0,
		final_level INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS run_weapon_damage (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		weapon_id TEXT NOT NULL,
		total_damage REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, weapon_id)
	);

	CREATE TABLE IF NOT EXISTS run_kills (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		population TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, population)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := r.conn.Exec(schema)
	return err
}

// StartRun resets the in-memory aggregates for a new run
func (r *Recorder) StartRun() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startedAt = time.Now()
	r.weaponDamage = make(map[string]float64)
	r.kills = make(map[string]int)
	r.maxLevel = 1
}

// RecordWeaponDamage accumulates damage dealt by one weapon
func (r *Recorder) RecordWeaponDamage(weaponID string, amount float64) {
	r.mu.Lock()
	r.weaponDamage[weaponID] += amount
	r.mu.Unlock()
}

// RecordKill accumulates kills per population
func (r *Recorder) RecordKill(populationID string) {
	r.mu.Lock()
	r.kills[populationID]++
	r.mu.Unlock()
}

// RecordLevel tracks the highest level reached
func (r *Recorder) RecordLevel(level int) {
	r.mu.Lock()
	if level > r.maxLevel {
		r.maxLevel = level
	}
	r.mu.Unlock()
}

// FinishRun writes the aggregated run to the database and returns its ID
func (r *Recorder) FinishRun(duration time.Duration) (int64, error) {
	r.mu.Lock()
	damage := r.weaponDamage
	kills := r.kills
	level := r.maxLevel
	started := r.startedAt
	r.mu.Unlock()

	res, err := r.conn.Exec(
		"INSERT INTO runs (started_at, duration, final_level) VALUES (?, ?, ?)",
		started, duration.Seconds(), level,
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for weaponID, total := range damage {
		if _, err := r.conn.Exec(
			"INSERT INTO run_weapon_damage (run_id, weapon_id, total_damage) VALUES (?, ?, ?)",
			runID, weaponID, total,
		); err != nil {
			return runID, err
		}
	}
	for population, count := range kills {
		if _, err := r.conn.Exec(
			"INSERT INTO run_kills (run_id, population, count) VALUES (?, ?, ?)",
			runID, population, count,
		); err != nil {
			return runID, err
		}
	}
	return runID, nil
}

// RunSummary is one row of the run history
type RunSummary struct {
	ID         int64
	StartedAt  time.Time
	Duration   float64
	FinalLevel int
	TotalKills int
}

// RecentRuns returns the latest runs with their kill totals
func (r *Recorder) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := r.conn.Query(`
		SELECT r.id, r.started_at, r.duration, r.final_level,
			COALESCE(SUM(k.count), 0)
		FROM runs r
		LEFT JOIN run_kills k ON k.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.StartedAt, &s.Duration, &s.FinalLevel, &s.TotalKills); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
