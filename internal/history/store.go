// Package history persists completed measurements so repeated runs against
// the same apparatus can be compared over time.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"go-newton-rings/pkg/models"
)

// Record is one stored measurement summary. Payload holds the full response
// as JSON for consumers that need more than the summary columns.
type Record struct {
	ID          int64   `json:"id"`
	ImageURL    string  `json:"image_url"`
	MeasuredAt  string  `json:"measured_at"`
	FringeCount int     `json:"fringe_count"`
	RadiusMM    float64 `json:"radius_of_curvature_mm"`
	RSquared    float64 `json:"r_squared"`
	Passed      bool    `json:"passed"`
}

// Store persists measurement responses.
type Store interface {
	SaveMeasurement(ctx context.Context, response *models.MeasurementResponse) error
	RecentMeasurements(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

type sqliteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS measurements (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	image_url     TEXT NOT NULL,
	measured_at   TEXT NOT NULL,
	fringe_count  INTEGER NOT NULL,
	radius_mm     REAL NOT NULL,
	r_squared     REAL NOT NULL,
	passed        INTEGER NOT NULL,
	payload       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_measurements_measured_at ON measurements(measured_at);
`

// NewSQLiteStore opens (and if needed creates) the measurement database at
// the given path.
func NewSQLiteStore(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) SaveMeasurement(ctx context.Context, response *models.MeasurementResponse) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal measurement: %w", err)
	}

	passed := 1
	if response.ErrorReport != nil && !response.ErrorReport.Passed {
		passed = 0
	}

	measuredAt := response.Timestamp
	if measuredAt == "" {
		measuredAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO measurements
			(image_url, measured_at, fringe_count, radius_mm, r_squared, passed, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		response.ImageURL, measuredAt, response.FringeCount,
		response.Fit.RadiusMM, response.Fit.RSquared, passed, string(payload))
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	return nil
}

func (s *sqliteStore) RecentMeasurements(ctx context.Context, limit int) ([]Record, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, image_url, measured_at, fringe_count, radius_mm, r_squared, passed
		 FROM measurements ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var passed int
		if err := rows.Scan(&rec.ID, &rec.ImageURL, &rec.MeasuredAt, &rec.FringeCount,
			&rec.RadiusMM, &rec.RSquared, &passed); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		rec.Passed = passed != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
