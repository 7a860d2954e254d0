package repositories

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/prachi-1604/Weather-Analysis/internal/models"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

const timestampLayout = time.RFC3339Nano

// SQLiteStore is the durable observation log. Rows are only ever appended;
// insertion order (rowid) is fetch order.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
	l  *logger.Logger
}

func NewSQLiteStore(path string, l *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// A single connection keeps appends serialized at the driver level and
	// makes ":memory:" databases usable in tests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := initSchema(db); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db, l: l}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS weather_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location TEXT NOT NULL,
			temperature_c REAL NOT NULL,
			description TEXT NOT NULL,
			humidity_pct INTEGER NOT NULL,
			observed_at_utc TEXT NOT NULL,
			observed_at_local TEXT NOT NULL
		)`

	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to initialize schema")
	}
	return nil
}

// LoadAll returns the full observation log in insertion order.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT location, temperature_c, description, humidity_pct, observed_at_utc, observed_at_local
		FROM weather_logs
		ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load observation log")
	}
	defer rows.Close()

	var log []models.Observation
	for rows.Next() {
		var (
			obs      models.Observation
			utcRaw   string
			localRaw string
		)
		if err := rows.Scan(&obs.Location, &obs.TemperatureC, &obs.Description, &obs.HumidityPct, &utcRaw, &localRaw); err != nil {
			return nil, errors.Wrap(err, "failed to scan observation row")
		}

		if obs.ObservedAtUTC, err = time.Parse(timestampLayout, utcRaw); err != nil {
			return nil, errors.Wrapf(err, "corrupt observed_at_utc %q", utcRaw)
		}
		if obs.ObservedAtLocal, err = time.Parse(timestampLayout, localRaw); err != nil {
			return nil, errors.Wrapf(err, "corrupt observed_at_local %q", localRaw)
		}

		log = append(log, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate observation rows")
	}

	return log, nil
}

// AppendBatch persists the batch in a single transaction: either every
// observation becomes visible or none does.
func (s *SQLiteStore) AppendBatch(ctx context.Context, batch []models.Observation) error {
	if len(batch) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin append transaction")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weather_logs (location, temperature_c, description, humidity_pct, observed_at_utc, observed_at_local)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for _, obs := range batch {
		_, err := stmt.ExecContext(ctx,
			obs.Location,
			obs.TemperatureC,
			obs.Description,
			obs.HumidityPct,
			obs.ObservedAtUTC.Format(timestampLayout),
			obs.ObservedAtLocal.Format(timestampLayout),
		)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to insert observation for %s", obs.Location)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit append batch")
	}

	s.l.Debug("appended observation batch", map[string]any{"count": len(batch)})
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
