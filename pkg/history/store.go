package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the SQLite export log.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS exports (
			run_id          TEXT PRIMARY KEY,
			created_at_ns   INTEGER NOT NULL,
			output          TEXT NOT NULL,
			template_path   TEXT,
			template_sha256 TEXT,
			non_production  INTEGER NOT NULL,
			dev_id          TEXT,
			calibrate_date  TEXT,
			soft_version    TEXT,
			resolution      TEXT,
			stereo          INTEGER NOT NULL,
			rms_error       REAL,
			verdict         TEXT,
			baseline_mm     REAL
		);
		CREATE INDEX IF NOT EXISTS idx_exports_dev_id ON exports (dev_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists rec.
func (s *Store) Insert(rec *Record) error {
	_, err := s.db.Exec(`
		INSERT INTO exports (
			run_id, created_at_ns, output, template_path, template_sha256,
			non_production, dev_id, calibrate_date, soft_version, resolution,
			stereo, rms_error, verdict, baseline_mm
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.CreatedAt.UnixNano(), rec.Output, rec.TemplatePath, rec.TemplateSHA256,
		rec.NonProduction, rec.DevID, rec.CalibrateDate, rec.SoftVersion, rec.Resolution,
		rec.Stereo, rec.RMSError, rec.Verdict, rec.BaselineMM,
	)
	if err != nil {
		return fmt.Errorf("insert export %s: %w", rec.RunID, err)
	}
	return nil
}

// List returns the most recent exports first. devID filters by device when
// non-empty; limit <= 0 returns everything.
func (s *Store) List(devID string, limit int) ([]*Record, error) {
	query := `SELECT ` + columns + ` FROM exports`
	var args []any
	if devID != "" {
		query += ` WHERE dev_id = ?`
		args = append(args, devID)
	}
	query += ` ORDER BY created_at_ns DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("export not found")

// Get returns a single export by run id.
func (s *Store) Get(runID string) (*Record, error) {
	rec, err := scanRecord(s.db.QueryRow(`SELECT `+columns+` FROM exports WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return rec, err
}

const columns = `run_id, created_at_ns, output, template_path, template_sha256,
	non_production, dev_id, calibrate_date, soft_version, resolution,
	stereo, rms_error, verdict, baseline_mm`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec     Record
		created int64
		tmpl    sql.NullString
		sum     sql.NullString
	)
	err := row.Scan(
		&rec.RunID, &created, &rec.Output, &tmpl, &sum,
		&rec.NonProduction, &rec.DevID, &rec.CalibrateDate, &rec.SoftVersion, &rec.Resolution,
		&rec.Stereo, &rec.RMSError, &rec.Verdict, &rec.BaselineMM,
	)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	rec.TemplatePath = tmpl.String
	rec.TemplateSHA256 = sum.String
	return &rec, nil
}
