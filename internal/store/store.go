package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS passes (
	pass_id       TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	strategy      TEXT NOT NULL,
	options_json  TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	finished_at   TEXT,
	stop_cause    TEXT,
	evaluated     INTEGER NOT NULL DEFAULT 0,
	bad           INTEGER NOT NULL DEFAULT 0,
	splits        INTEGER NOT NULL DEFAULT 0,
	steiner_used  INTEGER NOT NULL DEFAULT 0,
	remaining     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS verdict_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	pass_id       TEXT NOT NULL,
	triangle_id   INTEGER NOT NULL,
	bad           INTEGER NOT NULL,
	reason        TEXT NOT NULL,
	min_angle     REAL,
	max_angle     REAL,
	area          REAL,
	area_bound    REAL,
	detail_json   TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (pass_id) REFERENCES passes(pass_id)
);

CREATE INDEX IF NOT EXISTS verdict_log_pass ON verdict_log(pass_id);
`

// #endregion schema

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region store-struct
// Store keeps pass history and the verdict log in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-migrated database. Used by tests.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema on db.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region create-pass
// CreatePass records the start of a pass under the given config.
func (s *Store) CreatePass(kind, strategy string, config *quality.Config) (PassRecord, error) {
	rec := PassRecord{
		PassID:    uuid.New().String(),
		Kind:      kind,
		Strategy:  strategy,
		Options:   RecordOptions(config),
		CreatedAt: time.Now().UTC(),
	}

	optsJSON, err := json.Marshal(rec.Options)
	if err != nil {
		return PassRecord{}, fmt.Errorf("marshal options: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO passes (pass_id, kind, strategy, options_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.PassID, rec.Kind, rec.Strategy, string(optsJSON), rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return PassRecord{}, fmt.Errorf("insert pass: %w", err)
	}
	return rec, nil
}

// #endregion create-pass

// #region finish-pass
// FinishPass stores the outcome of a pass.
func (s *Store) FinishPass(passID string, out PassOutcome) error {
	res, err := s.db.Exec(
		`UPDATE passes SET finished_at = ?, stop_cause = ?, evaluated = ?, bad = ?, splits = ?, steiner_used = ?, remaining = ?
		 WHERE pass_id = ?`,
		time.Now().UTC().Format(timeLayout), out.Stop, out.Evaluated, out.Bad,
		out.Splits, out.SteinerUsed, out.Remaining, passID,
	)
	if err != nil {
		return fmt.Errorf("finish pass: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish pass: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("pass %s not found", passID)
	}
	return nil
}

// #endregion finish-pass

// #region get-pass
const passColumns = `pass_id, kind, strategy, options_json, created_at, finished_at, stop_cause,
	evaluated, bad, splits, steiner_used, remaining`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPass(row rowScanner) (PassRecord, error) {
	var rec PassRecord
	var optsJSON, createdStr string
	var finishedStr, stop sql.NullString

	err := row.Scan(&rec.PassID, &rec.Kind, &rec.Strategy, &optsJSON, &createdStr, &finishedStr, &stop,
		&rec.Outcome.Evaluated, &rec.Outcome.Bad, &rec.Outcome.Splits, &rec.Outcome.SteinerUsed, &rec.Outcome.Remaining)
	if err != nil {
		return PassRecord{}, err
	}
	if err := json.Unmarshal([]byte(optsJSON), &rec.Options); err != nil {
		return PassRecord{}, fmt.Errorf("unmarshal options: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	if finishedStr.Valid {
		rec.FinishedAt, _ = time.Parse(timeLayout, finishedStr.String)
	}
	if stop.Valid {
		rec.Outcome.Stop = stop.String
	}
	return rec, nil
}

// GetPass retrieves a pass by ID.
func (s *Store) GetPass(id string) (PassRecord, error) {
	rec, err := scanPass(s.db.QueryRow(`SELECT `+passColumns+` FROM passes WHERE pass_id = ?`, id))
	if err != nil {
		return PassRecord{}, fmt.Errorf("get pass %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-pass

// #region list-passes
// ListPasses returns the most recent passes, newest first.
func (s *Store) ListPasses(limit int) ([]PassRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+passColumns+` FROM passes ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list passes: %w", err)
	}
	defer rows.Close()

	var records []PassRecord
	for rows.Next() {
		rec, err := scanPass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-passes

// #region reason-counts
// ReasonCounts tallies the logged verdicts of a pass by reason.
func (s *Store) ReasonCounts(passID string) (map[quality.Reason]int, error) {
	rows, err := s.db.Query(
		`SELECT reason, COUNT(*) FROM verdict_log WHERE pass_id = ? GROUP BY reason`, passID,
	)
	if err != nil {
		return nil, fmt.Errorf("reason counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[quality.Reason]int)
	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		counts[quality.Reason(reason)] = n
	}
	return counts, rows.Err()
}

// #endregion reason-counts
