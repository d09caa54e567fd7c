package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region new-entry
// NewVerdictEntry builds a log row for one verdict, including its detail
// record.
func NewVerdictEntry(passID string, t quality.Triangle, v quality.Verdict, m quality.Measurement, c *quality.Config) (VerdictEntry, error) {
	rec := VerdictRecord{
		TriangleID: t.ID(),
		Angles:     t.Angles(),
		Area:       t.Area(),
		TargetArea: t.TargetArea(),
		Bad:        v.Bad,
		Reason:     v.Reason,
	}
	if c != nil {
		rec.Thresholds = VerdictThresholds{
			MinimumAngle: c.MinimumAngle(),
			MaximumAngle: c.MaximumAngle(),
			MaximumArea:  c.MaximumArea(),
			VariableArea: c.VariableArea(),
			UserTest:     c.HasUserTest(),
			Exclude:      c.HasExclude(),
		}
	}
	detail, err := json.Marshal(rec)
	if err != nil {
		return VerdictEntry{}, fmt.Errorf("marshal verdict record: %w", err)
	}
	return VerdictEntry{
		PassID:     passID,
		TriangleID: t.ID(),
		Bad:        v.Bad,
		Reason:     v.Reason,
		MinAngle:   m.MinAngle,
		MaxAngle:   m.MaxAngle,
		Area:       m.Area,
		AreaBound:  m.AreaBound,
		DetailJSON: string(detail),
	}, nil
}

// #endregion new-entry

// #region log-verdict
const insertVerdict = `INSERT INTO verdict_log (pass_id, triangle_id, bad, reason, min_angle, max_angle, area, area_bound, detail_json, created_at)
	 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insert(db execer, entry VerdictEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	reason := entry.Reason
	if reason == "" {
		reason = quality.ReasonNone
	}
	_, err := db.Exec(insertVerdict,
		entry.PassID,
		entry.TriangleID,
		entry.Bad,
		string(reason),
		entry.MinAngle,
		entry.MaxAngle,
		entry.Area,
		entry.AreaBound,
		nullIfEmpty(entry.DetailJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// LogVerdict writes a verdict entry to the verdict_log table.
func LogVerdict(db *sql.DB, entry VerdictEntry) error {
	if err := insert(db, entry); err != nil {
		return fmt.Errorf("log verdict: %w", err)
	}
	return nil
}

// LogVerdicts writes entries in one transaction. Either all rows land or
// none do.
func LogVerdicts(db *sql.DB, entries []VerdictEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := insert(tx, e); err != nil {
			return fmt.Errorf("log verdict %d: %w", e.TriangleID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion log-verdict

// #region recorder
// Recorder buffers verdicts from one pass and writes them with Flush. It
// plugs into refine.Pass.OnVerdict. Not safe for concurrent use.
type Recorder struct {
	db      *sql.DB
	passID  string
	config  *quality.Config
	onlyBad bool
	entries []VerdictEntry
	err     error
}

// NewRecorder creates a recorder for a pass. With onlyBad set, good verdicts
// are dropped.
func NewRecorder(db *sql.DB, passID string, config *quality.Config, onlyBad bool) *Recorder {
	return &Recorder{db: db, passID: passID, config: config, onlyBad: onlyBad}
}

// Observe buffers one verdict. The first marshalling error is kept and
// returned by Flush.
func (r *Recorder) Observe(t quality.Triangle, v quality.Verdict, m quality.Measurement) {
	if r.err != nil || (r.onlyBad && !v.Bad) {
		return
	}
	e, err := NewVerdictEntry(r.passID, t, v, m, r.config)
	if err != nil {
		r.err = err
		return
	}
	r.entries = append(r.entries, e)
}

// Pending returns the number of buffered entries.
func (r *Recorder) Pending() int { return len(r.entries) }

// Flush writes buffered entries and clears the buffer on success.
func (r *Recorder) Flush() error {
	if r.err != nil {
		return r.err
	}
	if err := LogVerdicts(r.db, r.entries); err != nil {
		return err
	}
	r.entries = r.entries[:0]
	return nil
}

// #endregion recorder

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
