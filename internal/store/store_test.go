package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func logVerdict(t *testing.T, s *Store, passID string, triID int, reason string) {
	t.Helper()
	_, err := s.DB().Exec(
		`INSERT INTO verdict_log (pass_id, triangle_id, bad, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		passID, triID, reason != "none", reason, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("insert verdict: %v", err)
	}
}

func TestCreateAndGetPass(t *testing.T) {
	s := tempDB(t)
	cfg := quality.Options{MinimumAngle: 25, MaximumArea: 0.5, SteinerPoints: 10}.MustFreeze()

	rec, err := s.CreatePass("refine", "acute", cfg)
	if err != nil {
		t.Fatalf("CreatePass: %v", err)
	}
	if rec.PassID == "" {
		t.Fatal("expected non-empty pass ID")
	}

	got, err := s.GetPass(rec.PassID)
	if err != nil {
		t.Fatalf("GetPass: %v", err)
	}
	if got.Kind != "refine" || got.Strategy != "acute" {
		t.Errorf("unexpected pass: %+v", got)
	}
	if got.Options.MinimumAngle != 25 || got.Options.MaximumArea != 0.5 || got.Options.SteinerPoints != 10 {
		t.Errorf("options not round-tripped: %+v", got.Options)
	}
	if !got.FinishedAt.IsZero() || got.Outcome.Stop != "" {
		t.Errorf("new pass should be unfinished: %+v", got)
	}
}

func TestFinishPass(t *testing.T) {
	s := tempDB(t)
	rec, err := s.CreatePass("refine", "ruppert", nil)
	if err != nil {
		t.Fatalf("CreatePass: %v", err)
	}

	out := PassOutcome{Stop: "budget_exhausted", Evaluated: 21, Bad: 5, Splits: 3, SteinerUsed: 3, Remaining: 2}
	if err := s.FinishPass(rec.PassID, out); err != nil {
		t.Fatalf("FinishPass: %v", err)
	}

	got, err := s.GetPass(rec.PassID)
	if err != nil {
		t.Fatalf("GetPass: %v", err)
	}
	if got.Outcome != out {
		t.Errorf("expected %+v, got %+v", out, got.Outcome)
	}
	if got.FinishedAt.IsZero() {
		t.Error("expected finished_at to be set")
	}
}

func TestFinishPassNotFound(t *testing.T) {
	s := tempDB(t)
	if err := s.FinishPass("nope", PassOutcome{}); err == nil {
		t.Fatal("expected error for unknown pass")
	}
}

func TestGetPassNotFound(t *testing.T) {
	s := tempDB(t)
	if _, err := s.GetPass("nope"); err == nil {
		t.Fatal("expected error for unknown pass")
	}
}

func TestListPasses(t *testing.T) {
	s := tempDB(t)
	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := s.CreatePass("survey", "acute", nil)
		if err != nil {
			t.Fatalf("CreatePass: %v", err)
		}
		ids = append(ids, rec.PassID)
		time.Sleep(2 * time.Millisecond)
	}

	passes, err := s.ListPasses(2)
	if err != nil {
		t.Fatalf("ListPasses: %v", err)
	}
	if len(passes) != 2 {
		t.Fatalf("expected 2 passes, got %d", len(passes))
	}
	if passes[0].PassID != ids[2] || passes[1].PassID != ids[1] {
		t.Errorf("expected newest first, got %s, %s", passes[0].PassID, passes[1].PassID)
	}
}

func TestReasonCounts(t *testing.T) {
	s := tempDB(t)
	rec, err := s.CreatePass("evaluate", "acute", nil)
	if err != nil {
		t.Fatalf("CreatePass: %v", err)
	}
	logVerdict(t, s, rec.PassID, 1, "none")
	logVerdict(t, s, rec.PassID, 2, "min_angle")
	logVerdict(t, s, rec.PassID, 3, "min_angle")

	counts, err := s.ReasonCounts(rec.PassID)
	if err != nil {
		t.Fatalf("ReasonCounts: %v", err)
	}
	if counts[quality.ReasonMinAngle] != 2 || counts[quality.ReasonNone] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestRecordOptions(t *testing.T) {
	if RecordOptions(nil) != (OptionsRecord{}) {
		t.Error("nil config should record zero options")
	}
	cfg := quality.Options{
		VariableArea:        true,
		UseLegacyRefinement: true,
		Exclude:             func(quality.Triangle) (bool, error) { return false, nil },
	}.MustFreeze()
	rec := RecordOptions(cfg)
	if !rec.VariableArea || !rec.UseLegacyRefinement || !rec.HasExclude || rec.HasUserTest {
		t.Errorf("unexpected record: %+v", rec)
	}
}

// corruptDB opens an in-memory SQLite with the full schema.
func corruptDB(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	s := NewStoreWithDB(db)
	t.Cleanup(func() { db.Close() })
	return s, db
}

func TestGetPass_BadOptionsJSON(t *testing.T) {
	s, db := corruptDB(t)
	db.Exec(
		`INSERT INTO passes (pass_id, kind, strategy, options_json, created_at) VALUES ('bad', 'refine', 'acute', 'not-json', ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if _, err := s.GetPass("bad"); err == nil {
		t.Fatal("expected unmarshal error for bad options JSON")
	}
	if _, err := s.ListPasses(10); err == nil {
		t.Fatal("expected unmarshal error in ListPasses")
	}
}

func TestCreatePass_InsertFails(t *testing.T) {
	s, db := corruptDB(t)
	db.Exec("DROP TABLE verdict_log")
	db.Exec("DROP TABLE passes")

	if _, err := s.CreatePass("refine", "acute", nil); err == nil {
		t.Fatal("expected error when passes table is missing")
	}
}

func TestOnClosedDB(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.Close()

	if _, err := s.ListPasses(1); err == nil {
		t.Error("expected ListPasses error on closed DB")
	}
	if _, err := s.ReasonCounts("x"); err == nil {
		t.Error("expected ReasonCounts error on closed DB")
	}
}

func TestNewStore_CorruptDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corrupt.db")
	os.WriteFile(dbPath, []byte("not a sqlite database"), 0644)

	if _, err := NewStore(dbPath); err == nil {
		t.Fatal("expected error for corrupted DB file")
	}
}
