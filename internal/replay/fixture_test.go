package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region fixture-tests

// TestFixture_MixedMesh replays the mixed_mesh fixture and compares every
// verdict against the recorded one. If a bound or the check order changes,
// this catches drift.
func TestFixture_MixedMesh(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "mixed_mesh.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	results, err := RunFixture(f)
	if err != nil {
		t.Fatalf("RunFixture: %v", err)
	}
	if len(results) != len(f.Triangles) {
		t.Fatalf("expected %d results, got %d", len(f.Triangles), len(results))
	}

	for _, m := range Compare(results, f.Expected) {
		t.Errorf("%s", m)
	}

	s := Summarize(results, nil)
	if s.Total != 8 || s.Bad != 5 || s.Good != 3 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.ByReason[quality.ReasonNone] != 3 {
		t.Errorf("expected 3 good verdicts, got %v", s.ByReason)
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}

func TestLoadFixture_NullTriangle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "null.json")
	if err := os.WriteFile(path, []byte(`{"triangles":[null]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected error for null triangle")
	}
}

func TestFixture_InvalidOptions(t *testing.T) {
	f := &Fixture{Options: FixtureOptions{MinimumAngle: 75}}
	if _, err := RunFixture(f); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestFixture_ToOptionsPredicates(t *testing.T) {
	f := &Fixture{ExcludeIDs: []int{1}, UserBadIDs: []int{2}}
	opts := f.ToOptions()
	if opts.Exclude == nil || opts.UserTest == nil {
		t.Fatal("expected both predicates to be set")
	}
	if empty := (&Fixture{}).ToOptions(); empty.Exclude != nil || empty.UserTest != nil {
		t.Fatal("expected no predicates without id lists")
	}
}

// #endregion fixture-tests
