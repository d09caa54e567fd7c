package replay

import (
	"fmt"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region types
// Result captures the verdict for one replayed triangle.
type Result struct {
	ID          int
	Verdict     quality.Verdict
	Measurement quality.Measurement
}

// Mismatch records a triangle whose verdict differs from the fixture.
type Mismatch struct {
	ID       int             `json:"id"`
	Expected ExpectedResult  `json:"expected"`
	Actual   quality.Verdict `json:"actual"`
	Missing  bool            `json:"missing,omitempty"` // no result for the expected id
}

func (m Mismatch) String() string {
	if m.Missing {
		return fmt.Sprintf("triangle %d: expected %s, not evaluated", m.ID, describe(m.Expected.Bad, m.Expected.Reason))
	}
	return fmt.Sprintf("triangle %d: expected %s, got %s",
		m.ID, describe(m.Expected.Bad, m.Expected.Reason), describe(m.Actual.Bad, m.Actual.Reason))
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total      int                    `json:"total"`
	Good       int                    `json:"good"`
	Bad        int                    `json:"bad"`
	ByReason   map[quality.Reason]int `json:"by_reason"`
	Mismatches int                    `json:"mismatches"`
}

// #endregion types

// #region replay
// Replay evaluates every triangle under one frozen config, in input order.
// It stops at the first predicate error.
func Replay(tris []quality.Triangle, config *quality.Config) ([]Result, error) {
	ev := quality.NewEvaluator(config)
	results := make([]Result, 0, len(tris))
	for _, t := range tris {
		v, m, err := ev.EvaluateMeasured(t)
		if err != nil {
			return results, err
		}
		results = append(results, Result{ID: t.ID(), Verdict: v, Measurement: m})
	}
	return results, nil
}

// RunFixture freezes the fixture options and replays its triangles.
func RunFixture(f *Fixture) ([]Result, error) {
	cfg, err := f.ToOptions().Freeze()
	if err != nil {
		return nil, err
	}
	return Replay(f.Inputs(), cfg)
}

// Compare matches results against expectations by triangle id. Triangles
// without an expectation are ignored.
func Compare(results []Result, expected []ExpectedResult) []Mismatch {
	byID := make(map[int]quality.Verdict, len(results))
	for _, r := range results {
		byID[r.ID] = r.Verdict
	}

	var out []Mismatch
	for _, e := range expected {
		v, ok := byID[e.ID]
		if !ok {
			out = append(out, Mismatch{ID: e.ID, Expected: e, Missing: true})
			continue
		}
		reason := e.Reason
		if reason == "" {
			reason = quality.ReasonNone
		}
		if v.Bad != e.Bad || v.Reason != reason {
			out = append(out, Mismatch{ID: e.ID, Expected: e, Actual: v})
		}
	}
	return out
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result, mismatches []Mismatch) Summary {
	s := Summary{
		Total:      len(results),
		ByReason:   make(map[quality.Reason]int),
		Mismatches: len(mismatches),
	}
	for _, r := range results {
		if r.Verdict.Bad {
			s.Bad++
		} else {
			s.Good++
		}
		s.ByReason[r.Verdict.Reason]++
	}
	return s
}

func describe(bad bool, reason quality.Reason) string {
	if !bad {
		return "good"
	}
	return fmt.Sprintf("bad(%s)", reason)
}

// #endregion replay
