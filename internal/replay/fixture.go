package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/meshquality/internal/mesh"
	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string           `json:"description"`
	Options     FixtureOptions   `json:"options"`
	Triangles   []*mesh.Tri      `json:"triangles"`
	ExcludeIDs  []int            `json:"exclude_ids"`
	UserBadIDs  []int            `json:"user_bad_ids"`
	Expected    []ExpectedResult `json:"expected"`
}

// FixtureOptions mirrors quality.Options with JSON tags. Predicates are
// described by the id lists on Fixture.
type FixtureOptions struct {
	MinimumAngle        float64 `json:"min_angle"`
	MaximumAngle        float64 `json:"max_angle"`
	MaximumArea         float64 `json:"max_area"`
	VariableArea        bool    `json:"variable_area"`
	SteinerPoints       int     `json:"steiner_points"`
	UseLegacyRefinement bool    `json:"legacy"`
}

// ExpectedResult captures the expected verdict per triangle.
type ExpectedResult struct {
	ID     int            `json:"id"`
	Bad    bool           `json:"bad"`
	Reason quality.Reason `json:"reason"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	for i, t := range f.Triangles {
		if t == nil {
			return nil, fmt.Errorf("parse fixture %s: triangle %d is null", path, i)
		}
	}
	return &f, nil
}

// ToOptions converts the fixture to quality.Options. The id lists become
// membership predicates.
func (f *Fixture) ToOptions() quality.Options {
	opts := quality.Options{
		MinimumAngle:        f.Options.MinimumAngle,
		MaximumAngle:        f.Options.MaximumAngle,
		MaximumArea:         f.Options.MaximumArea,
		VariableArea:        f.Options.VariableArea,
		SteinerPoints:       f.Options.SteinerPoints,
		UseLegacyRefinement: f.Options.UseLegacyRefinement,
	}
	if len(f.ExcludeIDs) > 0 {
		excluded := idSet(f.ExcludeIDs)
		opts.Exclude = func(t quality.Triangle) (bool, error) {
			return excluded[t.ID()], nil
		}
	}
	if len(f.UserBadIDs) > 0 {
		bad := idSet(f.UserBadIDs)
		opts.UserTest = func(t quality.Triangle, _ float64) (bool, error) {
			return bad[t.ID()], nil
		}
	}
	return opts
}

// Inputs returns the fixture triangles as evaluator inputs.
func (f *Fixture) Inputs() []quality.Triangle {
	out := make([]quality.Triangle, len(f.Triangles))
	for i, t := range f.Triangles {
		out[i] = t
	}
	return out
}

func idSet(ids []int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// #endregion fixture-loader
