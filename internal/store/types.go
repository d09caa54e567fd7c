package store

import (
	"time"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region options-record
// OptionsRecord is the JSON form of a frozen quality config. Predicates are
// recorded only by presence.
type OptionsRecord struct {
	MinimumAngle        float64 `json:"min_angle"`
	MaximumAngle        float64 `json:"max_angle"`
	MaximumArea         float64 `json:"max_area"`
	VariableArea        bool    `json:"variable_area"`
	SteinerPoints       int     `json:"steiner_points"`
	UseLegacyRefinement bool    `json:"legacy"`
	HasUserTest         bool    `json:"has_user_test"`
	HasExclude          bool    `json:"has_exclude"`
}

// RecordOptions snapshots a config for storage.
func RecordOptions(c *quality.Config) OptionsRecord {
	if c == nil {
		return OptionsRecord{}
	}
	return OptionsRecord{
		MinimumAngle:        c.MinimumAngle(),
		MaximumAngle:        c.MaximumAngle(),
		MaximumArea:         c.MaximumArea(),
		VariableArea:        c.VariableArea(),
		SteinerPoints:       c.SteinerPoints(),
		UseLegacyRefinement: c.UseLegacyRefinement(),
		HasUserTest:         c.HasUserTest(),
		HasExclude:          c.HasExclude(),
	}
}

// #endregion options-record

// #region pass-record
// PassRecord is one refinement pass or survey run.
type PassRecord struct {
	PassID     string        `json:"pass_id"`
	Kind       string        `json:"kind"` // "refine" | "survey" | "evaluate"
	Strategy   string        `json:"strategy"`
	Options    OptionsRecord `json:"options"`
	CreatedAt  time.Time     `json:"created_at"`
	FinishedAt time.Time     `json:"finished_at"` // zero while running
	Outcome    PassOutcome   `json:"outcome"`
}

// PassOutcome is filled in when a pass finishes.
type PassOutcome struct {
	Stop        string `json:"stop"`
	Evaluated   int    `json:"evaluated"`
	Bad         int    `json:"bad"`
	Splits      int    `json:"splits"`
	SteinerUsed int    `json:"steiner_used"`
	Remaining   int    `json:"remaining"`
}

// #endregion pass-record
