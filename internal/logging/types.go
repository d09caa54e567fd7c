package logging

import (
	"time"

	"github.com/danielpatrickdp/meshquality/internal/quality"
)

// #region verdict-entry
// VerdictEntry is a single row in the verdict_log table.
type VerdictEntry struct {
	PassID     string
	TriangleID int
	Bad        bool
	Reason     quality.Reason
	MinAngle   float64
	MaxAngle   float64
	Area       float64
	AreaBound  float64
	DetailJSON string
	CreatedAt  time.Time
}

// #endregion verdict-entry

// #region verdict-record
// VerdictRecord captures the complete inputs of one verdict. Serialized as
// JSON into verdict_log.detail_json so a verdict can be re-derived later.
type VerdictRecord struct {
	TriangleID int        `json:"triangle_id"`
	Angles     [3]float64 `json:"angles"`
	Area       float64    `json:"area"`
	TargetArea float64    `json:"target_area,omitempty"`

	// Bounds active at decision time
	Thresholds VerdictThresholds `json:"thresholds"`

	Bad    bool           `json:"bad"`
	Reason quality.Reason `json:"reason"`
}

// VerdictThresholds captures the config active at decision time.
type VerdictThresholds struct {
	MinimumAngle float64 `json:"min_angle"`
	MaximumAngle float64 `json:"max_angle"`
	MaximumArea  float64 `json:"max_area"`
	VariableArea bool    `json:"variable_area"`
	UserTest     bool    `json:"user_test"`
	Exclude      bool    `json:"exclude"`
}

// #endregion verdict-record
