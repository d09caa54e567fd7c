package survey

import "github.com/danielpatrickdp/meshquality/internal/quality"

// #region survey-config
// Config controls how a survey is run.
type Config struct {
	Workers int // regions evaluated concurrently; <= 0 means one per region
}

// DefaultConfig returns the default survey settings.
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// #endregion survey-config

// #region metric
// Metric captures a single mesh-wide check.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Bound float64 `json:"bound"`
	Pass  bool    `json:"pass"`
}

// #endregion metric

// #region report
// Report summarises the quality of a whole mesh.
type Report struct {
	Passed       bool                   `json:"passed"`
	Regions      int                    `json:"regions"`
	Triangles    int                    `json:"triangles"`
	Bad          int                    `json:"bad"`
	ReasonCounts map[quality.Reason]int `json:"reason_counts"`
	MinAngle     float64                `json:"min_angle"`
	MaxAngle     float64                `json:"max_angle"`
	TotalArea    float64                `json:"total_area"`
	BadIDs       []int                  `json:"bad_ids"`
	Metrics      []Metric               `json:"metrics"`
	Reason       string                 `json:"reason"`
}

// #endregion report
