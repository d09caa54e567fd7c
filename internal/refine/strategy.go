package refine

import "github.com/danielpatrickdp/meshquality/internal/quality"

// #region strategy-definitions

// StrategyID names a refinement algorithm implemented by the host.
type StrategyID string

const (
	// StrategyACute is the default off-center insertion algorithm.
	StrategyACute StrategyID = "acute"
	// StrategyRuppert is the legacy circumcenter insertion algorithm.
	StrategyRuppert StrategyID = "ruppert"
)

// StrategyInfo describes a refinement strategy.
type StrategyInfo struct {
	ID          StrategyID
	Legacy      bool
	Description string
}

// Strategies is the table of known strategies.
var Strategies = map[StrategyID]StrategyInfo{
	StrategyACute: {
		ID:          StrategyACute,
		Legacy:      false,
		Description: "aCute off-center Steiner point insertion",
	},
	StrategyRuppert: {
		ID:          StrategyRuppert,
		Legacy:      true,
		Description: "Ruppert circumcenter insertion (legacy Triangle behaviour)",
	},
}

// #endregion

// #region select

// SelectStrategy resolves the strategy for a pass once, before it starts.
// The evaluator never looks at this choice.
func SelectStrategy(config *quality.Config) StrategyInfo {
	if config != nil && config.UseLegacyRefinement() {
		return Strategies[StrategyRuppert]
	}
	return Strategies[StrategyACute]
}

// #endregion
