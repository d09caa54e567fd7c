package quality

// #region triangle
// Triangle is the read-only view of a mesh triangle the evaluator consumes.
// Angles are interior angles in degrees. TargetArea is the per-triangle area
// attribute used when variable area is enabled; a value <= 0 means absent.
type Triangle interface {
	ID() int
	Angles() [3]float64
	Area() float64
	TargetArea() float64
}

// #endregion triangle

// #region predicates
// UserTest flags a triangle as bad. The second argument is the triangle's area.
type UserTest func(t Triangle, area float64) (bool, error)

// ExcludeTest removes a triangle from refinement when it returns true.
type ExcludeTest func(t Triangle) (bool, error)

// #endregion predicates

// #region reason
// Reason names the check that made a triangle bad.
type Reason string

const (
	ReasonNone         Reason = "none"
	ReasonMinAngle     Reason = "min_angle"
	ReasonMaxAngle     Reason = "max_angle"
	ReasonMaxArea      Reason = "max_area"
	ReasonVariableArea Reason = "variable_area"
	ReasonUserTest     Reason = "user_test"
)

// Reasons lists every reason in evaluation order, None first.
var Reasons = []Reason{
	ReasonNone,
	ReasonMinAngle,
	ReasonMaxAngle,
	ReasonMaxArea,
	ReasonVariableArea,
	ReasonUserTest,
}

// #endregion reason

// #region verdict
// Verdict is the output of a single evaluation.
type Verdict struct {
	Bad    bool
	Reason Reason // diagnostic only
}

// Good is the verdict for a triangle that needs no refinement.
var Good = Verdict{Bad: false, Reason: ReasonNone}

// #endregion verdict

// #region options
// Options is the mutable settings structure a host fills in before a
// refinement pass. Zero values mean "unconstrained". Call Freeze to obtain
// the immutable Config the evaluator reads.
type Options struct {
	MaximumAngle        float64 // degrees, [0,180)
	MinimumAngle        float64 // degrees, [0,60]
	MaximumArea         float64
	VariableArea        bool
	SteinerPoints       int // 0 = unbounded
	UseLegacyRefinement bool
	UserTest            UserTest
	Exclude             ExcludeTest
}

// #endregion options
