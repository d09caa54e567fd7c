package quality

// angleTolerance is the relative slack applied to angle bounds. Triangles
// sitting on a bound up to upstream rounding error are not flagged, which
// keeps borderline triangles from flipping between good and bad across
// mesh rebuilds. Area bounds are compared with a plain '>'.
const angleTolerance = 1e-9

// #region measurement
// Measurement holds the quantities a verdict was derived from.
type Measurement struct {
	MinAngle   float64
	MaxAngle   float64
	Area       float64
	AreaBound  float64 // 0 = unconstrained
	AreaReason Reason  // ReasonMaxArea or ReasonVariableArea
}

// Measure reads the triangle's geometry and resolves its area bound.
func Measure(t Triangle, config *Config) Measurement {
	a := t.Angles()
	lo, hi := a[0], a[0]
	for _, v := range a[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	bound, reason := areaBound(t, config)
	return Measurement{
		MinAngle:   lo,
		MaxAngle:   hi,
		Area:       t.Area(),
		AreaBound:  bound,
		AreaReason: reason,
	}
}

// areaBound returns the per-triangle target area when variable area is on
// and the triangle carries a positive one, and the global bound otherwise.
func areaBound(t Triangle, config *Config) (float64, Reason) {
	if config.variableArea {
		if target := t.TargetArea(); target > 0 {
			return target, ReasonVariableArea
		}
	}
	return config.maxArea, ReasonMaxArea
}

// #endregion measurement

// #region evaluator
// Evaluator decides whether triangles need refinement. It holds no mutable
// state and may be shared between goroutines.
type Evaluator struct {
	config *Config
}

// NewEvaluator creates an evaluator for a frozen config. A nil config is
// treated as fully unconstrained.
func NewEvaluator(config *Config) *Evaluator {
	if config == nil {
		config = &Config{}
	}
	return &Evaluator{config: config}
}

// Config returns the config the evaluator reads.
func (e *Evaluator) Config() *Config {
	return e.config
}

// Evaluate is a convenience for NewEvaluator(config).Evaluate(t).
func Evaluate(t Triangle, config *Config) (Verdict, error) {
	return NewEvaluator(config).Evaluate(t)
}

// Evaluate applies the exclusion rule first, then the angle, area and user
// checks in that order. The first failing check names the reason.
func (e *Evaluator) Evaluate(t Triangle) (Verdict, error) {
	v, _, err := e.evaluate(t)
	return v, err
}

// EvaluateMeasured is Evaluate that also returns the measurement used. The
// measurement is zero when the triangle was excluded.
func (e *Evaluator) EvaluateMeasured(t Triangle) (Verdict, Measurement, error) {
	return e.evaluate(t)
}

func (e *Evaluator) evaluate(t Triangle) (Verdict, Measurement, error) {
	c := e.config

	// 1. Exclusion overrides everything else.
	if c.exclude != nil {
		excluded, err := c.exclude(t)
		if err != nil {
			return Verdict{}, Measurement{}, &PredicateEvaluationError{Predicate: "exclude", TriangleID: t.ID(), Err: err}
		}
		if excluded {
			return Good, Measurement{}, nil
		}
	}

	m := Measure(t, c)

	// 2. Minimum angle
	if c.minAngle > 0 && m.MinAngle < c.minAngle*(1-angleTolerance) {
		return Verdict{Bad: true, Reason: ReasonMinAngle}, m, nil
	}

	// 3. Maximum angle
	if c.maxAngle > 0 && m.MaxAngle > c.maxAngle*(1+angleTolerance) {
		return Verdict{Bad: true, Reason: ReasonMaxAngle}, m, nil
	}

	// 4. Area against the global or per-triangle bound
	if m.AreaBound > 0 && m.Area > m.AreaBound {
		return Verdict{Bad: true, Reason: m.AreaReason}, m, nil
	}

	// 5. User test
	if c.userTest != nil {
		bad, err := c.userTest(t, m.Area)
		if err != nil {
			return Verdict{}, m, &PredicateEvaluationError{Predicate: "user_test", TriangleID: t.ID(), Err: err}
		}
		if bad {
			return Verdict{Bad: true, Reason: ReasonUserTest}, m, nil
		}
	}

	return Good, m, nil
}

// #endregion evaluator
