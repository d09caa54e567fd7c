package quality

import "math"

// #region limits
const (
	// maxMinimumAngle is the largest minimum angle any triangle can satisfy.
	maxMinimumAngle = 60.0
	// straightAngle bounds the maximum-angle constraint from above (exclusive).
	straightAngle = 180.0
)

// #endregion limits

// #region config
// Config is the frozen, validated form of Options. It has no setters and is
// safe to share between goroutines for the duration of a refinement pass.
type Config struct {
	maxAngle     float64
	minAngle     float64
	maxArea      float64
	variableArea bool
	steiner      int
	legacy       bool
	userTest     UserTest
	exclude      ExcludeTest
}

func (c *Config) MaximumAngle() float64     { return c.maxAngle }
func (c *Config) MinimumAngle() float64     { return c.minAngle }
func (c *Config) MaximumArea() float64      { return c.maxArea }
func (c *Config) VariableArea() bool        { return c.variableArea }
func (c *Config) SteinerPoints() int        { return c.steiner }
func (c *Config) UseLegacyRefinement() bool { return c.legacy }
func (c *Config) HasUserTest() bool         { return c.userTest != nil }
func (c *Config) HasExclude() bool          { return c.exclude != nil }

// Unconstrained reports whether no check can ever flag a triangle.
func (c *Config) Unconstrained() bool {
	return c.minAngle == 0 && c.maxAngle == 0 && c.maxArea == 0 &&
		!c.variableArea && c.userTest == nil
}

// Options returns a copy of the settings the config was frozen from.
func (c *Config) Options() Options {
	return Options{
		MaximumAngle:        c.maxAngle,
		MinimumAngle:        c.minAngle,
		MaximumArea:         c.maxArea,
		VariableArea:        c.variableArea,
		SteinerPoints:       c.steiner,
		UseLegacyRefinement: c.legacy,
		UserTest:            c.userTest,
		Exclude:             c.exclude,
	}
}

// #endregion config

// #region freeze
// Freeze validates the options and returns an immutable Config. Later changes
// to o do not affect the returned value.
func (o Options) Freeze() (*Config, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &Config{
		maxAngle:     o.MaximumAngle,
		minAngle:     o.MinimumAngle,
		maxArea:      o.MaximumArea,
		variableArea: o.VariableArea,
		steiner:      o.SteinerPoints,
		legacy:       o.UseLegacyRefinement,
		userTest:     o.UserTest,
		exclude:      o.Exclude,
	}, nil
}

// MustFreeze is Freeze for statically known options. It panics on error.
func (o Options) MustFreeze() *Config {
	c, err := o.Freeze()
	if err != nil {
		panic(err)
	}
	return c
}

// #endregion freeze

// #region validate
// Validate checks the options for out-of-range or geometrically
// unsatisfiable values. Every failure matches ErrInvalidConfiguration.
func (o Options) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"minimum_angle", o.MinimumAngle},
		{"maximum_angle", o.MaximumAngle},
		{"maximum_area", o.MaximumArea},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return &ConfigError{Field: f.name, Value: f.val, Msg: "must be finite"}
		}
		if f.val < 0 {
			return &ConfigError{Field: f.name, Value: f.val, Msg: "must not be negative"}
		}
	}

	// Angle sum: the smallest angle of a triangle is at most 60 and the
	// largest at least 60.
	if o.MinimumAngle > maxMinimumAngle {
		return &ConfigError{Field: "minimum_angle", Value: o.MinimumAngle, Msg: "exceeds 60 degrees, no triangle can satisfy it"}
	}
	if o.MaximumAngle >= straightAngle {
		return &ConfigError{Field: "maximum_angle", Value: o.MaximumAngle, Msg: "must be below 180 degrees"}
	}
	if o.MaximumAngle > 0 && o.MaximumAngle < maxMinimumAngle {
		return &ConfigError{Field: "maximum_angle", Value: o.MaximumAngle, Msg: "below 60 degrees, no triangle can satisfy it"}
	}
	if o.MaximumAngle > 0 && o.MinimumAngle > 0 && o.MaximumAngle < o.MinimumAngle {
		return &ConfigError{Field: "maximum_angle", Value: o.MaximumAngle, Msg: "smaller than minimum_angle"}
	}

	if o.SteinerPoints < 0 {
		return &ConfigError{Field: "steiner_points", Value: float64(o.SteinerPoints), Msg: "must not be negative"}
	}
	return nil
}

// #endregion validate
