package quality

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is matched by every configuration validation failure.
var ErrInvalidConfiguration = errors.New("invalid quality configuration")

// #region config-error
// ConfigError reports the field that failed validation.
type ConfigError struct {
	Field string
	Value float64
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid quality configuration: %s=%g: %s", e.Field, e.Value, e.Msg)
}

// Is lets errors.Is(err, ErrInvalidConfiguration) match.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// #endregion config-error

// #region predicate-error
// PredicateEvaluationError wraps a failure raised by a user predicate.
type PredicateEvaluationError struct {
	Predicate  string // "user_test" | "exclude"
	TriangleID int
	Err        error
}

func (e *PredicateEvaluationError) Error() string {
	return fmt.Sprintf("%s predicate failed on triangle %d: %v", e.Predicate, e.TriangleID, e.Err)
}

func (e *PredicateEvaluationError) Unwrap() error {
	return e.Err
}

// #endregion predicate-error
