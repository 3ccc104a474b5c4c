package who

import "fmt"

// InvalidInputError reports a malformed or out-of-domain numeric input,
// e.g. a non-positive height/weight or a confidence outside [0,1].
// It is not recoverable inside the engine.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// OutOfRangeError reports an age outside the reference table coverage.
// Lookup recovers from it by clamping to the nearest table boundary and
// flagging the result as extrapolated; LookupExact surfaces it instead.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %.2f outside reference range [%.2f, %.2f]", e.Field, e.Value, e.Min, e.Max)
}

// ConfigurationError reports inconsistent reference tables or scoring
// configuration, e.g. factor weights that do not sum to 100.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("engine configuration: %s", e.Reason)
}
