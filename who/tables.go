package who

import "fmt"

// Sex enumerates the reference populations the WHO tables are keyed by.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex normalizes a free-form sex value to the table key.
func ParseSex(s string) (Sex, error) {
	switch s {
	case "male", "Male", "MALE", "m", "M":
		return SexMale, nil
	case "female", "Female", "FEMALE", "f", "F":
		return SexFemale, nil
	}
	return "", &InvalidInputError{Field: "sex", Reason: fmt.Sprintf("unknown value %q", s)}
}

// Table holds BMI-for-age reference values for one sex.
//
// Values[p][a] is the BMI at percentile Percentiles[p] for age Ages[a].
// Ages and Percentiles are ascending; the table is immutable after load.
type Table struct {
	Sex         Sex
	Ages        []float64
	Percentiles []float64
	Values      [][]float64
}

// Validate checks the structural invariants the lookup relies on.
func (t *Table) Validate() error {
	if len(t.Ages) < 2 {
		return &ConfigurationError{Reason: fmt.Sprintf("%s table needs at least two age rows", t.Sex)}
	}
	for i := 1; i < len(t.Ages); i++ {
		if t.Ages[i] <= t.Ages[i-1] {
			return &ConfigurationError{Reason: fmt.Sprintf("%s table ages not strictly ascending at index %d", t.Sex, i)}
		}
	}
	if len(t.Percentiles) < 2 {
		return &ConfigurationError{Reason: fmt.Sprintf("%s table needs at least two percentile breakpoints", t.Sex)}
	}
	for i, p := range t.Percentiles {
		if p <= 0 || p >= 100 {
			return &ConfigurationError{Reason: fmt.Sprintf("%s table percentile breakpoint %.1f outside (0, 100)", t.Sex, p)}
		}
		if i > 0 && p <= t.Percentiles[i-1] {
			return &ConfigurationError{Reason: fmt.Sprintf("%s table percentile breakpoints not ascending at index %d", t.Sex, i)}
		}
	}
	if len(t.Values) != len(t.Percentiles) {
		return &ConfigurationError{Reason: fmt.Sprintf("%s table has %d value series for %d breakpoints", t.Sex, len(t.Values), len(t.Percentiles))}
	}
	for p, series := range t.Values {
		if len(series) != len(t.Ages) {
			return &ConfigurationError{Reason: fmt.Sprintf("%s table series %d has %d values for %d ages", t.Sex, p, len(series), len(t.Ages))}
		}
	}
	// At any age, BMI must not decrease as the percentile increases,
	// otherwise percentile interpolation loses monotonicity.
	for a := range t.Ages {
		for p := 1; p < len(t.Values); p++ {
			if t.Values[p][a] < t.Values[p-1][a] {
				return &ConfigurationError{Reason: fmt.Sprintf(
					"%s table BMI decreases between percentiles %.0f and %.0f at age %.0f",
					t.Sex, t.Percentiles[p-1], t.Percentiles[p], t.Ages[a])}
			}
		}
	}
	return nil
}

// columnAt returns the BMI value at each percentile breakpoint, linearly
// interpolated between the two age rows bracketing age. The caller must
// pass an age inside [Ages[0], Ages[last]].
func (t *Table) columnAt(age float64) []float64 {
	hi := 1
	for hi < len(t.Ages)-1 && t.Ages[hi] < age {
		hi++
	}
	lo := hi - 1
	span := t.Ages[hi] - t.Ages[lo]
	frac := (age - t.Ages[lo]) / span

	col := make([]float64, len(t.Percentiles))
	for p := range t.Percentiles {
		v0 := t.Values[p][lo]
		v1 := t.Values[p][hi]
		col[p] = v0 + (v1-v0)*frac
	}
	return col
}

// Reference bundles the per-sex tables. Loaded once at startup and treated
// as read-only afterwards, so concurrent lookups need no locking.
type Reference map[Sex]*Table

// Validate checks every table in the reference set.
func (r Reference) Validate() error {
	for _, sex := range []Sex{SexMale, SexFemale} {
		t, ok := r[sex]
		if !ok {
			return &ConfigurationError{Reason: fmt.Sprintf("missing %s reference table", sex)}
		}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

var defaultPercentiles = []float64{3, 5, 10, 25, 50, 75, 90, 95, 97}

var defaultAges = []float64{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}

// WHO BMI-for-age reference values for ages 2-19, simplified to yearly
// granularity. Swap in the complete WHO growth reference for production use.
var defaultMaleValues = [][]float64{
	{14.1, 13.9, 13.8, 13.7, 13.6, 13.5, 13.4, 13.3, 13.2, 13.1, 13.0, 12.9, 12.8, 12.7, 12.6, 12.5, 12.4, 12.3},
	{14.5, 14.3, 14.2, 14.1, 14.0, 13.9, 13.8, 13.7, 13.6, 13.5, 13.4, 13.3, 13.2, 13.1, 13.0, 12.9, 12.8, 12.7},
	{15.0, 14.8, 14.7, 14.6, 14.5, 14.4, 14.3, 14.2, 14.1, 14.0, 13.9, 13.8, 13.7, 13.6, 13.5, 13.4, 13.3, 13.2},
	{15.8, 15.6, 15.5, 15.4, 15.3, 15.2, 15.1, 15.0, 14.9, 14.8, 14.7, 14.6, 14.5, 14.4, 14.3, 14.2, 14.1, 14.0},
	{16.5, 16.3, 16.2, 16.1, 16.0, 15.9, 15.8, 15.7, 15.6, 15.5, 15.4, 15.3, 15.2, 15.1, 15.0, 14.9, 14.8, 14.7},
	{17.3, 17.1, 17.0, 16.9, 16.8, 16.7, 16.6, 16.5, 16.4, 16.3, 16.2, 16.1, 16.0, 15.9, 15.8, 15.7, 15.6, 15.5},
	{18.2, 18.0, 17.9, 17.8, 17.7, 17.6, 17.5, 17.4, 17.3, 17.2, 17.1, 17.0, 16.9, 16.8, 16.7, 16.6, 16.5, 16.4},
	{19.0, 18.8, 18.7, 18.6, 18.5, 18.4, 18.3, 18.2, 18.1, 18.0, 17.9, 17.8, 17.7, 17.6, 17.5, 17.4, 17.3, 17.2},
	{19.8, 19.6, 19.5, 19.4, 19.3, 19.2, 19.1, 19.0, 18.9, 18.8, 18.7, 18.6, 18.5, 18.4, 18.3, 18.2, 18.1, 18.0},
}

var defaultFemaleValues = [][]float64{
	{13.9, 13.7, 13.6, 13.5, 13.4, 13.3, 13.2, 13.1, 13.0, 12.9, 12.8, 12.7, 12.6, 12.5, 12.4, 12.3, 12.2, 12.1},
	{14.3, 14.1, 14.0, 13.9, 13.8, 13.7, 13.6, 13.5, 13.4, 13.3, 13.2, 13.1, 13.0, 12.9, 12.8, 12.7, 12.6, 12.5},
	{14.8, 14.6, 14.5, 14.4, 14.3, 14.2, 14.1, 14.0, 13.9, 13.8, 13.7, 13.6, 13.5, 13.4, 13.3, 13.2, 13.1, 13.0},
	{15.6, 15.4, 15.3, 15.2, 15.1, 15.0, 14.9, 14.8, 14.7, 14.6, 14.5, 14.4, 14.3, 14.2, 14.1, 14.0, 13.9, 13.8},
	{16.3, 16.1, 16.0, 15.9, 15.8, 15.7, 15.6, 15.5, 15.4, 15.3, 15.2, 15.1, 15.0, 14.9, 14.8, 14.7, 14.6, 14.5},
	{17.1, 16.9, 16.8, 16.7, 16.6, 16.5, 16.4, 16.3, 16.2, 16.1, 16.0, 15.9, 15.8, 15.7, 15.6, 15.5, 15.4, 15.3},
	{18.0, 17.8, 17.7, 17.6, 17.5, 17.4, 17.3, 17.2, 17.1, 17.0, 16.9, 16.8, 16.7, 16.6, 16.5, 16.4, 16.3, 16.2},
	{18.8, 18.6, 18.5, 18.4, 18.3, 18.2, 18.1, 18.0, 17.9, 17.8, 17.7, 17.6, 17.5, 17.4, 17.3, 17.2, 17.1, 17.0},
	{19.6, 19.4, 19.3, 19.2, 19.1, 19.0, 18.9, 18.8, 18.7, 18.6, 18.5, 18.4, 18.3, 18.2, 18.1, 18.0, 17.9, 17.8},
}

// DefaultReference returns the built-in BMI-for-age reference set.
func DefaultReference() Reference {
	return Reference{
		SexMale: {
			Sex:         SexMale,
			Ages:        defaultAges,
			Percentiles: defaultPercentiles,
			Values:      defaultMaleValues,
		},
		SexFemale: {
			Sex:         SexFemale,
			Ages:        defaultAges,
			Percentiles: defaultPercentiles,
			Values:      defaultFemaleValues,
		},
	}
}
