package who

import "fmt"

// Classification is the nutritional status derived from the BMI-for-age
// percentile.
type Classification string

const (
	ClassUnderweight Classification = "Underweight"
	ClassNormal      Classification = "Normal"
	ClassOverweight  Classification = "Overweight"
	ClassObese       Classification = "Obese"
)

// ClassificationCutoff assigns a classification to percentiles strictly
// below the bound.
type ClassificationCutoff struct {
	BelowPercentile float64
	Class           Classification
}

// ClassificationCutoffs is the ordered cutoff table; percentiles at or above
// the last bound get Above. The thresholds are policy, not algorithm, so
// they live in configuration rather than in the lookup code.
type ClassificationCutoffs struct {
	Bounds []ClassificationCutoff
	Above  Classification
}

// DefaultClassificationCutoffs mirrors the WHO child/adolescent categories:
// underweight <5th, normal 5th-<85th, overweight 85th-<97th, obese >=97th.
func DefaultClassificationCutoffs() ClassificationCutoffs {
	return ClassificationCutoffs{
		Bounds: []ClassificationCutoff{
			{BelowPercentile: 5, Class: ClassUnderweight},
			{BelowPercentile: 85, Class: ClassNormal},
			{BelowPercentile: 97, Class: ClassOverweight},
		},
		Above: ClassObese,
	}
}

func (c ClassificationCutoffs) validate() error {
	if len(c.Bounds) == 0 {
		return &ConfigurationError{Reason: "classification cutoffs empty"}
	}
	for i, b := range c.Bounds {
		if b.BelowPercentile <= 0 || b.BelowPercentile >= 100 {
			return &ConfigurationError{Reason: fmt.Sprintf("classification cutoff %.1f outside (0, 100)", b.BelowPercentile)}
		}
		if i > 0 && b.BelowPercentile <= c.Bounds[i-1].BelowPercentile {
			return &ConfigurationError{Reason: "classification cutoffs not ascending"}
		}
	}
	if c.Above == "" {
		return &ConfigurationError{Reason: "classification cutoffs missing top category"}
	}
	return nil
}

func (c ClassificationCutoffs) classify(percentile float64) Classification {
	for _, b := range c.Bounds {
		if percentile < b.BelowPercentile {
			return b.Class
		}
	}
	return c.Above
}

// Assessment is the WHO-standards result for one patient measurement.
type Assessment struct {
	BMI            float64        `json:"bmi"`
	Percentile     float64        `json:"percentile"`
	ZScore         float64        `json:"z_score"`
	Classification Classification `json:"classification"`
	// Extrapolated is set when the age fell outside the reference table and
	// the result was computed at the clamped boundary age.
	Extrapolated bool `json:"extrapolated"`
}

// BMI computes weight/height^2 from clinic units (kg, cm).
func BMI(weightKg, heightCm float64) (float64, error) {
	if heightCm <= 0 {
		return 0, &InvalidInputError{Field: "height_cm", Reason: "must be positive"}
	}
	if weightKg <= 0 {
		return 0, &InvalidInputError{Field: "weight_kg", Reason: "must be positive"}
	}
	h := heightCm / 100
	return weightKg / (h * h), nil
}

// Percentile estimates are clamped to this band before the z conversion so
// the quantile function never sees 0 or 100.
const (
	minPercentile = 0.1
	maxPercentile = 99.9
)

// Lookup computes BMI-for-age percentile, z-score and classification.
// Ages outside the table range are clamped to the nearest boundary and the
// result is flagged Extrapolated; malformed input returns InvalidInputError.
func (e *Engine) Lookup(ageYears float64, sex Sex, bmi float64) (Assessment, error) {
	a, err := e.LookupExact(ageYears, sex, bmi)
	if err == nil {
		return a, nil
	}
	oor, ok := err.(*OutOfRangeError)
	if !ok {
		return Assessment{}, err
	}

	clamped := oor.Min
	if oor.Value > oor.Max {
		clamped = oor.Max
	}
	a, err = e.LookupExact(clamped, sex, bmi)
	if err != nil {
		return Assessment{}, err
	}
	a.Extrapolated = true
	return a, nil
}

// LookupExact is the strict variant: ages outside the reference range fail
// with OutOfRangeError and the caller decides the clamp-vs-reject policy.
func (e *Engine) LookupExact(ageYears float64, sex Sex, bmi float64) (Assessment, error) {
	if ageYears <= 0 {
		return Assessment{}, &InvalidInputError{Field: "age", Reason: "must be positive"}
	}
	if bmi <= 0 {
		return Assessment{}, &InvalidInputError{Field: "bmi", Reason: "must be positive"}
	}
	table, ok := e.reference[sex]
	if !ok {
		return Assessment{}, &InvalidInputError{Field: "sex", Reason: fmt.Sprintf("no reference table for %q", sex)}
	}

	minAge := table.Ages[0]
	maxAge := table.Ages[len(table.Ages)-1]
	if ageYears < minAge || ageYears > maxAge {
		return Assessment{}, &OutOfRangeError{Field: "age", Value: ageYears, Min: minAge, Max: maxAge}
	}

	col := table.columnAt(ageYears)
	percentile := interpolatePercentile(bmi, table.Percentiles, col)
	if percentile < minPercentile {
		percentile = minPercentile
	}
	if percentile > maxPercentile {
		percentile = maxPercentile
	}

	return Assessment{
		BMI:            bmi,
		Percentile:     percentile,
		ZScore:         normalQuantile(percentile / 100),
		Classification: e.classifications.classify(percentile),
	}, nil
}

// interpolatePercentile places bmi among the breakpoint BMI values for the
// exact age. Inside the table it interpolates linearly between the two
// bracketing breakpoints; beyond the tails it scales proportionally to the
// distance from the boundary value, so extreme BMIs still rank monotonically.
func interpolatePercentile(bmi float64, percentiles, col []float64) float64 {
	last := len(col) - 1
	if bmi <= col[0] {
		return percentiles[0] * (bmi / col[0])
	}
	if bmi >= col[last] {
		return percentiles[last] + percentiles[0]*(bmi-col[last])/col[last]
	}
	for i := 0; i < last; i++ {
		if bmi <= col[i+1] {
			lo, hi := col[i], col[i+1]
			if hi == lo {
				return percentiles[i]
			}
			return percentiles[i] + (percentiles[i+1]-percentiles[i])*(bmi-lo)/(hi-lo)
		}
	}
	return percentiles[last]
}
