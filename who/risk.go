package who

import (
	"fmt"
	"math"
	"strings"
)

// Site is the anatomical site an image finding refers to.
type Site string

const (
	SiteSkin Site = "skin"
	SiteNail Site = "nail"
)

// Severity grades a finding from its label and classifier confidence.
type Severity string

const (
	SeverityNormal   Severity = "Normal"
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// Finding is one image-classification output attached to an analysis run.
type Finding struct {
	Site       Site    `json:"site"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Unhealthy reports whether the predicted label flags a concern.
func (f Finding) Unhealthy() bool {
	return strings.Contains(f.Label, "unhealthy")
}

// SeverityFor grades a prediction. Confidence in an unhealthy label raises
// the grade; low confidence in a healthy label still warrants a mild flag.
func SeverityFor(label string, confidence float64) Severity {
	if strings.Contains(label, "unhealthy") {
		switch {
		case confidence >= 0.8:
			return SeveritySevere
		case confidence >= 0.6:
			return SeverityModerate
		default:
			return SeverityMild
		}
	}
	if confidence < 0.7 {
		return SeverityMild
	}
	return SeverityNormal
}

// Weights allots each risk factor its share of the 0-100 scale. Each
// sub-score saturates at its weight, so the total needs no post-hoc clamp.
type Weights struct {
	Percentile float64
	ZScore     float64
	Skin       float64
	Nail       float64
}

// DefaultWeights carries the 40/20/20/20 split of the original assessment.
func DefaultWeights() Weights {
	return Weights{Percentile: 40, ZScore: 20, Skin: 20, Nail: 20}
}

func (w Weights) validate() error {
	for name, v := range map[string]float64{
		"percentile": w.Percentile,
		"z_score":    w.ZScore,
		"skin":       w.Skin,
		"nail":       w.Nail,
	} {
		if v < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("negative weight for %s factor", name)}
		}
	}
	sum := w.Percentile + w.ZScore + w.Skin + w.Nail
	if math.Abs(sum-100) > 1e-9 {
		return &ConfigurationError{Reason: fmt.Sprintf("factor weights sum to %.2f, want 100", sum)}
	}
	return nil
}

// Band is the discrete severity band derived from the numeric risk score.
type Band string

const (
	BandLow      Band = "Low"
	BandMedium   Band = "Medium"
	BandHigh     Band = "High"
	BandCritical Band = "Critical"
)

// BandCutoff assigns a band to scores strictly below the bound.
type BandCutoff struct {
	BelowScore float64
	Band       Band
}

// BandCutoffs is the ordered band table; scores at or above the last bound
// get Above.
type BandCutoffs struct {
	Bounds []BandCutoff
	Above  Band
}

// DefaultBandCutoffs carries the original 20/40/60 band boundaries.
func DefaultBandCutoffs() BandCutoffs {
	return BandCutoffs{
		Bounds: []BandCutoff{
			{BelowScore: 20, Band: BandLow},
			{BelowScore: 40, Band: BandMedium},
			{BelowScore: 60, Band: BandHigh},
		},
		Above: BandCritical,
	}
}

func (b BandCutoffs) validate() error {
	if len(b.Bounds) == 0 {
		return &ConfigurationError{Reason: "band cutoffs empty"}
	}
	for i, bound := range b.Bounds {
		if bound.BelowScore <= 0 || bound.BelowScore > 100 {
			return &ConfigurationError{Reason: fmt.Sprintf("band cutoff %.1f outside (0, 100]", bound.BelowScore)}
		}
		if i > 0 && bound.BelowScore <= b.Bounds[i-1].BelowScore {
			return &ConfigurationError{Reason: "band cutoffs not ascending"}
		}
	}
	if b.Above == "" {
		return &ConfigurationError{Reason: "band cutoffs missing top band"}
	}
	return nil
}

func (b BandCutoffs) bandFor(score float64) Band {
	for _, bound := range b.Bounds {
		if score < bound.BelowScore {
			return bound.Band
		}
	}
	return b.Above
}

// FactorScores is the per-factor breakdown of the total risk score.
type FactorScores struct {
	Percentile float64 `json:"percentile"`
	ZScore     float64 `json:"z_score"`
	Skin       float64 `json:"skin"`
	Nail       float64 `json:"nail"`
}

// RiskResult is the combined output of the risk assessment.
type RiskResult struct {
	Score                    int          `json:"score"`
	Band                     Band         `json:"band"`
	Factors                  FactorScores `json:"factors"`
	Recommendations          []string     `json:"recommendations"`
	ProfessionalConsultation bool         `json:"professional_consultation"`
}

// Assess combines the WHO assessment with the image findings into a risk
// score in [0,100] and a severity band. Zero findings is valid; the score
// then reflects the anthropometric factors alone.
func (e *Engine) Assess(a Assessment, findings []Finding, ageYears float64) (RiskResult, error) {
	for _, f := range findings {
		if f.Confidence < 0 || f.Confidence > 1 {
			return RiskResult{}, &InvalidInputError{
				Field:  fmt.Sprintf("%s finding confidence", f.Site),
				Reason: fmt.Sprintf("%.3f outside [0, 1]", f.Confidence),
			}
		}
		if f.Site != SiteSkin && f.Site != SiteNail {
			return RiskResult{}, &InvalidInputError{
				Field:  "finding site",
				Reason: fmt.Sprintf("unknown site %q", f.Site),
			}
		}
	}

	factors := FactorScores{
		Percentile: percentileSubScore(a.Percentile) * e.weights.Percentile,
		ZScore:     zScoreSubScore(a.ZScore, ageYears) * e.weights.ZScore,
		Skin:       siteSubScore(findings, SiteSkin) * e.weights.Skin,
		Nail:       siteSubScore(findings, SiteNail) * e.weights.Nail,
	}
	total := factors.Percentile + factors.ZScore + factors.Skin + factors.Nail

	// The reported score is the rounded integer; band and rules derive from
	// it, not from the raw float, so a stored score never contradicts the
	// cutoff table.
	score := int(math.Round(total))

	result := RiskResult{
		Score:   score,
		Band:    e.bands.bandFor(float64(score)),
		Factors: factors,
	}
	result.Recommendations = e.rules.evaluate(ruleContext{
		Classification: a.Classification,
		Band:           result.Band,
		Score:          float64(score),
		Findings:       findings,
	})
	result.ProfessionalConsultation = score > 40 ||
		a.Classification == ClassUnderweight || a.Classification == ClassObese
	return result, nil
}

// percentileSubScore maps the BMI-for-age percentile to a fraction of the
// factor weight. The steps follow the original assessment: deeper
// underweight scores higher than overweight at the same distance from the
// median, and the fraction saturates at 1.
func percentileSubScore(p float64) float64 {
	switch {
	case p < 5:
		return 1.0
	case p < 10:
		return 0.75
	case p < 25:
		return 0.5
	case p >= 97:
		return 0.875
	case p >= 85:
		return 0.625
	default:
		return 0
	}
}

// zScoreSubScore grows linearly with |z| and saturates at 1 once |z|
// reaches 2 standard deviations. The early-childhood (<5y) and adolescent
// (>15y) emphasis folds into the slope so the cap still holds.
func zScoreSubScore(z, ageYears float64) float64 {
	factor := 1.0
	if ageYears < 5 {
		factor = 1.2
	} else if ageYears > 15 {
		factor = 1.1
	}
	frac := factor * math.Abs(z) / 2
	if frac > 1 {
		frac = 1
	}
	return frac
}

// siteSubScore returns the worst fraction contributed by findings at the
// site. An unhealthy finding contributes proportionally to its confidence;
// a healthy finding contributes a small residual that grows as confidence
// drops, since an uncertain healthy call is weak reassurance.
func siteSubScore(findings []Finding, site Site) float64 {
	worst := 0.0
	for _, f := range findings {
		if f.Site != site {
			continue
		}
		var frac float64
		if f.Unhealthy() {
			frac = f.Confidence
		} else {
			frac = 0.25 * (1 - f.Confidence)
		}
		if frac > worst {
			worst = frac
		}
	}
	return worst
}
