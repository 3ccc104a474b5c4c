package who

import (
	"time"
)

// Engine is the WHO standards and risk assessment engine. It is immutable
// after construction, holds no per-request state, and is safe for
// concurrent use.
type Engine struct {
	reference       Reference
	classifications ClassificationCutoffs
	weights         Weights
	bands           BandCutoffs
	rules           Rules
}

// EngineConfig lets callers override the reference tables and the policy
// tables. Zero-value fields fall back to the defaults.
type EngineConfig struct {
	Reference       Reference
	Classifications ClassificationCutoffs
	Weights         Weights
	Bands           BandCutoffs
	Rules           Rules
}

// NewEngine validates the configuration and returns an engine. Any
// inconsistency (unsorted tables, weights not summing to 100, empty rule
// table) fails with ConfigurationError before the first lookup is served.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Reference == nil {
		cfg.Reference = DefaultReference()
	}
	if cfg.Classifications.Bounds == nil {
		cfg.Classifications = DefaultClassificationCutoffs()
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	if cfg.Bands.Bounds == nil {
		cfg.Bands = DefaultBandCutoffs()
	}
	if cfg.Rules == nil {
		cfg.Rules = DefaultRules()
	}

	if err := cfg.Reference.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Classifications.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Weights.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Bands.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Rules.validate(); err != nil {
		return nil, err
	}

	return &Engine{
		reference:       cfg.Reference,
		classifications: cfg.Classifications,
		weights:         cfg.Weights,
		bands:           cfg.Bands,
		rules:           cfg.Rules,
	}, nil
}

// PatientSnapshot is the demographic input frozen into a report.
type PatientSnapshot struct {
	Name      string  `json:"name"`
	AgeMonths int     `json:"age_months"`
	Sex       Sex     `json:"sex"`
	HeightCm  float64 `json:"height_cm"`
	WeightKg  float64 `json:"weight_kg"`
}

// AgeYears converts the stored month granularity to fractional years.
func (p PatientSnapshot) AgeYears() float64 {
	return float64(p.AgeMonths) / 12
}

// NutritionStatus is the coarse overall status shown on dashboards.
type NutritionStatus string

const (
	StatusNormal   NutritionStatus = "Normal"
	StatusAtRisk   NutritionStatus = "At Risk"
	StatusModerate NutritionStatus = "Moderate"
	StatusSevere   NutritionStatus = "Severe"
)

// Report aggregates everything one analysis run produced. It is assembled
// once and never mutated; a repeat analysis yields a new Report.
type Report struct {
	Patient         ReportPatient  `json:"patient"`
	Findings        []ReportFinding `json:"findings"`
	Assessment      Assessment      `json:"assessment"`
	Risk            RiskResult      `json:"risk"`
	NutritionStatus NutritionStatus `json:"nutrition_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReportPatient is the patient snapshot plus the derived BMI.
type ReportPatient struct {
	PatientSnapshot
	BMI float64 `json:"bmi"`
}

// ReportFinding is a finding with its derived severity grade.
type ReportFinding struct {
	Finding
	Severity Severity `json:"severity"`
}

// BuildReport runs the full pipeline: BMI, WHO lookup, risk assessment,
// status derivation. The timestamp is injected so identical inputs produce
// identical reports. It fails only by propagating lookup or assessment
// errors; out-of-range ages surface as Extrapolated, never as silently
// defaulted numbers.
func (e *Engine) BuildReport(p PatientSnapshot, findings []Finding, now time.Time) (*Report, error) {
	if p.AgeMonths <= 0 {
		return nil, &InvalidInputError{Field: "age_months", Reason: "must be positive"}
	}
	bmi, err := BMI(p.WeightKg, p.HeightCm)
	if err != nil {
		return nil, err
	}

	assessment, err := e.Lookup(p.AgeYears(), p.Sex, bmi)
	if err != nil {
		return nil, err
	}

	risk, err := e.Assess(assessment, findings, p.AgeYears())
	if err != nil {
		return nil, err
	}

	graded := make([]ReportFinding, 0, len(findings))
	for _, f := range findings {
		graded = append(graded, ReportFinding{
			Finding:  f,
			Severity: SeverityFor(f.Label, f.Confidence),
		})
	}

	return &Report{
		Patient:         ReportPatient{PatientSnapshot: p, BMI: bmi},
		Findings:        graded,
		Assessment:      assessment,
		Risk:            risk,
		NutritionStatus: deriveStatus(risk.Band, findings),
		CreatedAt:       now,
	}, nil
}

// deriveStatus maps the risk band to the dashboard status; any unhealthy
// finding keeps a low-band report at least At Risk.
func deriveStatus(band Band, findings []Finding) NutritionStatus {
	switch band {
	case BandCritical:
		return StatusSevere
	case BandHigh:
		return StatusModerate
	case BandMedium:
		return StatusAtRisk
	}
	for _, f := range findings {
		if f.Unhealthy() {
			return StatusAtRisk
		}
	}
	return StatusNormal
}
