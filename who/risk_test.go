package who

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessScoreAlwaysInBounds(t *testing.T) {
	engine := newTestEngine(t)
	rng := rand.New(rand.NewSource(42))

	labels := []string{"healthy_skin", "unhealthy_skin", "healthy_nails", "unhealthy_nails"}

	for i := 0; i < 5000; i++ {
		age := 0.5 + rng.Float64()*25 // deliberately beyond table range too
		sex := SexMale
		if rng.Intn(2) == 1 {
			sex = SexFemale
		}
		bmi := 8 + rng.Float64()*30

		a, err := engine.Lookup(age, sex, bmi)
		require.NoError(t, err)

		var findings []Finding
		for _, site := range []Site{SiteSkin, SiteNail} {
			if rng.Intn(3) == 0 {
				continue // zero or partial findings are valid
			}
			findings = append(findings, Finding{
				Site:       site,
				Label:      labels[rng.Intn(len(labels))],
				Confidence: rng.Float64(),
			})
		}

		result, err := engine.Assess(a, findings, age)
		require.NoError(t, err)
		if result.Score < 0 || result.Score > 100 {
			t.Fatalf("score %d out of [0,100] for age=%.2f bmi=%.2f findings=%v", result.Score, age, bmi, findings)
		}
	}
}

func TestAssessUnhealthyConfidenceMonotone(t *testing.T) {
	engine := newTestEngine(t)

	a, err := engine.Lookup(6, SexMale, 16)
	require.NoError(t, err)

	prev := -1
	for conf := 0.0; conf <= 1.0; conf += 0.05 {
		result, err := engine.Assess(a, []Finding{
			{Site: SiteSkin, Label: "unhealthy_skin", Confidence: conf},
		}, 6)
		require.NoError(t, err)
		if result.Score < prev {
			t.Fatalf("raising unhealthy confidence to %.2f lowered score %d -> %d", conf, prev, result.Score)
		}
		prev = result.Score
	}
}

func TestAssessUnhealthyScoresAboveHealthy(t *testing.T) {
	engine := newTestEngine(t)

	a, err := engine.Lookup(6, SexMale, 16)
	require.NoError(t, err)

	healthy, err := engine.Assess(a, []Finding{
		{Site: SiteNail, Label: "healthy_nails", Confidence: 0.9},
	}, 6)
	require.NoError(t, err)

	unhealthy, err := engine.Assess(a, []Finding{
		{Site: SiteNail, Label: "unhealthy_nails", Confidence: 0.9},
	}, 6)
	require.NoError(t, err)

	assert.Greater(t, unhealthy.Score, healthy.Score)
	assert.Greater(t, unhealthy.Factors.Nail, healthy.Factors.Nail)
}

func TestAssessFactorSaturation(t *testing.T) {
	engine := newTestEngine(t)

	a, err := engine.Lookup(6, SexMale, 16)
	require.NoError(t, err)

	result, err := engine.Assess(a, []Finding{
		{Site: SiteSkin, Label: "unhealthy_skin", Confidence: 1.0},
		{Site: SiteSkin, Label: "unhealthy_skin", Confidence: 0.7},
	}, 6)
	require.NoError(t, err)

	w := DefaultWeights()
	assert.LessOrEqual(t, result.Factors.Skin, w.Skin)
	assert.LessOrEqual(t, result.Factors.Nail, w.Nail)
	assert.LessOrEqual(t, result.Factors.Percentile, w.Percentile)
	assert.LessOrEqual(t, result.Factors.ZScore, w.ZScore)
}

func TestAssessZeroFindingsNormalIsLowBand(t *testing.T) {
	engine := newTestEngine(t)

	// 8-year-old boy right on the reference median.
	a, err := engine.Lookup(8, SexMale, 15.8)
	require.NoError(t, err)
	require.Equal(t, ClassNormal, a.Classification)

	result, err := engine.Assess(a, nil, 8)
	require.NoError(t, err)
	assert.Equal(t, BandLow, result.Band)
	assert.False(t, result.ProfessionalConsultation)

	// Only general wellness guidance: nothing skin- or nail-specific.
	require.NotEmpty(t, result.Recommendations)
	for _, rec := range result.Recommendations {
		assert.NotContains(t, rec, "Skin")
		assert.NotContains(t, rec, "Nail")
	}
}

func TestAssessBandMatchesRoundedScore(t *testing.T) {
	engine := newTestEngine(t)

	// Percentile contributes 40, z-score 19.5: the raw sum 59.5 rounds to
	// 60, which sits on the Critical cutoff. The band must agree with the
	// stored integer score, not the pre-rounding float.
	a := Assessment{Percentile: 4, ZScore: 1.95, Classification: ClassUnderweight}
	result, err := engine.Assess(a, nil, 10)
	require.NoError(t, err)

	assert.Equal(t, 60, result.Score)
	assert.Equal(t, BandCritical, result.Band)
	assert.Equal(t, DefaultBandCutoffs().bandFor(float64(result.Score)), result.Band)
}

func TestAssessRejectsInvalidConfidence(t *testing.T) {
	engine := newTestEngine(t)

	a, err := engine.Lookup(6, SexMale, 16)
	require.NoError(t, err)

	_, err = engine.Assess(a, []Finding{{Site: SiteSkin, Label: "unhealthy_skin", Confidence: 1.2}}, 6)
	assert.IsType(t, &InvalidInputError{}, err)

	_, err = engine.Assess(a, []Finding{{Site: Site("elbow"), Label: "unhealthy_skin", Confidence: 0.5}}, 6)
	assert.IsType(t, &InvalidInputError{}, err)
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	_, err := NewEngine(EngineConfig{
		Weights: Weights{Percentile: 40, ZScore: 20, Skin: 20, Nail: 10},
	})
	assert.IsType(t, &ConfigurationError{}, err)

	_, err = NewEngine(EngineConfig{
		Weights: Weights{Percentile: -10, ZScore: 50, Skin: 30, Nail: 30},
	})
	assert.IsType(t, &ConfigurationError{}, err)
}

func TestNewEngineRejectsBadBandCutoffs(t *testing.T) {
	_, err := NewEngine(EngineConfig{
		Bands: BandCutoffs{
			Bounds: []BandCutoff{{BelowScore: 40, Band: BandLow}, {BelowScore: 20, Band: BandMedium}},
			Above:  BandCritical,
		},
	})
	assert.IsType(t, &ConfigurationError{}, err)
}

func TestBandCutoffBoundaries(t *testing.T) {
	bands := DefaultBandCutoffs()
	assert.Equal(t, BandLow, bands.bandFor(0))
	assert.Equal(t, BandLow, bands.bandFor(19.9))
	assert.Equal(t, BandMedium, bands.bandFor(20))
	assert.Equal(t, BandHigh, bands.bandFor(40))
	assert.Equal(t, BandCritical, bands.bandFor(60))
	assert.Equal(t, BandCritical, bands.bandFor(100))
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, SeveritySevere, SeverityFor("unhealthy_skin", 0.85))
	assert.Equal(t, SeverityModerate, SeverityFor("unhealthy_skin", 0.65))
	assert.Equal(t, SeverityMild, SeverityFor("unhealthy_nails", 0.4))
	assert.Equal(t, SeverityMild, SeverityFor("healthy_nails", 0.5))
	assert.Equal(t, SeverityNormal, SeverityFor("healthy_skin", 0.9))
}
