package who

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() PatientSnapshot {
	return PatientSnapshot{
		Name:      "Test Child",
		AgeMonths: 24,
		Sex:       SexMale,
		HeightCm:  80,
		WeightKg:  9.5,
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	findings := []Finding{
		{Site: SiteSkin, Label: "unhealthy_skin", Confidence: 0.72},
		{Site: SiteNail, Label: "healthy_nails", Confidence: 0.81},
	}

	first, err := engine.BuildReport(testSnapshot(), findings, now)
	require.NoError(t, err)
	second, err := engine.BuildReport(testSnapshot(), findings, now)
	require.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different reports:\n%+v\n%+v", first, second)
	}
	assert.Equal(t, now, first.CreatedAt)
}

func TestBuildReportContents(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Now()

	report, err := engine.BuildReport(testSnapshot(), []Finding{
		{Site: SiteSkin, Label: "unhealthy_skin", Confidence: 0.85},
	}, now)
	require.NoError(t, err)

	assert.InDelta(t, 14.84375, report.Patient.BMI, 1e-9)
	assert.Equal(t, ClassNormal, report.Assessment.Classification)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, SeveritySevere, report.Findings[0].Severity)
	assert.GreaterOrEqual(t, report.Risk.Score, 0)
	assert.LessOrEqual(t, report.Risk.Score, 100)
	assert.NotEmpty(t, report.Risk.Recommendations)
}

func TestBuildReportInvalidInputPropagates(t *testing.T) {
	engine := newTestEngine(t)

	bad := testSnapshot()
	bad.HeightCm = 0
	_, err := engine.BuildReport(bad, nil, time.Now())
	assert.IsType(t, &InvalidInputError{}, err)

	bad = testSnapshot()
	bad.AgeMonths = 0
	_, err = engine.BuildReport(bad, nil, time.Now())
	assert.IsType(t, &InvalidInputError{}, err)
}

func TestBuildReportExtrapolatedForInfant(t *testing.T) {
	engine := newTestEngine(t)

	snap := testSnapshot()
	snap.AgeMonths = 18 // below the 2-year table floor
	report, err := engine.BuildReport(snap, nil, time.Now())
	require.NoError(t, err)
	assert.True(t, report.Assessment.Extrapolated)
}

func TestDeriveStatus(t *testing.T) {
	unhealthy := []Finding{{Site: SiteSkin, Label: "unhealthy_skin", Confidence: 0.9}}

	assert.Equal(t, StatusSevere, deriveStatus(BandCritical, nil))
	assert.Equal(t, StatusModerate, deriveStatus(BandHigh, nil))
	assert.Equal(t, StatusAtRisk, deriveStatus(BandMedium, nil))
	assert.Equal(t, StatusAtRisk, deriveStatus(BandLow, unhealthy))
	assert.Equal(t, StatusNormal, deriveStatus(BandLow, nil))
}
