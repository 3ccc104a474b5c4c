package who

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(EngineConfig{})
	if err != nil {
		t.Fatalf("default engine should build: %v", err)
	}
	return engine
}

// Pinned scenario: 24-month-old boy, 80 cm, 9.5 kg. BMI is 14.84375; at
// age 2 the male reference brackets it between the 5th (14.5) and 10th
// (15.0) percentile values, so interpolation yields 8.4375 and the normal
// quantile of 0.084375 is -1.3762.
func TestLookupPinnedScenario(t *testing.T) {
	engine := newTestEngine(t)

	bmi, err := BMI(9.5, 80)
	require.NoError(t, err)
	assert.InDelta(t, 14.84375, bmi, 1e-9)

	a, err := engine.Lookup(2.0, SexMale, bmi)
	require.NoError(t, err)
	assert.InDelta(t, 8.4375, a.Percentile, 0.01)
	assert.InDelta(t, -1.3762, a.ZScore, 0.01)
	assert.Equal(t, ClassNormal, a.Classification)
	assert.False(t, a.Extrapolated)
}

func TestLookupAgeInterpolationBetweenRows(t *testing.T) {
	engine := newTestEngine(t)

	// Halfway between ages 2 (p50=16.5) and 3 (p50=16.3) the male median
	// BMI is 16.4, which must land on the 50th percentile exactly.
	a, err := engine.Lookup(2.5, SexMale, 16.4)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, a.Percentile, 1e-9)
	assert.InDelta(t, 0.0, a.ZScore, 1e-6)
}

func TestLookupPercentileMonotoneInBMI(t *testing.T) {
	engine := newTestEngine(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		sex := SexMale
		if rng.Intn(2) == 1 {
			sex = SexFemale
		}
		age := 2 + rng.Float64()*17
		bmi := 10 + rng.Float64()*15

		lower, err := engine.Lookup(age, sex, bmi)
		require.NoError(t, err)
		higher, err := engine.Lookup(age, sex, bmi+0.05+rng.Float64())
		require.NoError(t, err)

		if higher.Percentile < lower.Percentile {
			t.Fatalf("percentile decreased with BMI: age=%.2f sex=%s bmi=%.2f (%.3f -> %.3f)",
				age, sex, bmi, lower.Percentile, higher.Percentile)
		}
		if higher.ZScore < lower.ZScore {
			t.Fatalf("z-score decreased with BMI: age=%.2f sex=%s bmi=%.2f", age, sex, bmi)
		}
	}
}

func TestLookupBoundaryAges(t *testing.T) {
	engine := newTestEngine(t)

	atMin, err := engine.Lookup(2, SexFemale, 15)
	require.NoError(t, err)
	assert.False(t, atMin.Extrapolated)

	atMax, err := engine.Lookup(19, SexFemale, 15)
	require.NoError(t, err)
	assert.False(t, atMax.Extrapolated)

	below, err := engine.Lookup(1.5, SexFemale, 15)
	require.NoError(t, err)
	assert.True(t, below.Extrapolated)

	above, err := engine.Lookup(19.5, SexFemale, 15)
	require.NoError(t, err)
	assert.True(t, above.Extrapolated)

	// The clamped result must match the boundary-age result numerically.
	assert.InDelta(t, atMax.Percentile, above.Percentile, 1e-9)
}

func TestLookupExactRejectsOutOfRange(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.LookupExact(1.0, SexMale, 15)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "age", oor.Field)
	assert.Equal(t, 2.0, oor.Min)
	assert.Equal(t, 19.0, oor.Max)
}

func TestLookupInvalidInput(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Lookup(5, SexMale, 0)
	assert.IsType(t, &InvalidInputError{}, err)

	_, err = engine.Lookup(5, SexMale, -3)
	assert.IsType(t, &InvalidInputError{}, err)

	_, err = engine.Lookup(0, SexMale, 15)
	assert.IsType(t, &InvalidInputError{}, err)

	_, err = engine.Lookup(5, Sex("unknown"), 15)
	assert.IsType(t, &InvalidInputError{}, err)
}

func TestBMIInvalidInput(t *testing.T) {
	_, err := BMI(20, 0)
	assert.IsType(t, &InvalidInputError{}, err)
	_, err = BMI(0, 110)
	assert.IsType(t, &InvalidInputError{}, err)
	_, err = BMI(-1, 110)
	assert.IsType(t, &InvalidInputError{}, err)
}

func TestClassificationCutoffs(t *testing.T) {
	cutoffs := DefaultClassificationCutoffs()
	assert.Equal(t, ClassUnderweight, cutoffs.classify(3))
	assert.Equal(t, ClassNormal, cutoffs.classify(50))
	assert.Equal(t, ClassOverweight, cutoffs.classify(90))
	assert.Equal(t, ClassObese, cutoffs.classify(99))
}
