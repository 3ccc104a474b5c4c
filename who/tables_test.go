package who

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultReferenceValidates(t *testing.T) {
	ref := DefaultReference()
	if err := ref.Validate(); err != nil {
		t.Fatalf("default reference should validate: %v", err)
	}
}

func TestReferenceValidateMissingTable(t *testing.T) {
	ref := Reference{SexMale: DefaultReference()[SexMale]}
	err := ref.Validate()
	assert.Error(t, err)
	assert.IsType(t, &ConfigurationError{}, err)
}

func TestTableValidateUnsortedAges(t *testing.T) {
	table := &Table{
		Sex:         SexMale,
		Ages:        []float64{2, 4, 3},
		Percentiles: []float64{3, 50},
		Values: [][]float64{
			{14, 14, 14},
			{16, 16, 16},
		},
	}
	err := table.Validate()
	assert.IsType(t, &ConfigurationError{}, err)
}

func TestTableValidateSeriesLengthMismatch(t *testing.T) {
	table := &Table{
		Sex:         SexFemale,
		Ages:        []float64{2, 3},
		Percentiles: []float64{3, 50},
		Values: [][]float64{
			{14, 14, 14},
			{16, 16},
		},
	}
	err := table.Validate()
	assert.IsType(t, &ConfigurationError{}, err)
}

func TestTableValidateNonMonotonePercentileValues(t *testing.T) {
	// 50th percentile BMI below the 3rd at age 3 must be rejected.
	table := &Table{
		Sex:         SexMale,
		Ages:        []float64{2, 3},
		Percentiles: []float64{3, 50},
		Values: [][]float64{
			{14.0, 14.0},
			{16.0, 13.0},
		},
	}
	err := table.Validate()
	assert.IsType(t, &ConfigurationError{}, err)
}

func TestTableValidatePercentileBounds(t *testing.T) {
	table := &Table{
		Sex:         SexMale,
		Ages:        []float64{2, 3},
		Percentiles: []float64{0, 50},
		Values: [][]float64{
			{14.0, 14.0},
			{16.0, 16.0},
		},
	}
	err := table.Validate()
	assert.IsType(t, &ConfigurationError{}, err)
}

func TestParseSex(t *testing.T) {
	for _, raw := range []string{"male", "Male", "M"} {
		sex, err := ParseSex(raw)
		assert.NoError(t, err)
		assert.Equal(t, SexMale, sex)
	}
	sex, err := ParseSex("female")
	assert.NoError(t, err)
	assert.Equal(t, SexFemale, sex)

	_, err = ParseSex("other")
	assert.IsType(t, &InvalidInputError{}, err)
}
