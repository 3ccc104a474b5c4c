package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/model"
)

func sampleReport() model.Report {
	return model.Report{
		Model:                    gorm.Model{ID: 7, CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)},
		UserID:                   1,
		PatientID:                3,
		ReferenceCode:            "SKN-0003-0007",
		ChildName:                "Siti Rahma",
		AgeMonths:                54,
		Sex:                      "female",
		HeightCm:                 104,
		WeightKg:                 14.2,
		BMI:                      13.1,
		BMIPercentile:            8.4,
		ZScore:                   -1.4,
		BMICategory:              "Normal",
		SkinLabel:                "unhealthy_skin",
		SkinConfidence:           0.8,
		SkinSeverity:             "moderate",
		NailLabel:                "healthy_nails",
		NailConfidence:           0.75,
		NailSeverity:             "none",
		RiskScore:                45,
		RiskLevel:                "Medium",
		NutritionStatus:          "At Risk",
		ProfessionalConsultation: true,
		Recommendations:          datatypes.JSON([]byte(`["Increase caloric intake with nutrient-dense foods.","Ensure adequate daily hydration."]`)),
	}
}

func TestWriteReportPDF(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReportPDF(&buf, sampleReport())

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWriteReportPDFWithoutRecommendations(t *testing.T) {
	report := sampleReport()
	report.Recommendations = nil
	report.ProfessionalConsultation = false

	var buf bytes.Buffer
	assert.NoError(t, WriteReportPDF(&buf, report))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteReportsExcel(t *testing.T) {
	second := sampleReport()
	second.ID = 8
	second.ReferenceCode = "SKN-0003-0008"

	var buf bytes.Buffer
	err := WriteReportsExcel(&buf, []model.Report{sampleReport(), second})

	assert.NoError(t, err)
	// xlsx files are zip archives.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestWriteReportsExcelEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteReportsExcel(&buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestOverallAssessmentVariants(t *testing.T) {
	assert.Contains(t, overallAssessment(true, true), "nutritional imbalance")
	assert.Contains(t, overallAssessment(true, false), "One area")
	assert.Contains(t, overallAssessment(false, true), "One area")
	assert.Contains(t, overallAssessment(false, false), "within normal limits")
}

func TestDecodeRecommendations(t *testing.T) {
	assert.Nil(t, decodeRecommendations(nil))
	assert.Nil(t, decodeRecommendations([]byte("not json")))
	assert.Equal(t, []string{"a", "b"}, decodeRecommendations([]byte(`["a","b"]`)))
}
