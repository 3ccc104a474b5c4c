package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report is one completed screening run. Rows are immutable after creation:
// a repeat analysis inserts a new row, it never updates an old one. The
// child's demographics are denormalized in so the report stays meaningful
// even after the profile is edited or deleted.
type Report struct {
	gorm.Model
	UserID        uint   `json:"user_id" gorm:"column:user_id;index"`
	PatientID     uint   `json:"patient_id" gorm:"column:patient_id;index"`
	ReferenceCode string `json:"reference_code" gorm:"column:reference_code;type:varchar(32);uniqueIndex"`

	ChildName string  `json:"child_name" gorm:"column:child_name"`
	AgeMonths int     `json:"age_months" gorm:"column:age_months"`
	Sex       string  `json:"sex" gorm:"column:sex;type:varchar(16)"`
	HeightCm  float64 `json:"height_cm" gorm:"column:height_cm"`
	WeightKg  float64 `json:"weight_kg" gorm:"column:weight_kg"`
	BMI       float64 `json:"bmi" gorm:"column:bmi"`

	BMIPercentile float64 `json:"bmi_percentile" gorm:"column:bmi_percentile"`
	ZScore        float64 `json:"z_score" gorm:"column:z_score"`
	BMICategory   string  `json:"bmi_category" gorm:"column:bmi_category;type:varchar(32)"`
	Extrapolated  bool    `json:"extrapolated" gorm:"column:extrapolated"`

	SkinLabel      string  `json:"skin_label" gorm:"column:skin_label;type:varchar(32)"`
	SkinConfidence float64 `json:"skin_confidence" gorm:"column:skin_confidence"`
	SkinSeverity   string  `json:"skin_severity" gorm:"column:skin_severity;type:varchar(16)"`
	SkinImagePath  string  `json:"skin_image_path" gorm:"column:skin_image_path;type:varchar(255)"`

	NailLabel      string  `json:"nail_label" gorm:"column:nail_label;type:varchar(32)"`
	NailConfidence float64 `json:"nail_confidence" gorm:"column:nail_confidence"`
	NailSeverity   string  `json:"nail_severity" gorm:"column:nail_severity;type:varchar(16)"`
	NailImagePath  string  `json:"nail_image_path" gorm:"column:nail_image_path;type:varchar(255)"`

	RiskScore                int            `json:"risk_score" gorm:"column:risk_score"`
	RiskLevel                string         `json:"risk_level" gorm:"column:risk_level;type:varchar(16);index"`
	NutritionStatus          string         `json:"nutrition_status" gorm:"column:nutrition_status;type:varchar(16);index"`
	ProfessionalConsultation bool           `json:"professional_consultation" gorm:"column:professional_consultation"`
	Recommendations          datatypes.JSON `json:"recommendations" gorm:"column:recommendations;type:json"`
}
