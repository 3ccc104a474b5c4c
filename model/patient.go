package model

import "gorm.io/gorm"

// Patient is a child profile owned by a user account.
// @Description Child profile used for growth screening
type Patient struct {
	gorm.Model
	UserID    uint    `json:"user_id" gorm:"column:user_id;index"`
	ChildName string  `json:"child_name" gorm:"column:child_name" example:"Siti Rahma"`
	Sex       string  `json:"sex" gorm:"column:sex;type:varchar(16)" example:"female"`
	AgeMonths int     `json:"age_months" gorm:"column:age_months" example:"54"`
	HeightCm  float64 `json:"height_cm" gorm:"column:height_cm" example:"104.5"`
	WeightKg  float64 `json:"weight_kg" gorm:"column:weight_kg" example:"16.2"`
}
