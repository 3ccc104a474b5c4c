package endpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
	"github.com/nutriscan-health/nutriscan-api/who"
)

type patientListQuery struct {
	Limit   int
	Offset  int
	Keyword string
}

func parsePatientListQuery(c *gin.Context) patientListQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return patientListQuery{
		Limit:   limit,
		Offset:  offset,
		Keyword: c.Query("keyword"),
	}
}

func fetchPatients(db *gorm.DB, userID uint, q patientListQuery) ([]model.Patient, int64, error) {
	var patients []model.Patient
	var total int64

	query := db.Where("user_id = ?", userID).Order("created_at DESC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Keyword != "" {
		query = query.Where("child_name LIKE ?", "%"+q.Keyword+"%")
	}

	if err := query.Find(&patients).Error; err != nil {
		return nil, 0, err
	}

	db.Model(&model.Patient{}).Where("user_id = ?", userID).Count(&total)
	return patients, total, nil
}

// ListPatients godoc
// @Summary      List child profiles
// @Description  Get a paginated list of the authenticated user's child profiles
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Param        keyword query string false "Search keyword for child name"
// @Success      200 {object} util.APIResponse{data=object} "Patients retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient [get]
func ListPatients(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patients, total, err := fetchPatients(db, userID, parsePatientListQuery(c))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patients", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patients retrieved",
		Data: map[string]interface{}{"total": total, "total_fetched": len(patients), "patients": patients},
	})
}

type patientRequest struct {
	ChildName string  `json:"child_name" binding:"required" example:"Siti Rahma"`
	Sex       string  `json:"sex" binding:"required" example:"female"`
	AgeMonths int     `json:"age_months" binding:"required" example:"54"`
	HeightCm  float64 `json:"height_cm" binding:"required" example:"104.5"`
	WeightKg  float64 `json:"weight_kg" binding:"required" example:"16.2"`
}

func validatePatientRequest(c *gin.Context, req *patientRequest) bool {
	sex, err := who.ParseSex(req.Sex)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid sex value", Err: err})
		return false
	}
	req.Sex = string(sex)

	if req.AgeMonths <= 0 || req.AgeMonths > 240 {
		util.CallUserError(c, util.APIErrorParams{Msg: "Age must be between 1 and 240 months", Err: fmt.Errorf("age_months out of range")})
		return false
	}
	if req.HeightCm <= 0 || req.WeightKg <= 0 {
		util.CallUserError(c, util.APIErrorParams{Msg: "Height and weight must be positive", Err: fmt.Errorf("non-positive measurement")})
		return false
	}
	req.ChildName = util.NormalizeName(req.ChildName)
	if req.ChildName == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Child name cannot be empty", Err: fmt.Errorf("empty child_name")})
		return false
	}
	return true
}

// CreatePatient godoc
// @Summary      Create a child profile
// @Description  Register a child profile under the authenticated user
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body patientRequest true "Child profile"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient [post]
func CreatePatient(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}

	var req patientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	if !validatePatientRequest(c, &req) {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	// Same name under the same account is almost always a double submit.
	var existing model.Patient
	err := db.Where("user_id = ? AND child_name = ?", userID, req.ChildName).First(&existing).Error
	if err == nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "A child profile with this name already exists",
			Err: fmt.Errorf("duplicate child profile"),
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check existing profiles", Err: err})
		return
	}

	patient := model.Patient{
		UserID:    userID,
		ChildName: req.ChildName,
		Sex:       strings.ToLower(req.Sex),
		AgeMonths: req.AgeMonths,
		HeightCm:  req.HeightCm,
		WeightKg:  req.WeightKg,
	}
	if err := db.Create(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient created",
		Data: patient,
	})
}

// getOwnedPatient loads the profile and enforces ownership. A profile that
// exists but belongs to someone else responds 404, not 403, so IDs don't leak.
func getOwnedPatient(c *gin.Context, db *gorm.DB, userID, patientID uint) (model.Patient, bool) {
	var patient model.Patient
	err := db.Where("id = ? AND user_id = ?", patientID, userID).First(&patient).Error
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
		return model.Patient{}, false
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patient", Err: err})
		return model.Patient{}, false
	}
	return patient, true
}

// GetPatientInfo godoc
// @Summary      Get a child profile
// @Description  Get detailed information about one of the user's child profiles
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id} [get]
func GetPatientInfo(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	patientID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getOwnedPatient(c, db, userID, patientID)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient retrieved",
		Data: patient,
	})
}

type updatePatientRequest struct {
	ChildName string  `json:"child_name"`
	Sex       string  `json:"sex"`
	AgeMonths int     `json:"age_months"`
	HeightCm  float64 `json:"height_cm"`
	WeightKg  float64 `json:"weight_kg"`
}

// UpdatePatient godoc
// @Summary      Update a child profile
// @Description  Update measurements or demographics for one of the user's profiles
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Param        request body updatePatientRequest true "Fields to update"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id} [patch]
func UpdatePatient(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	patientID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getOwnedPatient(c, db, userID, patientID)
	if !ok {
		return
	}

	if req.ChildName != "" {
		patient.ChildName = util.NormalizeName(req.ChildName)
	}
	if req.Sex != "" {
		sex, err := who.ParseSex(req.Sex)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid sex value", Err: err})
			return
		}
		patient.Sex = string(sex)
	}
	if req.AgeMonths != 0 {
		if req.AgeMonths < 0 || req.AgeMonths > 240 {
			util.CallUserError(c, util.APIErrorParams{Msg: "Age must be between 1 and 240 months", Err: fmt.Errorf("age_months out of range")})
			return
		}
		patient.AgeMonths = req.AgeMonths
	}
	if req.HeightCm != 0 {
		if req.HeightCm < 0 {
			util.CallUserError(c, util.APIErrorParams{Msg: "Height must be positive", Err: fmt.Errorf("negative height_cm")})
			return
		}
		patient.HeightCm = req.HeightCm
	}
	if req.WeightKg != 0 {
		if req.WeightKg < 0 {
			util.CallUserError(c, util.APIErrorParams{Msg: "Weight must be positive", Err: fmt.Errorf("negative weight_kg")})
			return
		}
		patient.WeightKg = req.WeightKg
	}

	if err := db.Save(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patient updated",
		Data: patient,
	})
}

// DeletePatient godoc
// @Summary      Delete a child profile
// @Description  Soft delete one of the user's child profiles; past reports are kept
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse "Patient deleted"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id} [delete]
func DeletePatient(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	patientID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getOwnedPatient(c, db, userID, patientID)
	if !ok {
		return
	}

	if err := db.Delete(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Patient deleted",
	})
}
