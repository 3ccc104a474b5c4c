package endpoint

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/config"
	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/predict"
	"github.com/nutriscan-health/nutriscan-api/util"
	"github.com/nutriscan-health/nutriscan-api/who"
)

var (
	analysisOnce   sync.Once
	analysisEngine *who.Engine
	classifier     predict.Classifier
)

// SetAnalysisDeps overrides the engine and classifier, for wiring custom
// policy tables in main or fakes in tests.
func SetAnalysisDeps(engine *who.Engine, c predict.Classifier) {
	analysisOnce.Do(func() {})
	analysisEngine = engine
	classifier = c
}

func analysisDeps() (*who.Engine, predict.Classifier, error) {
	var err error
	analysisOnce.Do(func() {
		if analysisEngine == nil {
			analysisEngine, err = who.NewEngine(who.EngineConfig{})
		}
		if classifier == nil {
			classifier = predict.NewHSVClassifier(predict.Thresholds{})
		}
	})
	if analysisEngine == nil || classifier == nil {
		if err == nil {
			err = fmt.Errorf("analysis engine not initialized")
		}
		return nil, nil, err
	}
	return analysisEngine, classifier, nil
}

// saveAnalysisImage stores the upload under a random filename and returns
// the stored path.
func saveAnalysisImage(c *gin.Context, file *multipart.FileHeader, uploadDir string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	dest := filepath.Join(uploadDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func classifyStoredImage(cls predict.Classifier, path string, site who.Site) (who.Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return who.Finding{}, err
	}
	defer f.Close()
	return cls.Classify(f, site)
}

// resolveAnalysisPatient loads the profile named by patient_id, or when the
// form carries measurements instead, creates (or reuses by name) a profile
// on the fly so a first screening needs a single request.
func resolveAnalysisPatient(c *gin.Context, db *gorm.DB, userID uint) (model.Patient, bool) {
	if raw := c.PostForm("patient_id"); raw != "" {
		patientID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || patientID == 0 {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid patient_id", Err: fmt.Errorf("patient_id must be a positive integer")})
			return model.Patient{}, false
		}
		return getOwnedPatient(c, db, userID, uint(patientID))
	}

	ageMonths, _ := strconv.Atoi(c.PostForm("age_months"))
	heightCm, _ := strconv.ParseFloat(c.PostForm("height_cm"), 64)
	weightKg, _ := strconv.ParseFloat(c.PostForm("weight_kg"), 64)
	req := patientRequest{
		ChildName: c.PostForm("child_name"),
		Sex:       c.PostForm("sex"),
		AgeMonths: ageMonths,
		HeightCm:  heightCm,
		WeightKg:  weightKg,
	}
	if req.ChildName == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Provide patient_id or child profile fields", Err: fmt.Errorf("missing patient_id and child_name")})
		return model.Patient{}, false
	}
	if !validatePatientRequest(c, &req) {
		return model.Patient{}, false
	}

	var patient model.Patient
	err := db.Where("user_id = ? AND child_name = ?", userID, req.ChildName).First(&patient).Error
	if err == nil {
		// Known child: refresh the measurements before assessing.
		patient.Sex = req.Sex
		patient.AgeMonths = req.AgeMonths
		patient.HeightCm = req.HeightCm
		patient.WeightKg = req.WeightKg
		if err := db.Save(&patient).Error; err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update patient", Err: err})
			return model.Patient{}, false
		}
		return patient, true
	}
	if err != gorm.ErrRecordNotFound {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check existing profiles", Err: err})
		return model.Patient{}, false
	}

	patient = model.Patient{
		UserID:    userID,
		ChildName: req.ChildName,
		Sex:       req.Sex,
		AgeMonths: req.AgeMonths,
		HeightCm:  req.HeightCm,
		WeightKg:  req.WeightKg,
	}
	if err := db.Create(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create patient", Err: err})
		return model.Patient{}, false
	}
	return patient, true
}

// CreateAnalysis godoc
// @Summary      Run a screening analysis
// @Description  Compute the WHO growth assessment for a child profile, classify the uploaded skin and nail photos, and persist an immutable report. Either patient_id or the child profile fields must be supplied.
// @Tags         Analysis
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionToken
// @Param        patient_id formData int false "Child profile ID"
// @Param        child_name formData string false "Child name, to create or reuse a profile inline"
// @Param        sex formData string false "male or female"
// @Param        age_months formData int false "Age in months"
// @Param        height_cm formData number false "Height in centimeters"
// @Param        weight_kg formData number false "Weight in kilograms"
// @Param        skin_image formData file false "Skin photo (PNG/JPEG/GIF)"
// @Param        nail_image formData file false "Nail photo (PNG/JPEG/GIF)"
// @Success      200 {object} util.APIResponse{data=model.Report} "Analysis complete"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /analysis [post]
func CreateAnalysis(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := resolveAnalysisPatient(c, db, userID)
	if !ok {
		return
	}

	engine, cls, err := analysisDeps()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Analysis engine unavailable", Err: err})
		return
	}

	uploadDir := config.LoadConfig().UploadDir
	findings := make([]who.Finding, 0, 2)
	imagePaths := map[who.Site]string{}
	for _, site := range []who.Site{who.SiteSkin, who.SiteNail} {
		file, ferr := c.FormFile(string(site) + "_image")
		if ferr != nil {
			continue
		}
		path, serr := saveAnalysisImage(c, file, uploadDir)
		if serr != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: fmt.Sprintf("Failed to store %s image", site), Err: serr})
			return
		}
		finding, cerr := classifyStoredImage(cls, path, site)
		if cerr != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: fmt.Sprintf("Could not analyze %s image", site), Err: cerr})
			return
		}
		findings = append(findings, finding)
		imagePaths[site] = path
	}

	snapshot := who.PatientSnapshot{
		Name:      patient.ChildName,
		AgeMonths: patient.AgeMonths,
		Sex:       who.Sex(patient.Sex),
		HeightCm:  patient.HeightCm,
		WeightKg:  patient.WeightKg,
	}
	result, err := engine.BuildReport(snapshot, findings, time.Now())
	if err != nil {
		if _, bad := err.(*who.InvalidInputError); bad {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid measurements for analysis", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Analysis failed", Err: err})
		return
	}

	row := buildReportRow(userID, patient, result, imagePaths)
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		row.ReferenceCode = util.ReferenceCode(patient.ID, row.ID)
		return tx.Model(&row).Update("reference_code", row.ReferenceCode).Error
	})
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to persist report", Err: err})
		return
	}

	util.LogReportCreated(userID, c.ClientIP(), row.ID, row.RiskLevel)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Analysis complete",
		Data: row,
	})
}

func buildReportRow(userID uint, patient model.Patient, result *who.Report, imagePaths map[who.Site]string) model.Report {
	row := model.Report{
		UserID:    userID,
		PatientID: patient.ID,

		ChildName: patient.ChildName,
		AgeMonths: patient.AgeMonths,
		Sex:       patient.Sex,
		HeightCm:  patient.HeightCm,
		WeightKg:  patient.WeightKg,
		BMI:       result.Patient.BMI,

		BMIPercentile: result.Assessment.Percentile,
		ZScore:        result.Assessment.ZScore,
		BMICategory:   string(result.Assessment.Classification),
		Extrapolated:  result.Assessment.Extrapolated,

		RiskScore:                result.Risk.Score,
		RiskLevel:                string(result.Risk.Band),
		NutritionStatus:          string(result.NutritionStatus),
		ProfessionalConsultation: result.Risk.ProfessionalConsultation,
	}

	for _, finding := range result.Findings {
		switch finding.Site {
		case who.SiteSkin:
			row.SkinLabel = finding.Label
			row.SkinConfidence = finding.Confidence
			row.SkinSeverity = string(finding.Severity)
			row.SkinImagePath = imagePaths[who.SiteSkin]
		case who.SiteNail:
			row.NailLabel = finding.Label
			row.NailConfidence = finding.Confidence
			row.NailSeverity = string(finding.Severity)
			row.NailImagePath = imagePaths[who.SiteNail]
		}
	}

	row.Recommendations = marshalRecommendations(result.Risk.Recommendations)
	return row
}

func marshalRecommendations(recs []string) datatypes.JSON {
	if len(recs) == 0 {
		return nil
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
