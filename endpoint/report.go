package endpoint

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutriscan-health/nutriscan-api/export"
	"github.com/nutriscan-health/nutriscan-api/model"
	"github.com/nutriscan-health/nutriscan-api/util"
)

type reportListQuery struct {
	Limit     int
	Offset    int
	PatientID uint
	RiskLevel string
}

func parseReportListQuery(c *gin.Context) reportListQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	patientID, _ := strconv.ParseUint(c.Query("patient_id"), 10, 32)
	return reportListQuery{
		Limit:     limit,
		Offset:    offset,
		PatientID: uint(patientID),
		RiskLevel: c.Query("risk_level"),
	}
}

func fetchReports(db *gorm.DB, userID uint, q reportListQuery) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	base := db.Model(&model.Report{}).Where("user_id = ?", userID)
	if q.PatientID > 0 {
		base = base.Where("patient_id = ?", q.PatientID)
	}
	if q.RiskLevel != "" {
		base = base.Where("risk_level = ?", q.RiskLevel)
	}

	base.Count(&total)

	query := base.Order("created_at DESC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// ListReports godoc
// @Summary      List screening reports
// @Description  Get a paginated list of the user's reports, newest first
// @Tags         Report
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Limit number of results"
// @Param        offset query int false "Offset for pagination"
// @Param        patient_id query int false "Filter by child profile"
// @Param        risk_level query string false "Filter by risk level (Low, Medium, High, Critical)"
// @Success      200 {object} util.APIResponse{data=object} "Reports retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report [get]
func ListReports(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	reports, total, err := fetchReports(db, userID, parseReportListQuery(c))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve reports", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reports retrieved",
		Data: map[string]interface{}{"total": total, "total_fetched": len(reports), "reports": reports},
	})
}

func getOwnedReport(c *gin.Context, db *gorm.DB, userID, reportID uint) (model.Report, bool) {
	var report model.Report
	err := db.Where("id = ? AND user_id = ?", reportID, userID).First(&report).Error
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Report not found", Err: err})
		return model.Report{}, false
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve report", Err: err})
		return model.Report{}, false
	}
	return report, true
}

// GetReport godoc
// @Summary      Get a screening report
// @Description  Get the full detail of one report
// @Tags         Report
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {object} util.APIResponse{data=model.Report} "Report retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/{id} [get]
func GetReport(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	reportID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	report, ok := getOwnedReport(c, db, userID, reportID)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Report retrieved",
		Data: report,
	})
}

// DeleteReport godoc
// @Summary      Delete a screening report
// @Description  Soft delete one of the user's reports
// @Tags         Report
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {object} util.APIResponse "Report deleted"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/{id} [delete]
func DeleteReport(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	reportID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	report, ok := getOwnedReport(c, db, userID, reportID)
	if !ok {
		return
	}

	if err := db.Delete(&report).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete report", Err: err})
		return
	}

	util.LogReportDeleted(userID, c.ClientIP(), report.ID)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Report deleted",
	})
}

// ExportReportPDF godoc
// @Summary      Download a report as PDF
// @Description  Render one report as a PDF document
// @Tags         Report
// @Produce      application/pdf
// @Security     SessionToken
// @Param        id path int true "Report ID"
// @Success      200 {file} binary "PDF document"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Report not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/{id}/pdf [get]
func ExportReportPDF(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	reportID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	report, ok := getOwnedReport(c, db, userID, reportID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReportPDF(&buf, report); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to render PDF", Err: err})
		return
	}

	util.LogExportDownloaded(userID, c.ClientIP(), "pdf", report.ID)

	filename := fmt.Sprintf("attachment; filename=%s.pdf", report.ReferenceCode)
	c.Header("Content-Disposition", filename)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ExportReportsExcel godoc
// @Summary      Download reports as an Excel workbook
// @Description  Export the user's reports (optionally filtered) as an xlsx file
// @Tags         Report
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     SessionToken
// @Param        patient_id query int false "Filter by child profile"
// @Param        risk_level query string false "Filter by risk level"
// @Success      200 {file} binary "Excel workbook"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /report/export/excel [get]
func ExportReportsExcel(c *gin.Context) {
	userID, ok := getUserIDOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	reports, _, err := fetchReports(db, userID, parseReportListQuery(c))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve reports", Err: err})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReportsExcel(&buf, reports); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to render Excel workbook", Err: err})
		return
	}

	util.LogExportDownloaded(userID, c.ClientIP(), "excel", 0)

	c.Header("Content-Disposition", "attachment; filename=screening-reports.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
