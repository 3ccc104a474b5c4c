package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/nutriscan-health/nutriscan-api/model"
)

// WriteReportsExcel writes the reports as a single-sheet workbook, one row
// per screening, newest first as provided by the caller.
func WriteReportsExcel(w io.Writer, reports []model.Report) error {
	headers := map[string]string{
		"A1": "Report ID",
		"B1": "Date",
		"C1": "Child",
		"D1": "Age (months)",
		"E1": "Sex",
		"F1": "BMI",
		"G1": "Percentile",
		"H1": "Z-Score",
		"I1": "Category",
		"J1": "Skin",
		"K1": "Nail",
		"L1": "Risk Score",
		"M1": "Risk Level",
		"N1": "Status",
		"O1": "Recommendations",
	}

	file := excelize.NewFile()
	sheet := "Reports"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(sheet, k, v)
	}

	for i := range reports {
		appendReportRow(sheet, file, i, reports)
	}

	return file.Write(w)
}

func appendReportRow(sheet string, file *excelize.File, index int, rows []model.Report) {
	rowCount := index + 2
	report := rows[index]
	file.SetCellValue(sheet, fmt.Sprintf("A%v", rowCount), report.ReferenceCode)
	file.SetCellValue(sheet, fmt.Sprintf("B%v", rowCount), report.CreatedAt.Format("2006-01-02"))
	file.SetCellValue(sheet, fmt.Sprintf("C%v", rowCount), report.ChildName)
	file.SetCellValue(sheet, fmt.Sprintf("D%v", rowCount), report.AgeMonths)
	file.SetCellValue(sheet, fmt.Sprintf("E%v", rowCount), report.Sex)
	file.SetCellValue(sheet, fmt.Sprintf("F%v", rowCount), report.BMI)
	file.SetCellValue(sheet, fmt.Sprintf("G%v", rowCount), report.BMIPercentile)
	file.SetCellValue(sheet, fmt.Sprintf("H%v", rowCount), report.ZScore)
	file.SetCellValue(sheet, fmt.Sprintf("I%v", rowCount), report.BMICategory)
	file.SetCellValue(sheet, fmt.Sprintf("J%v", rowCount), report.SkinLabel)
	file.SetCellValue(sheet, fmt.Sprintf("K%v", rowCount), report.NailLabel)
	file.SetCellValue(sheet, fmt.Sprintf("L%v", rowCount), report.RiskScore)
	file.SetCellValue(sheet, fmt.Sprintf("M%v", rowCount), report.RiskLevel)
	file.SetCellValue(sheet, fmt.Sprintf("N%v", rowCount), report.NutritionStatus)
	file.SetCellValue(sheet, fmt.Sprintf("O%v", rowCount), strings.Join(decodeRecommendations(report.Recommendations), " | "))
}
