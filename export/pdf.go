// Package export renders screening reports as downloadable PDF and Excel
// documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nutriscan-health/nutriscan-api/model"
)

// WriteReportPDF renders one report as a PDF document. The layout mirrors
// the on-screen report: patient metadata, growth summary, image findings,
// recommendations, and the overall assessment.
func WriteReportPDF(w io.Writer, report model.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("NutriScan Health Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "NutriScan Health Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeKeyValueTable(pdf, "Report Details", [][2]string{
		{"Patient Name:", report.ChildName},
		{"Age:", fmt.Sprintf("%.1f years", float64(report.AgeMonths)/12)},
		{"Sex:", strings.Title(report.Sex)},
		{"Date of Report:", report.CreatedAt.Format("2006-01-02")},
		{"Report ID:", report.ReferenceCode},
	})

	writeKeyValueTable(pdf, "WHO Growth Summary", [][2]string{
		{"BMI:", fmt.Sprintf("%.1f", report.BMI)},
		{"WHO Percentile:", fmt.Sprintf("%.1f%%", report.BMIPercentile)},
		{"Z-Score:", fmt.Sprintf("%.2f", report.ZScore)},
		{"Category:", report.BMICategory},
	})

	writeKeyValueTable(pdf, "Risk Assessment", [][2]string{
		{"Risk Score:", fmt.Sprintf("%d/100", report.RiskScore)},
		{"Risk Level:", report.RiskLevel},
		{"Nutrition Status:", report.NutritionStatus},
	})

	writeKeyValueTable(pdf, "Image Summary", [][2]string{
		{"Skin:", fmt.Sprintf("%s (%s)", report.SkinLabel, report.SkinSeverity)},
		{"Nail:", fmt.Sprintf("%s (%s)", report.NailLabel, report.NailSeverity)},
	})

	skinUnhealthy := strings.Contains(report.SkinLabel, "unhealthy")
	nailUnhealthy := strings.Contains(report.NailLabel, "unhealthy")

	writeBulletSection(pdf, "Skin Health Findings", skinFindings(skinUnhealthy))
	writeBulletSection(pdf, "Nail Health Findings", nailFindings(nailUnhealthy))

	if recs := decodeRecommendations(report.Recommendations); len(recs) > 0 {
		writeBulletSection(pdf, "Personalized Recommendations", recs)
	}

	if report.ProfessionalConsultation {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, "Important Notice", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, "Based on this assessment, consulting a healthcare professional is recommended for further evaluation and guidance.", "", "L", false)
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 5, overallAssessment(skinUnhealthy, nailUnhealthy), "", "L", false)

	return pdf.Output(w)
}

func writeKeyValueTable(pdf *gofpdf.Fpdf, title string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(90, 7, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeBulletSection(pdf *gofpdf.Fpdf, title string, items []string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.MultiCell(0, 5, "- "+item, "", "L", false)
	}
	pdf.Ln(3)
}

func decodeRecommendations(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var recs []string
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil
	}
	return recs
}

func skinFindings(unhealthy bool) []string {
	if unhealthy {
		return []string{
			"Texture or color patterns suggest potential nutritional or dermatologic concern.",
			"Consider hydration optimization and review for micronutrient gaps (vitamin A/E, zinc).",
			"If persistent for more than 2 weeks or symptomatic (itching, pain), seek clinician review.",
		}
	}
	return []string{
		"No suspicious lesions or dyschromia detected by the model.",
		"Maintain sun protection and routine moisturization.",
	}
}

func nailFindings(unhealthy bool) []string {
	if unhealthy {
		return []string{
			"Surface features may reflect iron/protein deficiency or mechanical trauma.",
			"Check for brittleness, discoloration, or periungual swelling over the next weeks.",
			"Discuss diet rich in iron, protein, biotin; seek care if changes progress.",
		}
	}
	return []string{
		"Color and attachment appear within expected range.",
		"Maintain trimming hygiene; avoid prolonged moisture exposure.",
	}
}

func overallAssessment(skinUnhealthy, nailUnhealthy bool) string {
	switch {
	case skinUnhealthy && nailUnhealthy:
		return "Combined skin and nail findings increase the likelihood of nutritional imbalance. Review dietary intake, hydration, and consider clinician follow-up."
	case skinUnhealthy || nailUnhealthy:
		return "One area shows abnormalities. Monitor 2-4 weeks and reinforce diet, sleep, hydration, and hygiene. Escalate if symptoms worsen."
	default:
		return "Skin and nail findings are within normal limits. Continue healthy routines and periodic monitoring."
	}
}
