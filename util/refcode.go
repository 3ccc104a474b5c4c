package util

import "fmt"

// ReferenceCode builds the human-readable report identifier printed on
// exports, e.g. SKN-0012-0345 for patient 12, report 345.
func ReferenceCode(patientID, reportID uint) string {
	return fmt.Sprintf("SKN-%04d-%04d", patientID, reportID)
}
