// Package security screens user-supplied text for injection payloads before
// it is persisted or echoed back to other users.
package security

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// ScreenResult contains the result of an injection check on a field value.
type ScreenResult struct {
	IsSQLi      bool   // True if a SQL injection pattern was detected
	IsXSS       bool   // True if a cross-site scripting pattern was detected
	Fingerprint string // libinjection fingerprint for SQLi detections
	FieldName   string // Name of the field that failed the check
}

// ScreenField checks one field of user input for SQL injection and XSS
// patterns. Returns nil when the value is clean.
//
// Comment bodies and project descriptions are rendered to other users, so
// both checks apply; libinjection keeps this cheap enough to run on every
// write.
func ScreenField(fieldName, value string) *ScreenResult {
	if value == "" {
		return nil
	}

	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		return &ScreenResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			FieldName:   fieldName,
		}
	}

	if libinjection.IsXSS(value) {
		return &ScreenResult{
			IsXSS:     true,
			FieldName: fieldName,
		}
	}

	return nil
}

// ScreenFields checks a set of named field values and returns a result for
// each field that failed. Returns an empty slice when everything is clean.
func ScreenFields(fields map[string]string) []*ScreenResult {
	var results []*ScreenResult
	for name, value := range fields {
		if res := ScreenField(name, value); res != nil {
			results = append(results, res)
		}
	}
	return results
}
