package model

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiskRecord is one row of the risk assessment master data
type RiskRecord struct {
	ID               int64     `json:"id"`
	RID              uuid.UUID `json:"rid"`
	TaskName         string    `json:"task_name"`
	RiskFactor       string    `json:"risk_factor"` // Natural dedup key of a result set
	AccidentType     string    `json:"accident_type"`
	MeasuresAdmin    string    `json:"measures_admin,omitempty"`
	MeasuresTech     string    `json:"measures_tech,omitempty"`
	MeasuresPersonal string    `json:"measures_personal,omitempty"`
	Frequency        int       `json:"risk_frequency,omitempty"` // 1-4, 0 if unknown
	Severity         int       `json:"risk_severity,omitempty"`  // 1-5, 0 if unknown
	CreatedAt        time.Time `json:"created_at"`
}

// AllMeasures joins the administrative, technical and personal measures with single spaces
func (r *RiskRecord) AllMeasures() string {
	return r.MeasuresAdmin + " " + r.MeasuresTech + " " + r.MeasuresPersonal
}

// ContainsAny reports whether any keyword is a substring of the task name, risk factor,
// administrative measures or technical measures. Personal measures are not searched.
func (r *RiskRecord) ContainsAny(keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(r.TaskName, kw) ||
			strings.Contains(r.RiskFactor, kw) ||
			strings.Contains(r.MeasuresAdmin, kw) ||
			strings.Contains(r.MeasuresTech, kw) {
			return true
		}
	}
	return false
}

// Grade returns the frequency x severity grade, or nil if either value is off scale
func (r *RiskRecord) Grade() *RiskGrade {
	grade, err := CalculateRiskGrade(r.Frequency, r.Severity)
	if err != nil {
		return nil
	}
	return grade
}

// NewRiskRecordsFromFile reads a JSON array of records.
// IDs in the file are kept; stores assign their own when inserting.
func NewRiskRecordsFromFile(filePath string) ([]*RiskRecord, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var records []*RiskRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, err
	}

	return records, nil
}
