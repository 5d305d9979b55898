package ranking

import (
	"fmt"
	"strings"

	"github.com/newtechremo/riskrec/model"
)

// Scoring rule v1.1
const (
	TaskNamePoints   = 40
	RiskFactorPoints = 20
	MeasuresPoints   = 10

	HighRiskBonus      = 30
	CompositeBonus     = 30
	CompositeThreshold = 2 // distinct matched keywords

	ReasonSeparator = " + "
)

// highRiskAccidentTypes is read-only after package initialization.
var highRiskAccidentTypes = []string{"떨어짐", "끼임", "질식", "화재폭발"}

var highRiskSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(highRiskAccidentTypes))
	for _, t := range highRiskAccidentTypes {
		set[t] = struct{}{}
	}
	return set
}()

// IsHighRisk reports whether the accident type receives the high-risk bonus
func IsHighRisk(accidentType string) bool {
	_, ok := highRiskSet[accidentType]
	return ok
}

// HighRiskAccidentTypes returns a copy of the high-risk accident types
func HighRiskAccidentTypes() []string {
	types := make([]string, len(highRiskAccidentTypes))
	copy(types, highRiskAccidentTypes)
	return types
}

// ScoreOne scores a single record against the keywords and returns the
// fired rules in order: keyword fits in input order, then the high-risk
// bonus, then the composite bonus.
//
// Each keyword earns points for the first field containing it, checked in
// the order task name, risk factor, measures. A repeated keyword is scored
// and explained again, but counts once towards the composite bonus.
func ScoreOne(record *model.RiskRecord, keywords []string) (int, []string) {
	score := 0
	var reasons []string
	matched := make(map[string]struct{})

	allMeasures := record.AllMeasures()

	for _, kw := range keywords {
		switch {
		case strings.Contains(record.TaskName, kw):
			score += TaskNamePoints
			reasons = append(reasons, fmt.Sprintf("작업명 '%s' 매칭(%d)", kw, TaskNamePoints))
		case strings.Contains(record.RiskFactor, kw):
			score += RiskFactorPoints
			reasons = append(reasons, fmt.Sprintf("위험요인 '%s' 매칭(%d)", kw, RiskFactorPoints))
		case strings.Contains(allMeasures, kw):
			score += MeasuresPoints
			reasons = append(reasons, fmt.Sprintf("대책 '%s' 매칭(%d)", kw, MeasuresPoints))
		default:
			continue
		}
		matched[kw] = struct{}{}
	}

	if IsHighRisk(record.AccidentType) {
		score += HighRiskBonus
		reasons = append(reasons, fmt.Sprintf("고위험 '%s'(%d)", record.AccidentType, HighRiskBonus))
	}

	if len(matched) >= CompositeThreshold {
		score += CompositeBonus
		reasons = append(reasons, fmt.Sprintf("복합매칭 %d개(%d)", len(matched), CompositeBonus))
	}

	return score, reasons
}
