package model

import (
	"fmt"

	"github.com/newtechremo/riskrec/helper"
)

// Grade labels of the 4x5 risk matrix
const (
	GradeLow    = "하"
	GradeMedium = "중"
	GradeHigh   = "고"
)

// RiskGrade is the frequency x severity assessment of a record
type RiskGrade struct {
	Score int    `json:"score"` // 1-20
	Grade string `json:"grade"`
	Color string `json:"color"`
}

// Level describes one step of the frequency or severity scale
type Level struct {
	Value       int
	Label       string
	Description string
}

var FrequencyLevels = []Level{
	{Value: 1, Label: "매우 드묾", Description: "1년에 1회 미만"},
	{Value: 2, Label: "가끔", Description: "1년에 수 회"},
	{Value: 3, Label: "자주", Description: "월 1회 이상"},
	{Value: 4, Label: "매우 자주", Description: "주 1회 이상"},
}

var SeverityLevels = []Level{
	{Value: 1, Label: "경미", Description: "응급처치 수준"},
	{Value: 2, Label: "경상", Description: "의료처치 필요"},
	{Value: 3, Label: "중상", Description: "휴업 필요"},
	{Value: 4, Label: "중대재해", Description: "영구 장애"},
	{Value: 5, Label: "사망", Description: "사망사고 가능"},
}

// CalculateRiskGrade grades frequency (1-4) x severity (1-5):
// 1-6 low, 7-14 medium, 15-20 high.
func CalculateRiskGrade(frequency, severity int) (*RiskGrade, error) {
	if frequency < 1 || frequency > len(FrequencyLevels) {
		return nil, helper.NewError("calculate risk grade", fmt.Errorf("frequency %d out of range 1-%d", frequency, len(FrequencyLevels)))
	}
	if severity < 1 || severity > len(SeverityLevels) {
		return nil, helper.NewError("calculate risk grade", fmt.Errorf("severity %d out of range 1-%d", severity, len(SeverityLevels)))
	}

	score := frequency * severity
	switch {
	case score <= 6:
		return &RiskGrade{Score: score, Grade: GradeLow, Color: "#22C55E"}, nil
	case score <= 14:
		return &RiskGrade{Score: score, Grade: GradeMedium, Color: "#F59E0B"}, nil
	default:
		return &RiskGrade{Score: score, Grade: GradeHigh, Color: "#EF4444"}, nil
	}
}
