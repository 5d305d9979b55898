package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/newtechremo/riskrec/model"
)

const (
	// TopN is the number of recommendations printed in full
	TopN = 10
	// TopAccidentTypes is the number of accident types listed in the distribution
	TopAccidentTypes = 5
	// MaxRiskFactorRunes is the printed length of a risk factor before it is cut
	MaxRiskFactorRunes = 60

	lineWidth = 70
)

// AccidentTypeCount is the number of results with one accident type
type AccidentTypeCount struct {
	AccidentType string `json:"accident_type"`
	Count        int    `json:"count"`
}

// Summary holds the score statistics of a result set
type Summary struct {
	Total         int                 `json:"total"`
	MaxScore      int                 `json:"max_score"`
	MinScore      int                 `json:"min_score"`
	MeanScore     float64             `json:"mean_score"` // Rounded to one decimal
	AccidentTypes []AccidentTypeCount `json:"accident_types"`
}

// Summarize computes the score statistics and the most frequent accident types.
// An empty result set gives a zero Summary.
func Summarize(results []*model.ScoredRecommendation) Summary {
	summary := Summary{Total: len(results), AccidentTypes: []AccidentTypeCount{}}
	if len(results) == 0 {
		return summary
	}

	summary.MaxScore = results[0].Score
	summary.MinScore = results[0].Score
	sum := 0
	counts := map[string]int{}
	order := []string{}
	for _, r := range results {
		if r.Score > summary.MaxScore {
			summary.MaxScore = r.Score
		}
		if r.Score < summary.MinScore {
			summary.MinScore = r.Score
		}
		sum += r.Score

		if _, ok := counts[r.AccidentType]; !ok {
			order = append(order, r.AccidentType)
		}
		counts[r.AccidentType]++
	}

	mean := float64(sum) / float64(len(results))
	summary.MeanScore = float64(int(mean*10+0.5)) / 10

	for _, accidentType := range order {
		summary.AccidentTypes = append(summary.AccidentTypes, AccidentTypeCount{
			AccidentType: accidentType,
			Count:        counts[accidentType],
		})
	}
	// Ties keep first appearance order.
	sort.SliceStable(summary.AccidentTypes, func(i, j int) bool {
		return summary.AccidentTypes[i].Count > summary.AccidentTypes[j].Count
	})
	if len(summary.AccidentTypes) > TopAccidentTypes {
		summary.AccidentTypes = summary.AccidentTypes[:TopAccidentTypes]
	}

	return summary
}

// Print writes a human readable report of the top recommendations followed by the summary.
func Print(w io.Writer, results []*model.ScoredRecommendation, title string) {
	heading := color.New(color.Bold)
	rank := color.New(color.FgCyan, color.Bold)
	muted := color.New(color.Faint)

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))
	heading.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))
	fmt.Fprintf(w, " 총 %d건 추천\n", len(results))
	fmt.Fprintln(w, strings.Repeat("-", lineWidth))

	for i, r := range results {
		if i >= TopN {
			break
		}
		fmt.Fprintln(w)
		rank.Fprintf(w, "[%d위]", i+1)
		fmt.Fprintf(w, " 점수: %d점\n", r.Score)
		fmt.Fprintf(w, "    작업명: %s\n", r.TaskName)
		fmt.Fprintf(w, "    위험요인: %s\n", Truncate(r.RiskFactor, MaxRiskFactorRunes))
		fmt.Fprintf(w, "    재해형태: %s\n", r.AccidentType)
		fmt.Fprintf(w, "    추천근거: %s\n", r.Reason)
		if r.Grade != nil {
			fmt.Fprintf(w, "    위험성: ")
			gradeColor(r.Grade.Grade).Fprintf(w, "%s(%d)", r.Grade.Grade, r.Grade.Score)
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", lineWidth))
	if len(results) > TopN {
		muted.Fprintf(w, " (상위 %d개만 표시, 전체 %d건)\n", TopN, len(results))
	}
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))

	if len(results) == 0 {
		return
	}

	summary := Summarize(results)
	fmt.Fprintln(w)
	heading.Fprintln(w, "[점수 통계]")
	fmt.Fprintf(w, "  최고점: %d점\n", summary.MaxScore)
	fmt.Fprintf(w, "  최저점: %d점\n", summary.MinScore)
	fmt.Fprintf(w, "  평균: %.1f점\n", summary.MeanScore)

	fmt.Fprintln(w)
	heading.Fprintln(w, "[재해형태 분포]")
	for _, at := range summary.AccidentTypes {
		fmt.Fprintf(w, "  %s: %d건\n", at.AccidentType, at.Count)
	}
}

// Truncate cuts s to max runes and appends "..." when anything was cut
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func gradeColor(grade string) *color.Color {
	switch grade {
	case model.GradeHigh:
		return color.New(color.FgRed, color.Bold)
	case model.GradeMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
