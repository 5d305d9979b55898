package ranking

import (
	"sort"
	"strings"

	"github.com/newtechremo/riskrec/model"
)

// ScoreAndRank scores the candidates and returns at most limit recommendations,
// highest score first.
//
// Records scoring zero are dropped. Of several records sharing a risk factor
// only the first in candidate order is kept, even if a later one scores higher.
// Equal scores keep candidate order.
func ScoreAndRank(candidates []*model.RiskRecord, keywords []string, limit int) []*model.ScoredRecommendation {
	results := []*model.ScoredRecommendation{}
	if limit <= 0 {
		return results
	}

	seenRiskFactors := make(map[string]struct{})

	for _, record := range candidates {
		if record == nil {
			continue
		}

		score, reasons := ScoreOne(record, keywords)
		if score == 0 {
			continue
		}

		if _, seen := seenRiskFactors[record.RiskFactor]; seen {
			continue
		}
		seenRiskFactors[record.RiskFactor] = struct{}{}

		results = append(results, &model.ScoredRecommendation{
			ID:           record.ID,
			TaskName:     record.TaskName,
			RiskFactor:   record.RiskFactor,
			AccidentType: record.AccidentType,
			Score:        score,
			Reason:       strings.Join(reasons, ReasonSeparator),
			Grade:        record.Grade(),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results
}
