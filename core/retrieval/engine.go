package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newtechremo/riskrec/core/ranking"
	"github.com/newtechremo/riskrec/helper"
	"github.com/newtechremo/riskrec/model"
)

// CandidateSource returns every record in which any keyword is a substring of the
// task name, risk factor, administrative measures or technical measures.
// Implementations hold a store connection only for the duration of one call.
type CandidateSource interface {
	SelectRiskCandidates(ctx context.Context, keywords []string) ([]*model.RiskRecord, error)
}

// Engine runs the two stages of a recommendation: candidate retrieval and ranking
type Engine struct {
	source CandidateSource
	log    *slog.Logger
}

// NewEngine creates a new retrieval engine
func NewEngine(source CandidateSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		source: source,
		log:    logger,
	}
}

// Retrieve returns the candidates for the keywords in store order.
// No keywords means no candidates, and the source is not queried.
func (e *Engine) Retrieve(ctx context.Context, keywords []string) ([]*model.RiskRecord, error) {
	if len(keywords) == 0 {
		return []*model.RiskRecord{}, nil
	}
	if e.source == nil {
		return nil, helper.StoreUnavailable("retrieve candidates", fmt.Errorf("candidate source not set"))
	}

	candidates, err := e.source.SelectRiskCandidates(ctx, keywords)
	if err != nil {
		return nil, helper.NewError("retrieve candidates", err)
	}

	e.log.Debug("Retrieved candidates", slog.Int("candidates", len(candidates)), slog.Any("keywords", keywords))

	return candidates, nil
}

// Recommend retrieves, scores and ranks the records for the query
func (e *Engine) Recommend(ctx context.Context, query *model.Query) ([]*model.ScoredRecommendation, error) {
	if query == nil {
		return nil, helper.NewError("recommend", fmt.Errorf("query is nil"))
	}
	if len(query.Keywords) == 0 {
		return []*model.ScoredRecommendation{}, nil
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if query.Category != nil {
		e.log.Debug("Category filter is not applied to candidates", slog.String("category", *query.Category))
	}

	candidates, err := e.Retrieve(ctx, query.Keywords)
	if err != nil {
		return nil, err
	}

	results := ranking.ScoreAndRank(candidates, query.Keywords, query.Limit)

	e.log.Info(
		"Ranked recommendations",
		slog.Any("keywords", query.Keywords),
		slog.Int("candidates", len(candidates)),
		slog.Int("results", len(results)),
	)

	return results, nil
}
