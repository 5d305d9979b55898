package retrieval

import (
	"context"

	"github.com/newtechremo/riskrec/model"
)

// MemorySource serves candidates from records loaded ahead of time
type MemorySource struct {
	records []*model.RiskRecord
}

// NewMemorySource creates a source over the records, keeping their order
func NewMemorySource(records []*model.RiskRecord) *MemorySource {
	return &MemorySource{records: records}
}

// SelectRiskCandidates filters the preloaded records with the candidate predicate
func (m *MemorySource) SelectRiskCandidates(ctx context.Context, keywords []string) ([]*model.RiskRecord, error) {
	candidates := []*model.RiskRecord{}
	for _, record := range m.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if record != nil && record.ContainsAny(keywords) {
			candidates = append(candidates, record)
		}
	}
	return candidates, nil
}
