package model

import (
	"fmt"

	"github.com/newtechremo/riskrec/helper"
)

// DefaultLimit is the number of recommendations returned when no limit is given
const DefaultLimit = 50

// Query represents one recommendation request
type Query struct {
	Keywords []string `json:"keywords"`
	// Category is accepted for callers that filter by main work category,
	// but it is not part of the candidate predicate.
	Category *string `json:"category,omitempty"`
	Limit    int     `json:"limit"`
}

// NewQuery returns a query for the keywords with the default limit
func NewQuery(keywords ...string) *Query {
	return &Query{
		Keywords: keywords,
		Limit:    DefaultLimit,
	}
}

// Validate rejects a negative limit
func (q *Query) Validate() error {
	if q.Limit < 0 {
		return helper.NewError("validate query", fmt.Errorf("%w: %d", helper.ErrInvalidLimit, q.Limit))
	}
	return nil
}
