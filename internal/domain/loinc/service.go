package loinc

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// Validation errors surfaced verbatim to the API caller.
var (
	ErrQueryTooShort    = errors.New("Query must be at least 2 characters")
	ErrCategoryRequired = errors.New("Category is required")
	ErrInvalidCategory  = errors.New("Invalid category")
)

// Service validates search requests and runs the fetch-then-rank pipeline.
type Service struct {
	client Searcher
}

// NewService creates a LOINC search service.
func NewService(client Searcher) *Service {
	return &Service{client: client}
}

// Search validates the query and category, fetches raw candidates from the
// terminology service and returns the relevance-ranked results. Validation
// failures are returned before any outbound call is made. An empty result
// set is a successful outcome, not an error.
func (s *Service) Search(ctx context.Context, rawQuery, category string) ([]Result, error) {
	// Length is counted in characters, not bytes, so a single accented
	// letter is still rejected as too short.
	query := strings.TrimSpace(rawQuery)
	if utf8.RuneCountInString(query) < 2 {
		return nil, ErrQueryTooShort
	}
	if category == "" {
		return nil, ErrCategoryRequired
	}

	rule, ok := ResolveCategory(category)
	if !ok {
		return nil, ErrInvalidCategory
	}

	candidates, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	return Rank(query, rule, candidates), nil
}
