package loinc

import (
	"context"
	"errors"
	"testing"
)

// mockSearcher records calls and returns canned candidates.
type mockSearcher struct {
	calls      int
	candidates []Candidate
	err        error
}

func (m *mockSearcher) Search(_ context.Context, query string) ([]Candidate, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func TestServiceRejectsShortQueryWithoutUpstreamCall(t *testing.T) {
	mock := &mockSearcher{}
	svc := NewService(mock)

	// "é" and "漢" are single characters despite being multiple bytes.
	for _, q := range []string{"", "a", "  x  ", "\t\n", "é", " 漢 "} {
		_, err := svc.Search(context.Background(), q, "Blood Test")
		if !errors.Is(err, ErrQueryTooShort) {
			t.Errorf("query %q: expected ErrQueryTooShort, got %v", q, err)
		}
	}
	if mock.calls != 0 {
		t.Errorf("terminology client called %d times for invalid queries", mock.calls)
	}

	// Two characters is enough, whatever their byte width.
	if _, err := svc.Search(context.Background(), "éà", "Blood Test"); err != nil {
		t.Errorf("two-character query rejected: %v", err)
	}
	if mock.calls != 1 {
		t.Errorf("terminology client called %d times, want 1", mock.calls)
	}
}

func TestServiceRejectsMissingCategory(t *testing.T) {
	mock := &mockSearcher{}
	svc := NewService(mock)

	_, err := svc.Search(context.Background(), "glucose", "")
	if !errors.Is(err, ErrCategoryRequired) {
		t.Fatalf("expected ErrCategoryRequired, got %v", err)
	}
	if mock.calls != 0 {
		t.Error("terminology client called for missing category")
	}
}

func TestServiceRejectsUnknownCategory(t *testing.T) {
	mock := &mockSearcher{}
	svc := NewService(mock)

	_, err := svc.Search(context.Background(), "glucose", "Stool Test")
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if mock.calls != 0 {
		t.Error("terminology client called for unknown category")
	}
}

func TestServicePropagatesUpstreamError(t *testing.T) {
	mock := &mockSearcher{err: ErrUpstream}
	svc := NewService(mock)

	_, err := svc.Search(context.Background(), "glucose", "Blood Test")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestServiceRanksFetchedCandidates(t *testing.T) {
	mock := &mockSearcher{candidates: []Candidate{
		{Code: "weak", Name: "Cholesterol"},
		{Code: "strong", Name: "Glucose, Serum"},
		{Code: "excluded", Name: "Urine glucose"},
	}}
	svc := NewService(mock)

	results, err := svc.Search(context.Background(), "  glucose  ", "Blood Test")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].LoincCode != "strong" {
		t.Errorf("top result = %s", results[0].LoincCode)
	}
	if mock.calls != 1 {
		t.Errorf("terminology client called %d times, want 1", mock.calls)
	}
}

func TestServiceAliasAndCanonicalAgree(t *testing.T) {
	candidates := []Candidate{
		{Code: "1", Name: "Urine albumin"},
		{Code: "2", Name: "Serum albumin"},
	}
	svcA := NewService(&mockSearcher{candidates: candidates})
	svcB := NewService(&mockSearcher{candidates: candidates})

	byLabel, err := svcA.Search(context.Background(), "albumin", "Urine Test")
	if err != nil {
		t.Fatal(err)
	}
	byCode, err := svcB.Search(context.Background(), "albumin", "URINE_TEST")
	if err != nil {
		t.Fatal(err)
	}

	if len(byLabel) != len(byCode) {
		t.Fatalf("label: %+v, code: %+v", byLabel, byCode)
	}
	for i := range byLabel {
		if byLabel[i] != byCode[i] {
			t.Errorf("result %d differs: %+v vs %+v", i, byLabel[i], byCode[i])
		}
	}
	// Serum entries are excluded for the urine category.
	if len(byLabel) != 1 || byLabel[0].LoincCode != "1" {
		t.Errorf("results = %+v", byLabel)
	}
}

func TestServiceEmptyResultIsSuccess(t *testing.T) {
	mock := &mockSearcher{candidates: []Candidate{
		{Code: "1", Name: "Bone density"},
	}}
	svc := NewService(mock)

	results, err := svc.Search(context.Background(), "xyzxyz", "Blood Test")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v", results)
	}
}
