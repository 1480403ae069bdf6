package loinc

import (
	"sort"
	"strings"
)

// Scoring weights. The values mirror the scoring used by the add-service UI
// since launch; changing any of them reorders live search results.
const (
	scoreFullQueryMatch = 50
	scoreQueryWordMatch = 10
	scorePreferredMatch = 5
	scoreSpecimenBonus  = 8
	scoreGenericPenalty = 10
)

// specimenKeywords earn a fixed bonus independent of category: serum- and
// plasma-based tests are the common specimen type in the source vocabulary.
var specimenKeywords = []string{"serum", "plasma"}

// genericKeywords penalize catch-all entries.
var genericKeywords = []string{"unspecified", "other"}

type scoredCandidate struct {
	Candidate
	score int
}

// Rank filters and scores candidates against the query and category rules,
// returning results ordered by descending relevance. The sort is stable:
// candidates with equal score keep their upstream relative order.
//
// Candidates with a final score of zero or less are dropped; only strictly
// positive matches are returned.
func Rank(query string, rule CategoryRule, candidates []Candidate) []Result {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryWords := strings.Fields(queryLower)

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Name == "" {
			continue
		}

		nameLower := strings.ToLower(cand.Name)
		if containsAny(nameLower, globalExclusions) {
			continue
		}
		if containsAny(nameLower, rule.Exclusions) {
			continue
		}

		score := scoreCandidate(nameLower, queryLower, queryWords, rule)
		if score <= 0 {
			continue
		}

		scored = append(scored, scoredCandidate{Candidate: cand, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	results := make([]Result, len(scored))
	for i, sc := range scored {
		results[i] = Result{LoincCode: sc.Code, DisplayName: sc.Name}
	}
	return results
}

// scoreCandidate computes the relevance score for one candidate name.
// Both inputs must already be lower-cased.
func scoreCandidate(nameLower, queryLower string, queryWords []string, rule CategoryRule) int {
	score := 0

	if strings.Contains(nameLower, queryLower) {
		score += scoreFullQueryMatch
	}

	for _, word := range queryWords {
		if strings.Contains(nameLower, word) {
			score += scoreQueryWordMatch
		}
	}

	for _, keyword := range rule.Preferred {
		if strings.Contains(nameLower, keyword) {
			score += scorePreferredMatch
		}
	}

	if containsAny(nameLower, specimenKeywords) {
		score += scoreSpecimenBonus
	}
	if containsAny(nameLower, genericKeywords) {
		score -= scoreGenericPenalty
	}

	return score
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
