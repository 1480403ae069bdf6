// Package loinc implements LOINC test search for the hospital "add service"
// flow: it queries the NLM clinical tables terminology service, filters out
// entries irrelevant to the requested test category, and returns a
// relevance-ranked candidate list.
package loinc

// Candidate is one code/name pair returned by the terminology lookup.
// Name may be empty when the upstream response carried no display name for
// the code; such candidates are discarded during ranking.
type Candidate struct {
	Code string
	Name string
}

// Result is the public search result shape. Ranking order is carried by
// slice position; the internal score is not exposed.
type Result struct {
	LoincCode   string `json:"loincCode"`
	DisplayName string `json:"displayName"`
}
