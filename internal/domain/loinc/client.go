package loinc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUpstream marks failures of the external terminology service: transport
// errors, timeouts, non-2xx statuses and malformed response bodies. Handlers
// surface it as a generic server error without leaking upstream detail.
var ErrUpstream = errors.New("terminology service unavailable")

// Searcher fetches raw candidates for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Client queries the NLM clinical tables LOINC search API. One outbound
// request per search, no retries; the lookup is idempotent and cheap to
// repeat, so retry policy is left to the caller.
type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// NewClient creates a terminology client. baseURL points at the loinc_items
// API root (e.g. https://clinicaltables.nlm.nih.gov/api/loinc_items/v3).
func NewClient(baseURL string, timeout time.Duration, maxResults int) *Client {
	return &Client{
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search performs the terminology lookup and returns candidates in upstream
// order. Upstream order is preserved because it is itself a relevance signal
// used as the tie-break for equal ranking scores.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	endpoint := fmt.Sprintf("%s/search?terms=%s&maxList=%s",
		c.baseURL, url.QueryEscape(query), strconv.Itoa(c.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build terminology request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return decodeSearchResponse(resp.Body)
}

// decodeSearchResponse validates the positional response array before
// indexed access. The API returns a 4-element array: index 1 holds the code
// strings and index 3 holds one-element display-name groups per code (a
// group may be null or empty when no name exists).
func decodeSearchResponse(body io.Reader) ([]Candidate, error) {
	var elements []json.RawMessage
	if err := json.NewDecoder(body).Decode(&elements); err != nil {
		return nil, fmt.Errorf("%w: malformed response body: %v", ErrUpstream, err)
	}
	if len(elements) < 4 {
		return nil, fmt.Errorf("%w: malformed response: %d elements, want 4", ErrUpstream, len(elements))
	}

	var codes []string
	if err := json.Unmarshal(elements[1], &codes); err != nil {
		return nil, fmt.Errorf("%w: malformed code list: %v", ErrUpstream, err)
	}

	var nameGroups [][]string
	if err := json.Unmarshal(elements[3], &nameGroups); err != nil {
		return nil, fmt.Errorf("%w: malformed name list: %v", ErrUpstream, err)
	}

	candidates := make([]Candidate, 0, len(codes))
	for i, code := range codes {
		var name string
		if i < len(nameGroups) && len(nameGroups[i]) > 0 {
			name = nameGroups[i][0]
		}
		candidates = append(candidates, Candidate{Code: code, Name: name})
	}
	return candidates, nil
}
