package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/strrl/style-dna/internal/style"
)

const defaultTimeout = 15 * time.Second

// DefaultPageSize matches the limit /api/outfits applies when none is sent.
const DefaultPageSize = 20

var errMissingBaseURL = errors.New("backend base URL is required")

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the StyleMind REST API. It serves as both the candidate
// fetcher and the swipe record sink of a session.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type swipeRequest struct {
	UserID        string `json:"user_id"`
	OutfitID      string `json:"outfit_id"`
	Action        string `json:"action"`
	StyleCategory string `json:"style_category"`
}

type swipeResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	OutfitID      string `json:"outfit_id"`
	Action        string `json:"action"`
	StyleCategory string `json:"style_category"`
	CreatedAt     string `json:"created_at"`
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errMissingBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// FetchCandidates pages through GET /api/outfits. The API filters by gender
// only, so the style category filter is applied to the returned page and
// Skip/Limit count outfits before that filter. The limit is always sent.
func (c *Client) FetchCandidates(ctx context.Context, filter style.Filter) ([]style.Candidate, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	query := url.Values{}
	if filter.Skip > 0 {
		query.Set("skip", strconv.Itoa(filter.Skip))
	}
	query.Set("limit", strconv.Itoa(limit))
	if filter.Gender != "" {
		query.Set("gender", string(filter.Gender))
	}

	var candidates []style.Candidate
	if err := c.do(ctx, http.MethodGet, "/api/outfits", query, nil, &candidates); err != nil {
		return nil, fmt.Errorf("failed to fetch outfits: %w", err)
	}

	if filter.StyleCategory == "" {
		return candidates, nil
	}

	filtered := candidates[:0]
	for _, cand := range candidates {
		if cand.StyleCategory == filter.StyleCategory {
			filtered = append(filtered, cand)
		}
	}
	return filtered, nil
}

func (c *Client) RecordSwipe(ctx context.Context, rec style.Record) error {
	payload := swipeRequest{
		UserID:        rec.UserID,
		OutfitID:      rec.CandidateID,
		Action:        string(rec.Action),
		StyleCategory: string(rec.StyleCategory),
	}

	if err := c.do(ctx, http.MethodPost, "/api/swipes", nil, payload, nil); err != nil {
		return fmt.Errorf("failed to record swipe: %w", err)
	}
	return nil
}

func (c *Client) ListSwipes(ctx context.Context, userID string) ([]style.Record, error) {
	var resp []swipeResponse
	path := "/api/swipes/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list swipes: %w", err)
	}

	records := make([]style.Record, 0, len(resp))
	for _, r := range resp {
		records = append(records, style.Record{
			ID:            r.ID,
			UserID:        r.UserID,
			CandidateID:   r.OutfitID,
			Action:        style.Action(r.Action),
			StyleCategory: style.Category(r.StyleCategory),
			CreatedAt:     parseTimestamp(r.CreatedAt),
		})
	}
	return records, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// The API serializes naive UTC datetimes, with or without fractional seconds
// and without a zone suffix.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(value string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
