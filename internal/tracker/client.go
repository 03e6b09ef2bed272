package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/errors"
)

// maxErrorBody bounds how much of an error response is kept in the error message.
const maxErrorBody = 512

// Doer abstracts HTTP operations for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient implements Client against the Jira REST API v2.
type HTTPClient struct {
	endpoint string
	username string
	token    string
	http     Doer
	logger   zerolog.Logger
}

// HTTPClientOption configures an HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithDoer replaces the underlying HTTP client.
func WithDoer(doer Doer) HTTPClientOption {
	return func(c *HTTPClient) {
		c.http = doer
	}
}

// WithCredentials sets the credentials. An empty username sends the token as
// a bearer token, otherwise basic authentication is used.
func WithCredentials(username, token string) HTTPClientOption {
	return func(c *HTTPClient) {
		c.username = username
		c.token = token
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient creates a client for the tracker at endpoint.
func NewHTTPClient(endpoint string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	if timeout <= 0 {
		timeout = constants.DefaultTrackerTimeout
	}
	c := &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type issueRef struct {
	Key string `json:"key"`
}

type issueResponse struct {
	Key    string `json:"key"`
	Fields struct {
		Status struct {
			Name string `json:"name"`
		} `json:"status"`
		Subtasks   []issueResponse `json:"subtasks"`
		IssueLinks []struct {
			Type struct {
				Name string `json:"name"`
			} `json:"type"`
			InwardIssue  *issueRef `json:"inwardIssue"`
			OutwardIssue *issueRef `json:"outwardIssue"`
		} `json:"issuelinks"`
	} `json:"fields"`
}

func (r *issueResponse) entity() *Entity {
	e := &Entity{Key: r.Key, Status: r.Fields.Status.Name}
	for i := range r.Fields.Subtasks {
		e.Subtasks = append(e.Subtasks, *r.Fields.Subtasks[i].entity())
	}
	for _, l := range r.Fields.IssueLinks {
		link := Link{Type: l.Type.Name}
		if l.InwardIssue != nil {
			link.Inward = l.InwardIssue.Key
		}
		if l.OutwardIssue != nil {
			link.Outward = l.OutwardIssue.Key
		}
		e.Links = append(e.Links, link)
	}
	return e
}

// GetIssue implements Client.
func (c *HTTPClient) GetIssue(ctx context.Context, key string) (*Entity, error) {
	var resp issueResponse
	query := url.Values{"fields": {"status,subtasks,issuelinks"}}
	if err := c.do(ctx, http.MethodGet, c.issuePath(key)+"?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.entity(), nil
}

// GetIssueField implements Client. Option fields resolve to their value,
// missing or null fields to the empty string.
func (c *HTTPClient) GetIssueField(ctx context.Context, key, field string) (string, error) {
	var resp struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	query := url.Values{"fields": {field}}
	if err := c.do(ctx, http.MethodGet, c.issuePath(key)+"?"+query.Encode(), nil, &resp); err != nil {
		return "", err
	}
	return fieldString(resp.Fields[field]), nil
}

// GetIssueTransitions implements Client.
func (c *HTTPClient) GetIssueTransitions(ctx context.Context, key string) ([]Transition, error) {
	var resp struct {
		Transitions []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"transitions"`
	}
	if err := c.do(ctx, http.MethodGet, c.issuePath(key)+"/transitions", nil, &resp); err != nil {
		return nil, err
	}
	transitions := make([]Transition, 0, len(resp.Transitions))
	for _, t := range resp.Transitions {
		transitions = append(transitions, Transition{ID: t.ID, Name: t.Name})
	}
	return transitions, nil
}

// UpdateIssue implements Client.
func (c *HTTPClient) UpdateIssue(ctx context.Context, key string, body []byte) error {
	return c.do(ctx, http.MethodPut, c.issuePath(key), body, nil)
}

// UpdateIssueStatus implements Client.
func (c *HTTPClient) UpdateIssueStatus(ctx context.Context, key, transitionID string) error {
	body, err := json.Marshal(map[string]any{"transition": map[string]string{"id": transitionID}})
	if err != nil {
		return fmt.Errorf("failed to encode transition: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.issuePath(key)+"/transitions", body, nil)
}

// CreateIssueLink implements Client.
func (c *HTTPClient) CreateIssueLink(ctx context.Context, fromKey, toKey, linkType string) error {
	body, err := json.Marshal(map[string]any{
		"type":         map[string]string{"name": linkType},
		"inwardIssue":  issueRef{Key: fromKey},
		"outwardIssue": issueRef{Key: toKey},
	})
	if err != nil {
		return fmt.Errorf("failed to encode issue link: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/rest/api/2/issueLink", body, nil)
}

func (c *HTTPClient) issuePath(key string) string {
	return "/rest/api/2/issue/" + url.PathEscape(key)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jiraexport")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.token == "":
	case c.username == "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	default:
		req.SetBasicAuth(c.username, c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", errors.ErrTrackerRequest, method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // HTTP response body close

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("tracker request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return fmt.Errorf("%w: %s %s: status %d (failed to read response body: %w)", errors.ErrTrackerRequest, method, path, resp.StatusCode, readErr)
		}
		return fmt.Errorf("%w: %s %s: status %d: %s", errors.ErrTrackerRequest, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %w", errors.ErrTrackerRequest, path, err)
	}
	return nil
}

func fieldString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var option struct {
		Value string `json:"value"`
		Name  string `json:"name"`
		Key   string `json:"key"`
	}
	if err := json.Unmarshal(raw, &option); err == nil {
		switch {
		case option.Value != "":
			return option.Value
		case option.Key != "":
			return option.Key
		default:
			return option.Name
		}
	}
	return strings.Trim(string(raw), `"`)
}
