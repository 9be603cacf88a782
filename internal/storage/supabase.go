package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nursan/golistings/internal/config"
	"github.com/nursan/golistings/internal/logger"
	"go.uber.org/zap"
)

// Record is a single row returned by the hosted store.
type Record = map[string]any

// Query narrows a table operation to matching rows. The zero value matches
// every row.
type Query struct {
	// Eq maps column names to required values.
	Eq map[string]string
	// OrderBy sorts ascending by the named column.
	OrderBy string
	// Limit caps the number of returned rows when positive.
	Limit int
}

func (q Query) encode() string {
	values := url.Values{}
	for column, value := range q.Eq {
		values.Set(column, "eq."+value)
	}
	if q.OrderBy != "" {
		values.Set("order", q.OrderBy+".asc")
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values.Encode()
}

// Client talks to a Supabase-style hosted store: row CRUD over the PostgREST
// data API and password sign-in against the GoTrue identity API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	schema     string
}

// Schemas exposed by the hosted data API; anything else silently falls back
// to public (the hosted gateway rejects unknown profiles outright).
var exposedSchemas = map[string]struct{}{
	"public":         {},
	"graphql_public": {},
}

// NewClient constructs a Client from configuration.
func NewClient(cfg config.SupabaseConfig) *Client {
	schema := strings.TrimSpace(cfg.Schema)
	if schema == "" {
		schema = "public"
	}
	if _, ok := exposedSchemas[schema]; !ok {
		logger.L().Warn("unsupported store schema, falling back to public",
			zap.String("schema", schema))
		schema = "public"
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.Key,
		schema:     schema,
	}
}

// Select retrieves rows from a table.
func (c *Client) Select(ctx context.Context, table string, query Query) ([]Record, error) {
	return c.do(ctx, http.MethodGet, table, query, nil)
}

// Insert creates a row and returns its stored representation.
func (c *Client) Insert(ctx context.Context, table string, record Record) ([]Record, error) {
	return c.do(ctx, http.MethodPost, table, Query{}, record)
}

// Update modifies matching rows and returns their stored representations.
// An empty result means no row matched.
func (c *Client) Update(ctx context.Context, table string, query Query, updates Record) ([]Record, error) {
	return c.do(ctx, http.MethodPatch, table, query, updates)
}

// Delete removes matching rows and returns the deleted representations.
// An empty result means no row matched.
func (c *Client) Delete(ctx context.Context, table string, query Query) ([]Record, error) {
	return c.do(ctx, http.MethodDelete, table, query, nil)
}

// SignInWithPassword authenticates credentials against the identity API and
// returns the provider's stable user identifier.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}

	endpoint := c.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build sign-in request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read sign-in response: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: sign-in returned status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrRequestFailed, storeErrorMessage(raw))
	}

	var body struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.User.ID == "" {
		return "", fmt.Errorf("%w: sign-in response missing user id", ErrRequestFailed)
	}

	return body.User.ID, nil
}

// Ping verifies the data API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, table string, query Query, body Record) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(table))
	if encoded := query.encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", table, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", table, err)
	}
	c.setHeaders(req)

	if method == http.MethodGet {
		req.Header.Set("Accept-Profile", c.schema)
	} else {
		req.Header.Set("Content-Profile", c.schema)
		req.Header.Set("Prefer", "return=representation")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, storeErrorMessage(raw))
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unexpected response body", ErrUpstreamUnavailable)
	}
	return records, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

func decodeRecords(raw []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []Record{}, nil
	}

	if trimmed[0] == '{' {
		var record Record
		if err := json.Unmarshal(trimmed, &record); err != nil {
			return nil, err
		}
		return []Record{record}, nil
	}

	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func storeErrorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Msg != "" {
			return body.Msg
		}
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "request rejected"
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
