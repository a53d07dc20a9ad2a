// Package rest implements backend.Client over a PostgREST compatible HTTP surface, such as
// the REST endpoint of a hosted Supabase project.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyber924/taebaek/internal/platform/backend"
)

const (
	restPrefix        = "/rest/v1/"
	objectContentType = "application/vnd.pgrst.object+json"
	jsonContentType   = "application/json"
	defaultTimeout    = 10 * time.Second
	maxErrorBody      = 64 << 10
)

// Client talks to the hosted backend with the project URL and its public anon key.
type Client struct {
	baseURL *url.URL
	anonKey string
	http    *http.Client
	logger  *zap.Logger
}

var _ backend.Client = (*Client)(nil)

// Option customises the REST client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger sets the logger used for diagnostic output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New validates the connection settings and builds a Client.
func New(baseURL, anonKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	anonKey = strings.TrimSpace(anonKey)
	if baseURL == "" || anonKey == "" {
		return nil, errors.New("rest: backend url and anon key are required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("rest: invalid backend url %q", baseURL)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	c := &Client{
		baseURL: parsed,
		anonKey: anonKey,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Select implements backend.Client.
func (c *Client) Select(ctx context.Context, table string, q backend.Query, dest any) error {
	req, err := c.newRequest(ctx, http.MethodGet, table, queryValues(q.Filters, q.Order), nil)
	if err != nil {
		return backend.WrapError(table+".select", err)
	}
	req.Header.Set("Accept", jsonContentType)
	return c.do(req, table+".select", dest)
}

// SelectOne implements backend.Client.
func (c *Client) SelectOne(ctx context.Context, table string, q backend.Query, dest any) error {
	values := queryValues(q.Filters, q.Order)
	values.Set("limit", "1")
	req, err := c.newRequest(ctx, http.MethodGet, table, values, nil)
	if err != nil {
		return backend.WrapError(table+".select_one", err)
	}
	req.Header.Set("Accept", objectContentType)
	return c.do(req, table+".select_one", dest)
}

// Insert implements backend.Client.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return backend.WrapError(table+".insert", fmt.Errorf("rest: encode row: %w", err))
	}
	req, err := c.newRequest(ctx, http.MethodPost, table, url.Values{"select": {"*"}}, body)
	if err != nil {
		return backend.WrapError(table+".insert", err)
	}
	req.Header.Set("Accept", objectContentType)
	req.Header.Set("Prefer", "return=representation")
	return c.do(req, table+".insert", row)
}

// Update implements backend.Client.
func (c *Client) Update(ctx context.Context, table string, filters []backend.Filter, patch map[string]any, dest any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return backend.WrapError(table+".update", fmt.Errorf("rest: encode patch: %w", err))
	}
	req, err := c.newRequest(ctx, http.MethodPatch, table, queryValues(filters, nil), body)
	if err != nil {
		return backend.WrapError(table+".update", err)
	}
	req.Header.Set("Accept", objectContentType)
	req.Header.Set("Prefer", "return=representation")
	return c.do(req, table+".update", dest)
}

// Delete implements backend.Client.
func (c *Client) Delete(ctx context.Context, table string, filters []backend.Filter, _ any) error {
	values := queryValues(filters, nil)
	values.Del("select")
	req, err := c.newRequest(ctx, http.MethodDelete, table, values, nil)
	if err != nil {
		return backend.WrapError(table+".delete", err)
	}
	req.Header.Set("Prefer", "return=minimal")
	return c.do(req, table+".delete", nil)
}

func (c *Client) newRequest(ctx context.Context, method, table string, values url.Values, body []byte) (*http.Request, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, errors.New("rest: table name is required")
	}
	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + restPrefix + url.PathEscape(table)
	endpoint.RawQuery = values.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op string, dest any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return backend.NewError(op, 0, "", fmt.Errorf("rest: request failed: %w", err))
	}
	defer resp.Body.Close()

	c.logger.Debug("rest: backend call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(op, resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return backend.WrapError(op, fmt.Errorf("rest: decode response: %w", err))
	}
	return nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func decodeError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = strings.TrimSpace(string(raw))
	}
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	msg := body.Message
	if body.Details != "" {
		msg += " (" + body.Details + ")"
	}
	return backend.NewError(op, resp.StatusCode, body.Code, errors.New(msg))
}

func queryValues(filters []backend.Filter, orders []backend.Order) url.Values {
	values := url.Values{}
	values.Set("select", "*")
	for _, f := range filters {
		if f.Value == nil {
			values.Add(f.Column, "is.null")
			continue
		}
		values.Add(f.Column, "eq."+formatValue(f.Value))
	}
	if len(orders) > 0 {
		parts := make([]string, 0, len(orders))
		for _, o := range orders {
			dir := "desc"
			if o.Ascending {
				dir = "asc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		values.Set("order", strings.Join(parts, ","))
	}
	return values
}

func formatValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case *string:
		if value == nil {
			return "null"
		}
		return *value
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return value.String()
	}
	return fmt.Sprint(v)
}
