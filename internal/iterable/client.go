// Package iterable is a thin client for the Iterable REST API.
//
// The API is inconsistent about response shapes: most endpoints return JSON,
// but some return a bare number (list size), newline-delimited text (list
// membership), CSV (campaign metrics), or nothing at all. Call therefore
// classifies the body by sniffing it — never by the declared content type —
// and returns the decoded JSON value, a raw string, or an empty map. Call
// sites that expect a specific plain-text shape lift the string further with
// ParseSize or ParseEmailList.
package iterable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the US region endpoint. EU projects use
// https://api.eu.iterable.com via ITERABLE_BASE_URL.
const DefaultBaseURL = "https://api.iterable.com"

// Query maps parameter names to scalar or slice values. Nil values are
// omitted entirely; slice values serialize as repeated key=v1&key=v2 pairs,
// which is the encoding Iterable expects for multi-value filters.
type Query map[string]any

// RequestSpec is a uniform description of one upstream call. It is built and
// consumed within a single Call; nothing is retained.
type RequestSpec struct {
	Method string
	Path   string
	Query  Query
	Body   any
}

// Client performs upstream calls. It holds no per-request state and is safe
// for concurrent use. There is no retry, no caching, and no internal
// timeout: cancellation belongs to the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the given base URL (empty = DefaultBaseURL).
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client (tests, custom transports).
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Call performs one upstream request and normalizes the response.
//
// Normalization order: a non-2xx status becomes an *APIError with the
// best-effort decoded body; an empty body becomes an empty map; a body that
// parses as JSON is returned as the decoded value; anything else is returned
// as the raw string. Transport failures are re-raised uniformly as
// *APIError{Status: 0, StatusText: "Network Error"} so call sites observe a
// single error type either way.
func (c *Client) Call(ctx context.Context, apiKey string, spec RequestSpec) (any, error) {
	u := c.baseURL + spec.Path
	if qs := encodeQuery(spec.Query); qs != "" {
		u += "?" + qs
	}

	var body io.Reader
	if spec.Body != nil {
		data, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("iterable: marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("iterable: build request: %w", err)
	}
	req.Header.Set("Api-Key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Best-effort body: a failed read on an already-failed response is
		// swallowed, the status is the signal that matters.
		var errBody any
		if readErr == nil {
			errBody = sniffBody(data)
		}
		c.logger.Warn("iterable: upstream error",
			"method", spec.Method, "path", spec.Path, "status", resp.StatusCode)
		return nil, &APIError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       errBody,
		}
	}
	if readErr != nil {
		return nil, networkError(readErr)
	}

	return sniffBody(data), nil
}

// sniffBody classifies a body by shape: empty, JSON, or plain text.
func sniffBody(data []byte) any {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(data, &v); err == nil {
		return v
	}
	return string(data)
}

// encodeQuery serializes query parameters. Keys come out sorted (url.Values
// encoding order), nil values are dropped, and slices repeat the key once
// per element.
func encodeQuery(q Query) string {
	if len(q) == 0 {
		return ""
	}
	vals := url.Values{}
	for key, v := range q {
		if v == nil {
			continue
		}
		switch t := v.(type) {
		case []string:
			for _, e := range t {
				vals.Add(key, e)
			}
		case []int:
			for _, e := range t {
				vals.Add(key, strconv.Itoa(e))
			}
		case []int64:
			for _, e := range t {
				vals.Add(key, strconv.FormatInt(e, 10))
			}
		case []any:
			for _, e := range t {
				vals.Add(key, scalarString(e))
			}
		default:
			vals.Add(key, scalarString(t))
		}
	}
	return vals.Encode()
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		// Whole floats (the usual case for JSON-decoded numbers) encode
		// without a trailing ".0" so campaignIds=1, not campaignIds=1.0.
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
