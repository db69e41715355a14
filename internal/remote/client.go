// Package remote is the HTTP client for the activity API. It is the network
// boundary of the client core: every response is decoded into explicit
// envelope types and validated here, and every call carries the bearer
// credential.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/apierr"
	"github.com/hay-kot/stride/internal/core/credential"
)

const maxResponseBytes = 32 << 20

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// ParseError reports a response body that does not match the expected shape.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response from %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client talks to the activity API.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     credential.Provider
	log       zerolog.Logger
	maxUpload int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMaxUpload rejects uploads larger than n bytes before sending them.
func WithMaxUpload(n int64) Option {
	return func(c *Client) { c.maxUpload = n }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, creds credential.Provider, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ activity.Remote      = (*Client)(nil)
	_ activity.ImageRemote = (*Client)(nil)
)

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	anonymous   bool
}

// do performs req and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var token string
	if !req.anonymous {
		if c.creds != nil {
			token = c.creds.Token()
		}
		if token == "" {
			return credential.ErrMissing
		}
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, req.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	reqID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", reqID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Str("request_id", reqID).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.Error{Status: resp.StatusCode, Desc: apierr.Parse(body)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{Endpoint: req.method + " " + req.path, Err: err}
	}

	return nil
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody encodes f as the "file" field of a multipart form. The part's
// Content-Type is sniffed from the file contents.
func (c *Client) multipartBody(f activity.Upload) (io.Reader, string, error) {
	if c.maxUpload > 0 && int64(f.Size()) > c.maxUpload {
		return nil, "", fmt.Errorf("%s: %w", f.Filename, ErrTooLarge)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Filename)))
	h.Set("Content-Type", activity.SniffType(f.Data))

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// envelope is the {"data": [...]} wrapper used by list endpoints.
type envelope[T any] struct {
	Data *[]T `json:"data"`
}

func (e envelope[T]) items(endpoint string) ([]T, error) {
	if e.Data == nil {
		return nil, &ParseError{Endpoint: endpoint, Err: errors.New(`missing "data" field`)}
	}
	return *e.Data, nil
}

func activityPath(id string) string {
	return "/activity/" + url.PathEscape(id)
}
