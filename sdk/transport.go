package sdk

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

	"github.com/mtlprog/nexus/api"
)

// Version is reported in the User-Agent header.
const Version = "1.0.0"

const (
	// DefaultBaseURL is where a locally started server listens.
	DefaultBaseURL = "http://localhost:8080"

	defaultTimeout     = 30 * time.Second
	defaultPartTimeout = 10 * time.Second
	maxErrorBody       = 4 << 10
)

// APIError is returned when the server answers with a status of 400 or above.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("nexus: http %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("nexus: http %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type options struct {
	baseURL     string
	apiKey      string
	timeout     time.Duration
	partTimeout time.Duration
	httpClient  *http.Client
	sampler     SystemSampler
}

// Option configures a Tracker or a Client.
type Option func(*options)

// WithBaseURL sets the server address.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		o.apiKey = apiKey
	}
}

// WithTimeout bounds every request made through the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithPartTimeout bounds each request of a Client.Snapshot.
func WithPartTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.partTimeout = timeout
	}
}

// WithHTTPClient replaces the default HTTP client. WithTimeout is then ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithSystemSampler replaces the gopsutil sampler used by a Tracker's health monitor.
func WithSystemSampler(sampler SystemSampler) Option {
	return func(o *options) {
		o.sampler = sampler
	}
}

func buildOptions(opts []Option) options {
	o := options{
		baseURL:     DefaultBaseURL,
		timeout:     defaultTimeout,
		partTimeout: defaultPartTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}
	return o
}

// transport performs JSON requests against one server.
type transport struct {
	baseURL   string
	apiKey    string
	userAgent string
	client    *http.Client
}

func newTransport(o options, userAgent string) *transport {
	return &transport{
		baseURL:   o.baseURL,
		apiKey:    o.apiKey,
		userAgent: userAgent,
		client:    o.httpClient,
	}
}

func (t *transport) get(ctx context.Context, path string, query url.Values, out any) error {
	return t.do(ctx, http.MethodGet, path, query, nil, out)
}

func (t *transport) post(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPost, path, nil, body, out)
}

func (t *transport) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := t.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var parsed api.ErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Code != "" {
		apiErr.Code = parsed.Error.Code
		apiErr.Message = parsed.Error.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
