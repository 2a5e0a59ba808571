package strapi

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
	"time"

	"github.com/Pavel2232/ShopBot/internal/model"
)

// Config holds repository connection settings.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:1337/api/.
	BaseURL string
	Token   string
	Timeout time.Duration
	// SharedConnections keeps one pooled transport for every caller.
	// When false each request dials a fresh connection.
	SharedConnections bool
}

// Observer receives one callback per repository round trip.
type Observer interface {
	ObserveRequest(method string, resource Resource, outcome string, elapsed time.Duration)
}

type Option func(*Client)

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client is a typed client for the content repository. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	apiURL     string
	hostURL    string
	token      string
	observer   Observer
}

// New creates a repository client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("API token is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.SharedConnections {
		transport.MaxIdleConnsPerHost = 16
	} else {
		transport.DisableKeepAlives = true
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		apiURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		hostURL:    parsed.Scheme + "://" + parsed.Host,
		token:      cfg.Token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// =============================================================================
// GENERIC OPERATIONS
// =============================================================================

// ListAll fetches a whole collection. Pagination is done by the caller.
func ListAll[A any](ctx context.Context, c *Client, resource Resource, expand ...string) ([]Entry[A], error) {
	q, err := buildQuery(expand)
	if err != nil {
		return nil, err
	}
	var out collection[A]
	if err := c.do(ctx, http.MethodGet, resource, "", q.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetByID fetches one record. A missing record yields model.ErrNotFound.
func GetByID[A any](ctx context.Context, c *Client, resource Resource, id int, expand ...string) (Entry[A], error) {
	q, err := buildQuery(expand)
	if err != nil {
		return Entry[A]{}, err
	}
	var out single[A]
	if err := c.do(ctx, http.MethodGet, resource, strconv.Itoa(id), q.Values(), nil, &out); err != nil {
		return Entry[A]{}, err
	}
	if out.Data == nil {
		return Entry[A]{}, notFound(resource, id)
	}
	return *out.Data, nil
}

// ListByFilter fetches the records whose field equals value.
func ListByFilter[A any](ctx context.Context, c *Client, resource Resource, field, value string, expand ...string) ([]Entry[A], error) {
	q, err := buildQuery(expand)
	if err != nil {
		return nil, err
	}
	q.Eq(field, value)
	var out collection[A]
	if err := c.do(ctx, http.MethodGet, resource, "", q.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Create stores a new record and returns its id.
func (c *Client) Create(ctx context.Context, resource Resource, payload any) (int, error) {
	var out single[json.RawMessage]
	if err := c.do(ctx, http.MethodPost, resource, "", nil, envelope(payload), &out); err != nil {
		return 0, err
	}
	if out.Data == nil || out.Data.ID == 0 {
		return 0, &APIError{Method: http.MethodPost, Path: string(resource), StatusCode: http.StatusOK,
			Message: "response carries no id", Err: model.ErrRepositoryUnavailable}
	}
	return out.Data.ID, nil
}

// Update applies a partial update to a record.
func (c *Client) Update(ctx context.Context, resource Resource, id int, payload any) error {
	return c.do(ctx, http.MethodPut, resource, strconv.Itoa(id), nil, envelope(payload), nil)
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, resource Resource, id int) error {
	return c.do(ctx, http.MethodDelete, resource, strconv.Itoa(id), nil, nil, nil)
}

// FetchBinary resolves the media stored in sub-field of a record and downloads its bytes.
// Only product pictures are media-bearing today.
func (c *Client) FetchBinary(ctx context.Context, resource Resource, id int, subField string) ([]byte, error) {
	if resource != ResourceProducts || subField != "picture" {
		return nil, fmt.Errorf("%s.%s is not a media field: %w", resource, subField, model.ErrValidation)
	}
	entry, err := GetByID[ProductAttributes](ctx, c, resource, id, subField)
	if err != nil {
		return nil, err
	}
	product := toProduct(entry)
	if !product.HasImage() {
		return nil, fmt.Errorf("%s %d has no %s: %w", resource, id, subField, model.ErrNotFound)
	}
	return c.download(ctx, resource, product.ImageURL)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// envelope wraps a payload into the {"data": ...} request body the repository expects.
func envelope(payload any) any {
	return map[string]any{"data": payload}
}

func (c *Client) do(ctx context.Context, method string, resource Resource, id string, query url.Values, body any, out any) (err error) {
	start := time.Now()
	defer func() { c.observe(method, resource, err, time.Since(start)) }()

	path := string(resource)
	if id != "" {
		path += "/" + id
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	endpoint := c.apiURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newTransportError(method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(method, path, fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(method, path, resp.StatusCode, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return newTransportError(method, path, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func (c *Client) download(ctx context.Context, resource Resource, ref string) (data []byte, err error) {
	start := time.Now()
	defer func() { c.observe(http.MethodGet, resource, err, time.Since(start)) }()

	target := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		target = c.hostURL + "/" + strings.TrimPrefix(ref, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(http.MethodGet, ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, newStatusError(http.MethodGet, ref, resp.StatusCode, body)
	}
	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(http.MethodGet, ref, fmt.Errorf("reading image: %w", err))
	}
	return data, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) observe(method string, resource Resource, err error, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(method, resource, outcome(err), elapsed)
}
