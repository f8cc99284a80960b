// Package client is a typed HTTP client for the trips REST service.
//
//	GET    /trips       → []Trip
//	POST   /trips       → created Trip
//	PUT    /trips/{id}  → updated Trip
//	DELETE /trips/{id}  → no body
//
// Failures are returned, never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-catalog/internal/domain"
	"github.com/pkordes/trip-catalog/internal/middleware"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client talks to one trips service.
type Client struct {
	base *url.URL
	http *http.Client
}

type options struct {
	hc      *http.Client
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the underlying http.Client. It is used as is: no
// logging transport is added and WithTimeout has no effect.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.hc = hc }
}

// WithLogger sets the logger of the default logging transport.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New builds a Client for the service rooted at baseURL
// (e.g. "http://localhost:3001"). baseURL may carry a path prefix.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client.New: parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("client.New: base url %q must be absolute http(s)", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery, u.Fragment = "", ""

	o := options{logger: slog.Default(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hc == nil {
		o.hc = &http.Client{
			Timeout:   o.timeout,
			Transport: middleware.NewSlogTransport(nil, o.logger),
		}
	}
	return &Client{base: u, http: o.hc}, nil
}

// List fetches the whole collection.
//
// The service answers with a bare array. An object envelope of the form
// {"trips": [...]}, which a json-server db.json dump produces, is accepted too.
func (c *Client) List(ctx context.Context) ([]domain.Trip, error) {
	body, err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("client.Client.List: %w", err)
	}
	trips, err := decodeCollection(body)
	if err != nil {
		return nil, fmt.Errorf("client.Client.List: %w", err)
	}
	return trips, nil
}

// Create posts trip without its ID and returns the service's canonical record.
func (c *Client) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.ID = ""
	body, err := c.do(ctx, http.MethodPost, c.collectionURL(), trip, http.StatusCreated, http.StatusOK)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("client.Client.Create: %w", err)
	}
	created, err := decodeTrip(body)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("client.Client.Create: %w", err)
	}
	if created.ID == "" {
		return domain.Trip{}, fmt.Errorf("client.Client.Create: response carries no id")
	}
	return created, nil
}

// Update puts the full trip to /trips/{id} and returns the stored record.
func (c *Client) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.ID == "" {
		return domain.Trip{}, fmt.Errorf("client.Client.Update: %w: id is required", domain.ErrValidation)
	}
	u, err := c.itemURL(trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("client.Client.Update: %w", err)
	}
	body, err := c.do(ctx, http.MethodPut, u, trip, http.StatusOK)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("client.Client.Update: %w", err)
	}
	updated, err := decodeTrip(body)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("client.Client.Update: %w", err)
	}
	if updated.ID == "" {
		updated.ID = trip.ID
	}
	return updated, nil
}

// Delete removes /trips/{id}.
func (c *Client) Delete(ctx context.Context, id domain.ID) error {
	u, err := c.itemURL(id)
	if err != nil {
		return fmt.Errorf("client.Client.Delete: %w", err)
	}
	if _, err := c.do(ctx, http.MethodDelete, u, nil, http.StatusNoContent, http.StatusOK); err != nil {
		return fmt.Errorf("client.Client.Delete: %w", err)
	}
	return nil
}

// --- plumbing -----------------------------------------------------------------

func (c *Client) collectionURL() string {
	return c.base.String() + "/trips"
}

// itemURL renders /trips/{id}, escaping the ID the way generated OpenAPI
// clients do for simple-style path parameters.
func (c *Client) itemURL(id domain.ID) (string, error) {
	p, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, string(id))
	if err != nil {
		return "", fmt.Errorf("encode id %q: %w", id, err)
	}
	return c.collectionURL() + "/" + p, nil
}

// do sends one request and returns the response body when the status is one
// of want. Any other status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, target string, payload any, want ...int) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	for _, code := range want {
		if resp.StatusCode == code {
			return body, nil
		}
	}
	return nil, newAPIError(method, req.URL.Path, resp.StatusCode, body)
}

func decodeCollection(body []byte) ([]domain.Trip, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Trips *[]domain.Trip `json:"trips"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode trips envelope: %w", err)
		}
		if env.Trips == nil {
			return nil, fmt.Errorf("decode trips envelope: no \"trips\" key")
		}
		return nonNil(*env.Trips), nil
	}

	var trips []domain.Trip
	if err := json.Unmarshal(trimmed, &trips); err != nil {
		return nil, fmt.Errorf("decode trips: %w", err)
	}
	return nonNil(trips), nil
}

func decodeTrip(body []byte) (domain.Trip, error) {
	var t domain.Trip
	if err := json.Unmarshal(body, &t); err != nil {
		return domain.Trip{}, fmt.Errorf("decode trip: %w", err)
	}
	return t, nil
}

func nonNil(trips []domain.Trip) []domain.Trip {
	if trips == nil {
		return []domain.Trip{}
	}
	return trips
}
