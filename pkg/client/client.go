// Package client is the Go SDK for the Domly API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// APIError is any non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("domly api: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err means the session is missing or expired.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Client talks to one Domly backend. It is safe for concurrent use.
type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
	log     *zap.Logger

	mu    sync.RWMutex
	token string
}

// New builds a client for baseURL; apiKey is sent on every request as the apikey header.
// Failed requests are never retried.
func New(baseURL, apiKey string, log *zap.Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		rc.SetHeader("apikey", apiKey)
	}
	return &Client{http: rc, baseURL: baseURL, apiKey: apiKey, log: log}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.SetTimeout(d)
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		r.SetAuthToken(token)
	}
	return r
}

// execute sends r and decodes the data field of the envelope into T.
func execute[T any](c *Client, r *resty.Request, method, path string) (T, error) {
	var out envelope[T]
	var zero T
	resp, err := r.SetResult(&out).SetError(&out).Execute(method, path)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return zero, &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return out.Data, nil
}

// pageSize is used by the helpers that walk every page.
const pageSize = 100

// collect keeps fetching pages until total items were read or a page comes back short.
func collect[T any](fetch func(page int) ([]T, int64, error)) ([]T, error) {
	all := make([]T, 0)
	for page := 1; ; page++ {
		items, total, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pageSize || int64(len(all)) >= total {
			return all, nil
		}
	}
}

func (c *Client) Auth() *AuthAPI               { return &AuthAPI{c} }
func (c *Client) Admin() *AdminAPI             { return &AdminAPI{c} }
func (c *Client) Condominios() *CondominiosAPI { return &CondominiosAPI{c} }
func (c *Client) Ativos() *AtivosAPI           { return &AtivosAPI{c} }
func (c *Client) Alertas() *AlertasAPI         { return &AlertasAPI{c} }
func (c *Client) Manutencoes() *ManutencoesAPI { return &ManutencoesAPI{c} }
func (c *Client) Documentos() *DocumentosAPI   { return &DocumentosAPI{c} }
func (c *Client) Leads() *LeadsAPI             { return &LeadsAPI{c} }
