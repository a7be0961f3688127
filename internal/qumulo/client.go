package qumulo

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"
)

const (
	loginPath      = "/v1/session/login"
	defaultTimeout = 10 * time.Second
)

// RequestObserver is notified after every API round trip.
// Status is 0 when the request failed before a response arrived.
type RequestObserver interface {
	APIRequest(endpoint string, status int)
}

// Config holds the connection settings for a cluster.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string

	// InsecureSkipVerify disables TLS certificate verification.
	// Clusters ship with self-signed certificates, so callers usually set it.
	InsecureSkipVerify bool

	// Timeout bounds each request. Zero means 10s.
	Timeout time.Duration

	// Observer, when set, receives per-request metrics.
	Observer RequestObserver
}

// Client is an authenticated Qumulo REST API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	observer   RequestObserver
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	BearerToken string `json:"bearer_token"`
}

// NewClient creates a client for the given cluster and signs in.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	c := newUnauthenticated(cfg)
	if err := c.login(ctx, cfg.Username, cfg.Password); err != nil {
		return nil, err
	}

	logr.FromContextOrDiscard(ctx).Info("Qumulo client configured",
		"host", cfg.Host, "port", cfg.Port, "username", cfg.Username)
	return c, nil
}

func newUnauthenticated(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		// #nosec G402 - opt-in, clusters commonly use self-signed certificates
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
	}

	return &Client{
		baseURL:    "https://" + net.JoinHostPort(cfg.Host, cfg.Port),
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		observer:   cfg.Observer,
	}
}

// login exchanges credentials for a bearer token.
func (c *Client) login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("cannot sign in: missing username/password")
	}

	var resp loginResponse
	err := c.do(ctx, http.MethodPost, loginPath, loginPath, &loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return fmt.Errorf("sign in as %s: %w", username, err)
	}
	if resp.BearerToken == "" {
		return fmt.Errorf("sign in as %s: empty bearer token", username)
	}

	c.token = resp.BearerToken
	return nil
}

// getJSON issues a GET for pattern formatted with args and decodes the body into out.
// String args are path-escaped; the unformatted pattern is used as the metrics label.
func (c *Client) getJSON(ctx context.Context, out any, pattern string, args ...any) error {
	escaped := make([]any, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok {
			escaped[i] = url.PathEscape(s)
			continue
		}
		escaped[i] = a
	}
	return c.do(ctx, http.MethodGet, pattern, fmt.Sprintf(pattern, escaped...), nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	logr.FromContextOrDiscard(ctx).V(1).Info("Executing API request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(endpoint, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) observe(endpoint string, status int) {
	if c.observer != nil {
		c.observer.APIRequest(endpoint, status)
	}
}
