package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sessionguard/internal/client/models"
	"github.com/dmitrijs2005/sessionguard/internal/common"
	"github.com/dmitrijs2005/sessionguard/internal/logging"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	refreshPath  = "/api/auth/refresh"
	logoutPath   = "/api/auth/logout"
	usersPath    = "/api/users"
	livenessPath = "/"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

type tokenResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

type usersResponse struct {
	Status  string        `json:"status"`
	Data    []models.User `json:"data"`
	Results int           `json:"results"`
}

// HTTPClient talks to the backend's REST API. The refresh cookie set on
// login lives in the client's cookie jar and is sent back on refresh.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient uses a copy of h for transport. A cookie jar is attached
// when h has none.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) {
		hc := *h
		if hc.Jar == nil {
			hc.Jar = c.http.Jar
		}
		c.http = &hc
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("server url %q: want http(s)://host[:port]", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "api_client")
	return c, nil
}

func (c *HTTPClient) endpoint(path string, q url.Values) string {
	u := c.baseURL.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do sends a JSON request and decodes a 2xx body into out. A zero status
// means no response arrived.
func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, token string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerValue(token))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return 0, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, fmt.Errorf("%w: read body: %w", common.ErrUnavailable, err)
	}
	c.log.Debug(ctx, "request done", "method", method, "path", path, "request_id", reqID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, mapStatus(resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: %w", errMalformedBody, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, registerPath, nil, "", req, nil)
	return err
}

// Login signs in and returns the access token. The refresh cookie set by
// the backend is kept in the jar.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, error) {
	req := models.LoginRequest{Email: email, Password: string(password)}

	var resp tokenResponse
	if _, err := c.do(ctx, http.MethodPost, loginPath, nil, "", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: missing token", errMalformedBody)
	}
	return resp.Token, nil
}

// Refresh exchanges token for a new one. Only a 200 carrying a non-empty
// token counts as success.
func (c *HTTPClient) Refresh(ctx context.Context, token string) (string, error) {
	var resp tokenResponse
	status, err := c.do(ctx, http.MethodPost, refreshPath, nil, token, nil, &resp)
	switch {
	case err != nil && status == 0:
		return "", fmt.Errorf("%w: %w", common.ErrRefreshTransport, err)
	case err != nil:
		return "", fmt.Errorf("%w: %w", common.ErrRefreshRejected, err)
	case status != http.StatusOK:
		return "", fmt.Errorf("%w: status %d", common.ErrRefreshRejected, status)
	case resp.Token == "":
		return "", fmt.Errorf("%w: %w: missing token", common.ErrRefreshRejected, errMalformedBody)
	}
	return resp.Token, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, logoutPath, nil, token, nil, nil)
	return err
}

// ListUsers fetches one page of users. page starts at 1; limit must be in
// [1, MaxPageLimit].
func (c *HTTPClient) ListUsers(ctx context.Context, token string, page, limit int) (*models.UserPage, error) {
	if page < 1 || limit < 1 || limit > MaxPageLimit {
		return nil, fmt.Errorf("%w: page %d limit %d", common.ErrInvalidPage, page, limit)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var resp usersResponse
	if _, err := c.do(ctx, http.MethodGet, usersPath, q, token, nil, &resp); err != nil {
		return nil, err
	}

	return &models.UserPage{
		Users:   resp.Data,
		Results: resp.Results,
		Page:    page,
		Limit:   limit,
	}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, livenessPath, nil, "", nil, nil)
	if err != nil && !errors.Is(err, common.ErrUnavailable) {
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	return err
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
