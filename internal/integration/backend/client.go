package backend

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

	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 35 * time.Second

// maxErrorBody caps how much of an error response is kept for logging.
const maxErrorBody = 512

// Client is an HTTP client for the finance backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	logger     *slog.Logger
}

// NewClient creates a new Client. A non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, session *Session) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if session == nil {
		session = NewSession("")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		logger:     slog.Default().With("component", "backend_client"),
	}
}

// Session returns the session whose credential the client sends.
func (c *Client) Session() *Session {
	return c.session
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

// do sends req and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, req request, out any) error {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if credential := c.session.Credential(); credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+credential)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Backend request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"latency", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.unauthorized()
		return domainerror.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Backend request rejected",
			"method", req.method,
			"path", req.path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"body", string(snippet),
		)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s %s: %w", req.method, req.path, domainerror.ErrNotFound)
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%s %s: status %d: %w", req.method, req.path, resp.StatusCode, domainerror.ErrBackendUnavailable)
		}
		return fmt.Errorf("%s %s: unexpected status %d", req.method, req.path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.path, err)
	}
	return nil
}
