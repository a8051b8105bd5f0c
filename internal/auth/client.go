package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/teamscribe/teamscribe/internal/logging"
)

// Client queries and mutates the user's session against the transcript
// backend. Requests are credentialed through the http.Client's cookie jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an auth client for the given backend origin. The
// httpClient must carry the session cookie jar; if nil, http.DefaultClient
// is used.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logging.WithService(logger, "auth"),
	}
}

// CheckStatus returns the backend's view of the session. It never returns
// an error: any transport or decode failure is reported as "not logged in",
// because an unreachable auth endpoint and a missing session are
// indistinguishable to the caller.
func (c *Client) CheckStatus(ctx context.Context) AuthStatus {
	// Cache-busting query param, so intermediaries never serve a stale
	// session state.
	url := c.baseURL + "/auth/status?t=" + strconv.FormatInt(time.Now().UnixMilli(), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return AuthStatus{Authenticated: false}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("auth status check failed", logging.Err(err))
		return AuthStatus{Authenticated: false}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("auth status check returned non-OK",
			logging.Status(strconv.Itoa(resp.StatusCode)))
		return AuthStatus{Authenticated: false}
	}

	var status AuthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		c.logger.Debug("auth status response malformed", logging.Err(err))
		return AuthStatus{Authenticated: false}
	}

	return status
}

// Logout terminates the backend session. Unlike CheckStatus, failures
// propagate so the caller can tell the user the session may still exist.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build logout request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("logout failed with status %d", resp.StatusCode)
	}
	return nil
}

// LoginURL returns the backend's OAuth entry URL. The caller is expected to
// open it in a browser; the backend completes the flow and sets the session
// cookie.
func (c *Client) LoginURL() string {
	return c.baseURL + "/auth/login"
}
