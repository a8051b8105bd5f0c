package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/teamscribe/teamscribe/internal/logging"
)

// ObserverFunc is invoked after each backend call with the HTTP status
// (0 for transport failures) and the request duration.
type ObserverFunc func(operation string, status int, duration time.Duration)

// Option configures a Client.
type Option func(*Client)

// WithObserver installs a metrics hook on the client.
func WithObserver(observer ObserverFunc) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// Client fetches meeting transcripts from the backend. Requests are
// credentialed through the http.Client's cookie jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	observer   ObserverFunc
}

// NewClient creates a transcript client for the given backend origin.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logging.WithService(logger, "transcript"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Fetch asks the backend to retrieve the transcript for a meeting join URL.
// The backend's own success flag is returned as part of the response; a
// Go error here always means the request itself failed.
func (c *Client) Fetch(ctx context.Context, joinURL string) (*FetchResponse, error) {
	if joinURL == "" {
		return nil, fmt.Errorf("joinURL cannot be empty")
	}

	started := time.Now()
	statusCode := 0
	defer func() { c.observe("fetch", statusCode, time.Since(started)) }()

	payload, err := json.Marshal(map[string]string{"joinUrl": joinURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transcript/fetch", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript fetch request failed: %w", err)
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript fetch response: %w", err)
	}

	var fetched FetchResponse
	if err := json.Unmarshal(body, &fetched); err != nil {
		return nil, fmt.Errorf("malformed transcript fetch response: %w", err)
	}

	c.logger.Debug("transcript fetch completed",
		logging.Operation("fetch"),
		slog.Bool("success", fetched.Success),
	)
	return &fetched, nil
}

func (c *Client) observe(operation string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer(operation, status, duration)
	}
}
