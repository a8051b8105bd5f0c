package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/teamscribe/teamscribe/internal/logging"
	"github.com/teamscribe/teamscribe/internal/transcript"
)

// StatusError reports an analyze endpoint that answered with a non-2xx
// status. The request/response cycle completed, so the candidate loop must
// not advance past it; callers distinguish this from transport errors.
type StatusError struct {
	StatusCode int
	Response   *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analyze request failed with status %d", e.StatusCode)
}

// Options carries the analyze request parameters.
type Options struct {
	// TestMode asks the endpoint to return preview content instead of
	// performing its production side effect.
	TestMode bool

	// LLMTimeout and UserLookupTimeout are forwarded to the endpoint;
	// they bound the endpoint's own downstream calls, not this request.
	LLMTimeout        time.Duration
	UserLookupTimeout time.Duration
}

// ObserverFunc is invoked after each analyze call with the candidate URL,
// the HTTP status (0 for transport failures), and the request duration.
type ObserverFunc func(candidate string, status int, duration time.Duration)

// Option configures a Client.
type Option func(*Client)

// WithObserver installs a metrics hook on the client.
func WithObserver(observer ObserverFunc) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// Client submits transcripts to analyze candidate endpoints.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	observer   ObserverFunc
}

// NewClient creates an analyze client.
func NewClient(httpClient *http.Client, logger *slog.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		httpClient: httpClient,
		logger:     logging.WithService(logger, "analyze"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Analyze POSTs the raw transcript to one candidate endpoint.
//
// Return contract:
//   - transport failure: nil response, non-StatusError error
//   - non-2xx status: parsed response attached to a *StatusError
//   - 2xx: parsed response, nil error
func (c *Client) Analyze(ctx context.Context, candidateURL string, data *transcript.TranscriptData, opts Options) (*Response, error) {
	started := time.Now()
	statusCode := 0
	defer func() { c.observe(candidateURL, statusCode, time.Since(started)) }()

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}

	reqURL, err := buildURL(candidateURL, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("analyze candidate unreachable",
			slog.String("candidate", candidateURL), logging.Err(err))
		return nil, fmt.Errorf("analyze request to %s failed: %w", candidateURL, err)
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// The cycle completed at the HTTP level; treat a truncated body
		// like an empty one rather than falling through to the next
		// candidate.
		body = nil
	}

	parsed := parseResponse(body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parsed, &StatusError{StatusCode: resp.StatusCode, Response: parsed}
	}
	return parsed, nil
}

// Probe issues a non-committal preflight to a candidate. HEAD is tried
// first; endpoints that reject the method get a GET instead. Any HTTP
// answer counts as reachable.
func (c *Client) Probe(ctx context.Context, candidateURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, candidateURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("candidate %s unreachable: %w", candidateURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusMethodNotAllowed {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, candidateURL, nil)
		if err != nil {
			return err
		}
		getResp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("candidate %s unreachable: %w", candidateURL, err)
		}
		defer getResp.Body.Close()
		_, _ = io.Copy(io.Discard, getResp.Body)
	}
	return nil
}

func buildURL(candidateURL string, opts Options) (string, error) {
	u, err := url.Parse(candidateURL)
	if err != nil {
		return "", fmt.Errorf("invalid analyze candidate URL %q: %w", candidateURL, err)
	}

	q := u.Query()
	q.Set("test_mode", strconv.FormatBool(opts.TestMode))
	q.Set("llm_timeout", strconv.Itoa(timeoutSeconds(opts.LLMTimeout, 60)))
	q.Set("user_lookup_timeout", strconv.Itoa(timeoutSeconds(opts.UserLookupTimeout, 30)))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func timeoutSeconds(d time.Duration, fallback int) int {
	if d <= 0 {
		return fallback
	}
	return int(d / time.Second)
}

func (c *Client) observe(candidate string, status int, duration time.Duration) {
	if c.observer != nil {
		// Candidate URLs are configuration-bounded, so they are safe as
		// a label value.
		c.observer(strings.TrimRight(candidate, "/"), status, duration)
	}
}
