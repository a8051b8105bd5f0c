package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teamscribe/teamscribe/internal/analyze"
	"github.com/teamscribe/teamscribe/internal/logging"
	"github.com/teamscribe/teamscribe/internal/transcript"
)

// defaultFetchError is reported when the backend declines a fetch without
// a message of its own.
const defaultFetchError = "failed to fetch transcript"

// Fetcher retrieves a transcript for a meeting join URL.
type Fetcher interface {
	Fetch(ctx context.Context, joinURL string) (*transcript.FetchResponse, error)
}

// Analyzer submits a transcript to a single analyze candidate and probes
// candidate reachability.
type Analyzer interface {
	Analyze(ctx context.Context, candidateURL string, data *transcript.TranscriptData, opts analyze.Options) (*analyze.Response, error)
	Probe(ctx context.Context, candidateURL string) error
}

// Result is the outcome contract returned to every caller. Success refers
// to the transcript fetch; a successful Result may still carry a non-empty
// Err describing a degraded analyze step (partial success).
type Result struct {
	Success  bool
	Data     *transcript.TranscriptData
	Analysis *analyze.Response
	Err      string
}

// Orchestrator drives the two-phase meeting workflow: fetch the
// transcript, then hand it to the first analyze candidate that answers.
type Orchestrator struct {
	fetcher    Fetcher
	analyzer   Analyzer
	candidates []string
	opts       analyze.Options
	logger     *slog.Logger
}

// New creates an orchestrator over the given candidate list. Candidates
// are attempted strictly in order on every Process call.
func New(fetcher Fetcher, analyzer Analyzer, candidates []string, opts analyze.Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		fetcher:    fetcher,
		analyzer:   analyzer,
		candidates: candidates,
		opts:       opts,
		logger:     logging.WithService(logger, "orchestrate"),
	}
}

// Process runs the full workflow for one meeting. It never returns a Go
// error: every failure mode is folded into a well-formed Result.
func (o *Orchestrator) Process(ctx context.Context, joinURL string) Result {
	log := logging.WithOperation(o.logger, "process")

	fetched, err := o.fetcher.Fetch(ctx, joinURL)
	if err != nil {
		log.Error("transcript fetch failed", logging.Err(err))
		return Result{Success: false, Err: err.Error()}
	}
	if !fetched.Success {
		msg := fetched.Message
		if msg == "" {
			msg = defaultFetchError
		}
		log.Warn("backend declined transcript fetch", slog.String("message", msg))
		return Result{Success: false, Err: msg}
	}

	result := Result{Success: true, Data: fetched.Data}

	// Phase 2 runs only on fetch success, and its failures never demote
	// the result: the transcript is already in hand.
	analysis, analyzeErr := o.firstResponder(ctx, fetched.Data)
	result.Analysis = analysis
	if analyzeErr != "" {
		result.Err = analyzeErr
	}
	return result
}

// firstResponder walks the candidate list in order and stops at the first
// candidate that completes a request/response cycle, whatever its HTTP
// status. Only transport-level failures advance the loop.
//
// Returns the parsed response (nil when no candidate answered) and a
// warning string (empty on a clean 2xx).
func (o *Orchestrator) firstResponder(ctx context.Context, data *transcript.TranscriptData) (*analyze.Response, string) {
	var transportErrs []string

	for _, candidate := range o.candidates {
		resp, err := o.analyzer.Analyze(ctx, candidate, data, o.opts)
		if err == nil {
			o.logger.Info("analysis completed", slog.String("candidate", candidate))
			return resp, ""
		}

		var statusErr *analyze.StatusError
		if errors.As(err, &statusErr) {
			// The candidate answered; first responder wins even when the
			// answer is an error.
			o.logger.Warn("analysis failed",
				slog.String("candidate", candidate),
				slog.Int("status", statusErr.StatusCode),
			)
			return resp, fmt.Sprintf("analysis failed with status %d", statusErr.StatusCode)
		}

		o.logger.Warn("analyze candidate unreachable",
			slog.String("candidate", candidate), logging.Err(err))
		transportErrs = append(transportErrs, err.Error())
	}

	if len(transportErrs) == 0 {
		return nil, "no analyze candidates configured"
	}
	return nil, "analysis unavailable: " + strings.Join(transportErrs, "; ")
}

// ProbeCandidates checks candidate reachability in order and returns the
// first candidate that answers a preflight request. Used for diagnostics
// only; Process never calls it.
func (o *Orchestrator) ProbeCandidates(ctx context.Context) (string, error) {
	var probeErrs []string
	for _, candidate := range o.candidates {
		if err := o.analyzer.Probe(ctx, candidate); err != nil {
			probeErrs = append(probeErrs, err.Error())
			continue
		}
		return candidate, nil
	}
	if len(probeErrs) == 0 {
		return "", errors.New("no analyze candidates configured")
	}
	return "", fmt.Errorf("no analyze candidate reachable: %s", strings.Join(probeErrs, "; "))
}

// Candidates returns the configured candidate list in attempt order.
func (o *Orchestrator) Candidates() []string {
	return o.candidates
}
