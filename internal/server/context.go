package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/teamscribe/teamscribe/internal/analyze"
	"github.com/teamscribe/teamscribe/internal/auth"
	"github.com/teamscribe/teamscribe/internal/config"
	"github.com/teamscribe/teamscribe/internal/instrumentation"
	"github.com/teamscribe/teamscribe/internal/orchestrate"
	"github.com/teamscribe/teamscribe/internal/session"
	"github.com/teamscribe/teamscribe/internal/transcript"
)

// ServerContext holds the shared dependencies for the MCP server and the
// CLI commands: the backend clients, the persisted session, and the
// orchestrator that drives the fetch/analyze workflow.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg        config.Config
	sessionJar *session.Jar
	httpClient *http.Client

	authClient       *auth.Client
	transcriptClient *transcript.Client
	analyzeClient    *analyze.Client
	orchestrator     *orchestrate.Orchestrator

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	logger *slog.Logger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context with all backend clients
// wired to the persisted session cookie.
func NewServerContext(ctx context.Context, cfg config.Config, logger *slog.Logger) (*ServerContext, error) {
	if logger == nil {
		logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	jar, err := session.NewJar(cfg.SessionFile, cfg.BackendURL)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	httpClient := &http.Client{
		Jar:     jar,
		Timeout: cfg.RequestTimeout,
	}

	sc := &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		cfg:        cfg,
		sessionJar: jar,
		httpClient: httpClient,
		logger:     logger,
	}

	sc.authClient = auth.NewClient(cfg.BackendURL, httpClient, logger)
	sc.transcriptClient = transcript.NewClient(cfg.BackendURL, httpClient, logger,
		transcript.WithObserver(sc.observeTranscript))
	sc.analyzeClient = analyze.NewClient(httpClient, logger,
		analyze.WithObserver(sc.observeAnalyze))

	opts := analyze.Options{
		TestMode:          cfg.TestMode,
		LLMTimeout:        cfg.LLMTimeout,
		UserLookupTimeout: cfg.UserLookupTimeout,
	}
	sc.orchestrator = orchestrate.New(sc.transcriptClient, sc.analyzeClient, cfg.AnalyzeURLs, opts, logger)

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() config.Config {
	return sc.cfg
}

// SessionJar returns the persisted session cookie store.
func (sc *ServerContext) SessionJar() *session.Jar {
	return sc.sessionJar
}

// AuthClient returns the backend auth client.
func (sc *ServerContext) AuthClient() *auth.Client {
	return sc.authClient
}

// TranscriptClient returns the backend transcript client.
func (sc *ServerContext) TranscriptClient() *transcript.Client {
	return sc.transcriptClient
}

// AnalyzeClient returns the analyze candidate client.
func (sc *ServerContext) AnalyzeClient() *analyze.Client {
	return sc.analyzeClient
}

// Orchestrator returns the fetch/analyze workflow orchestrator.
func (sc *ServerContext) Orchestrator() *orchestrate.Orchestrator {
	return sc.orchestrator
}

// Logger returns the base logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// SetInstrumentation attaches a metrics recorder and audit logger.
// Safe to leave unset; tool handlers degrade to plain execution.
func (sc *ServerContext) SetInstrumentation(metrics *instrumentation.Metrics, auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.auditLogger = auditLogger
}

// Metrics returns the metrics recorder, or nil if instrumentation is not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil if instrumentation is not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// observeTranscript feeds transcript client timings into the metrics
// recorder when one is attached.
func (sc *ServerContext) observeTranscript(operation string, status int, duration time.Duration) {
	metrics := sc.Metrics()
	if metrics == nil {
		return
	}

	result := instrumentation.StatusError
	if status >= 200 && status < 300 {
		result = instrumentation.StatusSuccess
	}
	metrics.RecordBackendOperation(sc.ctx, instrumentation.ServiceTranscript, operation, result, duration)
}

// observeAnalyze records one analyze candidate attempt. A status of zero
// means the candidate never answered (transport failure).
func (sc *ServerContext) observeAnalyze(candidate string, status int, duration time.Duration) {
	metrics := sc.Metrics()
	if metrics == nil {
		return
	}

	result := instrumentation.StatusError
	if status >= 200 && status < 300 {
		result = instrumentation.StatusSuccess
	}
	metrics.RecordBackendOperation(sc.ctx, instrumentation.ServiceAnalyze, instrumentation.OperationAnalyze, result, duration)

	attempt := instrumentation.CandidateResultResponded
	if status == 0 {
		attempt = instrumentation.CandidateResultUnreachable
	}
	metrics.RecordCandidateAttempt(sc.ctx, sc.candidatePosition(candidate), attempt)
}

// candidatePosition returns the 1-based position of a candidate URL in
// the configured order, or 0 if it is not a configured candidate. The
// analyze client reports candidates with trailing slashes trimmed, so
// the configured URLs are normalized the same way before comparing.
func (sc *ServerContext) candidatePosition(candidate string) int {
	candidate = strings.TrimRight(candidate, "/")
	for i, u := range sc.cfg.AnalyzeURLs {
		if strings.TrimRight(u, "/") == candidate {
			return i + 1
		}
	}
	return 0
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
