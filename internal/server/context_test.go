package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamscribe/teamscribe/internal/config"
	"github.com/teamscribe/teamscribe/internal/instrumentation"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		BackendURL:        "http://localhost:8000",
		AnalyzeURLs:       []string{"http://localhost:8000/analyze", "http://analyzer.local/analyze"},
		TestMode:          true,
		LLMTimeout:        60 * time.Second,
		UserLookupTimeout: 30 * time.Second,
		RequestTimeout:    120 * time.Second,
		SessionFile:       filepath.Join(t.TempDir(), "session.json"),
	}
}

func TestNewServerContext(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.NotNil(t, sc.AuthClient())
	assert.NotNil(t, sc.TranscriptClient())
	assert.NotNil(t, sc.AnalyzeClient())
	assert.NotNil(t, sc.Orchestrator())
	assert.NotNil(t, sc.SessionJar())
	assert.False(t, sc.IsShutdown())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())

	select {
	case <-sc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}

	// Shutdown is idempotent
	require.NoError(t, sc.Shutdown())
}

func TestServerContext_Instrumentation(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	// Unset by default
	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())

	audit := instrumentation.NewAuditLogger(nil)
	sc.SetInstrumentation(nil, audit)
	assert.Same(t, audit, sc.AuditLogger())
}

func TestServerContext_CandidatePosition(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.Equal(t, 1, sc.candidatePosition("http://localhost:8000/analyze"))
	assert.Equal(t, 2, sc.candidatePosition("http://analyzer.local/analyze"))
	assert.Equal(t, 0, sc.candidatePosition("http://unknown/analyze"))
}

func TestServerContext_CandidatePosition_TrailingSlash(t *testing.T) {
	cfg := testConfig(t)
	cfg.AnalyzeURLs = []string{"http://localhost:8000/analyze/", "http://analyzer.local/analyze"}

	sc, err := NewServerContext(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	// The analyze client trims trailing slashes before reporting, so a
	// candidate configured with one must still resolve to its position.
	assert.Equal(t, 1, sc.candidatePosition("http://localhost:8000/analyze"))
	assert.Equal(t, 2, sc.candidatePosition("http://analyzer.local/analyze/"))
}
