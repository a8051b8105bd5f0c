package transcript_tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamscribe/teamscribe/internal/analyze"
	"github.com/teamscribe/teamscribe/internal/config"
	"github.com/teamscribe/teamscribe/internal/orchestrate"
	"github.com/teamscribe/teamscribe/internal/server"
	"github.com/teamscribe/teamscribe/internal/transcript"
)

const sampleFetchBody = `{
	"success": true,
	"data": {
		"meetingInfo": {
			"id": "mtg-1",
			"subject": "Weekly Sync",
			"startDateTime": "2024-03-01T10:00:00Z",
			"endDateTime": "2024-03-01T10:30:00Z",
			"attendees": [{"name": "Alice", "email": "alice@example.com"}]
		},
		"transcripts": [{
			"id": "t-1",
			"entries": [
				{"startTime": "00:01", "endTime": "00:05", "speaker": "Alice", "text": "Hello everyone"}
			]
		}]
	}
}`

func newTestContext(t *testing.T, backendURL string, analyzeURLs []string) *server.ServerContext {
	t.Helper()

	cfg := config.Config{
		BackendURL:     backendURL,
		AnalyzeURLs:    analyzeURLs,
		RequestTimeout: 5 * time.Second,
		SessionFile:    filepath.Join(t.TempDir(), "session.json"),
	}

	sc, err := server.NewServerContext(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestRegisterTranscriptTools(t *testing.T) {
	sc := newTestContext(t, "http://localhost:0", nil)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	err := RegisterTranscriptTools(s, sc, false)
	assert.NoError(t, err)
}

func TestRegisterTranscriptTools_ReadOnly(t *testing.T) {
	sc := newTestContext(t, "http://localhost:0", nil)
	s := mcpserver.NewMCPServer("test", "0.0.0")

	err := RegisterTranscriptTools(s, sc, true)
	assert.NoError(t, err)
}

func TestHandleAuthStatus_Authenticated(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authenticated": true, "user": {"displayName": "Alice", "email": "alice@example.com"}}`))
	}))
	defer backend.Close()

	sc := newTestContext(t, backend.URL, nil)

	result, err := handleAuthStatus(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Authenticated.")
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "alice@example.com")
}

func TestHandleAuthStatus_Unauthenticated(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authenticated": false, "loginUrl": "https://backend.example.com/auth/login"}`))
	}))
	defer backend.Close()

	sc := newTestContext(t, backend.URL, nil)

	result, err := handleAuthStatus(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Not authenticated.")
	assert.Contains(t, text, "https://backend.example.com/auth/login")
}

func TestHandleAuthStatus_BackendDown(t *testing.T) {
	sc := newTestContext(t, "http://localhost:0", nil)

	result, err := handleAuthStatus(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)

	// CheckStatus folds transport errors into unauthenticated
	text := resultText(t, result)
	assert.Contains(t, text, "Not authenticated.")
}

func TestHandleFetchTranscript(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transcript/fetch", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFetchBody))
	}))
	defer backend.Close()

	sc := newTestContext(t, backend.URL, nil)

	result, err := handleFetchTranscript(context.Background(), toolRequest(map[string]interface{}{
		"join_url": "https://teams.microsoft.com/l/meetup-join/abc",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Meeting: Weekly Sync")
	assert.Contains(t, text, "Attendees: Alice")
	assert.Contains(t, text, "[00:01 - 00:05] Alice: Hello everyone")
}

func TestHandleFetchTranscript_NoMetadata(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFetchBody))
	}))
	defer backend.Close()

	sc := newTestContext(t, backend.URL, nil)

	result, err := handleFetchTranscript(context.Background(), toolRequest(map[string]interface{}{
		"join_url":         "https://teams.microsoft.com/l/meetup-join/abc",
		"include_metadata": false,
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.NotContains(t, text, "Meeting: Weekly Sync")
	assert.Contains(t, text, "[00:01 - 00:05] Alice: Hello everyone")
}

func TestHandleFetchTranscript_MissingJoinURL(t *testing.T) {
	sc := newTestContext(t, "http://localhost:0", nil)

	result, err := handleFetchTranscript(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleFetchTranscript_BackendDeclines(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "message": "no transcript available"}`))
	}))
	defer backend.Close()

	sc := newTestContext(t, backend.URL, nil)

	result, err := handleFetchTranscript(context.Background(), toolRequest(map[string]interface{}{
		"join_url": "https://teams.microsoft.com/l/meetup-join/abc",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "no transcript available")
}

func TestHandleProcessMeeting_Single(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFetchBody))
	}))
	defer backend.Close()

	analyzeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"mode": "production", "page_url": "https://wiki.example.com/p/1"}}`))
	}))
	defer analyzeSrv.Close()

	sc := newTestContext(t, backend.URL, []string{analyzeSrv.URL})

	result, err := handleProcessMeeting(context.Background(), toolRequest(map[string]interface{}{
		"join_url": "https://teams.microsoft.com/l/meetup-join/abc",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Transcript fetched.")
	assert.Contains(t, text, "Analysis completed.")
	assert.Contains(t, text, "https://wiki.example.com/p/1")
}

func TestHandleProcessMeeting_Batch(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFetchBody))
	}))
	defer backend.Close()

	analyzeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer analyzeSrv.Close()

	sc := newTestContext(t, backend.URL, []string{analyzeSrv.URL})

	result, err := handleProcessMeeting(context.Background(), toolRequest(map[string]interface{}{
		"join_url": `["https://teams.microsoft.com/l/meetup-join/a", "https://teams.microsoft.com/l/meetup-join/b"]`,
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, `"successful": 2`)
	assert.Contains(t, text, `"failed": 0`)
}

func TestHandleProcessMeeting_InvalidArg(t *testing.T) {
	sc := newTestContext(t, "http://localhost:0", nil)

	result, err := handleProcessMeeting(context.Background(), toolRequest(map[string]interface{}{
		"join_url": 42,
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleExportTranscript(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFetchBody))
	}))
	defer backend.Close()

	sc := newTestContext(t, backend.URL, nil)
	dir := t.TempDir()

	result, err := handleExportTranscript(context.Background(), toolRequest(map[string]interface{}{
		"join_url":   "https://teams.microsoft.com/l/meetup-join/abc",
		"output_dir": dir,
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	path := filepath.Join(dir, "transcript-mtg-1.txt")
	text := resultText(t, result)
	assert.Contains(t, text, path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[00:01 - 00:05] Alice: Hello everyone")
}

func TestHandleProbeAnalyze_NoCandidates(t *testing.T) {
	sc := newTestContext(t, "http://localhost:0", nil)

	result, err := handleProbeAnalyze(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "No analyze endpoints configured")
}

func TestHandleProbeAnalyze_FirstResponder(t *testing.T) {
	analyzeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer analyzeSrv.Close()

	sc := newTestContext(t, "http://localhost:0", []string{"http://localhost:1", analyzeSrv.URL})

	result, err := handleProbeAnalyze(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, analyzeSrv.URL+"  [FIRST RESPONDER]")
}

func TestHandleProbeAnalyze_AllUnreachable(t *testing.T) {
	sc := newTestContext(t, "http://localhost:0", []string{"http://localhost:1"})

	result, err := handleProbeAnalyze(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFormatProcessResult(t *testing.T) {
	tests := []struct {
		name     string
		result   orchestrate.Result
		contains []string
	}{
		{
			name:     "fetch failure",
			result:   orchestrate.Result{Success: false, Err: "not authenticated"},
			contains: []string{"Processing failed: not authenticated"},
		},
		{
			name: "full success",
			result: orchestrate.Result{
				Success: true,
				Data: &transcript.TranscriptData{
					MeetingInfo: transcript.MeetingInfo{Subject: "Retro"},
					Transcripts: []transcript.Transcript{{}},
				},
				Analysis: &analyze.Response{Data: &analyze.ResponseData{Mode: "test"}},
			},
			contains: []string{"Transcript fetched.", "Meeting: Retro", "Analysis completed.", "Mode: test"},
		},
		{
			name: "partial success",
			result: orchestrate.Result{
				Success: true,
				Data:    &transcript.TranscriptData{},
				Err:     "analysis unavailable: connection refused",
			},
			contains: []string{"Transcript fetched.", "Analysis degraded: analysis unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatProcessResult(tt.result)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}
