package orchestrate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamscribe/teamscribe/internal/analyze"
	"github.com/teamscribe/teamscribe/internal/transcript"
)

type fakeFetcher struct {
	resp  *transcript.FetchResponse
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*transcript.FetchResponse, error) {
	f.calls++
	return f.resp, f.err
}

// candidateOutcome scripts one analyze candidate's behavior.
type candidateOutcome struct {
	resp *analyze.Response
	err  error
}

type fakeAnalyzer struct {
	outcomes map[string]candidateOutcome
	calls    []string
	probes   map[string]error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, candidate string, _ *transcript.TranscriptData, _ analyze.Options) (*analyze.Response, error) {
	f.calls = append(f.calls, candidate)
	out := f.outcomes[candidate]
	return out.resp, out.err
}

func (f *fakeAnalyzer) Probe(_ context.Context, candidate string) error {
	return f.probes[candidate]
}

func fetchedOK() *transcript.FetchResponse {
	return &transcript.FetchResponse{
		Success: true,
		Data: &transcript.TranscriptData{
			MeetingInfo: transcript.MeetingInfo{ID: "m1"},
		},
	}
}

func TestProcess_FetchDeclined_NoAnalyzeCall(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr string
	}{
		{name: "backend message", message: "meeting not found", wantErr: "meeting not found"},
		{name: "default message", message: "", wantErr: defaultFetchError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{resp: &transcript.FetchResponse{Success: false, Message: tt.message}}
			analyzer := &fakeAnalyzer{}
			o := New(fetcher, analyzer, []string{"http://a"}, analyze.Options{}, nil)

			result := o.Process(context.Background(), "https://example.com/join")

			assert.False(t, result.Success)
			assert.Equal(t, tt.wantErr, result.Err)
			assert.Nil(t, result.Data)
			assert.Nil(t, result.Analysis)
			assert.Empty(t, analyzer.calls, "analyze must not run after a declined fetch")
		})
	}
}

func TestProcess_FetchTransportError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	analyzer := &fakeAnalyzer{}
	o := New(fetcher, analyzer, []string{"http://a"}, analyze.Options{}, nil)

	result := o.Process(context.Background(), "https://example.com/join")

	assert.False(t, result.Success)
	assert.Equal(t, "connection refused", result.Err)
	assert.Empty(t, analyzer.calls)
}

func TestProcess_AllCandidatesUnreachable_PartialSuccess(t *testing.T) {
	fetcher := &fakeFetcher{resp: fetchedOK()}
	analyzer := &fakeAnalyzer{outcomes: map[string]candidateOutcome{
		"http://a": {err: errors.New("dial tcp: connection refused")},
		"http://b": {err: errors.New("dial tcp: no route to host")},
	}}
	o := New(fetcher, analyzer, []string{"http://a", "http://b"}, analyze.Options{}, nil)

	result := o.Process(context.Background(), "https://example.com/join")

	assert.True(t, result.Success, "fetch succeeded, so the result is a success")
	require.NotNil(t, result.Data)
	assert.Equal(t, "m1", result.Data.MeetingInfo.ID)
	assert.Nil(t, result.Analysis)
	assert.NotEmpty(t, result.Err)
	assert.Equal(t, []string{"http://a", "http://b"}, analyzer.calls, "every candidate was tried in order")
}

func TestProcess_FirstCandidate500_StopsLoop(t *testing.T) {
	errResp := &analyze.Response{Raw: map[string]any{"detail": "llm unavailable"}}
	fetcher := &fakeFetcher{resp: fetchedOK()}
	analyzer := &fakeAnalyzer{outcomes: map[string]candidateOutcome{
		"http://a": {resp: errResp, err: &analyze.StatusError{StatusCode: 500, Response: errResp}},
		"http://b": {resp: &analyze.Response{}},
	}}
	o := New(fetcher, analyzer, []string{"http://a", "http://b"}, analyze.Options{}, nil)

	result := o.Process(context.Background(), "https://example.com/join")

	assert.True(t, result.Success)
	assert.Equal(t, []string{"http://a"}, analyzer.calls, "first responder wins, even on non-2xx")
	assert.Same(t, errResp, result.Analysis, "the error body stays attached")
	assert.Contains(t, result.Err, "500")
}

func TestProcess_SecondCandidateSucceedsAfterTransportError(t *testing.T) {
	okResp := &analyze.Response{Data: &analyze.ResponseData{Mode: "preview"}}
	fetcher := &fakeFetcher{resp: fetchedOK()}
	analyzer := &fakeAnalyzer{outcomes: map[string]candidateOutcome{
		"http://a": {err: errors.New("dial tcp: connection refused")},
		"http://b": {resp: okResp},
	}}
	o := New(fetcher, analyzer, []string{"http://a", "http://b"}, analyze.Options{}, nil)

	result := o.Process(context.Background(), "https://example.com/join")

	assert.True(t, result.Success)
	assert.Empty(t, result.Err, "a clean 2xx leaves no warning")
	assert.Same(t, okResp, result.Analysis)
	assert.Equal(t, []string{"http://a", "http://b"}, analyzer.calls)
}

func TestProcess_NoCandidatesConfigured(t *testing.T) {
	fetcher := &fakeFetcher{resp: fetchedOK()}
	o := New(fetcher, &fakeAnalyzer{}, nil, analyze.Options{}, nil)

	result := o.Process(context.Background(), "https://example.com/join")

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.Err)
	assert.Nil(t, result.Analysis)
}

func TestProbeCandidates(t *testing.T) {
	analyzer := &fakeAnalyzer{probes: map[string]error{
		"http://a": errors.New("unreachable"),
		"http://b": nil,
		"http://c": nil,
	}}
	o := New(&fakeFetcher{}, analyzer, []string{"http://a", "http://b", "http://c"}, analyze.Options{}, nil)

	url, err := o.ProbeCandidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://b", url, "first reachable candidate wins")
}

func TestProbeCandidates_NoneReachable(t *testing.T) {
	analyzer := &fakeAnalyzer{probes: map[string]error{
		"http://a": errors.New("unreachable"),
	}}
	o := New(&fakeFetcher{}, analyzer, []string{"http://a"}, analyze.Options{}, nil)

	_, err := o.ProbeCandidates(context.Background())
	assert.Error(t, err)
}
