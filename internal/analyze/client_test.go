package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamscribe/teamscribe/internal/transcript"
)

func sampleData() *transcript.TranscriptData {
	return &transcript.TranscriptData{
		MeetingInfo: transcript.MeetingInfo{ID: "m1", Subject: "Standup"},
		Transcripts: []transcript.Transcript{
			{ID: "t1", Entries: []transcript.Entry{{Text: "hello", Speaker: "Ada"}}},
		},
	}
}

func TestAnalyze_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("test_mode"))
		assert.Equal(t, "60", q.Get("llm_timeout"))
		assert.Equal(t, "30", q.Get("user_lookup_timeout"))

		var body transcript.TranscriptData
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "m1", body.MeetingInfo.ID, "transcript is posted raw")

		_, _ = w.Write([]byte(`{"data":{"mode":"preview","html":"<h1>Minutes</h1>"},"extra":"kept"}`))
	}))
	defer srv.Close()

	client := NewClient(nil, nil)
	resp, err := client.Analyze(context.Background(), srv.URL, sampleData(), Options{
		TestMode:          true,
		LLMTimeout:        60 * time.Second,
		UserLookupTimeout: 30 * time.Second,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Data)
	assert.Equal(t, "preview", resp.Data.Mode)
	assert.Equal(t, "<h1>Minutes</h1>", resp.Data.HTML)
	assert.Equal(t, "kept", resp.Raw["extra"], "unknown fields pass through")
}

func TestAnalyze_NonOKIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"llm unavailable"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(nil, nil).Analyze(context.Background(), srv.URL, sampleData(), Options{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.NotNil(t, resp)
	assert.Equal(t, "llm unavailable", resp.Raw["detail"], "error body is parsed and attached")
}

func TestAnalyze_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	resp, err := NewClient(nil, nil).Analyze(context.Background(), srv.URL, sampleData(), Options{})
	require.Error(t, err)
	assert.Nil(t, resp)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failures are not StatusErrors")
}

func TestAnalyze_NonJSONBodyStillSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("published ok"))
	}))
	defer srv.Close()

	resp, err := NewClient(nil, nil).Analyze(context.Background(), srv.URL, sampleData(), Options{})
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
	assert.Nil(t, resp.Raw)
}

func TestProbe(t *testing.T) {
	t.Run("reachable via HEAD", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
		}))
		defer srv.Close()

		assert.NoError(t, NewClient(nil, nil).Probe(context.Background(), srv.URL))
	})

	t.Run("falls back to GET on 405", func(t *testing.T) {
		var methods []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		}))
		defer srv.Close()

		assert.NoError(t, NewClient(nil, nil).Probe(context.Background(), srv.URL))
		assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
	})

	t.Run("non-2xx still counts as reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		assert.NoError(t, NewClient(nil, nil).Probe(context.Background(), srv.URL))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		assert.Error(t, NewClient(nil, nil).Probe(context.Background(), srv.URL))
	})
}

func TestAnalyze_Observer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var gotStatus int
	client := NewClient(nil, nil, WithObserver(func(_ string, status int, _ time.Duration) {
		gotStatus = status
	}))

	_, err := client.Analyze(context.Background(), srv.URL, sampleData(), Options{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, gotStatus)
}
