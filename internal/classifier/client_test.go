package classifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justestif/feelora/internal/emotion"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		url:         server.URL,
		token:       "hf-test",
		httpClient:  server.Client(),
		retryDelays: []time.Duration{0, 0, 0},
	}
}

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hf-test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "image/jpeg" {
			t.Errorf("Content-Type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "jpeg-bytes" {
			t.Errorf("body = %q", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"label": "surprise", "score": 0.04},
			{"label": "happy", "score": 0.92},
			{"label": "neutral", "score": 0.02},
			{"label": "sad", "score": 0.006},
			{"label": "calm", "score": 0.01},
			{"label": "fear", "score": 0.004}
		]`))
	}))
	defer server.Close()

	got, err := newTestClient(server).Classify(context.Background(), []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	want := []emotion.Label{emotion.Happy, emotion.Surprised, emotion.Neutral, emotion.Calm, emotion.Sad}
	if len(got) != len(want) {
		t.Fatalf("Classify() returned %d scores, want %d", len(got), len(want))
	}
	for i, label := range want {
		if got[i].Label != label {
			t.Errorf("score %d label = %q, want %q", i, got[i].Label, label)
		}
	}
	if got.Top().Confidence != 0.92 {
		t.Errorf("top confidence = %v, want 0.92", got.Top().Confidence)
	}
}

func TestClassify_RetriesWhileLoading(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20.0}`))
			return
		}
		_, _ = w.Write([]byte(`[{"label":"calm","score":0.7}]`))
	}))
	defer server.Close()

	got, err := newTestClient(server).Classify(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Top().Label != emotion.Calm {
		t.Errorf("top label = %q, want calm", got.Top().Label)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		wantCalls int32
	}{
		{"always loading", http.StatusServiceUnavailable, `{"error":"loading"}`, ErrModelUnavailable, 4},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid token"}`, ErrUnauthorized, 1},
		{"forbidden", http.StatusForbidden, ``, ErrUnauthorized, 1},
		{"empty result", http.StatusOK, `[]`, ErrNoPredictions, 1},
		{"bad request", http.StatusBadRequest, `{"error":"bad image"}`, nil, 1},
		{"malformed json", http.StatusOK, `{"label":`, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server).Classify(context.Background(), []byte("img"))
			if err == nil {
				t.Fatal("Classify() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Classify() error = %v, want %v", err, tt.wantErr)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestClassify_ContextCancelledDuringRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server)
	client.retryDelays = []time.Duration{time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Classify(ctx, []byte("img"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Classify() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})
	if c.url != DefaultURL {
		t.Errorf("url = %q, want %q", c.url, DefaultURL)
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", c.httpClient.Timeout)
	}
	if len(c.retryDelays) != 3 {
		t.Errorf("retryDelays = %v, want 3 entries", c.retryDelays)
	}
}
