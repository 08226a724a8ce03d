package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnquangdev/video-summarizer/pkg/config"
)

func TestGroqComplete_Success(t *testing.T) {
	// Mock Groq server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "transcript here" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		if req.Temperature != 0.3 {
			t.Errorf("unexpected temperature %v", req.Temperature)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary_segments\":[]}"}}]}`))
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL})
	out, err := client.Complete(context.Background(), "you are an editor", "transcript here")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != `{"summary_segments":[]}` {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestGroqComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantSub string
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: "overloaded", wantSub: "status 503"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantSub: "empty response"},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantSub: "decode groq response"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			client := NewGroqClient(&config.GroqConfig{APIKey: "k", BaseURL: ts.URL})
			_, err := client.Complete(context.Background(), "s", "u")
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("expected error containing %q got %v", tc.wantSub, err)
			}
		})
	}
}

func TestGroqComplete_NoKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	client := NewGroqClient(&config.GroqConfig{BaseURL: "http://127.0.0.1:1"})
	if client.Enabled() {
		t.Fatalf("client without key should be disabled")
	}
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatalf("expected error without key")
	}
}
