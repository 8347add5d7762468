package compressor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/appointment-reminder/internal/application"
)

var dentist = application.Appointment{
	ID:       "appt-1",
	Title:    "Dentist",
	Date:     "2025-02-01",
	Time:     "09:00",
	Location: "Clinic",
	Notes:    "bring card",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Compress(t *testing.T) {
	t.Parallel()

	t.Run("sends instruction and appointment and returns compressed prompt", func(t *testing.T) {
		t.Parallel()

		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/compress/raw/" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("x-api-key"); got != "secret" {
				t.Errorf("expected api key header, got %q", got)
			}
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("unexpected content type %q", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			_, _ = io.WriteString(w, `{"successful":true,"results":{"compressed_prompt":"dentist 9am"}}`)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL + "/", APIKey: "secret"}, discardLogger())
		got, err := client.Compress(context.Background(), application.ReminderInstruction, dentist)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "dentist 9am" {
			t.Fatalf("unexpected compressed prompt %q", got)
		}

		if captured["context"] != application.ReminderInstruction {
			t.Fatalf("unexpected context %v", captured["context"])
		}
		if captured["prompt"] != "Generate reminder" {
			t.Fatalf("unexpected prompt %v", captured["prompt"])
		}
		appointment, _ := captured["appointment"].(map[string]any)
		if appointment["title"] != "Dentist" || appointment["notes"] != "bring card" {
			t.Fatalf("unexpected appointment payload %v", appointment)
		}
		if _, ok := appointment["ID"]; ok {
			t.Fatalf("identifier must not be sent to the API")
		}
		settings, _ := captured["scaledown"].(map[string]any)
		if settings["rate"] != "auto" {
			t.Fatalf("unexpected scaledown settings %v", settings)
		}
	})

	t.Run("unsuccessful reply carries API error text", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"successful":false,"error":"invalid api key"}`)
		}))
		defer server.Close()

		_, err := NewClient(Config{BaseURL: server.URL}, discardLogger()).Compress(context.Background(), "ctx", dentist)
		var replyErr *ReplyError
		if !errors.As(err, &replyErr) {
			t.Fatalf("expected reply error, got %v", err)
		}
		if err.Error() != "invalid api key" {
			t.Fatalf("unexpected message %q", err.Error())
		}
	})

	t.Run("unsuccessful reply without text uses fallback", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"successful":false}`)
		}))
		defer server.Close()

		_, err := NewClient(Config{BaseURL: server.URL}, discardLogger()).Compress(context.Background(), "ctx", dentist)
		if err == nil || err.Error() != "Compression failed" {
			t.Fatalf("expected fallback message, got %v", err)
		}
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `not json`)
		}))
		defer server.Close()

		_, err := NewClient(Config{BaseURL: server.URL}, discardLogger()).Compress(context.Background(), "ctx", dentist)
		if err == nil || !strings.Contains(err.Error(), "failed to parse response") {
			t.Fatalf("expected parse error, got %v", err)
		}
	})

	t.Run("successful reply without compressed prompt is an error", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{`{"successful":true}`, `{"successful":true,"results":{}}`} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))

			got, err := NewClient(Config{BaseURL: server.URL}, discardLogger()).Compress(context.Background(), "ctx", dentist)
			server.Close()
			if err == nil || !strings.Contains(err.Error(), "missing results.compressed_prompt") {
				t.Fatalf("body %s: expected missing result error, got %q, %v", body, got, err)
			}
		}
	})

	t.Run("empty compressed prompt is accepted", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"successful":true,"results":{"compressed_prompt":""}}`)
		}))
		defer server.Close()

		got, err := NewClient(Config{BaseURL: server.URL}, discardLogger()).Compress(context.Background(), "ctx", dentist)
		if err != nil || got != "" {
			t.Fatalf("expected empty prompt, got %q, %v", got, err)
		}
	})

	t.Run("non JSON error status reports status code", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(Config{BaseURL: server.URL}, discardLogger()).Compress(context.Background(), "ctx", dentist)
		if err == nil || !strings.Contains(err.Error(), "(502)") {
			t.Fatalf("expected status error, got %v", err)
		}
	})

	t.Run("timeout is reported as an error", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, discardLogger())
		_, err := client.Compress(context.Background(), "ctx", dentist)
		if err == nil || !strings.Contains(err.Error(), "compressor request failed") {
			t.Fatalf("expected transport error, got %v", err)
		}
	})
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{}, nil)
	if client.endpoint != DefaultBaseURL+"/compress/raw/" {
		t.Fatalf("unexpected endpoint %q", client.endpoint)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", client.httpClient.Timeout)
	}
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	got, err := Disabled{}.Compress(context.Background(), "ctx", dentist)
	if err != nil || got != "" {
		t.Fatalf("expected empty context without error, got %q, %v", got, err)
	}
}
