package appscript

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mamadbah2/rakelog/internal/config"
	"github.com/mamadbah2/rakelog/internal/domain/models"
	"github.com/mamadbah2/rakelog/internal/domain/rake"
)

func TestSubmit_PostsPayload(t *testing.T) {
	payloadCh := make(chan map[string]any, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		payloadCh <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(config.SubmissionConfig{EndpointURL: server.URL})
	err := client.Submit(context.Background(), models.SubmissionPayload{
		RakeNo:    "1/1481",
		TabName:   "OCT-26",
		Receipt:   "18.10.2026/06:00",
		RDuration: "07:06:00",
		Demurrage: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	payload := <-payloadCh
	if payload["rake_no"] != "1/1481" || payload["tab_name"] != "OCT-26" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["r_duration"] != "07:06:00" || payload["demurrage"] != float64(1) {
		t.Fatalf("unexpected derived fields %v", payload)
	}
	if _, ok := payload["gcv"]; ok {
		t.Fatal("gcv should be omitted when unset")
	}
}

func TestSubmit_NonOKIsTransportError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(config.SubmissionConfig{EndpointURL: server.URL})
	err := client.Submit(context.Background(), models.SubmissionPayload{RakeNo: "1/1"})
	if !errors.Is(err, rake.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one call, got %d", calls.Load())
	}
}

func TestSubmit_ServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(config.SubmissionConfig{EndpointURL: server.URL})
	if err := client.Submit(context.Background(), models.SubmissionPayload{RakeNo: "1/1"}); !errors.Is(err, rake.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected no retries, got %d calls", calls.Load())
	}
}

func TestSubmit_UnreachableIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(config.SubmissionConfig{EndpointURL: url})
	if err := client.Submit(context.Background(), models.SubmissionPayload{RakeNo: "1/1"}); !errors.Is(err, rake.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
