package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testFeedbacks() []FeedbackForPrompt {
	mission := "Audit Dupont"
	return []FeedbackForPrompt{
		{
			Content:         "Très bon travail sur le dossier.",
			CreatedAt:       time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC),
			Mission:         &mission,
			AuthorFirstName: "Marie",
			AuthorLastName:  "Durand",
		},
		{
			Content:         "Doit progresser sur les délais.",
			CreatedAt:       time.Date(2025, time.January, 12, 9, 0, 0, 0, time.UTC),
			AuthorFirstName: "Paul",
			AuthorLastName:  "Martin",
		},
	}
}

func TestFormatFeedbacks(t *testing.T) {
	got := formatFeedbacks(testFeedbacks())

	want := "[Feedback 1 – 5 mars 2025 – Marie Durand, Mission: Audit Dupont] : Très bon travail sur le dossier.\n\n" +
		"[Feedback 2 – 12 janvier 2025 – Paul Martin] : Doit progresser sur les délais."

	if got != want {
		t.Errorf("formatFeedbacks mismatch:\nexpected %q\ngot      %q", want, got)
	}
}

func TestFormatFeedbacksEmptyMission(t *testing.T) {
	empty := ""
	feedbacks := []FeedbackForPrompt{{
		Content:         "RAS",
		CreatedAt:       time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Mission:         &empty,
		AuthorFirstName: "Marie",
		AuthorLastName:  "Durand",
	}}

	want := "[Feedback 1 – 1 février 2025 – Marie Durand] : RAS"
	if got := formatFeedbacks(feedbacks); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestGenerateReportMissingAPIKey(t *testing.T) {
	rs := NewReportService("http://localhost:0", "")

	_, err := rs.GenerateReport(context.Background(), testFeedbacks())
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerateReportEmptyFeedbacks(t *testing.T) {
	// The server fails the test if any request arrives: the empty-input
	// check must run before any network call.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call for empty feedback list")
	}))
	defer server.Close()

	rs := NewReportService(server.URL, "test-key")

	_, err := rs.GenerateReport(context.Background(), nil)
	if !errors.Is(err, ErrNoFeedback) {
		t.Fatalf("expected ErrNoFeedback, got %v", err)
	}
}

func TestGenerateReportSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", auth)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "# Bilan global\n\nTrès bonne saison."}},
			},
		})
	}))
	defer server.Close()

	rs := NewReportService(server.URL, "test-key")

	report, err := rs.GenerateReport(context.Background(), testFeedbacks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report != "# Bilan global\n\nTrès bonne saison." {
		t.Errorf("expected verbatim response text, got %q", report)
	}
}

func TestGenerateReportUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":   "x",
			"details": "y",
			"status":  500,
		})
	}))
	defer server.Close()

	rs := NewReportService(server.URL, "test-key")

	_, err := rs.GenerateReport(context.Background(), testFeedbacks())

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upErr.Message != "x" {
		t.Errorf("expected message 'x', got %q", upErr.Message)
	}
	if upErr.Details != "y" {
		t.Errorf("expected details 'y', got %q", upErr.Details)
	}
	if upErr.Status != 500 {
		t.Errorf("expected status 500, got %d", upErr.Status)
	}
}

func TestGenerateReportUpstreamErrorPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	rs := NewReportService(server.URL, "test-key")

	_, err := rs.GenerateReport(context.Background(), testFeedbacks())

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upErr.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", upErr.Status)
	}
	if upErr.Details != "upstream exploded" {
		t.Errorf("expected raw body as details, got %q", upErr.Details)
	}
}
