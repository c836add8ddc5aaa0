package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/easyrh/backend/internal/i18n"
	"github.com/easyrh/backend/internal/logger"
	"github.com/easyrh/backend/internal/models"
)

var (
	// ErrMissingAPIKey is returned before any network call when no
	// generation credential is configured.
	ErrMissingAPIKey = errors.New("no OpenAI API key configured")

	// ErrNoFeedback is returned before any network call when the feedback
	// list is empty.
	ErrNoFeedback = errors.New("no feedbacks provided")
)

// UpstreamError carries the failure reported by the text-generation
// endpoint. Status is the HTTP status, Details the endpoint's own
// description when it sent one.
type UpstreamError struct {
	Status  int
	Message string
	Details string
}

func (e *UpstreamError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// FeedbackForPrompt is the slice of a feedback the prompt needs.
type FeedbackForPrompt struct {
	Content         string
	CreatedAt       time.Time
	Mission         *string
	AuthorFirstName string
	AuthorLastName  string
}

// FeedbackPromptInput converts fetched feedbacks (author preloaded) into
// prompt inputs, preserving the caller's ordering.
func FeedbackPromptInput(feedbacks []models.Feedback) []FeedbackForPrompt {
	inputs := make([]FeedbackForPrompt, 0, len(feedbacks))
	for _, f := range feedbacks {
		inputs = append(inputs, FeedbackForPrompt{
			Content:         f.Content,
			CreatedAt:       f.CreatedAt,
			Mission:         f.Mission,
			AuthorFirstName: f.Author.FirstName,
			AuthorLastName:  f.Author.LastName,
		})
	}
	return inputs
}

// ReportService formats feedbacks into a prompt and submits it to an
// OpenAI-compatible chat completions endpoint.
type ReportService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewReportService(baseURL, apiKey string) *ReportService {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	timeout := 120 * time.Second
	if timeoutStr := os.Getenv("OPENAI_TIMEOUT_SECONDS"); timeoutStr != "" {
		if t, err := time.ParseDuration(timeoutStr + "s"); err == nil {
			timeout = t
		}
	}

	return &ReportService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   "gpt-4o-mini",
		client:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// upstreamErrorBody is the error shape the generation endpoint may send.
type upstreamErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Status  int    `json:"status"`
}

// GenerateReport submits the feedbacks and returns the generated text
// verbatim. The caller is responsible for ordering the feedbacks
// (typically newest-first as fetched) and for persisting the result.
func (rs *ReportService) GenerateReport(ctx context.Context, feedbacks []FeedbackForPrompt) (string, error) {
	if rs.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if len(feedbacks) == 0 {
		return "", ErrNoFeedback
	}

	request := chatCompletionRequest{
		Model: rs.model,
		Messages: []chatMessage{
			{Role: "system", Content: ReportSystemPrompt},
			{Role: "user", Content: ReportUserPromptHeader + formatFeedbacks(feedbacks)},
		},
		Temperature: 0.7,
		MaxTokens:   3000,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", rs.baseURL)
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+rs.apiKey)

	resp, err := rs.client.Do(req)
	elapsed := time.Since(startTime)

	if err != nil {
		logger.Error("Report generation request failed", map[string]interface{}{
			"elapsed": elapsed.String(),
			"error":   err.Error(),
		})
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Report generation request completed", map[string]interface{}{
		"elapsed": elapsed.String(),
		"status":  resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", rs.upstreamError(resp.StatusCode, body)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %w", err)
	}

	content := ""
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
	}

	return content, nil
}

// upstreamError maps a non-success response to an UpstreamError,
// preserving the endpoint's {error, details, status} body when present.
func (rs *ReportService) upstreamError(statusCode int, body []byte) *UpstreamError {
	upErr := &UpstreamError{
		Status:  statusCode,
		Message: "failed to generate report",
		Details: strings.TrimSpace(string(body)),
	}

	var parsed upstreamErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		upErr.Message = parsed.Error
		upErr.Details = parsed.Details
		if parsed.Status != 0 {
			upErr.Status = parsed.Status
		}
	}

	return upErr
}

// formatFeedbacks renders each feedback as
// [Feedback <n> – <date> – <first> <last>(, Mission: <mission>)?] : <content>
// joined with blank lines, in the order supplied.
func formatFeedbacks(feedbacks []FeedbackForPrompt) string {
	lines := make([]string, 0, len(feedbacks))
	for i, f := range feedbacks {
		mission := ""
		if f.Mission != nil && *f.Mission != "" {
			mission = fmt.Sprintf(", Mission: %s", *f.Mission)
		}
		lines = append(lines, fmt.Sprintf("[Feedback %d – %s – %s %s%s] : %s",
			i+1,
			i18n.FormatDate(f.CreatedAt),
			f.AuthorFirstName,
			f.AuthorLastName,
			mission,
			f.Content,
		))
	}
	return strings.Join(lines, "\n\n")
}
