// Package insight annotates a finished match ranking with a short
// model-generated summary. The annotation is strictly advisory: callers treat
// any failure here as a degraded response, never as a matching failure.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bloodbridge/matching-service/internal/apperrors"
	"github.com/bloodbridge/matching-service/internal/config"
)

const systemPrompt = "You are a medical matching assistant for blood donation. " +
	"Provide brief, actionable insights about donor matches. Be concise and professional."

// MatchSummary is the slice of a scored match the model gets to see.
type MatchSummary struct {
	Rank        int
	Score       int
	BloodType   string
	DistanceKm  *float64
	Reliability *float64
}

// SummaryRequest describes one annotation call.
type SummaryRequest struct {
	BloodType   string
	Urgency     string
	HasLocation bool
	Matches     []MatchSummary
}

// Annotator produces a one-paragraph summary of a match ranking.
type Annotator interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	log     *slog.Logger
	http    *http.Client
}

func NewClient(cfg config.Insight, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		log:     log,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Summarize(ctx context.Context, req SummaryRequest) (string, error) {
	const op = "internal.insight.Summarize"

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to marshal request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, apperrors.ErrInsightUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug("insight call finished",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%s: %w", op, apperrors.ErrInsightRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("%s: %w: unexpected status %d", op, apperrors.ErrInsightUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%s: %w: failed to decode response: %v", op, apperrors.ErrInsightUnavailable, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: %w: empty completion", op, apperrors.ErrInsightUnavailable)
	}

	return parsed.Choices[0].Message.Content, nil
}

func buildPrompt(req SummaryRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analyze these blood donor matches for a %s request with %s urgency",
		req.BloodType, req.Urgency)
	if !req.HasLocation {
		sb.WriteString(" (no location provided)")
	}
	sb.WriteString(":\n")

	for _, m := range req.Matches {
		fmt.Fprintf(&sb, "%d. Blood type %s, score %d", m.Rank, m.BloodType, m.Score)
		if m.DistanceKm != nil {
			fmt.Fprintf(&sb, ", %.1f km away", *m.DistanceKm)
		} else {
			sb.WriteString(", distance unknown")
		}
		if m.Reliability != nil {
			fmt.Fprintf(&sb, ", reliability %.0f/10", *m.Reliability)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Provide a 2-3 sentence insight about match quality and recommended next steps.")

	return sb.String()
}
