package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/kiranshivaraju/docsense/internal/llm"
	"github.com/kiranshivaraju/docsense/pkg/models"
)

const summarizerSystemPrompt = "You are an expert financial analyst. Summarize the user's document in JSON with " +
	"keys summary_text (<=150 words), key_points (array of 3-5 concise bullet strings), " +
	"and confidence (0-1 float). Respond with JSON only."

// Summarizer produces a condensed summary with supporting key points.
type Summarizer struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewSummarizer creates a summarizer agent. A nil client means the agent
// always uses its heuristic strategy.
func NewSummarizer(client llm.Client, logger *slog.Logger) *Summarizer {
	return &Summarizer{llm: client, logger: logger}
}

func (s *Summarizer) Name() string { return models.AgentSummary }

func (s *Summarizer) Run(ctx context.Context, documentText string) (any, error) {
	text := strings.TrimSpace(documentText)
	if text == "" {
		return models.SummaryPayload{Text: "", KeyPoints: []string{}, Confidence: 0}, nil
	}

	if s.llm != nil {
		payload, err := s.summarizeLLM(ctx, text)
		if err == nil {
			return payload, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		s.logger.Warn("summarizer LLM call failed, falling back to heuristics", "error", err)
	}

	return s.summarize(text), nil
}

func (s *Summarizer) summarizeLLM(ctx context.Context, text string) (models.SummaryPayload, error) {
	raw, err := s.llm.Complete(ctx, summarizerSystemPrompt, trimForLLM(text))
	if err != nil {
		return models.SummaryPayload{}, err
	}

	var resp struct {
		SummaryText  string   `json:"summary_text"`
		Summary      string   `json:"summary"`
		KeyPoints    []string `json:"key_points"`
		KeyPointsAlt []string `json:"keyPoints"`
		Confidence   *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return models.SummaryPayload{}, llm.ErrInvalidResponse
	}

	summaryText := resp.SummaryText
	if summaryText == "" {
		summaryText = resp.Summary
	}
	keyPoints := resp.KeyPoints
	if len(keyPoints) == 0 {
		keyPoints = resp.KeyPointsAlt
	}
	confidence := 0.85
	if resp.Confidence != nil {
		confidence = *resp.Confidence
	}

	return models.SummaryPayload{
		Text:       strings.TrimSpace(capWords(summaryText, 150)),
		KeyPoints:  cleanStrings(keyPoints, 5),
		Confidence: round2(confidence),
	}, nil
}

// summarize is the heuristic strategy: first three sentences as summary,
// first five as key points.
func (s *Summarizer) summarize(text string) models.SummaryPayload {
	sentences := nonEmptySentences(text)

	summaryText := strings.Join(first(sentences, 3), " ")
	summaryText = capWords(summaryText, 150)

	confidence := 0.5 + float64(len(summaryText))/float64(max(len(text), 1))
	if confidence > 0.95 {
		confidence = 0.95
	}

	return models.SummaryPayload{
		Text:       summaryText,
		KeyPoints:  first(sentences, 5),
		Confidence: round2(confidence),
	}
}

func first(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

var _ models.Agent = (*Summarizer)(nil)
