package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kiranshivaraju/docsense/internal/llm"
	"github.com/kiranshivaraju/docsense/pkg/models"
)

const sentimentSystemPrompt = "You evaluate financial documents. Respond strictly as JSON with keys tone " +
	"(positive/negative/neutral), confidence (0-1), formality (formal/informal), and " +
	"key_phrases (array of 2-3 short quotes supporting the tone)."

var tokenPattern = regexp.MustCompile(`[a-zA-Z']+`)

var positiveWords = map[string]struct{}{
	"growth": {}, "improved": {}, "record": {}, "strong": {}, "positive": {},
	"bullish": {}, "expansion": {}, "profit": {}, "increase": {}, "exceeded": {},
	"resilient": {},
}

var negativeWords = map[string]struct{}{
	"decline": {}, "drop": {}, "loss": {}, "negative": {}, "weak": {},
	"missed": {}, "risk": {}, "volatility": {}, "uncertain": {}, "downturn": {},
	"slowdown": {},
}

// SentimentAnalyzer determines tone, confidence, formality, and supportive
// phrases for the document.
type SentimentAnalyzer struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewSentimentAnalyzer creates a sentiment agent. A nil client means the
// agent always uses its heuristic strategy.
func NewSentimentAnalyzer(client llm.Client, logger *slog.Logger) *SentimentAnalyzer {
	return &SentimentAnalyzer{llm: client, logger: logger}
}

func (a *SentimentAnalyzer) Name() string { return models.AgentSentiment }

func (a *SentimentAnalyzer) Run(ctx context.Context, documentText string) (any, error) {
	if a.llm != nil && strings.TrimSpace(documentText) != "" {
		payload, err := a.analyzeLLM(ctx, documentText)
		if err == nil {
			return payload, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		a.logger.Warn("sentiment LLM call failed, falling back to heuristics", "error", err)
	}

	return a.analyze(documentText), nil
}

func (a *SentimentAnalyzer) analyzeLLM(ctx context.Context, text string) (models.SentimentPayload, error) {
	raw, err := a.llm.Complete(ctx, sentimentSystemPrompt, trimForLLM(text))
	if err != nil {
		return models.SentimentPayload{}, err
	}

	var resp struct {
		Tone          string   `json:"tone"`
		Confidence    *float64 `json:"confidence"`
		Formality     string   `json:"formality"`
		KeyPhrases    []string `json:"key_phrases"`
		KeyPhrasesAlt []string `json:"keyPhrases"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return models.SentimentPayload{}, llm.ErrInvalidResponse
	}

	tone := resp.Tone
	if tone == "" {
		tone = "neutral"
	}
	confidence := 0.85
	if resp.Confidence != nil {
		confidence = *resp.Confidence
	}
	formality := resp.Formality
	if formality == "" {
		formality = "formal"
	}
	keyPhrases := resp.KeyPhrases
	if len(keyPhrases) == 0 {
		keyPhrases = resp.KeyPhrasesAlt
	}

	return models.SentimentPayload{
		Tone:       tone,
		Confidence: round2(confidence),
		Formality:  formality,
		KeyPhrases: cleanStrings(keyPhrases, 3),
	}, nil
}

// analyze is the heuristic strategy: lexicon hits decide the tone, sentence
// scan picks the supporting phrases.
func (a *SentimentAnalyzer) analyze(text string) models.SentimentPayload {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	var positiveHits, negativeHits int
	informal := false
	for _, token := range tokens {
		if _, ok := positiveWords[token]; ok {
			positiveHits++
		}
		if _, ok := negativeWords[token]; ok {
			negativeHits++
		}
		if strings.Contains(token, "'") {
			informal = true
		}
	}

	tone := "neutral"
	switch {
	case positiveHits > negativeHits:
		tone = "positive"
	case negativeHits > positiveHits:
		tone = "negative"
	}

	totalHits := positiveHits + negativeHits
	confidence := 0.5 + float64(totalHits)/float64(max(len(tokens), 1))*10
	if confidence > 0.95 {
		confidence = 0.95
	}

	formality := "formal"
	if informal {
		formality = "informal"
	}

	keyPhrases := make([]string, 0, 3)
	for _, sentence := range splitSentences(text) {
		lowered := strings.ToLower(sentence)
		if tone == "neutral" || containsAny(lowered, tone) {
			if trimmed := strings.TrimSpace(sentence); trimmed != "" {
				keyPhrases = append(keyPhrases, trimmed)
			}
		}
		if len(keyPhrases) >= 3 {
			break
		}
	}

	return models.SentimentPayload{
		Tone:       tone,
		Confidence: round2(confidence),
		Formality:  formality,
		KeyPhrases: keyPhrases,
	}
}

// containsAny reports whether the lowered sentence mentions any word from the
// lexicon matching the tone.
func containsAny(lowered, tone string) bool {
	lexicon := positiveWords
	if tone == "negative" {
		lexicon = negativeWords
	}
	for word := range lexicon {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

var _ models.Agent = (*SentimentAnalyzer)(nil)
