// Package agent implements the three analysis agents: summarizer, entity
// extractor, and sentiment analyzer. Each agent carries an optional LLM
// client; when the client is nil or the LLM call fails with a classified
// error, the agent falls back to its heuristic strategy.
package agent

import (
	"math"
	"strings"
)

// maxInputChars caps how much document text is sent to the LLM backend.
const maxInputChars = 6000

// trimForLLM truncates the document text before it goes to the backend.
func trimForLLM(text string) string {
	if len(text) > maxInputChars {
		return text[:maxInputChars]
	}
	return text
}

// splitSentences splits text into sentences on terminal punctuation followed
// by whitespace. The terminator stays attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		// Only break when whitespace follows the terminator.
		if i+1 < len(text) && !isSpace(text[i+1]) {
			continue
		}
		sentences = append(sentences, text[start:i+1])
		i++
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		start = i
		i--
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// nonEmptySentences splits and drops blank sentences, trimming each.
func nonEmptySentences(text string) []string {
	var out []string
	for _, s := range splitSentences(text) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// round2 rounds to two decimal places for confidence scores.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// capWords truncates text to at most n words, appending an ellipsis marker
// when anything was cut.
func capWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + "..."
}

// cleanStrings trims the given strings, drops blanks, and caps the result
// at max entries.
func cleanStrings(in []string, max int) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
		if len(out) >= max {
			break
		}
	}
	return out
}
