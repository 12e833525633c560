package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/kiranshivaraju/docsense/internal/llm"
	"github.com/kiranshivaraju/docsense/pkg/models"
)

const extractorSystemPrompt = "You extract structured entities from financial documents. Respond with JSON containing " +
	"people, organizations, dates, and locations arrays. Each entry needs name, mentions (int), " +
	"context (short quote), and role/type when applicable."

var (
	peoplePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
	orgPattern    = regexp.MustCompile(`\b[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*(?:\s+(?:Inc|Corp|LLC|Ltd|Company|Bank|Group))\b`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b20\d{2}\b`),
		regexp.MustCompile(`\b19\d{2}\b`),
		regexp.MustCompile(`\bQ[1-4]-?20\d{2}\b`),
		regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},\s+20\d{2}\b`),
	}

	locationHints = []string{
		"New York",
		"London",
		"Mumbai",
		"Delhi",
		"Singapore",
		"San Francisco",
		"Tokyo",
	}
)

// Extractor locates people, organizations, dates, and locations in the
// document.
type Extractor struct {
	llm    llm.Client
	logger *slog.Logger
}

// NewExtractor creates an entity extraction agent. A nil client means the
// agent always uses its heuristic strategy.
func NewExtractor(client llm.Client, logger *slog.Logger) *Extractor {
	return &Extractor{llm: client, logger: logger}
}

func (e *Extractor) Name() string { return models.AgentEntities }

func (e *Extractor) Run(ctx context.Context, documentText string) (any, error) {
	if e.llm != nil && strings.TrimSpace(documentText) != "" {
		payload, err := e.extractLLM(ctx, documentText)
		if err == nil {
			return payload, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		e.logger.Warn("entity extractor LLM call failed, falling back to heuristics", "error", err)
	}

	return e.extract(documentText), nil
}

// rawEntity tolerates the loose shapes LLM backends return for entity lists.
type rawEntity struct {
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
	Context  string `json:"context"`
	Role     string `json:"role"`
	Type     string `json:"type"`
}

func (e *Extractor) extractLLM(ctx context.Context, text string) (models.EntitiesPayload, error) {
	raw, err := e.llm.Complete(ctx, extractorSystemPrompt, trimForLLM(text))
	if err != nil {
		return models.EntitiesPayload{}, err
	}

	var resp struct {
		People        []rawEntity `json:"people"`
		Organizations []rawEntity `json:"organizations"`
		Dates         []rawEntity `json:"dates"`
		Locations     []rawEntity `json:"locations"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return models.EntitiesPayload{}, llm.ErrInvalidResponse
	}

	return models.EntitiesPayload{
		People:        normalizeEntities(resp.People, ""),
		Organizations: normalizeEntities(resp.Organizations, "company"),
		Dates:         normalizeEntities(resp.Dates, "date"),
		Locations:     normalizeEntities(resp.Locations, "location"),
	}, nil
}

// normalizeEntities drops nameless entries, floors mention counts at one, and
// fills in the category's default type when the backend omitted one.
func normalizeEntities(in []rawEntity, fallbackType string) []models.Entity {
	out := make([]models.Entity, 0, len(in))
	for _, item := range in {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		mentions := item.Mentions
		if mentions < 1 {
			mentions = 1
		}
		entityType := item.Type
		if entityType == "" {
			entityType = fallbackType
		}
		out = append(out, models.Entity{
			Name:     name,
			Mentions: mentions,
			Context:  item.Context,
			Role:     item.Role,
			Type:     entityType,
		})
	}
	return out
}

// extract is the heuristic strategy: regex passes over the raw text, ranked
// by mention count.
func (e *Extractor) extract(text string) models.EntitiesPayload {
	sentences := splitSentences(text)

	return models.EntitiesPayload{
		People:        buildEntities(peoplePattern.FindAllString(text, -1), sentences, ""),
		Organizations: buildEntities(orgPattern.FindAllString(text, -1), sentences, "company"),
		Dates:         buildEntities(findDates(text), sentences, "date"),
		Locations:     buildEntities(findLocations(text), sentences, "location"),
	}
}

func findDates(text string) []string {
	var matches []string
	for _, pattern := range datePatterns {
		matches = append(matches, pattern.FindAllString(text, -1)...)
	}
	return matches
}

func findLocations(text string) []string {
	var matches []string
	for _, location := range locationHints {
		if strings.Contains(text, location) {
			matches = append(matches, location)
		}
	}
	return matches
}

// buildEntities counts mentions, keeps the top five names, and attaches the
// first sentence containing each name as context. Ties keep first-seen order.
func buildEntities(matches, sentences []string, entityType string) []models.Entity {
	counts := make(map[string]int, len(matches))
	var order []string
	for _, name := range matches {
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 5 {
		order = order[:5]
	}

	entities := make([]models.Entity, 0, len(order))
	for _, name := range order {
		var context string
		for _, sentence := range sentences {
			if strings.Contains(sentence, name) {
				context = strings.TrimSpace(sentence)
				break
			}
		}
		entities = append(entities, models.Entity{
			Name:     name,
			Mentions: counts[name],
			Context:  context,
			Type:     entityType,
		})
	}
	return entities
}

var _ models.Agent = (*Extractor)(nil)
