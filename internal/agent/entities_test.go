package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/docsense/internal/llm"
	"github.com/kiranshivaraju/docsense/internal/llm/mock"
	"github.com/kiranshivaraju/docsense/pkg/models"
)

func TestExtractorHeuristicPeople(t *testing.T) {
	agent := NewExtractor(nil, testLogger())
	text := "John Smith met Jane Doe in New York. John Smith signed the deal."

	out, err := agent.Run(context.Background(), text)
	require.NoError(t, err)

	payload := out.(models.EntitiesPayload)
	require.NotEmpty(t, payload.People)
	assert.Equal(t, "John Smith", payload.People[0].Name)
	assert.Equal(t, 2, payload.People[0].Mentions)
	assert.Equal(t, "John Smith met Jane Doe in New York.", payload.People[0].Context)
}

func TestExtractorHeuristicOrganizations(t *testing.T) {
	agent := NewExtractor(nil, testLogger())
	text := "Acme Corp reported earnings. Global Trade Bank disagreed."

	out, err := agent.Run(context.Background(), text)
	require.NoError(t, err)

	payload := out.(models.EntitiesPayload)
	require.Len(t, payload.Organizations, 2)
	names := []string{payload.Organizations[0].Name, payload.Organizations[1].Name}
	assert.Contains(t, names, "Acme Corp")
	assert.Contains(t, names, "Global Trade Bank")
	assert.Equal(t, "company", payload.Organizations[0].Type)
}

func TestExtractorHeuristicDates(t *testing.T) {
	agent := NewExtractor(nil, testLogger())
	text := "Results for Q1-2024 beat 2023. Filed on March 5, 2024."

	out, err := agent.Run(context.Background(), text)
	require.NoError(t, err)

	payload := out.(models.EntitiesPayload)
	names := make([]string, 0, len(payload.Dates))
	for _, d := range payload.Dates {
		names = append(names, d.Name)
		assert.Equal(t, "date", d.Type)
	}
	assert.Contains(t, names, "2023")
	assert.Contains(t, names, "Q1-2024")
	assert.Contains(t, names, "March 5, 2024")
}

func TestExtractorHeuristicLocations(t *testing.T) {
	agent := NewExtractor(nil, testLogger())
	text := "Offices in London and Singapore performed well."

	out, err := agent.Run(context.Background(), text)
	require.NoError(t, err)

	payload := out.(models.EntitiesPayload)
	require.Len(t, payload.Locations, 2)
	assert.Equal(t, "London", payload.Locations[0].Name)
	assert.Equal(t, "location", payload.Locations[0].Type)
}

func TestExtractorTopFiveByMentions(t *testing.T) {
	text := ""
	// "Wide Margin" appears three times, the rest once each.
	for i := 0; i < 3; i++ {
		text += "Wide Margin grew. "
	}
	text += "Alpha One spoke. Beta Two spoke. Gamma Three spoke. Delta Four spoke. Epsilon Five spoke."

	agent := NewExtractor(nil, testLogger())
	out, err := agent.Run(context.Background(), text)
	require.NoError(t, err)

	payload := out.(models.EntitiesPayload)
	require.Len(t, payload.People, 5)
	assert.Equal(t, "Wide Margin", payload.People[0].Name)
	assert.Equal(t, 3, payload.People[0].Mentions)
}

func TestExtractorLLM(t *testing.T) {
	client := mock.NewStaticClient(`{
		"people": [{"name": "Alice", "mentions": 2, "role": "CEO"}],
		"organizations": [{"name": "Acme Corp", "mentions": 1}],
		"dates": [],
		"locations": []
	}`)
	agent := NewExtractor(client, testLogger())

	out, err := agent.Run(context.Background(), "Doc")
	require.NoError(t, err)

	payload := out.(models.EntitiesPayload)
	require.Len(t, payload.People, 1)
	assert.Equal(t, "Alice", payload.People[0].Name)
	assert.Equal(t, "CEO", payload.People[0].Role)
	require.Len(t, payload.Organizations, 1)
	assert.Equal(t, "Acme Corp", payload.Organizations[0].Name)
	assert.Equal(t, "company", payload.Organizations[0].Type)
}

func TestExtractorLLMDropsNamelessAndFloorsMentions(t *testing.T) {
	client := mock.NewStaticClient(`{
		"people": [{"name": "  "}, {"name": "Bob", "mentions": 0}]
	}`)
	agent := NewExtractor(client, testLogger())

	out, err := agent.Run(context.Background(), "Doc")
	require.NoError(t, err)

	payload := out.(models.EntitiesPayload)
	require.Len(t, payload.People, 1)
	assert.Equal(t, "Bob", payload.People[0].Name)
	assert.Equal(t, 1, payload.People[0].Mentions)
}

func TestExtractorFallsBackOnLLMFailure(t *testing.T) {
	client := mock.NewFailingClient(llm.ErrUnavailable)
	agent := NewExtractor(client, testLogger())

	out, err := agent.Run(context.Background(), "John Smith visited Tokyo.")
	require.NoError(t, err)

	payload := out.(models.EntitiesPayload)
	require.NotEmpty(t, payload.People)
	assert.Equal(t, "John Smith", payload.People[0].Name)
	require.NotEmpty(t, payload.Locations)
	assert.Equal(t, "Tokyo", payload.Locations[0].Name)
}

func TestExtractorName(t *testing.T) {
	assert.Equal(t, models.AgentEntities, NewExtractor(nil, testLogger()).Name())
}
