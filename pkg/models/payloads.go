package models

// SummaryPayload is the summarizer agent's output: a condensed rendition of
// the document plus the supporting bullet points.
type SummaryPayload struct {
	Text       string   `json:"text"`
	KeyPoints  []string `json:"key_points"`
	Confidence float64  `json:"confidence"`
}

// Entity is a single extracted entity with its mention count and, where the
// extractor can tell, a short supporting quote and a role/type classification.
// Role and Type are omitted from the wire format when absent.
type Entity struct {
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
	Context  string `json:"context,omitempty"`
	Role     string `json:"role,omitempty"`
	Type     string `json:"type,omitempty"`
}

// EntitiesPayload is the entity extractor agent's output, grouped by category.
type EntitiesPayload struct {
	People        []Entity `json:"people"`
	Organizations []Entity `json:"organizations"`
	Dates         []Entity `json:"dates"`
	Locations     []Entity `json:"locations"`
}

// SentimentPayload is the sentiment agent's output.
type SentimentPayload struct {
	Tone       string   `json:"tone"`
	Confidence float64  `json:"confidence"`
	Formality  string   `json:"formality"`
	KeyPhrases []string `json:"key_phrases"`
}
