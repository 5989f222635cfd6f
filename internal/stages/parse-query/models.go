// internal/stages/parse-query/models.go
package parsequery

import "phone-assistant/internal/catalog"

type Mode string

const (
	ModeRecommend Mode = "recommend"
	ModeCompare   Mode = "compare"
	ModeExplain   Mode = "explain"
)

type Input struct {
	Text  string        `json:"text"`
	Index catalog.Index `json:"index"`
}

type Output struct {
	Query ParsedQuery `json:"query"`
}

// ParsedQuery is the per-request structured intent. Exactly one
// mode-specific field group is populated; Mode says which.
type ParsedQuery struct {
	Original string `json:"original"`
	Mode     Mode   `json:"mode"`

	// recommend
	MinPrice *int     `json:"minPrice,omitempty"`
	MaxPrice *int     `json:"maxPrice,omitempty"`
	Brand    *string  `json:"brand,omitempty"`
	Features []string `json:"features,omitempty"`
	Compact  *bool    `json:"compact,omitempty"`

	// compare
	CompareModels []string `json:"compareModels,omitempty"`

	// explain
	Topic string `json:"topic,omitempty"`
}
