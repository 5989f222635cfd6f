// internal/stages/build-response/models.go
package buildresponse

import (
	"phone-assistant/internal/catalog"
	parsequery "phone-assistant/internal/stages/parse-query"
)

// Response type discriminators as they appear on the wire.
const (
	TypeRefusal         = "refusal"
	TypeNoResults       = "no_results"
	TypeRecommendations = "recommendations"
	TypeComparison      = "comparison"
	TypeExplainer       = "explainer"
)

type Input struct {
	Query    parsequery.ParsedQuery `json:"query"`
	Results  []catalog.Phone        `json:"results"`
	Compared []catalog.Phone        `json:"compared"`

	// Blocked short-circuits everything else into a refusal.
	Blocked        bool   `json:"blocked"`
	BlockedMessage string `json:"blockedMessage"`

	// Note is an optional generated remark attached to
	// recommendation responses.
	Note string `json:"note"`
}

type Output struct {
	Response Response `json:"response"`
}

// Response is the single chat reply shape. Type decides which of the
// optional fields are populated.
type Response struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Rationale string `json:"rationale,omitempty"`
	Items     []Card `json:"items,omitempty"`
	Note      string `json:"note,omitempty"`
}

// Card is one phone entry. Recommendation cards carry a one-line
// Summary; comparison cards break the same facts out per spec group.
type Card struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Price   string   `json:"price"`
	Summary string   `json:"summary,omitempty"`
	Camera  string   `json:"camera,omitempty"`
	Battery string   `json:"battery,omitempty"`
	Display string   `json:"display,omitempty"`
	SoC     string   `json:"soc,omitempty"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}
