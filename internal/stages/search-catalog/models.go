// internal/stages/search-catalog/models.go
package searchcatalog

import (
	"phone-assistant/internal/catalog"
	parsequery "phone-assistant/internal/stages/parse-query"
)

type Input struct {
	Query parsequery.ParsedQuery `json:"query"`
}

type Output struct {
	// Results holds the ranked recommendation candidates, best first,
	// already cut to the configured top-k.
	Results []catalog.Phone `json:"results"`

	// Compared holds the resolved phones for a comparison query, in
	// request order.
	Compared []catalog.Phone `json:"compared"`
}
