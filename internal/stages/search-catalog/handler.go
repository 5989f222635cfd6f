// internal/stages/search-catalog/handler.go
package searchcatalog

import (
	"context"

	"phone-assistant/internal/catalog"
	"phone-assistant/internal/common/logger"
	parsequery "phone-assistant/internal/stages/parse-query"
)

const StageName = "search-catalog"

type Handler struct {
	config *Config
	store  *catalog.Store
	logger logger.Logger
}

func NewHandler(config *Config, store *catalog.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute retrieves catalog candidates for the parsed query. Compare
// queries resolve their model names; recommend queries run the filter
// and ranking pipeline and keep the top k. Explain queries touch no
// catalog data and come back empty.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	query := input.Query

	switch query.Mode {
	case parsequery.ModeCompare:
		compared := h.store.ResolveByNames(query.CompareModels)
		h.logger.Debug("resolved comparison models", map[string]interface{}{
			"requested": len(query.CompareModels),
			"resolved":  len(compared),
		})
		return &Output{Compared: compared}, nil

	case parsequery.ModeExplain:
		return &Output{}, nil
	}

	results := h.store.Search(catalog.SearchFilters{
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		Brand:    query.Brand,
		Features: query.Features,
		Compact:  query.Compact,
	})
	if len(results) > h.config.TopK {
		results = results[:h.config.TopK]
	}

	h.logger.Debug("ranked catalog results", map[string]interface{}{
		"results": len(results),
	})
	return &Output{Results: results}, nil
}
