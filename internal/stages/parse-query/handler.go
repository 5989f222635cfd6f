// internal/stages/parse-query/handler.go
package parsequery

import (
	"context"
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"phone-assistant/internal/common/logger"
)

const StageName = "parse-query"

var (
	compareTrigger = regexp.MustCompile(`(?i)\bvs\b|\bcompare\b`)
	compareSplit   = regexp.MustCompile(`(?i)\bvs\b|\band\b|,|/`)
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute maps free text to a structured query. Extractors run in a
// fixed priority order: explain beats compare beats recommend, so
// "explain ois vs eis" is an explainer even though it contains "vs".
// Parsing never fails; text that matches nothing becomes an
// unconstrained recommend query.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	text := strings.TrimSpace(input.Text)
	lowered := strings.ToLower(text)

	query := ParsedQuery{Original: text, Mode: ModeRecommend}

	if topic, ok := h.extractExplainTopic(lowered); ok {
		query.Mode = ModeExplain
		query.Topic = topic
		h.logger.Debug("parsed explain query", map[string]interface{}{"topic": topic})
		return &Output{Query: query}, nil
	}

	if models := h.extractCompareModels(text, input.Index.Models); len(models) > 0 {
		query.Mode = ModeCompare
		query.CompareModels = models
		h.logger.Debug("parsed compare query", map[string]interface{}{"models": models})
		return &Output{Query: query}, nil
	}

	query.MinPrice, query.MaxPrice = h.extractPriceSpan(lowered)
	query.Brand = h.extractBrand(lowered, input.Index.Brands)
	query.Features = extractFeatures(lowered)
	query.Compact = extractCompact(lowered)

	h.logger.Debug("parsed recommend query", map[string]interface{}{
		"minPrice": query.MinPrice,
		"maxPrice": query.MaxPrice,
		"brand":    query.Brand,
		"features": query.Features,
	})
	return &Output{Query: query}, nil
}

// extractExplainTopic recognizes requests about stabilization tech.
// When both OIS and EIS are mentioned the combined topic wins.
func (h *Handler) extractExplainTopic(lowered string) (string, bool) {
	if strings.Contains(lowered, "explain") || strings.Contains(lowered, "what is") {
		hasOIS := strings.Contains(lowered, "ois")
		hasEIS := strings.Contains(lowered, "eis")
		switch {
		case hasOIS && hasEIS:
			return "ois vs eis", true
		case hasOIS:
			return "ois", true
		case hasEIS:
			return "eis", true
		}
	}
	if strings.Contains(lowered, "ois vs eis") {
		return "ois vs eis", true
	}
	return "", false
}

// extractCompareModels splits the text on comparison separators and
// fuzzy-resolves each fragment against the known model names. The
// result keeps the textual order of the request, deduplicated and
// capped at the configured comparison size. An empty result means the
// text was not a comparison after all and the recommend extractors
// get their turn.
func (h *Handler) extractCompareModels(text string, models []string) []string {
	if !compareTrigger.MatchString(text) {
		return nil
	}

	var resolved []string
	seen := make(map[string]bool)
	for _, part := range compareSplit.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		best, score := bestMatch(part, models)
		if score < h.config.ModelThreshold || seen[best] {
			continue
		}
		seen[best] = true
		resolved = append(resolved, best)
		if len(resolved) == h.config.MaxCompare {
			break
		}
	}
	return resolved
}

// bestMatch returns the candidate with the highest token-set ratio
// against the fragment. Ties keep the earliest candidate.
func bestMatch(fragment string, candidates []string) (string, int) {
	best, bestScore := "", -1
	for _, cand := range candidates {
		if score := fuzzy.TokenSetRatio(fragment, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best, bestScore
}
