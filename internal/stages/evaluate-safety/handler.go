// internal/stages/evaluate-safety/handler.go
package evaluatesafety

import (
	"context"
	"regexp"
	"strings"

	"phone-assistant/internal/common/logger"
)

const StageName = "evaluate-safety"

// Pattern categories are checked in priority order; the first match
// wins. Matching is case-insensitive substring/regex search, not exact
// tokenization, so false positives are an accepted tradeoff.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)reveal (?:\w+ )?(?:system|hidden) prompt`),
	regexp.MustCompile(`(?i)(?:system|hidden) (?:prompt|instructions)`),
	regexp.MustCompile(`(?i)show (?:your|the|me) (?:api|secret|key)`),
	regexp.MustCompile(`(?i)api\s*key`),
}

var toxicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:trash|hate|sucks|terrible|garbage)\b.*\b(?:brand|company|model|phone|[a-z0-9]+)\b`),
}

var offTopicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:write code|homework|unrelated|politics|celebrity|recipe)\b`),
}

const (
	msgSensitive = "I can't reveal internal prompts, API keys, or hidden system details. " +
		"Ask me about phones, specs, or recommendations instead."
	msgToxic   = "Let's keep it neutral and factual. I can compare models using objective specs."
	msgGeneric = "I can't help with that. I can assist with mobile phone shopping, comparisons, and specs."
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

// Execute evaluates the text against the blocked-input patterns. It is
// stateless and never returns an error: unmatched text is simply not
// blocked.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	normalized := strings.TrimSpace(input.Text)
	if normalized == "" {
		return &Output{Blocked: false, Message: ""}, nil
	}

	for _, pat := range sensitivePatterns {
		if pat.MatchString(normalized) {
			h.logger.Info("blocked sensitive-disclosure request", map[string]interface{}{
				"pattern": pat.String(),
			})
			return &Output{Blocked: true, Message: msgSensitive, Category: "sensitive"}, nil
		}
	}

	for _, pat := range toxicPatterns {
		if pat.MatchString(normalized) {
			h.logger.Info("blocked toxic request", map[string]interface{}{
				"pattern": pat.String(),
			})
			return &Output{Blocked: true, Message: msgToxic, Category: "toxicity"}, nil
		}
	}

	for _, pat := range offTopicPatterns {
		if pat.MatchString(normalized) {
			h.logger.Info("blocked off-topic request", map[string]interface{}{
				"pattern": pat.String(),
			})
			return &Output{Blocked: true, Message: msgGeneric, Category: "offtopic"}, nil
		}
	}

	return &Output{Blocked: false, Message: ""}, nil
}
