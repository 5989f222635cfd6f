// internal/service/chat.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"phone-assistant/internal/catalog"
	"phone-assistant/internal/common/config"
	"phone-assistant/internal/common/database"
	apperrors "phone-assistant/internal/common/errors"
	"phone-assistant/internal/common/genai"
	"phone-assistant/internal/common/logger"
	"phone-assistant/internal/common/metrics"
	"phone-assistant/internal/common/observability"
	buildresponse "phone-assistant/internal/stages/build-response"
	evaluatesafety "phone-assistant/internal/stages/evaluate-safety"
	parsequery "phone-assistant/internal/stages/parse-query"
	searchcatalog "phone-assistant/internal/stages/search-catalog"
)

// ErrEmptyMessage is returned for blank chat input before any stage runs.
var ErrEmptyMessage = apperrors.NewEmptyMessageError()

// ChatService runs the four-stage pipeline for one chat turn: safety
// gate, query parsing, catalog retrieval, response rendering. The
// cache and generation collaborators are optional; nil disables them.
type ChatService struct {
	config   *config.Config
	logger   logger.Logger
	store    *catalog.Store
	safety   *evaluatesafety.Handler
	parser   *parsequery.Handler
	searcher *searchcatalog.Handler
	builder  *buildresponse.Handler
	cache    *database.RedisClient
	gen      *genai.Client
	obs      *observability.Observability
}

func NewChatService(
	cfg *config.Config,
	store *catalog.Store,
	cache *database.RedisClient,
	gen *genai.Client,
	obs *observability.Observability,
	log logger.Logger,
) *ChatService {
	stageTimeout := config.GetDuration(cfg.Assist.StageTimeout)

	safetyCfg := evaluatesafety.LoadConfig()
	safetyCfg.Timeout = stageTimeout

	parserCfg := parsequery.LoadConfig()
	parserCfg.ModelThreshold = cfg.Assist.ModelThreshold
	parserCfg.BrandThreshold = cfg.Assist.BrandThreshold
	parserCfg.MaxCompare = cfg.Assist.MaxCompare
	parserCfg.Timeout = stageTimeout

	searchCfg := searchcatalog.LoadConfig()
	searchCfg.TopK = cfg.Assist.TopK
	searchCfg.Timeout = stageTimeout

	builderCfg := buildresponse.LoadConfig()
	builderCfg.TopK = cfg.Assist.TopK
	builderCfg.MaxCompare = cfg.Assist.MaxCompare
	builderCfg.Timeout = stageTimeout

	return &ChatService{
		config:   cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "chat-service"}),
		store:    store,
		safety:   evaluatesafety.NewHandler(safetyCfg, log),
		parser:   parsequery.NewHandler(parserCfg, log),
		searcher: searchcatalog.NewHandler(searchCfg, store, log),
		builder:  buildresponse.NewHandler(builderCfg, log),
		cache:    cache,
		gen:      gen,
		obs:      obs,
	}
}

// Chat processes one user message and returns the terminal response.
// Identical messages hit the reply cache; everything else walks the
// stages in order. Stage errors do not leak partial state: the only
// error surfaced to callers is ErrEmptyMessage.
func (s *ChatService) Chat(ctx context.Context, message string) (buildresponse.Response, error) {
	start := time.Now()
	requestID := uuid.New().String()
	log := s.logger.WithFields(map[string]interface{}{"requestId": requestID})

	text := strings.TrimSpace(message)
	if text == "" {
		return buildresponse.Response{}, ErrEmptyMessage
	}

	if resp, ok := s.cacheLookup(ctx, text, log); ok {
		metrics.ChatRequests.WithLabelValues(resp.Type).Inc()
		s.recordObservability(ctx, start, resp.Type)
		return resp, nil
	}

	resp := s.runPipeline(ctx, text, log)

	s.cacheStore(ctx, text, resp, log)

	metrics.ChatRequests.WithLabelValues(resp.Type).Inc()
	s.recordObservability(ctx, start, resp.Type)

	log.Info("chat turn complete", map[string]interface{}{
		"responseType": resp.Type,
		"durationMs":   time.Since(start).Milliseconds(),
	})
	return resp, nil
}

func (s *ChatService) runPipeline(ctx context.Context, text string, log logger.Logger) buildresponse.Response {
	safetyOut := s.runSafety(ctx, text)
	if safetyOut.Blocked {
		metrics.SafetyBlocks.WithLabelValues(safetyOut.Category).Inc()
		out, _ := s.builder.Execute(ctx, &buildresponse.Input{
			Blocked:        true,
			BlockedMessage: safetyOut.Message,
		})
		return out.Response
	}

	parseOut := s.runParse(ctx, text)
	searchOut := s.runSearch(ctx, parseOut.Query)

	note := s.maybeNote(ctx, parseOut.Query, searchOut.Results)

	buildStart := time.Now()
	buildOut, _ := s.builder.Execute(ctx, &buildresponse.Input{
		Query:    parseOut.Query,
		Results:  searchOut.Results,
		Compared: searchOut.Compared,
		Note:     note,
	})
	metrics.StageDuration.WithLabelValues(buildresponse.StageName).Observe(time.Since(buildStart).Seconds())

	return buildOut.Response
}

func (s *ChatService) runSafety(ctx context.Context, text string) *evaluatesafety.Output {
	start := time.Now()
	out, _ := s.safety.Execute(ctx, &evaluatesafety.Input{Text: text})
	metrics.StageDuration.WithLabelValues(evaluatesafety.StageName).Observe(time.Since(start).Seconds())
	return out
}

func (s *ChatService) runParse(ctx context.Context, text string) *parsequery.Output {
	start := time.Now()
	out, _ := s.parser.Execute(ctx, &parsequery.Input{Text: text, Index: s.store.Index()})
	metrics.StageDuration.WithLabelValues(parsequery.StageName).Observe(time.Since(start).Seconds())
	return out
}

func (s *ChatService) runSearch(ctx context.Context, query parsequery.ParsedQuery) *searchcatalog.Output {
	start := time.Now()
	out, _ := s.searcher.Execute(ctx, &searchcatalog.Input{Query: query})
	metrics.StageDuration.WithLabelValues(searchcatalog.StageName).Observe(time.Since(start).Seconds())
	return out
}

// maybeNote asks the generation collaborator for a one-line remark on
// the recommended set. Absence of the collaborator, or any failure, is
// simply no note.
func (s *ChatService) maybeNote(ctx context.Context, query parsequery.ParsedQuery, results []catalog.Phone) string {
	if s.gen == nil || query.Mode != parsequery.ModeRecommend || len(results) == 0 {
		return ""
	}

	names := make([]string, 0, len(results))
	for _, p := range results {
		names = append(names, p.FullName())
	}
	prompt := "In one sentence, tell a shopper what stands out about these phones: " +
		strings.Join(names, ", ")
	system := "You are a concise phone shopping assistant. Answer with a single short sentence " +
		"and only use the facts implied by the phone names given."

	note, ok := s.gen.MaybeGenerate(ctx, prompt, system)
	if !ok {
		return ""
	}
	return note
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(text)))
	return "assistant:reply:" + hex.EncodeToString(sum[:])
}

func (s *ChatService) cacheLookup(ctx context.Context, text string, log logger.Logger) (buildresponse.Response, bool) {
	if s.cache == nil {
		return buildresponse.Response{}, false
	}

	raw, err := s.cache.Get(ctx, cacheKey(text))
	if err != nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return buildresponse.Response{}, false
	}

	var resp buildresponse.Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		log.Warn("dropping undecodable cached reply", map[string]interface{}{"error": err.Error()})
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return buildresponse.Response{}, false
	}

	metrics.CacheHits.WithLabelValues("hit").Inc()
	return resp, true
}

// cacheStore persists deterministic replies. Responses carrying a
// generated note are skipped so a cached turn never replays stale
// generation output.
func (s *ChatService) cacheStore(ctx context.Context, text string, resp buildresponse.Response, log logger.Logger) {
	if s.cache == nil || resp.Note != "" {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}

	ttl := config.GetDuration(s.config.Cache.TTL)
	if err := s.cache.Set(ctx, cacheKey(text), string(raw), ttl); err != nil {
		log.Warn("reply cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *ChatService) recordObservability(ctx context.Context, start time.Time, responseType string) {
	if s.obs == nil {
		return
	}
	s.obs.RecordRequest(ctx, responseType)
	s.obs.RecordDuration(ctx, time.Since(start), responseType)
}
