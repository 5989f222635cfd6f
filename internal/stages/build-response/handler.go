// internal/stages/build-response/handler.go
package buildresponse

import (
	"context"
	"fmt"
	"strings"

	"phone-assistant/internal/catalog"
	"phone-assistant/internal/common/logger"
	parsequery "phone-assistant/internal/stages/parse-query"
)

const StageName = "build-response"

const (
	msgNoComparisonModels = "I couldn't find those models in the catalog. Try exact model names or rephrase."
	msgNoResults          = "No phones matched your criteria. Try relaxing budget or features."
)

// Explainer copy for the stabilization topics.
const (
	explainOISvsEIS = "OIS is hardware stabilization that helps photos and low light; " +
		"EIS is software stabilization that smooths video. Many phones combine both."
	explainOIS = "OIS (Optical Image Stabilization) uses moving lens/sensor to reduce hand shake, " +
		"improving sharpness in low light and longer exposures."
	explainEIS = "EIS (Electronic Image Stabilization) crops/warps frames in software to smooth video; " +
		"it helps with jitter but can reduce field of view."
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

// Execute renders the terminal chat reply. A blocked input always
// becomes a refusal; otherwise the parsed mode picks the renderer and
// empty catalog output degrades to a no_results reply.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if input.Blocked {
		return &Output{Response: Response{Type: TypeRefusal, Message: input.BlockedMessage}}, nil
	}

	switch input.Query.Mode {
	case parsequery.ModeExplain:
		return &Output{Response: h.buildExplainer(input.Query.Topic)}, nil

	case parsequery.ModeCompare:
		if len(input.Compared) == 0 {
			return &Output{Response: Response{Type: TypeNoResults, Message: msgNoComparisonModels}}, nil
		}
		return &Output{Response: h.buildComparison(input.Compared)}, nil
	}

	if len(input.Results) == 0 {
		return &Output{Response: Response{Type: TypeNoResults, Message: msgNoResults}}, nil
	}
	return &Output{Response: h.buildRecommendations(input.Query, input.Results, input.Note)}, nil
}

func (h *Handler) buildRecommendations(query parsequery.ParsedQuery, phones []catalog.Phone, note string) Response {
	if len(phones) > h.config.TopK {
		phones = phones[:h.config.TopK]
	}

	items := make([]Card, 0, len(phones))
	for _, p := range phones {
		items = append(items, Card{
			ID:      p.ID,
			Name:    p.FullName(),
			Price:   formatPrice(p.Price),
			Summary: summarize(p),
			Pros:    p.Pros,
			Cons:    p.Cons,
		})
	}

	return Response{
		Type:      TypeRecommendations,
		Rationale: fmt.Sprintf("Top %d matches %s:", len(items), rationale(query)),
		Items:     items,
		Note:      note,
	}
}

// rationale restates the applied constraints for the heading,
// defaulting to a generic line when the query had none.
func rationale(query parsequery.ParsedQuery) string {
	var bits []string
	switch {
	case query.MinPrice != nil && query.MaxPrice != nil:
		bits = append(bits, fmt.Sprintf("in %s–%s range", formatPrice(*query.MinPrice), formatPrice(*query.MaxPrice)))
	case query.MinPrice != nil:
		bits = append(bits, "over "+formatPrice(*query.MinPrice))
	case query.MaxPrice != nil:
		bits = append(bits, "under "+formatPrice(*query.MaxPrice))
	}
	if query.Brand != nil && *query.Brand != "" {
		bits = append(bits, "from "+*query.Brand)
	}
	if len(query.Features) > 0 {
		bits = append(bits, "focused on "+strings.Join(query.Features, ", "))
	}
	if query.Compact != nil && *query.Compact {
		bits = append(bits, "compact, one-hand friendly")
	}

	if len(bits) == 0 {
		return "best overall picks"
	}
	return strings.Join(bits, "; ")
}

func (h *Handler) buildComparison(phones []catalog.Phone) Response {
	if len(phones) > h.config.MaxCompare {
		phones = phones[:h.config.MaxCompare]
	}

	items := make([]Card, 0, len(phones))
	for _, p := range phones {
		camera := fmt.Sprintf("%dMP", p.CameraMP)
		if p.OIS {
			camera += " with OIS"
		}
		items = append(items, Card{
			ID:      p.ID,
			Name:    p.FullName(),
			Price:   formatPrice(p.Price),
			Camera:  camera,
			Battery: fmt.Sprintf("%dmAh, %dW", p.BatteryMAh, p.ChargingW),
			Display: fmt.Sprintf("%s %.1f\"", displayKind(p), p.DisplayInches),
			SoC:     p.SoC,
			Pros:    p.Pros,
			Cons:    p.Cons,
		})
	}
	return Response{Type: TypeComparison, Items: items}
}

func (h *Handler) buildExplainer(topic string) Response {
	var text string
	switch topic {
	case "ois vs eis":
		text = explainOISvsEIS
	case "ois":
		text = explainOIS
	default:
		text = explainEIS
	}
	return Response{Type: TypeExplainer, Message: text}
}

// summarize renders the one-line spec summary on recommendation cards.
func summarize(p catalog.Phone) string {
	camera := fmt.Sprintf("%dMP camera", p.CameraMP)
	if p.OIS {
		camera += " with OIS"
	}
	parts := []string{
		camera,
		fmt.Sprintf("%dmAh, %dW fast charging", p.BatteryMAh, p.ChargingW),
		fmt.Sprintf("%s %.1f\" display", displayKind(p), p.DisplayInches),
		p.SoC,
	}
	return strings.Join(parts, ", ")
}

func displayKind(p catalog.Phone) string {
	if p.AMOLED {
		return "AMOLED"
	}
	return "LCD"
}

// formatPrice renders a rupee amount with thousands separators.
func formatPrice(amount int) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return "₹" + s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return "₹" + b.String()
}
