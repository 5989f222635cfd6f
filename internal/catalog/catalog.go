// internal/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Phone is an immutable catalog record. Records are loaded once at
// startup and never mutated afterwards, so a Store is safe to share
// across request handlers without locking.
type Phone struct {
	ID            string   `json:"id"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Price         int      `json:"price"`
	CameraMP      int      `json:"camera_mp"`
	OIS           bool     `json:"ois"`
	EIS           bool     `json:"eis"`
	BatteryMAh    int      `json:"battery_mah"`
	ChargingW     int      `json:"charging_w"`
	DisplayInches float64  `json:"display_inches"`
	AMOLED        bool     `json:"amoled"`
	SoC           string   `json:"soc"`
	Compact       bool     `json:"compact"`
	Summary       string   `json:"summary"`
	Pros          []string `json:"pros"`
	Cons          []string `json:"cons"`
}

// FullName returns the "brand model" display name used for fuzzy lookup.
func (p Phone) FullName() string {
	return p.Brand + " " + p.Model
}

// Index holds the derived lookup tables recomputed on every load.
// Models is one "brand model" entry per phone in catalog order and is
// intentionally not unique.
type Index struct {
	Brands []string `json:"brands"`
	Models []string `json:"models"`
}

// Store owns the loaded phone catalog and its derived index.
type Store struct {
	phones []Phone
	index  Index
}

// matchThreshold is the minimum token-set score for a phrase to count
// as a resolved model name.
const matchThreshold = 80

// NewStore builds a store over validated records. The caller is
// responsible for having validated the data (see ValidateRecords).
func NewStore(phones []Phone) *Store {
	s := &Store{phones: phones}
	s.reindex()
	return s
}

// NewStoreFromFile loads and validates the JSON catalog dataset.
// Malformed data is a fatal startup error, not a per-request concern.
func NewStoreFromFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	if err := ValidateRaw(raw); err != nil {
		return nil, fmt.Errorf("catalog %s failed schema validation: %w", path, err)
	}

	var phones []Phone
	if err := json.Unmarshal(raw, &phones); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if err := ValidateRecords(phones); err != nil {
		return nil, fmt.Errorf("catalog %s invalid: %w", path, err)
	}

	return NewStore(phones), nil
}

func (s *Store) reindex() {
	brandSet := make(map[string]bool)
	models := make([]string, 0, len(s.phones))
	for _, p := range s.phones {
		brandSet[p.Brand] = true
		models = append(models, p.FullName())
	}

	brands := make([]string, 0, len(brandSet))
	for b := range brandSet {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	s.index = Index{Brands: brands, Models: models}
}

// Index returns the derived brand/model lookup tables.
func (s *Store) Index() Index {
	return s.index
}

// All returns a copy of the phone list in catalog order.
func (s *Store) All() []Phone {
	out := make([]Phone, len(s.phones))
	copy(out, s.phones)
	return out
}

// Len returns the number of catalog records.
func (s *Store) Len() int {
	return len(s.phones)
}

// ResolveByNames fuzzy-matches each input name against the full-name
// roster. Only the single best match at or above the threshold is
// accepted; unmatched names are silently dropped. Input order is
// preserved and results are deduplicated by id keeping the first
// occurrence.
func (s *Store) ResolveByNames(names []string) []Phone {
	var items []Phone
	for _, name := range names {
		if idx, score := bestMatch(name, s.index.Models); score >= matchThreshold {
			items = append(items, s.phones[idx])
		}
	}

	seen := make(map[string]bool)
	unique := items[:0]
	for _, p := range items {
		if !seen[p.ID] {
			unique = append(unique, p)
			seen[p.ID] = true
		}
	}
	return unique
}

// bestMatch returns the index and token-set score of the best-scoring
// choice. Ties keep the earliest choice, matching catalog order.
func bestMatch(query string, choices []string) (int, int) {
	bestIdx, bestScore := -1, -1
	for i, c := range choices {
		score := fuzzy.TokenSetRatio(query, c)
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return bestIdx, bestScore
}

// SearchFilters carries the recommend-mode constraints. Nil pointer
// fields impose no filter; Compact filters only when set to true.
type SearchFilters struct {
	MinPrice *int
	MaxPrice *int
	Brand    *string
	Features []string
	Compact  *bool
}

// Search narrows the catalog through the filter pipeline and returns
// survivors ranked by the additive relevance heuristic, best first.
// The sort is stable: equal scores preserve catalog order.
func (s *Store) Search(f SearchFilters) []Phone {
	candidates := make([]Phone, 0, len(s.phones))
	candidates = append(candidates, s.phones...)

	if f.MinPrice != nil {
		candidates = keep(candidates, func(p Phone) bool { return p.Price >= *f.MinPrice })
	}
	if f.MaxPrice != nil {
		candidates = keep(candidates, func(p Phone) bool { return p.Price <= *f.MaxPrice })
	}
	if f.Brand != nil && *f.Brand != "" {
		brand := *f.Brand
		candidates = keep(candidates, func(p Phone) bool { return strings.EqualFold(p.Brand, brand) })
	}
	if f.Compact != nil && *f.Compact {
		candidates = keep(candidates, func(p Phone) bool { return p.Compact })
	}
	for _, feat := range f.Features {
		pred := featurePredicate(feat)
		candidates = keep(candidates, pred)
	}

	compactRequested := f.Compact != nil && *f.Compact
	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i], compactRequested) > score(candidates[j], compactRequested)
	})

	return candidates
}

func keep(phones []Phone, pred func(Phone) bool) []Phone {
	out := phones[:0]
	for _, p := range phones {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

// featurePredicate maps a feature tag to its catalog-side predicate.
// Unknown tags pass everything.
func featurePredicate(feat string) func(Phone) bool {
	switch feat {
	case "camera":
		return func(p Phone) bool { return p.CameraMP >= 50 }
	case "battery":
		return func(p Phone) bool { return p.BatteryMAh >= 5000 }
	case "charging":
		return func(p Phone) bool { return p.ChargingW >= 30 }
	case "display":
		return func(p Phone) bool { return p.AMOLED }
	case "performance":
		return func(p Phone) bool {
			soc := strings.ToLower(p.SoC)
			return strings.Contains(soc, "snapdragon") ||
				strings.Contains(soc, "dimensity") ||
				strings.Contains(soc, "tensor")
		}
	case "compact":
		return func(p Phone) bool { return p.Compact }
	default:
		return func(Phone) bool { return true }
	}
}

// score is the fixed additive relevance heuristic. Higher is better.
func score(p Phone, compactRequested bool) float64 {
	s := 0.0

	// value for money
	price := float64(p.Price)
	if price < 1 {
		price = 1
	}
	ratio := 30000 / price
	if ratio > 1 {
		ratio = 1
	}
	s += ratio * 2.0

	// camera
	s += (float64(p.CameraMP) / 108) * 1.2
	if p.OIS {
		s += 1.0
	}

	// battery and charging
	s += (float64(p.BatteryMAh) / 6000) * 1.0
	s += (float64(p.ChargingW) / 120) * 0.8

	// display
	if p.AMOLED {
		s += 0.6
	}

	// compact bonus only when the query asked for it
	if compactRequested && p.Compact {
		s += 1.0
	}

	return s
}
