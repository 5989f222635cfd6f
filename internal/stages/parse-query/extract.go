// internal/stages/parse-query/extract.go
package parsequery

import (
	"regexp"
	"strconv"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// brandVocabulary covers brands users ask for even when the catalog
// copy happens to have no unit in stock. Catalog brands are appended
// at match time so new inventory needs no code change.
var brandVocabulary = []string{
	"Samsung", "OnePlus", "Xiaomi", "Redmi", "Realme", "Poco",
	"Google", "Pixel", "Motorola", "iQOO", "Nothing",
}

// brandAliases maps marketing names to the catalog brand.
var brandAliases = map[string]string{
	"pixel": "Google",
}

// featureSynonyms maps canonical feature tags to their spoken forms.
// Order fixes the tag order in the parsed query.
var featureSynonyms = []struct {
	tag      string
	synonyms []string
}{
	{"camera", []string{"camera", "ois", "eis", "stabilization", "photo", "photos"}},
	{"battery", []string{"battery", "battery life", "battery king", "screen on", "sot"}},
	{"charging", []string{"charging", "fast charging", "charger", "warp", "supervooc", "watt"}},
	{"display", []string{"display", "screen", "amoled", "oled", "lcd", "hdr"}},
	{"performance", []string{"performance", "gaming", "processor", "chip", "snapdragon", "dimensity"}},
	{"compact", []string{"compact", "one-hand", "one hand", "small", "6.1", "6 inch"}},
}

const numberPattern = `(₹?\s*\d+\s*k?)`

var (
	rangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`between\s+` + numberPattern + `\s+and\s+` + numberPattern),
		regexp.MustCompile(`from\s+` + numberPattern + `\s+to\s+` + numberPattern),
		regexp.MustCompile(numberPattern + `\s*(?:to|-)\s*` + numberPattern),
	}
	upperPattern = regexp.MustCompile(`(?:under|below|<=|less than|up to|upto)\s*` + numberPattern)
	lowerPattern = regexp.MustCompile(`(?:above|over|>=|more than)\s*` + numberPattern)
	barePattern  = regexp.MustCompile(`₹?\s*\b(\d{2,7})(k?)\b`)

	normalizedNumber = regexp.MustCompile(`^₹?\s*(\d{2,7})\s*(k?)$`)
	compactPattern   = regexp.MustCompile(`\b(?:one[-\s]?hand|compact|small)\b`)
)

// extractPriceSpan finds a rupee span in already-lowercased text.
// Explicit ranges beat upper bounds beat lower bounds; a bare number
// with no qualifier is read as a budget ceiling. Returns nil bounds
// when nothing price-like is present.
func (h *Handler) extractPriceSpan(lowered string) (*int, *int) {
	t := strings.ReplaceAll(lowered, ",", "")

	for _, pat := range rangePatterns {
		m := pat.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		lo, okLo := normalizeAmount(m[1])
		hi, okHi := normalizeAmount(m[2])
		if okLo && okHi {
			if lo > hi {
				lo, hi = hi, lo
			}
			return intPtr(lo), intPtr(hi)
		}
	}

	if m := upperPattern.FindStringSubmatch(t); m != nil {
		if v, ok := normalizeAmount(m[1]); ok {
			return nil, intPtr(v)
		}
	}
	if m := lowerPattern.FindStringSubmatch(t); m != nil {
		if v, ok := normalizeAmount(m[1]); ok {
			return intPtr(v), nil
		}
	}
	if m := barePattern.FindStringSubmatch(t); m != nil {
		if v, ok := normalizeAmount(m[1] + m[2]); ok {
			return nil, intPtr(v)
		}
	}
	return nil, nil
}

// normalizeAmount parses a rupee token. A trailing "k" multiplies by
// 1000. Magnitudes outside 2 to 7 digits are rejected so phone
// numbers and spec figures never become price filters.
func normalizeAmount(token string) (int, bool) {
	m := normalizedNumber.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if m[2] == "k" {
		v *= 1000
	}
	return v, true
}

// extractBrand scans for a brand mention, preferring the one that
// appears earliest in the text. Aliases normalize to the catalog
// brand before returning. When no exact word matches, a strict fuzzy
// pass catches close misspellings.
func (h *Handler) extractBrand(lowered string, catalogBrands []string) *string {
	candidates := brandCandidates(catalogBrands)

	bestPos, bestBrand := -1, ""
	for _, brand := range candidates {
		pat := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(brand)) + `\b`)
		loc := pat.FindStringIndex(lowered)
		if loc == nil {
			continue
		}
		if bestPos == -1 || loc[0] < bestPos {
			bestPos, bestBrand = loc[0], brand
		}
	}
	if bestBrand != "" {
		return strPtr(canonicalBrand(bestBrand))
	}

	for _, brand := range candidates {
		if fuzzy.TokenSetRatio(lowered, strings.ToLower(brand)) >= h.config.BrandThreshold {
			return strPtr(canonicalBrand(brand))
		}
	}
	return nil
}

func brandCandidates(catalogBrands []string) []string {
	known := make(map[string]bool, len(brandVocabulary))
	for _, b := range brandVocabulary {
		known[strings.ToLower(b)] = true
	}
	candidates := append([]string(nil), brandVocabulary...)
	for _, b := range catalogBrands {
		if !known[strings.ToLower(b)] {
			known[strings.ToLower(b)] = true
			candidates = append(candidates, b)
		}
	}
	return candidates
}

func canonicalBrand(brand string) string {
	if alias, ok := brandAliases[strings.ToLower(brand)]; ok {
		return alias
	}
	return brand
}

func extractFeatures(lowered string) []string {
	var features []string
	for _, entry := range featureSynonyms {
		for _, syn := range entry.synonyms {
			if strings.Contains(lowered, syn) {
				features = append(features, entry.tag)
				break
			}
		}
	}
	return features
}

// extractCompact is tri-state: nil means the user did not bring size
// up, so the ranker must not award the compactness bonus.
func extractCompact(lowered string) *bool {
	if compactPattern.MatchString(lowered) {
		v := true
		return &v
	}
	return nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
