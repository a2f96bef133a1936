package enrichment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pulzar/backend/internal/domain/catalog"
)

// Model output may wrap the JSON object in prose; take the block ending at
// the last closing brace.
var trailingJSONPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractTrailingJSON pulls the JSON object out of free-form model output
func ExtractTrailingJSON(s string) (json.RawMessage, error) {
	s = strings.TrimSpace(s)
	match := trailingJSONPattern.FindString(s)
	if match == "" {
		match = s
	}
	if !json.Valid([]byte(match)) {
		return nil, fmt.Errorf("no valid JSON object in model output")
	}
	return json.RawMessage(match), nil
}

// productJSONKeys is the shape the model is instructed to produce. Values
// may be null or a non-string, which count as absent.
type productJSON struct {
	Name        any `json:"name"`
	Description any `json:"description"`
	Brand       any `json:"brand"`
	ImageURL    any `json:"imageUrl"`
	Quantity    any `json:"quantity"`
	Categories  any `json:"categories"`
}

// MapProductJSON parses model output into a MappedProduct, keeping only
// string-valued keys
func MapProductJSON(raw json.RawMessage) (catalog.MappedProduct, error) {
	var parsed productJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return catalog.MappedProduct{}, err
	}
	return catalog.MappedProduct{
		Name:        stringOr(parsed.Name),
		Description: stringOr(parsed.Description),
		Brand:       stringOr(parsed.Brand),
		ImageURL:    stringOr(parsed.ImageURL),
		Quantity:    stringOr(parsed.Quantity),
		Categories:  stringOr(parsed.Categories),
	}, nil
}

func stringOr(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
