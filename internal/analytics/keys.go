package analytics

import (
	"encoding/json"
	"strings"
	"unicode"

	"survey-studio/backend/internal/response"
	"survey-studio/backend/internal/survey"
)

// The response schema changed shape over time without a migration, so one
// field's answer may sit under any of several keys depending on when the
// row was written. KeyVariants is the compatibility table, in the order
// the variants are tried:
//
//	1. the raw field id (current format)
//	2. "SectionTitle - FieldLabel" composite (dashboard-era rows)
//	3. snake_case of the field label
//	4. kebab-case of the field label
//	5. snake_case of "SectionTitle FieldLabel"
//
// First match wins per response; later variants are never consulted once
// an earlier one yields an answer.
func KeyVariants(sectionTitle string, f survey.Field) []string {
	variants := []string{
		f.ID,
		sectionTitle + " - " + f.Label,
		slugify(f.Label, '_'),
		slugify(f.Label, '-'),
		slugify(sectionTitle+" "+f.Label, '_'),
	}

	seen := make(map[string]struct{}, len(variants))
	unique := variants[:0]
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

// MatchAnswer resolves a field's answer in one response by walking the
// compatibility table.
func MatchAnswer(resp response.Response, sectionTitle string, f survey.Field) (json.RawMessage, bool) {
	for _, key := range KeyVariants(sectionTitle, f) {
		if raw, ok := resp.Answers[key]; ok && len(raw) > 0 && string(raw) != "null" {
			return raw, true
		}
	}
	return nil, false
}

// FieldDistribution tallies answer values for one field across all
// responses that answered it.
type FieldDistribution struct {
	FieldID string         `json:"fieldId"`
	Label   string         `json:"label"`
	Counts  map[string]int `json:"counts"`
	Total   int            `json:"total"`
}

// Distribute builds the per-field value distribution. Array answers
// contribute one tally per element; scalar answers tally once.
func Distribute(cfg survey.Config, responses []response.Response) []FieldDistribution {
	var distributions []FieldDistribution

	for _, section := range cfg.Sections {
		for _, f := range section.Fields {
			distributions = append(distributions, distributeField(section.Title, f, responses))
		}
		for _, sub := range section.Subsections {
			for _, f := range sub.Fields {
				distributions = append(distributions, distributeField(section.Title, f, responses))
			}
		}
	}
	return distributions
}

func distributeField(sectionTitle string, f survey.Field, responses []response.Response) FieldDistribution {
	dist := FieldDistribution{
		FieldID: f.ID,
		Label:   f.Label,
		Counts:  make(map[string]int),
	}

	for _, resp := range responses {
		raw, ok := MatchAnswer(resp, sectionTitle, f)
		if !ok {
			continue
		}
		values := flattenAnswer(raw)
		if len(values) == 0 {
			continue
		}
		for _, v := range values {
			dist.Counts[v]++
		}
		dist.Total++
	}
	return dist
}

// flattenAnswer renders an answer as countable strings. Arrays flatten to
// one entry per element; objects keep their JSON form.
func flattenAnswer(raw json.RawMessage) []string {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil && strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		var values []string
		for _, elem := range arr {
			values = append(values, scalarString(elem))
		}
		return values
	}
	return []string{scalarString(raw)}
}

func scalarString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// slugify lowercases and joins letter/digit runs with the separator.
func slugify(s string, sep rune) string {
	var b strings.Builder
	lastSep := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if !lastSep {
			b.WriteRune(sep)
			lastSep = true
		}
	}
	return strings.TrimRight(b.String(), string(sep))
}
