package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExampleType names one of the four IELTS sentence varieties
type ExampleType string

const (
	ExampleSimple          ExampleType = "Simple"
	ExampleComplex         ExampleType = "Complex"
	ExampleCompound        ExampleType = "Compound"
	ExampleCompoundComplex ExampleType = "Compound-Complex"
)

// ExampleTypes lists the sentence varieties in display order
var ExampleTypes = []ExampleType{ExampleSimple, ExampleComplex, ExampleCompound, ExampleCompoundComplex}

// ParseExampleType matches s against the known varieties, ignoring case, spaces and hyphens
func ParseExampleType(s string) (ExampleType, bool) {
	key := normalizeTypeKey(s)
	for _, t := range ExampleTypes {
		if normalizeTypeKey(string(t)) == key {
			return t, true
		}
	}
	return "", false
}

func normalizeTypeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", " ", "", "_", "").Replace(s)
}

// Example is one generated sentence with an optional translation
type Example struct {
	Type        ExampleType `json:"type"`
	Text        string      `json:"text"`
	Translation string      `json:"translation,omitempty"`
}

// Phonetics holds US and UK pronunciations.
// Older records stored a single string; it is accepted and copied to both fields.
type Phonetics struct {
	US string `json:"us"`
	UK string `json:"uk"`
}

// UnmarshalJSON accepts either {"us": "...", "uk": "..."} or a bare string
func (p *Phonetics) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var legacy string
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("phonetics: %w", err)
		}
		p.US = legacy
		p.UK = legacy
		return nil
	}
	type plain Phonetics
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("phonetics: %w", err)
	}
	*p = Phonetics(v)
	return nil
}

// Enrichment is the provider result for one word
type Enrichment struct {
	Definition      string     `json:"definition,omitempty"`
	Meaning         string     `json:"meaning"`
	Phonetics       *Phonetics `json:"phonetics,omitempty"`
	Examples        []Example  `json:"examples"`
	SynonymMeanings []string   `json:"synonymMeanings,omitempty"`
}

// Clone returns a deep copy
func (e *Enrichment) Clone() *Enrichment {
	if e == nil {
		return nil
	}
	out := *e
	out.Examples = append([]Example(nil), e.Examples...)
	out.SynonymMeanings = append([]string(nil), e.SynonymMeanings...)
	if e.Phonetics != nil {
		p := *e.Phonetics
		out.Phonetics = &p
	}
	return &out
}

// NormalizeExamples keeps one example per known type, in display order.
// Unknown types and empty sentences are dropped.
func NormalizeExamples(in []Example) []Example {
	byType := make(map[ExampleType]Example, len(ExampleTypes))
	for _, ex := range in {
		t, ok := ParseExampleType(string(ex.Type))
		if !ok || strings.TrimSpace(ex.Text) == "" {
			continue
		}
		if _, seen := byType[t]; seen {
			continue
		}
		byType[t] = Example{
			Type:        t,
			Text:        strings.TrimSpace(ex.Text),
			Translation: strings.TrimSpace(ex.Translation),
		}
	}
	out := make([]Example, 0, len(byType))
	for _, t := range ExampleTypes {
		if ex, ok := byType[t]; ok {
			out = append(out, ex)
		}
	}
	return out
}
