package models

import "strings"

// Status is the recall state of a single vocabulary item
type Status string

const (
	StatusHidden     Status = "hidden"
	StatusDiscovered Status = "discovered"
	StatusMastered   Status = "mastered"
)

// Revealed reports whether the item has been discovered (or mastered)
func (s Status) Revealed() bool {
	return s == StatusDiscovered || s == StatusMastered
}

// VocabItem is one flashcard: a headword plus the synonyms that count as answers
type VocabItem struct {
	ID       string   `json:"id"`
	Word     string   `json:"word"`
	Synonyms []string `json:"synonyms"`

	// Enrichment fields, empty until the provider answers for this word
	Definition      string     `json:"definition,omitempty"`
	Meaning         string     `json:"meaning,omitempty"`
	Phonetics       *Phonetics `json:"phonetics,omitempty"`
	Examples        []Example  `json:"examples,omitempty"`
	SynonymMeanings []string   `json:"synonymMeanings,omitempty"`

	UserGuesses []string `json:"userGuesses"`
	Status      Status   `json:"status"`
}

// HasEnrichment reports whether enrichment content has been merged into the item
func (v VocabItem) HasEnrichment() bool {
	return v.Meaning != "" || v.Phonetics != nil || len(v.Examples) > 0
}

// ApplyEnrichment replaces every enrichment field with the given response.
// A nil response clears them.
func (v *VocabItem) ApplyEnrichment(e *Enrichment) {
	if e == nil {
		v.Definition = ""
		v.Meaning = ""
		v.Phonetics = nil
		v.Examples = nil
		v.SynonymMeanings = nil
		return
	}
	c := e.Clone()
	v.Definition = c.Definition
	v.Meaning = c.Meaning
	v.Phonetics = c.Phonetics
	v.Examples = c.Examples
	v.SynonymMeanings = c.SynonymMeanings
}

// MatchSynonym reports whether text equals one of the synonyms, ignoring case and surrounding space
func (v *VocabItem) MatchSynonym(text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return false
	}
	for _, s := range v.Synonyms {
		if strings.ToLower(strings.TrimSpace(s)) == needle {
			return true
		}
	}
	return false
}

// HasGuessed reports whether text was already accepted as a guess
func (v *VocabItem) HasGuessed(text string) bool {
	needle := strings.TrimSpace(text)
	for _, g := range v.UserGuesses {
		if strings.EqualFold(g, needle) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the item
func (v VocabItem) Clone() VocabItem {
	out := v
	out.Synonyms = append([]string(nil), v.Synonyms...)
	out.UserGuesses = append([]string{}, v.UserGuesses...)
	out.SynonymMeanings = append([]string(nil), v.SynonymMeanings...)
	out.Examples = append([]Example(nil), v.Examples...)
	if v.Phonetics != nil {
		p := *v.Phonetics
		out.Phonetics = &p
	}
	return out
}
