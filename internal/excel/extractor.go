package excel

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

var (
	// Header tokens accepted for the word and synonyms columns
	wordHeaders     = []string{"word", "vocabulary", "kata"}
	synonymsHeaders = []string{"synonyms", "synonym", "sinonim"}

	enumerationPrefix = regexp.MustCompile(`^[\d.]+\s+`)
	parenthesized     = regexp.MustCompile(`\s*\([^)]*\)`)
	synonymSeparators = regexp.MustCompile(`[;,\r\n]+`)
)

// fallbackSynonymsOffset is the distance from the word column to the synonyms
// column when only a "word" header is present (word, definition, synonyms).
const fallbackSynonymsOffset = 2

// Layout describes where the extractor found its columns
type Layout struct {
	HeaderRow      int  // 0-based row index of the header, -1 if none
	WordColumn     int  // 0-based column index
	SynonymsColumn int  // 0-based column index
	Fallback       bool // true when the synonyms column was guessed
}

// Found reports whether a header row was located
func (l Layout) Found() bool {
	return l.HeaderRow >= 0
}

// Extractor turns a cell grid into vocabulary items
type Extractor struct {
	// NewID generates item ids; defaults to random UUIDs
	NewID func() string
}

// NewExtractor creates an extractor that assigns random UUIDs
func NewExtractor() *Extractor {
	return &Extractor{NewID: uuid.NewString}
}

// Extract runs the default extractor over grid
func Extract(grid [][]string) []models.VocabItem {
	items, _ := NewExtractor().Extract(grid)
	return items
}

// Extract locates the header row and returns one item per accepted data row.
// A grid without a recognizable header yields no items and no error.
func (e *Extractor) Extract(grid [][]string) ([]models.VocabItem, Layout) {
	layout := DetectLayout(grid)
	items := []models.VocabItem{}
	if !layout.Found() {
		return items, layout
	}

	newID := e.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	for _, row := range grid[layout.HeaderRow+1:] {
		rawWord, ok := cell(row, layout.WordColumn)
		if !ok {
			continue
		}
		rawSynonyms, ok := cell(row, layout.SynonymsColumn)
		if !ok {
			continue
		}

		word, ok := CleanWord(rawWord)
		if !ok {
			continue
		}
		synonyms := SplitSynonyms(rawSynonyms)
		if len(synonyms) == 0 {
			continue
		}

		items = append(items, models.VocabItem{
			ID:          newID(),
			Word:        word,
			Synonyms:    synonyms,
			UserGuesses: []string{},
			Status:      models.StatusHidden,
		})
	}

	return items, layout
}

// DetectLayout finds the header row: first a row naming both columns,
// then a row with a bare "word" cell whose synonyms sit two columns right.
func DetectLayout(grid [][]string) Layout {
	for i, row := range grid {
		w := findHeader(row, wordHeaders)
		s := findHeader(row, synonymsHeaders)
		if w >= 0 && s >= 0 {
			return Layout{HeaderRow: i, WordColumn: w, SynonymsColumn: s}
		}
	}

	for i, row := range grid {
		if w := findHeader(row, []string{"word"}); w >= 0 {
			return Layout{
				HeaderRow:      i,
				WordColumn:     w,
				SynonymsColumn: w + fallbackSynonymsOffset,
				Fallback:       true,
			}
		}
	}

	return Layout{HeaderRow: -1, WordColumn: -1, SynonymsColumn: -1}
}

func findHeader(row []string, tokens []string) int {
	for i, c := range row {
		v := strings.ToLower(strings.TrimSpace(c))
		for _, t := range tokens {
			if v == t {
				return i
			}
		}
	}
	return -1
}

// cell returns the trimmed value at idx when it exists and is non-empty
func cell(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[idx])
	return v, v != ""
}

// CleanWord strips enumeration prefixes and parenthesized notes from a raw
// word cell. It reports false for values that cannot be a headword.
func CleanWord(raw string) (string, bool) {
	w := strings.TrimSpace(raw)
	w = enumerationPrefix.ReplaceAllString(w, "")
	w = parenthesized.ReplaceAllString(w, "")
	w = strings.TrimSpace(w)

	if utf8.RuneCountInString(w) < 2 {
		return "", false
	}
	lower := strings.ToLower(w)
	if lower == "word" || strings.Contains(lower, "topic:") {
		return "", false
	}
	return w, true
}

// SplitSynonyms splits a synonyms cell on semicolons, commas and line breaks
func SplitSynonyms(raw string) []string {
	var out []string
	for _, part := range synonymSeparators.Split(raw, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
