package domain

import "strings"

// ColorNone is the color token that registers a word without painting it
const ColorNone = "none"

// HighlightSpec pairs a word with the color used to paint it
type HighlightSpec struct {
	Word  string `json:"word"`
	Color string `json:"color"`
}

// NamedConfig is a saved bundle of grep terms and highlight specs
type NamedConfig struct {
	Name       string          `json:"name"`
	Terms      []string        `json:"grepWords"`
	Highlights []HighlightSpec `json:"searchWords"`
}

// LastActiveState is the most recent draft, kept across panel teardown.
// It is always replaced wholesale; Version grows by one on every replacement.
type LastActiveState struct {
	Terms            []string        `json:"grepWords"`
	Highlights       []HighlightSpec `json:"searchWords"`
	ActiveConfigName string          `json:"name,omitempty"`
	Version          uint64          `json:"version"`
}

// MatchedLine is one line of a document that matched at least one term
type MatchedLine struct {
	Number int // 1-indexed position in the snapshot
	Text   string
}

// Segment is a run of text with a single color ("" for plain text)
type Segment struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// RenderedLine is a highlight-annotated matched line
type RenderedLine struct {
	Number   int       `json:"number"`
	Segments []Segment `json:"segments"`
	Selected bool      `json:"selected,omitempty"`
}

// Text returns the concatenated segment text
func (l RenderedLine) Text() string {
	var b strings.Builder
	for _, s := range l.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// CleanTerms drops blank terms, keeping order
func CleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CleanHighlights drops specs with an empty word and collapses duplicate
// words: the first position is kept and the last color wins.
func CleanHighlights(specs []HighlightSpec) []HighlightSpec {
	out := make([]HighlightSpec, 0, len(specs))
	index := make(map[string]int, len(specs))
	for _, s := range specs {
		if s.Word == "" {
			continue
		}
		if i, ok := index[s.Word]; ok {
			out[i].Color = s.Color
			continue
		}
		index[s.Word] = len(out)
		out = append(out, s)
	}
	return out
}
