// Package transfer converts a draft to and from the shareable JSON form
//
//	{"Grep": ["term", ...], "Highlight": [{"word": "term", "color": "red"}, ...]}
package transfer

import (
	"encoding/json"
	"fmt"
	"strings"

	"grephl/internal/domain"
)

type document struct {
	Grep      *[]string               `json:"Grep"`
	Highlight *[]domain.HighlightSpec `json:"Highlight"`
}

// Export encodes terms and highlights. Blank entries are left out.
func Export(terms []string, highlights []domain.HighlightSpec) (string, error) {
	t := domain.CleanTerms(terms)
	h := domain.CleanHighlights(highlights)
	data, err := json.Marshal(document{Grep: &t, Highlight: &h})
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}
	return string(data), nil
}

// Import decodes text produced by Export. Anything that doesn't parse or
// lacks either list yields ErrMalformedImport and no values.
func Import(text string) ([]string, []domain.HighlightSpec, error) {
	var doc document
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrMalformedImport, err)
	}
	if dec.More() {
		return nil, nil, fmt.Errorf("%w: trailing data", domain.ErrMalformedImport)
	}
	if doc.Grep == nil || doc.Highlight == nil {
		return nil, nil, fmt.Errorf("%w: Grep and Highlight are required", domain.ErrMalformedImport)
	}

	highlights := make([]domain.HighlightSpec, len(*doc.Highlight))
	for i, h := range *doc.Highlight {
		if h.Color == "" {
			h.Color = domain.ColorNone
		}
		highlights[i] = h
	}
	return *doc.Grep, highlights, nil
}
