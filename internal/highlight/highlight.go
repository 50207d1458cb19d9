// Package highlight turns matched lines into colored segments.
//
// Specs are applied in list order. A spec paints an occurrence only when none
// of its characters already belongs to an earlier spec, so the first listed
// spec owns contested text and nothing is ever annotated twice.
package highlight

import (
	"unicode"

	"grephl/internal/domain"
)

// Options controls matching
type Options struct {
	CaseSensitive bool
}

// Engine renders lines against highlight specs
type Engine struct {
	opts Options
}

// New creates a highlight engine
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Render annotates every matched line
func (e *Engine) Render(lines []domain.MatchedLine, specs []domain.HighlightSpec) []domain.RenderedLine {
	out := make([]domain.RenderedLine, len(lines))
	for i, l := range lines {
		out[i] = domain.RenderedLine{
			Number:   l.Number,
			Segments: e.RenderLine(l.Text, specs),
		}
	}
	return out
}

// RenderLine splits one line into colored and plain segments
func (e *Engine) RenderLine(text string, specs []domain.HighlightSpec) []domain.Segment {
	runes := []rune(Escape(text))
	if len(runes) == 0 {
		return nil
	}

	owner := make([]int, len(runes))
	for i := range owner {
		owner[i] = -1
	}

	for si, spec := range specs {
		if spec.Word == "" || IsNone(spec.Color) {
			continue
		}
		word := []rune(Escape(spec.Word))
		for i := 0; i+len(word) <= len(runes); {
			if !e.equalAt(runes, i, word) {
				i++
				continue
			}
			if !free(owner, i, len(word)) {
				i++
				continue
			}
			for j := i; j < i+len(word); j++ {
				owner[j] = si
			}
			i += len(word)
		}
	}

	var segments []domain.Segment
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && owner[i] == owner[start] {
			continue
		}
		seg := domain.Segment{Text: string(runes[start:i])}
		if owner[start] >= 0 {
			seg.Color = specs[owner[start]].Color
		}
		segments = append(segments, seg)
		start = i
	}
	return segments
}

func (e *Engine) equalAt(text []rune, at int, word []rune) bool {
	for k, w := range word {
		r := text[at+k]
		if r == w {
			continue
		}
		if e.opts.CaseSensitive || !foldEqual(r, w) {
			return false
		}
	}
	return true
}

func foldEqual(a, b rune) bool {
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

func free(owner []int, at, n int) bool {
	for j := at; j < at+n; j++ {
		if owner[j] >= 0 {
			return false
		}
	}
	return true
}
