package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var doc = []string{
	"INFO start",
	"ERROR disk full",
	"WARN retry",
	"ERROR timeout; WARN again",
	"info lower",
}

func TestFilterORSemantics(t *testing.T) {
	got := Filter(doc, []string{"ERROR", "WARN"})

	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].Number)
	assert.Equal(t, 3, got[1].Number)
	assert.Equal(t, 4, got[2].Number)
	assert.Equal(t, "ERROR timeout; WARN again", got[2].Text)
}

func TestFilterIsCaseSensitive(t *testing.T) {
	got := Filter(doc, []string{"info"})

	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Number)
}

func TestFilterNoWordBoundary(t *testing.T) {
	got := Filter([]string{"catalog", "dog"}, []string{"cat"})

	require.Len(t, got, 1)
	assert.Equal(t, "catalog", got[0].Text)
}

func TestFilterBlankTermsMatchNothing(t *testing.T) {
	assert.Empty(t, Filter(doc, nil))
	assert.Empty(t, Filter(doc, []string{"", "   ", "\t"}))
}

func TestFilterIgnoresBlankAmongRealTerms(t *testing.T) {
	got := Filter(doc, []string{" ", "retry"})

	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Number)
}

func TestFilterSubsequenceProperty(t *testing.T) {
	terms := []string{"ERROR", "o"}
	got := Filter(doc, terms)

	// every result is a member of doc that matches, and every matching line appears exactly once
	next := 0
	for _, m := range got {
		require.Greater(t, m.Number, next, "order must be preserved")
		next = m.Number
		assert.Equal(t, doc[m.Number-1], m.Text)
	}

	var want []string
	for _, line := range doc {
		for _, term := range terms {
			if strings.Contains(line, term) {
				want = append(want, line)
				break
			}
		}
	}
	assert.Equal(t, want, Texts(got))
}
