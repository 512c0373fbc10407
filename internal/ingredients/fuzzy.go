// Package ingredients resolves raw ingredient names against the persisted
// catalog, deduplicating near-duplicates with an exact-then-fuzzy lookup.
package ingredients

import (
	"sort"
	"strings"

	"github.com/jonathan/recipe-extractor/internal/db"
)

// Score returns a dissimilarity score in [0,1] between two ingredient names:
// 0 means identical, 1 completely dissimilar. Both inputs are normalized
// before comparison, and the names are also compared with their tokens sorted
// so that word order ("fresh tomato" vs "tomato, fresh") does not penalize.
func Score(a, b string) float64 {
	na := db.NormalizeIngredientName(a)
	nb := db.NormalizeIngredientName(b)
	if na == nb {
		return 0
	}
	if na == "" || nb == "" {
		return 1
	}

	direct := editRatio(na, nb)
	sorted := editRatio(sortTokens(na), sortTokens(nb))
	if sorted < direct {
		return sorted
	}
	return direct
}

// editRatio is the Levenshtein distance divided by the longer length
func editRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein(ra, rb)) / float64(longest)
}

// sortTokens rebuilds a normalized name with its words in sorted order
func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// levenshtein computes the edit distance between two rune slices using two
// rolling rows
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
