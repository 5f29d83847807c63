package graph

import (
	"sort"
	"strings"
)

// similarityRatio computes the spec-mandated fuzzy similarity score between
// two names: 2*M/T where M is the longest-common-subsequence length of the
// case-folded names and T is the sum of their lengths. This exact formula
// must be used so results are reproducible across implementations.
func similarityRatio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	ra, rb := []rune(a), []rune(b)
	t := len(ra) + len(rb)
	if t == 0 {
		return 1.0
	}
	m := lcsLength(ra, rb)
	return 2 * float64(m) / float64(t)
}

// lcsLength returns the length of the longest common subsequence of a and b
// via the standard O(n*m) dynamic program.
func lcsLength(a, b []rune) int {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0
	}
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[m]
}

// similarNames returns every candidate whose similarity ratio against name
// meets or exceeds threshold, sorted by descending ratio (ties broken by
// name for determinism).
func similarNames(name string, candidates []string, threshold float64) []NamedSimilarity {
	var out []NamedSimilarity
	for _, c := range candidates {
		ratio := similarityRatio(name, c)
		if ratio >= threshold {
			out = append(out, NamedSimilarity{Name: c, Ratio: ratio})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ratio != out[j].Ratio {
			return out[i].Ratio > out[j].Ratio
		}
		return out[i].Name < out[j].Name
	})
	return out
}
