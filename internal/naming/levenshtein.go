package naming

// suggestThreshold is the minimum similarity for Suggest to return a candidate.
const suggestThreshold = 0.5

// Levenshtein computes the edit distance between two strings.
//
// Space complexity: O(min(len(a), len(b))).
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity returns 1 - distance/maxLen of the normalized identifiers.
// 1.0 means identical after normalization.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if len(na) == 0 && len(nb) == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(na, nb))/float64(max(len(na), len(nb)))
}

// Suggest returns the candidate most similar to name, or "" when none is
// close enough. Ties keep the earliest candidate.
func Suggest(name string, candidates []string) string {
	best := ""
	bestScore := 0.0

	for _, c := range candidates {
		score := Similarity(name, c)
		if score >= suggestThreshold && score > bestScore {
			best = c
			bestScore = score
		}
	}

	return best
}
