package errors

import "strings"

// levenshteinDistance is the edit distance between a and b, counted in runes.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// threshold is the largest edit distance worth suggesting for an input:
// one edit up to three characters, two up to six, three beyond.
func threshold(input string) int {
	switch n := len([]rune(input)); {
	case n >= 7:
		return 3
	case n >= 4:
		return 2
	}
	return 1
}

// FindClosestMatch returns the candidate nearest to input, ignoring case, or
// "" when input matches exactly or nothing is close enough. Ties go to the
// earlier candidate.
func FindClosestMatch(input string, candidates []string) string {
	if input == "" {
		return ""
	}
	lower := strings.ToLower(input)

	best, bestDistance := "", -1
	for _, c := range candidates {
		d := levenshteinDistance(lower, strings.ToLower(c))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = c, d
		}
	}

	if bestDistance <= 0 || bestDistance > threshold(input) {
		return ""
	}
	return best
}
