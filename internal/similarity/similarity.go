package similarity

import "strings"

// DefaultDuplicateThreshold is the similarity above which two titles are
// treated as near-duplicates.
const DefaultDuplicateThreshold = 0.70

// Score returns a normalized similarity in [0,1] between two strings:
// 1 − editDistance/maxLen over case-normalized input. Two empty strings
// score 1.0.
func Score(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}

	return float64(longer-editDistance(a, b)) / float64(longer)
}

// IsNearDuplicate reports whether a and b exceed the given similarity
// threshold; pass <=0 to use DefaultDuplicateThreshold.
func IsNearDuplicate(a, b string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}
	return Score(a, b) > threshold
}

// FindDuplicate returns the first existing title that a is a
// near-duplicate of, or "" if none match.
func FindDuplicate(title string, existing []string, threshold float64) string {
	for _, candidate := range existing {
		if IsNearDuplicate(title, candidate, threshold) {
			return candidate
		}
	}
	return ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// editDistance is classic Levenshtein with unit costs, two-row rolling
// computation.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
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
