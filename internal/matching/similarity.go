package matching

import "math"

// Distance returns the Levenshtein edit distance between a and b with unit
// costs for insertion, deletion and substitution.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	table := make([][]int, la+1)
	for i := range table {
		table[i] = make([]int, lb+1)
		table[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		table[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			table[i][j] = min(
				table[i-1][j]+1,
				table[i][j-1]+1,
				table[i-1][j-1]+cost,
			)
		}
	}

	return table[la][lb]
}

// Similarity converts the edit distance into a 0-100 percentage relative to
// the longer string. Two empty strings are identical and score 100.
func Similarity(a, b string) int {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}

	distance := Distance(a, b)
	return int(math.Round(float64(maxLen-distance) / float64(maxLen) * 100))
}
