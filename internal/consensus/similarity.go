package consensus

import "strings"

// Score rates how alike two answers are, in [0, 1]. Exact normalized
// equality scores 1.0, containment 0.8, anything else the word-set overlap
// relative to the larger answer.
func Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}
	return overlap(na, nb)
}

// overlap computes word-set intersection over the larger word set.
func overlap(na, nb string) float64 {
	wa := wordSet(na)
	wb := wordSet(nb)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	larger := len(wa)
	if len(wb) > larger {
		larger = len(wb)
	}
	return float64(shared) / float64(larger)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
