package repetition

import "strings"

// Similarity scores two strings in [0, 1] with a deliberately cheap
// heuristic: both are normalized (lowercased, punctuation stripped), then
// exact match scores 1.0, substring containment either direction 0.85, and
// otherwise the fraction of the shorter string's words that appear in the
// longer one. False positives are preferred over looping forever.
func Similarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)

	if na == "" || nb == "" {
		if na == nb {
			return 1.0
		}
		return 0.0
	}

	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.85
	}

	shorter, longer := strings.Fields(na), strings.Fields(nb)
	if len(longer) < len(shorter) {
		shorter, longer = longer, shorter
	}

	longerSet := make(map[string]struct{}, len(longer))
	for _, w := range longer {
		longerSet[w] = struct{}{}
	}

	shared := 0
	for _, w := range shorter {
		if _, ok := longerSet[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(shorter))
}

// normalize lowercases and strips everything that is not a letter, digit or
// space, collapsing runs of whitespace.
func normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
