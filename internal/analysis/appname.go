package analysis

import "reviewalyze/internal/domain"

// UnknownApp is the provenance fallback when reviews carry no app id.
const UnknownApp = "unknown_app"

// ResolveAppName returns the most frequent non-empty app id in the batch.
// Ties break toward the lexicographically smallest id so the result is
// deterministic.
func ResolveAppName(reviews []domain.Review) string {
	counts := make(map[string]int)
	for i := range reviews {
		if reviews[i].AppID != "" {
			counts[reviews[i].AppID]++
		}
	}

	var best string
	var bestCount int
	for id, count := range counts {
		if count > bestCount || (count == bestCount && id < best) {
			best = id
			bestCount = count
		}
	}

	if bestCount == 0 {
		return UnknownApp
	}
	return best
}
