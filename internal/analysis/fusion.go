package analysis

// Default pipeline weights: the text signal, when available, is trusted more
// than the star rating. Overridable via configuration.
const (
	DefaultRatingWeight = 0.4
	DefaultTextWeight   = 0.6
)

// Fuse blends a rating-derived score with an optional text-derived score into
// one sentiment value. A nil text score returns the rating score unchanged.
// Weights are normalized to sum to one, so only their ratio matters; the
// result is clamped to [-1, 1]. Pure and deterministic.
func Fuse(ratingScore float64, textScore *float64, ratingWeight, textWeight float64) float64 {
	if textScore == nil {
		return ratingScore
	}

	total := ratingWeight + textWeight
	if total <= 0 {
		return ratingScore
	}

	fused := (ratingWeight/total)*ratingScore + (textWeight/total)*(*textScore)
	return clamp(fused, -1.0, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
