package analysis

// ratingScores maps 1-5 star ratings onto the [-1, 1] sentiment range.
var ratingScores = map[int]float64{
	1: -1.0,
	2: -0.5,
	3: 0.0,
	4: 0.5,
	5: 1.0,
}

// RatingScore converts a star rating to a sentiment value. Ratings outside
// 1..5 map to neutral; the function never fails.
func RatingScore(rating int) float64 {
	return ratingScores[rating]
}
