package domain

import "math"

// AnalyticsSnapshot is an aggregate view over a set of reviews. Breakdown
// maps always carry every known category, with zero counts for categories
// that do not occur in the input.
type AnalyticsSnapshot struct {
	TotalReviews       int            `json:"total_reviews"`
	AverageRating      float64        `json:"average_rating"`
	ResponseRate       float64        `json:"response_rate"`
	RatingDistribution map[int]int    `json:"rating_distribution"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	StatusBreakdown    map[string]int `json:"status_breakdown"`
}

// Aggregate folds a set of reviews into an analytics snapshot in a single
// pass. AverageRating and ResponseRate are rounded to one decimal place;
// ResponseRate is the percentage of reviews in the RESPONDED status. An
// empty input yields zero values with fully populated breakdown maps.
func Aggregate(reviews []Review) AnalyticsSnapshot {
	snapshot := AnalyticsSnapshot{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		SentimentBreakdown: make(map[string]int, 3),
		StatusBreakdown:    make(map[string]int, 3),
	}
	for _, s := range ValidSentiments() {
		snapshot.SentimentBreakdown[s] = 0
	}
	for _, s := range ValidReviewStatuses() {
		snapshot.StatusBreakdown[s] = 0
	}

	var ratingSum, responded int
	for _, r := range reviews {
		snapshot.TotalReviews++
		ratingSum += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			snapshot.RatingDistribution[r.Rating]++
		}
		if IsValidSentiment(r.Sentiment) {
			snapshot.SentimentBreakdown[r.Sentiment]++
		}
		if IsValidReviewStatus(r.Status) {
			snapshot.StatusBreakdown[r.Status]++
		}
		if r.Status == ReviewStatusResponded {
			responded++
		}
	}

	if snapshot.TotalReviews > 0 {
		snapshot.AverageRating = round1(float64(ratingSum) / float64(snapshot.TotalReviews))
		snapshot.ResponseRate = round1(float64(responded) / float64(snapshot.TotalReviews) * 100)
	}

	return snapshot
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
