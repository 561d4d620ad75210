package domain

import "time"

// Sentiment classification of a review.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// Lifecycle status of a review.
const (
	ReviewStatusPending   = "PENDING"
	ReviewStatusResponded = "RESPONDED"
	ReviewStatusIgnored   = "IGNORED"
)

// Review represents a single customer review for a restaurant.
type Review struct {
	ID              string    `json:"id"`
	RestaurantID    string    `json:"restaurant_id"`
	AuthorName      string    `json:"author_name"`
	AuthorURL       string    `json:"author_url,omitempty"`
	ProfilePhotoURL string    `json:"profile_photo_url,omitempty"`
	Rating          int       `json:"rating"`
	Text            string    `json:"text"`
	PublishedAt     time.Time `json:"published_at"`
	Sentiment       string    `json:"sentiment"`
	SentimentScore  float64   `json:"sentiment_score"`
	Keywords        []string  `json:"keywords"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValidSentiments returns all valid sentiment values.
func ValidSentiments() []string {
	return []string{SentimentPositive, SentimentNegative, SentimentNeutral}
}

// IsValidSentiment checks if the given sentiment is valid.
func IsValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// ValidReviewStatuses returns all valid review status values.
func ValidReviewStatuses() []string {
	return []string{ReviewStatusPending, ReviewStatusResponded, ReviewStatusIgnored}
}

// IsValidReviewStatus checks if the given status is valid.
func IsValidReviewStatus(s string) bool {
	switch s {
	case ReviewStatusPending, ReviewStatusResponded, ReviewStatusIgnored:
		return true
	}
	return false
}

// SentimentForRating derives a sentiment classification from a star rating.
// Ratings of 4 and above are positive, 3 is neutral, anything lower is
// negative.
func SentimentForRating(rating int) string {
	switch {
	case rating >= 4:
		return SentimentPositive
	case rating == 3:
		return SentimentNeutral
	default:
		return SentimentNegative
	}
}
