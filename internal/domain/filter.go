package domain

import (
	"strings"
	"time"
)

// Filter holds the criteria for narrowing a set of reviews. Zero values
// mean "no constraint"; Rating is a pointer so that it can distinguish
// unset from an explicit value.
type Filter struct {
	RestaurantID string
	Search       string
	Rating       *int
	Sentiment    string
	Status       string
	DateRange    string
}

// Matches reports whether a review satisfies every set criterion. The
// search term is matched case-insensitively against the review text and
// the author name. The date range is evaluated against the review's
// publication time using the half-open window ending at now.
func (f Filter) Matches(r Review, now time.Time) bool {
	if f.RestaurantID != "" && r.RestaurantID != f.RestaurantID {
		return false
	}
	if f.Rating != nil && r.Rating != *f.Rating {
		return false
	}
	if f.Sentiment != "" && r.Sentiment != f.Sentiment {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.DateRange != DateRangeAll && !InDateRange(f.DateRange, r.PublishedAt, now) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Text), term) &&
			!strings.Contains(strings.ToLower(r.AuthorName), term) {
			return false
		}
	}
	return true
}
