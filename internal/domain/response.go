package domain

import "time"

// Tone of an AI-generated or hand-written response.
const (
	ToneProfessional = "PROFESSIONAL"
	ToneFriendly     = "FRIENDLY"
	ToneApologetic   = "APOLOGETIC"
	ToneGrateful     = "GRATEFUL"
)

// ResponsePostLimit is the maximum number of characters (runes, not bytes)
// a response may contain to be eligible for posting.
const ResponsePostLimit = 500

// toneDescriptions maps each tone to the wording used when prompting the
// generation model.
var toneDescriptions = map[string]string{
	ToneProfessional: "Formal, courteous, and business-appropriate",
	ToneFriendly:     "Warm, conversational, and personable",
	ToneApologetic:   "Understanding and genuinely concerned",
	ToneGrateful:     "Appreciative and thankful for feedback",
}

// Response represents a reply to a review, either drafted by hand or
// generated by the AI assistant. Once posted, a response is immutable.
type Response struct {
	ID            string     `json:"id"`
	ReviewID      string     `json:"review_id"`
	UserID        string     `json:"user_id,omitempty"`
	Content       string     `json:"content"`
	Tone          string     `json:"tone"`
	IsAIGenerated bool       `json:"is_ai_generated"`
	Model         string     `json:"model,omitempty"`
	IsPosted      bool       `json:"is_posted"`
	PostedAt      *time.Time `json:"posted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ValidTones returns all valid tone values.
func ValidTones() []string {
	return []string{ToneProfessional, ToneFriendly, ToneApologetic, ToneGrateful}
}

// IsValidTone checks if the given tone is valid.
func IsValidTone(t string) bool {
	_, ok := toneDescriptions[t]
	return ok
}

// ToneDescription returns the prompt wording for a tone. Unknown tones fall
// back to the professional description.
func ToneDescription(t string) string {
	if d, ok := toneDescriptions[t]; ok {
		return d
	}
	return toneDescriptions[ToneProfessional]
}
