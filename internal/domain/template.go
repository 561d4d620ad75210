package domain

import (
	"regexp"
	"time"
)

// TemplateVariables lists the placeholder names RenderTemplate seeds from a
// review. Interpolate itself accepts any key.
var TemplateVariables = []string{"customer_name", "restaurant_name", "rating"}

// ResponseTemplate is a reusable response body with `{{placeholder}}`
// variables that are substituted at render time.
type ResponseTemplate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tone      string    `json:"tone"`
	Category  string    `json:"category,omitempty"`
	Variables []string  `json:"variables"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Interpolate substitutes placeholders in content with the supplied values.
// Every key in vars replaces every `{{key}}` occurrence; whitespace inside
// the braces is tolerated, so `{{ rating }}` and `{{rating}}` are
// equivalent. Placeholders with no entry in vars are left verbatim.
func Interpolate(content string, vars map[string]string) string {
	out := content
	for name, value := range vars {
		re := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(name) + `\s*\}\}`)
		out = re.ReplaceAllLiteralString(out, value)
	}
	return out
}
