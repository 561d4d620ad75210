package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. Common Latin
// accented characters are transliterated to ASCII so restaurant names like
// "Café Müller" produce usable slugs.
//
// Examples:
//   - "Café Rouge" → "cafe-rouge"
//   - "La Piñata" → "la-pinata"
//   - "Joe's   Diner!" → "joe-s-diner"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	// Transliterate accented Latin characters to ASCII.
	replacer := strings.NewReplacer(
		"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
		"è", "e", "é", "e", "ê", "e", "ë", "e",
		"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
		"ò", "o", "ó", "o", "ô", "o", "ö", "o", "õ", "o", "ø", "o",
		"ù", "u", "ú", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n", "ß", "ss", "ğ", "g", "ş", "s",
	)
	slug = replacer.Replace(slug)

	// Replace any non-alphanumeric characters with hyphens.
	slug = slugRegexp.ReplaceAllString(slug, "-")

	// Trim leading and trailing hyphens.
	slug = strings.Trim(slug, "-")

	// Collapse consecutive hyphens into single hyphens.
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return slug
}
