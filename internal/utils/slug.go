package utils

import "strings"

// Slugify normalizes a free-text title into a URL-safe base slug: lowercase,
// runs of non-alphanumeric characters collapsed to single hyphens, leading and
// trailing hyphens trimmed. The document repository builds its collision scan
// from this exact form, so the normalization must stay stable.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
