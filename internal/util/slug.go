package util

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases s, strips accents, and collapses every run of
// characters outside [a-z0-9] into a single hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// UploadFileName derives a clean name for an uploaded image from the
// browser-supplied file name and the detected MIME type. Browsers send
// arbitrary names (paths, spaces, unicode); the shop API gets a slugged
// base name with an extension matching the actual content.
func UploadFileName(original, mimeType string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	slug := Slugify(base)
	if slug == "" {
		slug = "upload"
	}
	return slug + imageExtension(mimeType)
}

func imageExtension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
