package storage

import (
	"fmt"
	"strings"
	"time"
)

const (
	// KeyPrefix is the namespace every artifact key lives under.
	KeyPrefix = "blog-output/"

	// MaxSlugLength bounds the topic portion of a key.
	MaxSlugLength = 50

	keyTimeLayout      = "20060102_150405"
	envelopeTimeLayout = "2006-01-02 15:04:05"
	envelopeHeader     = "Generated Blog Post:"

	// ContentType is the media type every artifact is stored with.
	ContentType = "text/plain"
)

// Slugify replaces every rune that is not an ASCII letter or digit with a
// hyphen and truncates the result to MaxSlugLength bytes. Runs of hyphens are
// kept, so Slugify(Slugify(s)) == Slugify(s).
//
// Non-ASCII letters and digits are replaced too ("café" becomes "caf-") so
// that keys and public URLs never need percent-encoding. Do not widen this to
// unicode.IsLetter.
func Slugify(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if b.Len() == MaxSlugLength {
			break
		}
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// ObjectKey returns blog-output/{slug}_{YYYYMMDD_HHMMSS}.txt for t.
// Two writes of the same slug within one second share a key; the later wins.
func ObjectKey(slug string, t time.Time) string {
	return fmt.Sprintf("%s%s_%s.txt", KeyPrefix, slug, t.Format(keyTimeLayout))
}

// Envelope wraps text in the plain-text artifact format.
func Envelope(text string, t time.Time) []byte {
	return []byte(fmt.Sprintf("%s\n\n%s\n\nGenerated on: %s",
		envelopeHeader, text, t.Format(envelopeTimeLayout)))
}

// PublicURL returns the virtual-hosted URL for key in bucket.
func PublicURL(bucket, domain, key string) string {
	return fmt.Sprintf("https://%s.%s/%s", bucket, domain, key)
}

// ValidateKey rejects keys outside KeyPrefix or containing path traversal.
func ValidateKey(key string) error {
	if !strings.HasPrefix(key, KeyPrefix) || len(key) == len(KeyPrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.Contains(key, "..") || strings.Contains(key, "//") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
