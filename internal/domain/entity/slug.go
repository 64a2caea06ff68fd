package entity

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"
)

const (
	maxSlugLength  = 80
	slugAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
	SlugSuffixSize = 5
)

// Slugify turns a title into a lowercase, hyphen-separated slug.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(truncateRunes(s, maxSlugLength), "-")
	}
	if s == "" {
		return "article"
	}
	return s
}

func truncateRunes(s string, maxBytes int) string {
	n := 0
	for i := range s {
		if i > maxBytes {
			break
		}
		n = i
	}
	return s[:n]
}

// RandomSuffix returns n random characters from [a-z0-9].
func RandomSuffix(n int) string {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := range buf {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = slugAlphabet[v.Int64()]
	}
	return string(buf)
}

// SuffixedSlug appends a random suffix to slug.
func SuffixedSlug(slug string) string {
	return slug + "-" + RandomSuffix(SlugSuffixSize)
}
