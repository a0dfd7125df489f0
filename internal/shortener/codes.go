package shortener

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/url"
	"regexp"
	"strings"
)

const (
	codeAlphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultCodeLength = 7
	maxCodeAttempts   = 64
)

var (
	codePattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{4,32}$`)
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// Validation errors surfaced as client errors at the HTTP boundary.
var (
	ErrURLRequired       = errors.New("URL is required.")
	ErrUnsupportedScheme = errors.New("Only HTTP and HTTPS URLs are supported.")
	ErrMissingHost       = errors.New("URL must include a valid host.")
	ErrInvalidCode       = errors.New("Custom code must match [A-Za-z0-9_-] and be 4-32 characters.")
)

// NormalizeURL trims the input and ensures it is an absolute http or https
// URL, prepending https:// when no scheme is present.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrURLRequired
	}

	withScheme := trimmed
	if !schemePattern.MatchString(trimmed) {
		withScheme = "https://" + trimmed
	}

	parsed, err := url.Parse(withScheme)
	if err != nil {
		return "", ErrURLRequired
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrUnsupportedScheme
	}
	if parsed.Host == "" {
		return "", ErrMissingHost
	}

	return withScheme, nil
}

// ValidateCustomCode trims the input and checks it against the allowed
// code shape.
func ValidateCustomCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}
	return code, nil
}

// randomCode draws a code from the 62-symbol alphabet using crypto/rand.
func randomCode() (string, error) {
	var b strings.Builder
	b.Grow(defaultCodeLength)

	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < defaultCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
