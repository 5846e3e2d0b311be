// Package phone normalizes Kenyan mobile numbers to the 2547XXXXXXXX form
// expected by the M-Pesa gateway.
package phone

import (
	"errors"
	"strings"
	"unicode"
)

var ErrInvalidPhone = errors.New("phone number must start with 07, +254 or 254")

const (
	countryCode   = "254"
	localPrefix   = "0"
	intlPrefix    = "+"
	subscriberLen = 9
)

func clean(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}

		return r
	}, strings.TrimSpace(raw))
}

// Normalize accepts 07XXXXXXXX, 01XXXXXXXX, +254XXXXXXXXX and 254XXXXXXXXX.
// Spaces and dashes are ignored.
func Normalize(raw string) (string, error) {
	cleaned := clean(raw)

	var subscriber string

	switch {
	case strings.HasPrefix(cleaned, intlPrefix+countryCode):
		subscriber = strings.TrimPrefix(cleaned, intlPrefix+countryCode)
	case strings.HasPrefix(cleaned, countryCode):
		subscriber = strings.TrimPrefix(cleaned, countryCode)
	case strings.HasPrefix(cleaned, localPrefix):
		subscriber = strings.TrimPrefix(cleaned, localPrefix)
	default:
		return "", ErrInvalidPhone
	}

	if len(subscriber) != subscriberLen || !digitsOnly(subscriber) {
		return "", ErrInvalidPhone
	}

	return countryCode + subscriber, nil
}

// OrRaw returns the normalized form of raw, or raw trimmed when it cannot be normalized.
func OrRaw(raw string) string {
	if normalized, err := Normalize(raw); err == nil {
		return normalized
	}

	return strings.TrimSpace(raw)
}

// SearchPrefix rewrites a partial number such as "0712" or "+254 71" into the stored
// 254 form. ok is false when term does not look like the start of a Kenyan number.
func SearchPrefix(term string) (prefix string, ok bool) {
	cleaned := clean(term)

	var subscriber string

	switch {
	case strings.HasPrefix(cleaned, intlPrefix+countryCode):
		subscriber = strings.TrimPrefix(cleaned, intlPrefix+countryCode)
	case strings.HasPrefix(cleaned, countryCode):
		subscriber = strings.TrimPrefix(cleaned, countryCode)
	case strings.HasPrefix(cleaned, localPrefix) && len(cleaned) > len(localPrefix):
		subscriber = strings.TrimPrefix(cleaned, localPrefix)
	default:
		return term, false
	}

	if len(subscriber) > subscriberLen || !digitsOnly(subscriber) {
		return term, false
	}

	return countryCode + subscriber, true
}

// Valid reports whether raw can be normalized.
func Valid(raw string) bool {
	_, err := Normalize(raw)

	return err == nil
}

func digitsOnly(value string) bool {
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
