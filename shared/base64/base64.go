// Package base64 reads the data URLs the dashboard sends for offer images.
package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	scheme = "data:"
	marker = ";base64,"
)

var ErrInvalidDataURL = errors.New("invalid base64 data url")

func split(file string) (contentType, payload string, ok bool) {
	rest, found := strings.CutPrefix(file, scheme)
	if !found {
		return "", "", false
	}

	contentType, payload, found = strings.Cut(rest, marker)
	if !found || contentType == "" {
		return "", "", false
	}

	return contentType, payload, true
}

// GetContentType returns the media type of a data URL, or "" when file is not one.
func GetContentType(file string) string {
	contentType, _, _ := split(file)

	return contentType
}

// Size is the decoded length of a data URL payload, without decoding it.
func Size(file string) int {
	_, payload, ok := split(file)
	if !ok {
		return len(file)
	}

	return stdBase64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload[max(len(payload)-2, 0):], "=")
}

// Decode splits a data URL such as "data:image/png;base64,..." into its content type and bytes.
func Decode(file string) (string, []byte, error) {
	contentType, payload, ok := split(file)
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	data, err := stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return contentType, data, nil
}
