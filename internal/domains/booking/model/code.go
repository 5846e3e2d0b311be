package model

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

const (
	CodePrefixWeb   = "WEB"
	CodePrefixAdmin = "ADM"
)

var CodePattern = regexp.MustCompile(`^(WEB|ADM)-\d{9}$`)

// NewBookingCode builds the human booking reference, e.g. ADM-123456789: the last six
// digits of the unix millisecond clock followed by three random digits.
func NewBookingCode(source string, now time.Time) string {
	prefix := CodePrefixWeb
	if source == SourceAdmin {
		prefix = CodePrefixAdmin
	}

	return fmt.Sprintf("%s-%06d%03d", prefix, now.UnixMilli()%1_000_000, rand.IntN(1000)) //nolint:gosec
}
