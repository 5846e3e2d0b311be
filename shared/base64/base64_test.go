package base64_test

import (
	stdBase64 "encoding/base64"
	"jumuia/shared/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestGetContentType(t *testing.T) {
	tests := []struct{ input, want string }{
		{pixel, "image/png"},
		{"data:image/webp;base64,UklGRg==", "image/webp"},
		{"data:image/svg+xml;charset=utf-8;base64,PHN2Zz4=", "image/svg+xml;charset=utf-8"},
		{"image/png;base64,iVBORw0KGgo=", ""},
		{"data:image/png,iVBORw0KGgo=", ""},
		{"data:;base64,", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, base64.GetContentType(tt.input), tt.input)
	}
}

func TestSize(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 1024, 1<<20 + 1} {
		raw := strings.Repeat("x", n)
		url := "data:image/jpeg;base64," + stdBase64.StdEncoding.EncodeToString([]byte(raw))

		assert.Equal(t, n, base64.Size(url), n)
	}

	assert.Equal(t, len("not a data url"), base64.Size("not a data url"))
}

func TestDecode(t *testing.T) {
	contentType, data, err := base64.Decode("data:text/plain;base64,SGFiYXJpIHlhIGFzdWJ1aGk=")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, "Habari ya asubuhi", string(data))

	for _, input := range []string{"", "image/png;base64,abc", "data:image/png,abc", "data:image/png;base64,***"} {
		_, _, err := base64.Decode(input)
		assert.ErrorIs(t, err, base64.ErrInvalidDataURL, input)
	}
}
