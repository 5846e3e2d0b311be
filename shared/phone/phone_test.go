package phone_test

import (
	"jumuia/shared/phone"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "local safaricom prefix", input: "0712345678", expected: "254712345678"},
		{name: "local 01 prefix", input: "0110345678", expected: "254110345678"},
		{name: "international with plus", input: "+254712345678", expected: "254712345678"},
		{name: "international without plus", input: "254712345678", expected: "254712345678"},
		{name: "spaces and dashes are ignored", input: "0712 345-678", expected: "254712345678"},
		{name: "foreign number rejected", input: "+15551234567", wantErr: true},
		{name: "bare subscriber rejected", input: "712345678", wantErr: true},
		{name: "too short rejected", input: "07123", wantErr: true},
		{name: "letters rejected", input: "07123456ab", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := phone.Normalize(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, phone.ErrInvalidPhone)
				assert.Empty(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, phone.Valid(tt.input))
		})
	}
}

func TestSearchPrefix(t *testing.T) {
	tests := []struct {
		term   string
		want   string
		wantOK bool
	}{
		{term: "0712", want: "254712", wantOK: true},
		{term: "+254 71", want: "25471", wantOK: true},
		{term: "2547123", want: "2547123", wantOK: true},
		{term: "0712-345-678", want: "254712345678", wantOK: true},
		{term: "0", want: "0"},
		{term: "doe", want: "doe"},
		{term: "WEB-345", want: "WEB-345"},
		{term: "07123456789", want: "07123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, ok := phone.SearchPrefix(tt.term)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrRaw(t *testing.T) {
	assert.Equal(t, "254712345678", phone.OrRaw("+254 712 345 678"))
	assert.Equal(t, "n/a", phone.OrRaw(" n/a "))
}
