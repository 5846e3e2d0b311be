package model_test

import (
	"jumuia/internal/domains/user/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{name: "simple", first: "Jane", last: "Doe", want: "jane.doe@jumuiaresorts.com"},
		{name: "surrounding whitespace", first: "  Jane ", last: " Doe", want: "jane.doe@jumuiaresorts.com"},
		{name: "compound name", first: "Mary Anne", last: "Wanjiku", want: "maryanne.wanjiku@jumuiaresorts.com"},
		{name: "empty first", first: "", last: "Doe", want: ""},
		{name: "blank last", first: "Jane", last: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Email(tt.first, tt.last, "JumuiaResorts.com"))
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, model.ValidRole("general-manager"))
	assert.True(t, model.ValidRole("staff"))
	assert.False(t, model.ValidRole("owner"))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", model.User{FirstName: "Jane", LastName: "Doe"}.FullName())
}
