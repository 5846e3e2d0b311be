package model_test

import (
	"jumuia/internal/domains/property/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapacity(t *testing.T) {
	assert.Equal(t, 30, model.Capacity(model.Limuru))
	assert.Equal(t, 90, model.Capacity(model.All))
	assert.Equal(t, 90, model.Capacity(""))
}

func TestCatalogue(t *testing.T) {
	assert.Equal(t, []string{"limuru", "kanamai", "kisumu"}, model.Codes())
	assert.True(t, model.Valid(model.Kisumu))
	assert.False(t, model.Valid("nairobi"))
	assert.Equal(t, "#0277BD", model.BorderColor(model.Kanamai))
	assert.Equal(t, "#6c757d", model.BorderColor("nairobi"))
	assert.Equal(t, "nairobi", model.Name("nairobi"))
}
