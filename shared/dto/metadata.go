package dto

import (
	"jumuia/shared/constant"
	"jumuia/shared/model"
	"jumuia/shared/timezone"
	"time"
)

// Metadata renders audit columns in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = formatTime(model.CreatedAt)
	m.ModifiedAt = formatTime(model.ModifiedAt)
	m.CreatedBy = model.CreatedBy
	m.ModifiedBy = model.ModifiedBy
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return timezone.Format(t, constant.DateFormat)
}
