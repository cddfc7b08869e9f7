package views

import (
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ViewDTO is the API shape of a saved dashboard preset.
type ViewDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Division        string    `json:"division,omitempty"`
	TimeframeMonths int       `json:"timeframeMonths"`
	PlaybackSpeedMS int       `json:"playbackSpeedMs"`
	CreatedByEmail  string    `json:"createdByEmail"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ViewsPageDTO is one page of presets plus the cursor for the next page.
type ViewsPageDTO struct {
	Items      []ViewDTO `json:"items"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// CreateViewInput is the validated payload for saving a preset.
type CreateViewInput struct {
	Name            string `json:"name" validate:"required,min=1,max=120"`
	Division        string `json:"division" validate:"max=60"`
	TimeframeMonths int    `json:"timeframe_months" validate:"required,gte=1,lte=24"`
	PlaybackSpeedMS int    `json:"playback_speed_ms" validate:"gte=0,lte=10000"`
	CreatedByEmail  string `json:"created_by_email" validate:"required,email"`
}

func toDTO(record models.DashboardView) ViewDTO {
	return ViewDTO{
		ID:              record.ID,
		Name:            record.Name,
		Division:        record.Division,
		TimeframeMonths: record.TimeframeMonths,
		PlaybackSpeedMS: record.PlaybackSpeedMS,
		CreatedByEmail:  record.CreatedByEmail,
		CreatedAt:       record.CreatedAt,
	}
}
