package views

import (
	"context"

	"github.com/nazmulcodes/deshcart-backend/pkg/db/models"
	pkgerrors "github.com/nazmulcodes/deshcart-backend/pkg/errors"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
	"github.com/google/uuid"
)

// Service applies dashboard view business rules over the repository.
type Service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Create saves a preset. Defaults mirror the dashboard: six months of data
// at two frames per second.
func (s *Service) Create(ctx context.Context, input CreateViewInput) (ViewDTO, error) {
	if input.TimeframeMonths <= 0 {
		input.TimeframeMonths = 6
	}
	if input.PlaybackSpeedMS <= 0 {
		input.PlaybackSpeedMS = 500
	}

	record, err := s.repo.Create(ctx, models.DashboardView{
		Name:            input.Name,
		Division:        input.Division,
		TimeframeMonths: input.TimeframeMonths,
		PlaybackSpeedMS: input.PlaybackSpeedMS,
		CreatedByEmail:  input.CreatedByEmail,
	})
	if err != nil {
		return ViewDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create dashboard view")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "view_id", record.ID.String()), "dashboard view saved")
	}
	return toDTO(record), nil
}

// List returns one page of presets.
func (s *Service) List(ctx context.Context, cursor string, limit int) (ViewsPageDTO, error) {
	page, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return ViewsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list dashboard views")
	}
	return page, nil
}

// Delete removes a preset.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "view id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "dashboard view not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete dashboard view")
	}
	return nil
}
