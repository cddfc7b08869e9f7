package views

import (
	"context"
	"errors"
	"strings"

	"github.com/nazmulcodes/deshcart-backend/pkg/db/models"
	"github.com/nazmulcodes/deshcart-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates dashboard view persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a views repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a preset and returns the stored record.
func (r *Repository) Create(ctx context.Context, record models.DashboardView) (models.DashboardView, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return models.DashboardView{}, err
	}
	return record, nil
}

// GetByID loads one preset.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (models.DashboardView, error) {
	var record models.DashboardView
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	return record, err
}

// Delete removes a preset. It reports gorm.ErrRecordNotFound for unknown ids.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DashboardView{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns presets newest first using cursor pagination.
func (r *Repository) List(ctx context.Context, cursor string, limit int) (ViewsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)

	decodedCursor, err := pagination.Decode(strings.TrimSpace(cursor))
	if err != nil {
		return ViewsPageDTO{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.DashboardView{})
	if decodedCursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var records []models.DashboardView
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error
	if err != nil {
		return ViewsPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}.Encode()
	}

	items := make([]ViewDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, toDTO(record))
	}

	return ViewsPageDTO{Items: items, NextCursor: nextCursor}, nil
}

// IsNotFound reports whether the error is the gorm missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
