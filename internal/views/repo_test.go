package views

import (
	"context"
	"testing"
	"time"

	"github.com/nazmulcodes/deshcart-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupViewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS dashboard_views (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  division TEXT,
  timeframe_months INTEGER NOT NULL DEFAULT 6,
  playback_speed_ms INTEGER NOT NULL DEFAULT 500,
  created_by_email TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func seedView(t *testing.T, repo *Repository, name string, createdAt time.Time) models.DashboardView {
	t.Helper()

	record, err := repo.Create(context.Background(), models.DashboardView{
		ID:              uuid.New(),
		Name:            name,
		Division:        "Dhaka",
		TimeframeMonths: 6,
		PlaybackSpeedMS: 500,
		CreatedByEmail:  "admin@deshcart.com.bd",
		CreatedAt:       createdAt,
	})
	require.NoError(t, err)
	return record
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := NewRepository(setupViewsTestDB(t))

	created := seedView(t, repo, "Dhaka last quarter", time.Now().UTC())

	fetched, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dhaka last quarter", fetched.Name)
	assert.Equal(t, 6, fetched.TimeframeMonths)
}

func TestRepositoryListPaginates(t *testing.T) {
	repo := NewRepository(setupViewsTestDB(t))

	base := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedView(t, repo, "preset", base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.List(context.Background(), "", 3)
	require.NoError(t, err)
	require.Len(t, first.Items, 3)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(context.Background(), first.NextCursor, 3)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Empty(t, second.NextCursor)

	// newest first across both pages
	seen := append(first.Items, second.Items...)
	for i := 1; i < len(seen); i++ {
		assert.False(t, seen[i].CreatedAt.After(seen[i-1].CreatedAt))
	}
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository(setupViewsTestDB(t))

	created := seedView(t, repo, "temp", time.Now().UTC())
	require.NoError(t, repo.Delete(context.Background(), created.ID))

	err := repo.Delete(context.Background(), created.ID)
	assert.True(t, IsNotFound(err))

	err = repo.Delete(context.Background(), uuid.New())
	assert.True(t, IsNotFound(err))
}
