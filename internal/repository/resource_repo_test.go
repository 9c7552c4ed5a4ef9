package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/learnvault/learnvault-api/internal/models"
)

func TestResourceRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResourceRepository(db)
	owner := seedUser(t, db, models.RoleContentManager)

	article := models.Resource{
		ID:      uuid.NewString(),
		Title:   "Goroutines explained",
		Type:    models.ResourceTypeArticle,
		Status:  models.ResourceStatusPublished,
		Tags:    []string{"go", "concurrency"},
		OwnerID: owner.ID,
	}
	video := models.Resource{
		ID:      uuid.NewString(),
		Title:   "Intro to SQL",
		Type:    models.ResourceTypeVideo,
		Status:  models.ResourceStatusDraft,
		Tags:    []string{"sql"},
		OwnerID: owner.ID,
	}
	require.NoError(t, db.Create(&article).Error)
	require.NoError(t, db.Create(&video).Error)

	resources, total, err := repo.List(context.Background(), ResourceFilter{Search: "goroutines", PageSize: 10, Page: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, article.ID, resources[0].ID)

	_, total, err = repo.List(context.Background(), ResourceFilter{Type: string(models.ResourceTypeVideo), PageSize: 10, Page: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	_, total, err = repo.List(context.Background(), ResourceFilter{Status: string(models.ResourceStatusPublished), PageSize: 10, Page: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	resources, total, err = repo.List(context.Background(), ResourceFilter{Tags: []string{"concurrency"}, PageSize: 10, Page: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, []string{"go", "concurrency"}, resources[0].Tags)
}

func TestResourceRepositorySaveRoundTripsTags(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResourceRepository(db)
	owner := seedUser(t, db, models.RoleContentManager)

	resource := models.Resource{
		ID:      uuid.NewString(),
		Title:   "Tagged",
		Type:    models.ResourceTypeTutorial,
		Status:  models.ResourceStatusDraft,
		Tags:    []string{"testing"},
		OwnerID: owner.ID,
	}
	require.NoError(t, repo.Create(context.Background(), &resource))

	loaded, err := repo.GetByID(context.Background(), resource.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"testing"}, loaded.Tags)

	loaded.Status = models.ResourceStatusArchived
	require.NoError(t, repo.Save(context.Background(), &loaded))

	reloaded, err := repo.GetByID(context.Background(), resource.ID)
	require.NoError(t, err)
	require.Equal(t, models.ResourceStatusArchived, reloaded.Status)
	require.Equal(t, []string{"testing"}, reloaded.Tags)
}
