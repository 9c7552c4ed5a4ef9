package handler_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/learnvault/learnvault-api/internal/dto"
	"github.com/learnvault/learnvault-api/internal/models"
)

type activityListEnvelope struct {
	Status  int                      `json:"status"`
	Message string                   `json:"message"`
	Data    dto.ActivityListResponse `json:"data"`
}

func seedTrail(t *testing.T, env testEnv) (models.User, string) {
	t.Helper()

	viewer := models.User{
		ID:    uuid.NewString(),
		Name:  "Jamie Park",
		Email: "jamie@example.com",
		Role:  models.RoleViewer,
	}
	require.NoError(t, env.db.Create(&viewer).Error)

	resource := models.Resource{
		ID:      uuid.NewString(),
		Title:   "Audited resource",
		Type:    models.ResourceTypeArticle,
		Status:  models.ResourceStatusPublished,
		OwnerID: env.manager.ID,
	}
	require.NoError(t, env.db.Create(&resource).Error)

	now := time.Now()
	entries := []models.Activity{
		{ID: uuid.NewString(), ActorID: env.manager.ID, ResourceID: &resource.ID, ActionType: models.ActionCreate, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: uuid.NewString(), ActorID: env.manager.ID, ResourceID: &resource.ID, ActionType: models.ActionUpdate, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: uuid.NewString(), ActorID: viewer.ID, ResourceID: &resource.ID, ActionType: models.ActionView, CreatedAt: now.Add(-time.Hour)},
	}
	for i := range entries {
		require.NoError(t, env.db.Create(&entries[i]).Error)
	}

	return viewer, resource.ID
}

func TestActivityListFiltersAndPaginates(t *testing.T) {
	env := newTestEnv(t)
	seedTrail(t, env)

	resp := performJSON(t, env.app, http.MethodGet, "/api/v1/activities", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all activityListEnvelope
	decodeResponse(t, resp, &all)
	require.Equal(t, 1, all.Status)
	require.Equal(t, int64(3), all.Data.Pagination.Total)
	require.Equal(t, 1, all.Data.Pagination.Page)
	require.Equal(t, 10, all.Data.Pagination.PageSize)

	for i := 1; i < len(all.Data.Activities); i++ {
		require.False(t, all.Data.Activities[i-1].CreatedAt.Before(all.Data.Activities[i].CreatedAt))
	}

	resp = performJSON(t, env.app, http.MethodGet,
		fmt.Sprintf("/api/v1/activities?user_id=%s&action_type=UPDATE", env.manager.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var filtered activityListEnvelope
	decodeResponse(t, resp, &filtered)
	require.Equal(t, int64(1), filtered.Data.Pagination.Total)
	require.Equal(t, "UPDATE", filtered.Data.Activities[0].ActionType)

	resp = performJSON(t, env.app, http.MethodGet, "/api/v1/activities?page=2&page_size=2", nil)
	var paged activityListEnvelope
	decodeResponse(t, resp, &paged)
	require.Equal(t, int64(3), paged.Data.Pagination.Total)
	require.Equal(t, 2, paged.Data.Pagination.TotalPages)
	require.Len(t, paged.Data.Activities, 1)
}

func TestActivityListEnrichesActorAndResource(t *testing.T) {
	env := newTestEnv(t)
	_, resourceID := seedTrail(t, env)

	resp := performJSON(t, env.app, http.MethodGet, "/api/v1/activities?resource_id="+resourceID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body activityListEnvelope
	decodeResponse(t, resp, &body)
	require.Equal(t, int64(3), body.Data.Pagination.Total)
	for _, activity := range body.Data.Activities {
		require.NotNil(t, activity.Actor)
		require.NotEmpty(t, activity.Actor.Name)
		require.NotNil(t, activity.Resource)
		require.Equal(t, "Audited resource", activity.Resource.Title)
	}
}

func TestActivityListRejectsOutOfRangeParameters(t *testing.T) {
	env := newTestEnv(t)

	cases := []string{
		"/api/v1/activities?page=0",
		"/api/v1/activities?page_size=0",
		"/api/v1/activities?page_size=101",
		"/api/v1/activities?start_date=2025-06-02&end_date=2025-06-01",
	}
	for _, path := range cases {
		resp := performJSON(t, env.app, http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected rejection for %s", path)

		var body struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		}
		decodeResponse(t, resp, &body)
		require.Equal(t, 0, body.Status)
	}
}

func TestActivityListByActorAndResource(t *testing.T) {
	env := newTestEnv(t)
	viewer, resourceID := seedTrail(t, env)

	resp := performJSON(t, env.app, http.MethodGet, "/api/v1/activities/user/"+viewer.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var byActor activityListEnvelope
	decodeResponse(t, resp, &byActor)
	require.Equal(t, int64(1), byActor.Data.Pagination.Total)
	require.Equal(t, viewer.ID, byActor.Data.Activities[0].ActorID)

	resp = performJSON(t, env.app, http.MethodGet, "/api/v1/activities/resource/"+resourceID, nil)
	var byResource activityListEnvelope
	decodeResponse(t, resp, &byResource)
	require.Equal(t, int64(3), byResource.Data.Pagination.Total)

	// Unknown but well-formed identifiers yield empty pages, not errors.
	resp = performJSON(t, env.app, http.MethodGet, "/api/v1/activities/user/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var empty activityListEnvelope
	decodeResponse(t, resp, &empty)
	require.Equal(t, int64(0), empty.Data.Pagination.Total)
	require.Empty(t, empty.Data.Activities)

	// Malformed identifiers are a validation failure.
	resp = performJSON(t, env.app, http.MethodGet, "/api/v1/activities/user/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = performJSON(t, env.app, http.MethodGet, "/api/v1/activities/resource/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
