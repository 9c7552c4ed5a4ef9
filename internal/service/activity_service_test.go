package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/learnvault/learnvault-api/internal/dto"
	"github.com/learnvault/learnvault-api/internal/models"
	"github.com/learnvault/learnvault-api/internal/repository"
)

type memoryActivityRepo struct {
	entries    []models.Activity
	lastFilter repository.ActivityFilter
	listCalls  int
	createErr  error
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.Activity) error {
	if m.createErr != nil {
		return m.createErr
	}
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]models.Activity, int64, error) {
	m.lastFilter = filter
	m.listCalls++
	return append([]models.Activity(nil), m.entries...), int64(len(m.entries)), nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func TestActivityServiceRecordPersistsEntry(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	resourceID := uuid.NewString()
	entry, err := svc.Record(context.Background(), ActivityInput{
		ActorID:    uuid.NewString(),
		ResourceID: &resourceID,
		ActionType: "CREATE",
		Details:    map[string]interface{}{"title": "Intro to Go"},
		IPAddress:  "203.0.113.9",
		UserAgent:  "integration-test",
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, "CREATE", entry.ActionType)
	require.Equal(t, "Intro to Go", entry.Details["title"])
	require.Len(t, repo.entries, 1)
}

func TestActivityServiceRecordCollectsEveryViolation(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	_, err := svc.Record(context.Background(), ActivityInput{
		ActionType: "SHRED",
		IPAddress:  "not-an-ip",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Fields, 3)
	require.Contains(t, err.Error(), "actor_id is required")
	require.Contains(t, err.Error(), "action_type must be one of")
	require.Contains(t, err.Error(), "ip_address must be a valid IP address")
	require.Empty(t, repo.entries, "no write may happen for rejected input")
}

func TestActivityServiceRecordRejectsMalformedIdentifiers(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	badResource := "not-a-uuid"
	_, err := svc.Record(context.Background(), ActivityInput{
		ActorID:    "also-not-a-uuid",
		ResourceID: &badResource,
		ActionType: "VIEW",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, err.Error(), "actor_id must be a valid UUID")
	require.Contains(t, err.Error(), "resource_id must be a valid UUID")
}

func TestActivityServiceRecordPropagatesStoreError(t *testing.T) {
	repo := &memoryActivityRepo{createErr: errors.New("connection reset")}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	_, err := svc.Record(context.Background(), ActivityInput{
		ActorID:    uuid.NewString(),
		ActionType: "CREATE",
	})
	require.Error(t, err)
	require.False(t, IsValidationError(err))
}

func TestActivityServiceListRejectsOutOfRangeWindows(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	cases := []dto.ActivityListRequest{
		{Page: 0, PageSize: 10},
		{Page: 1, PageSize: 0},
		{Page: 1, PageSize: 101},
	}
	for _, req := range cases {
		_, err := svc.List(context.Background(), req)
		require.True(t, IsValidationError(err), "expected validation error for %+v", req)
	}
	require.Zero(t, repo.listCalls, "rejected queries must not reach the store")
}

func TestActivityServiceListRejectsInvertedDateRange(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	end := time.Now().Add(-24 * time.Hour)
	start := time.Now()
	_, err := svc.List(context.Background(), dto.ActivityListRequest{
		Page:      1,
		PageSize:  10,
		StartDate: &start,
		EndDate:   &end,
	})
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "start_date must not be after end_date")
}

func TestActivityServiceListComposesFilter(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	actorID := uuid.NewString()
	resourceID := uuid.NewString()
	start := time.Now().Add(-time.Hour)
	end := time.Now()

	_, err := svc.List(context.Background(), dto.ActivityListRequest{
		ActorID:    actorID,
		ResourceID: resourceID,
		ActionType: "UPDATE",
		StartDate:  &start,
		EndDate:    &end,
		Page:       2,
		PageSize:   25,
	})
	require.NoError(t, err)
	require.Equal(t, actorID, repo.lastFilter.ActorID)
	require.Equal(t, resourceID, repo.lastFilter.ResourceID)
	require.Equal(t, "UPDATE", repo.lastFilter.ActionType)
	require.Equal(t, 2, repo.lastFilter.Page)
	require.Equal(t, 25, repo.lastFilter.PageSize)
	require.NotNil(t, repo.lastFilter.Start)
	require.NotNil(t, repo.lastFilter.End)
}

func TestActivityServiceListPaginationMeta(t *testing.T) {
	repo := &memoryActivityRepo{}
	for i := 0; i < 25; i++ {
		repo.entries = append(repo.entries, models.Activity{ID: uuid.NewString(), ActorID: uuid.NewString(), ActionType: models.ActionView})
	}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	response, err := svc.List(context.Background(), dto.ActivityListRequest{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(25), response.Pagination.Total)
	require.Equal(t, 2, response.Pagination.Page)
	require.Equal(t, 10, response.Pagination.PageSize)
	require.Equal(t, 3, response.Pagination.TotalPages)
}

func TestActivityServiceListByActorRequiresIdentifier(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	_, err := svc.ListByActor(context.Background(), "", 1, 10)
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "user_id is required")

	_, err = svc.ListByActor(context.Background(), "garbage", 1, 10)
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "user_id must be a valid UUID")
}

func TestActivityServiceListByResourceRequiresIdentifier(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, time.Minute, newTestValidator(), testLogger())

	_, err := svc.ListByResource(context.Background(), " ", 1, 10)
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "resource_id is required")
}

func TestActivityServiceListServesCachedResponse(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := &memoryActivityRepo{
		entries: []models.Activity{{ID: uuid.NewString(), ActorID: uuid.NewString(), ActionType: models.ActionCreate}},
	}
	svc := NewActivityService(repo, client, time.Minute, newTestValidator(), testLogger())

	req := dto.ActivityListRequest{Page: 1, PageSize: 10}

	first, err := svc.List(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Activities, 1)
	require.Equal(t, 1, repo.listCalls)

	second, err := svc.List(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, second.Activities, 1)
	require.Equal(t, 1, repo.listCalls, "second query must be served from cache")
}
