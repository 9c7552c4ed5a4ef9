package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/learnvault/learnvault-api/internal/dto"
	"github.com/learnvault/learnvault-api/internal/models"
	"github.com/learnvault/learnvault-api/internal/observability"
	"github.com/learnvault/learnvault-api/internal/repository"
)

// Page window bounds for activity queries. Out-of-range values are rejected,
// never silently clamped.
const (
	minPageSize = 1
	maxPageSize = 100
)

// ActivityInput captures the details required to append an audit record.
type ActivityInput struct {
	ActorID    string                 `validate:"required,uuid"`
	ResourceID *string                `validate:"omitempty,uuid"`
	ActionType string                 `validate:"required,oneof=CREATE UPDATE DELETE VIEW"`
	Details    map[string]interface{} `validate:"-"`
	IPAddress  string                 `validate:"omitempty,ip"`
	UserAgent  string                 `validate:"omitempty,max=2000"`
}

// ActivityRecorder defines behaviour for appending audit records.
type ActivityRecorder interface {
	Record(ctx context.Context, input ActivityInput) (dto.ActivityResponse, error)
}

// ActivityService exposes the append-only audit trail: one write shape and
// three read shapes sharing a single filtering/pagination core.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	ListByActor(ctx context.Context, actorID string, page, pageSize int) (dto.ActivityListResponse, error)
	ListByResource(ctx context.Context, resourceID string, page, pageSize int) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo      repository.ActivityRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewActivityService constructs the activity service. A nil cache client
// disables read-through caching of list queries.
func NewActivityService(repo repository.ActivityRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	if cacheTTL <= 0 {
		cacheTTL = 45 * time.Second
	}
	return &activityService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

// Record validates and appends one immutable activity record. Every violated
// field is collected before rejecting, so the caller sees all problems at
// once. Exactly one durable write is attempted; retries are the caller's
// concern.
func (s *activityService) Record(ctx context.Context, input ActivityInput) (dto.ActivityResponse, error) {
	if err := asValidationError(s.validator.Struct(input)); err != nil {
		return dto.ActivityResponse{}, err
	}

	entry := models.Activity{
		ID:         uuid.NewString(),
		ActorID:    input.ActorID,
		ResourceID: input.ResourceID,
		ActionType: models.ActionType(input.ActionType),
		Details:    detailsToJSONMap(input.Details),
		IPAddress:  strings.TrimSpace(input.IPAddress),
		UserAgent:  input.UserAgent,
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Str("action", input.ActionType).Msg("failed to persist activity record")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(entry), nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	cacheKey := s.cacheKey(filter)
	if cacheKey != "" {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.ActivityListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				observability.ActivityListRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	response, err := s.listWithFilter(ctx, filter)
	if err != nil {
		observability.ActivityListRequests().WithLabelValues("error").Inc()
		return dto.ActivityListResponse{}, err
	}

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write activity list cache")
			}
		}
	}

	observability.ActivityListRequests().WithLabelValues("miss").Inc()

	return response, nil
}

func (s *activityService) ListByActor(ctx context.Context, actorID string, page, pageSize int) (dto.ActivityListResponse, error) {
	violations := validatePageWindow(page, pageSize)
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		violations = append(violations, "user_id is required")
	} else if _, err := uuid.Parse(actorID); err != nil {
		violations = append(violations, "user_id must be a valid UUID")
	}
	if len(violations) > 0 {
		return dto.ActivityListResponse{}, newValidationError(violations)
	}

	return s.listWithFilter(ctx, repository.ActivityFilter{
		ActorID:  actorID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *activityService) ListByResource(ctx context.Context, resourceID string, page, pageSize int) (dto.ActivityListResponse, error) {
	violations := validatePageWindow(page, pageSize)
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		violations = append(violations, "resource_id is required")
	} else if _, err := uuid.Parse(resourceID); err != nil {
		violations = append(violations, "resource_id must be a valid UUID")
	}
	if len(violations) > 0 {
		return dto.ActivityListResponse{}, newValidationError(violations)
	}

	return s.listWithFilter(ctx, repository.ActivityFilter{
		ResourceID: resourceID,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (s *activityService) listWithFilter(ctx context.Context, filter repository.ActivityFilter) (dto.ActivityListResponse, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	activities := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		activities = append(activities, dto.NewActivityResponse(entry))
	}

	return dto.ActivityListResponse{
		Activities: activities,
		Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *activityService) buildFilter(req dto.ActivityListRequest) (repository.ActivityFilter, error) {
	violations := validatePageWindow(req.Page, req.PageSize)

	actorID := strings.TrimSpace(req.ActorID)
	if actorID != "" {
		if _, err := uuid.Parse(actorID); err != nil {
			violations = append(violations, "user_id must be a valid UUID")
		}
	}

	resourceID := strings.TrimSpace(req.ResourceID)
	if resourceID != "" {
		if _, err := uuid.Parse(resourceID); err != nil {
			violations = append(violations, "resource_id must be a valid UUID")
		}
	}

	actionType := strings.TrimSpace(req.ActionType)
	if actionType != "" && !models.ValidActionType(actionType) {
		violations = append(violations, "action_type must be one of [CREATE UPDATE DELETE VIEW]")
	}

	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		violations = append(violations, "start_date must not be after end_date")
	}

	if len(violations) > 0 {
		return repository.ActivityFilter{}, newValidationError(violations)
	}

	return repository.ActivityFilter{
		ActorID:    actorID,
		ResourceID: resourceID,
		ActionType: actionType,
		Start:      req.StartDate,
		End:        req.EndDate,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}, nil
}

func (s *activityService) cacheKey(filter repository.ActivityFilter) string {
	if s.cache == nil {
		return ""
	}
	start, end := int64(0), int64(0)
	if filter.Start != nil {
		start = filter.Start.Unix()
	}
	if filter.End != nil {
		end = filter.End.Unix()
	}
	return fmt.Sprintf("activities:list:v1:%s:%s:%s:%d:%d:%d:%d",
		filter.ActorID, filter.ResourceID, filter.ActionType, start, end, filter.Page, filter.PageSize)
}

func validatePageWindow(page, pageSize int) []string {
	var violations []string
	if page < 1 {
		violations = append(violations, "page must be at least 1")
	}
	if pageSize < minPageSize || pageSize > maxPageSize {
		violations = append(violations, fmt.Sprintf("page_size must be between %d and %d", minPageSize, maxPageSize))
	}
	return violations
}

func detailsToJSONMap(details map[string]interface{}) datatypes.JSONMap {
	if details == nil {
		return datatypes.JSONMap{}
	}
	payload := datatypes.JSONMap{}
	for key, value := range details {
		payload[key] = value
	}
	return payload
}
