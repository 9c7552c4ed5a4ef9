package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/learnvault/learnvault-api/internal/dto"
	"github.com/learnvault/learnvault-api/internal/models"
	"github.com/learnvault/learnvault-api/internal/observability"
	"github.com/learnvault/learnvault-api/internal/repository"
)

// RequestActor carries the authenticated actor identity and the network
// metadata of the invoking request.
type RequestActor struct {
	ID        string
	Role      string
	IPAddress string
	UserAgent string
}

// ResourceService exposes learning resource operations. Every successful
// mutation appends one best-effort activity record; an append failure is
// logged and swallowed, never surfaced to the caller and never undoing the
// primary write.
type ResourceService interface {
	Create(ctx context.Context, actor RequestActor, payload dto.ResourceCreateRequest) (dto.ResourceResponse, error)
	Get(ctx context.Context, actor RequestActor, id string) (dto.ResourceResponse, error)
	List(ctx context.Context, req dto.ResourceListRequest) (dto.ResourceListResponse, error)
	Update(ctx context.Context, actor RequestActor, id string, payload dto.ResourceUpdateRequest) (dto.ResourceResponse, error)
	Archive(ctx context.Context, actor RequestActor, id string) (dto.ResourceResponse, bool, error)
}

type resourceService struct {
	repo      repository.ResourceRepository
	activity  ActivityRecorder
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewResourceService constructs the resource service.
func NewResourceService(repo repository.ResourceRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) ResourceService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &resourceService{
		repo:      repo,
		activity:  activity,
		validator: validate,
		policy:    policy,
		logger:    logger.With().Str("component", "resource_service").Logger(),
	}
}

func (s *resourceService) Create(ctx context.Context, actor RequestActor, payload dto.ResourceCreateRequest) (dto.ResourceResponse, error) {
	if err := asValidationError(s.validator.Struct(payload)); err != nil {
		return dto.ResourceResponse{}, err
	}

	status := models.ResourceStatus(strings.TrimSpace(payload.Status))
	if status == "" {
		status = models.ResourceStatusDraft
	}

	resource := models.Resource{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(payload.Title),
		Description: s.policy.Sanitize(strings.TrimSpace(payload.Description)),
		Type:        models.ResourceType(payload.Type),
		URL:         strings.TrimSpace(payload.URL),
		Tags:        sanitizeTags(payload.Tags),
		Status:      status,
		OwnerID:     actor.ID,
	}

	if err := s.repo.Create(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	s.recordActivity(ctx, actor, models.ActionCreate, &resource.ID, map[string]interface{}{
		"title":  resource.Title,
		"type":   string(resource.Type),
		"status": string(resource.Status),
	})

	return dto.NewResourceResponse(resource), nil
}

func (s *resourceService) Get(ctx context.Context, actor RequestActor, id string) (dto.ResourceResponse, error) {
	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrResourceNotFound
		}
		return dto.ResourceResponse{}, err
	}

	s.recordActivity(ctx, actor, models.ActionView, &resource.ID, nil)

	return dto.NewResourceResponse(resource), nil
}

func (s *resourceService) List(ctx context.Context, req dto.ResourceListRequest) (dto.ResourceListResponse, error) {
	filter := repository.ResourceFilter{
		Search:   strings.TrimSpace(req.Search),
		Type:     strings.TrimSpace(req.Type),
		Status:   strings.TrimSpace(req.Status),
		Tags:     sanitizeTags(req.Tags),
		Page:     normalizePage(req.Page),
		PageSize: clampBrowsePageSize(req.PageSize),
	}

	resources, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ResourceListResponse{}, err
	}

	items := make([]dto.ResourceResponse, 0, len(resources))
	for _, resource := range resources {
		items = append(items, dto.NewResourceResponse(resource))
	}

	return dto.ResourceListResponse{
		Resources:  items,
		Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

// Update applies the supplied fields only, diffing each against the stored
// value. Fields resubmitted with an identical value are excluded from the
// diff; when nothing actually changed no write and no activity record occur.
func (s *resourceService) Update(ctx context.Context, actor RequestActor, id string, payload dto.ResourceUpdateRequest) (dto.ResourceResponse, error) {
	if err := asValidationError(s.validator.Struct(payload)); err != nil {
		return dto.ResourceResponse{}, err
	}

	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, ErrResourceNotFound
		}
		return dto.ResourceResponse{}, err
	}

	changed := map[string]interface{}{}

	if payload.Title != nil {
		title := strings.TrimSpace(*payload.Title)
		if title != resource.Title {
			changed["title"] = fieldChange(resource.Title, title)
			resource.Title = title
		}
	}
	if payload.Description != nil {
		description := s.policy.Sanitize(strings.TrimSpace(*payload.Description))
		if description != resource.Description {
			changed["description"] = fieldChange(resource.Description, description)
			resource.Description = description
		}
	}
	if payload.Type != nil {
		next := models.ResourceType(*payload.Type)
		if next != resource.Type {
			changed["type"] = fieldChange(string(resource.Type), string(next))
			resource.Type = next
		}
	}
	if payload.URL != nil {
		url := strings.TrimSpace(*payload.URL)
		if url != resource.URL {
			changed["url"] = fieldChange(resource.URL, url)
			resource.URL = url
		}
	}
	if payload.Tags != nil {
		tags := sanitizeTags(payload.Tags)
		if !equalTags(resource.Tags, tags) {
			changed["tags"] = fieldChange(resource.Tags, tags)
			resource.Tags = tags
		}
	}
	if payload.Status != nil {
		next := models.ResourceStatus(*payload.Status)
		if next != resource.Status {
			changed["status"] = fieldChange(string(resource.Status), string(next))
			resource.Status = next
		}
	}

	if len(changed) == 0 {
		return dto.NewResourceResponse(resource), nil
	}

	if err := s.repo.Save(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, err
	}

	s.recordActivity(ctx, actor, models.ActionUpdate, &resource.ID, map[string]interface{}{
		"changed_fields": changed,
	})

	return dto.NewResourceResponse(resource), nil
}

// Archive soft-deletes a resource by marking it Archived. Archiving an
// already-archived resource is a no-op: the second call reports
// alreadyArchived=true and appends no DELETE record, since no state changed.
func (s *resourceService) Archive(ctx context.Context, actor RequestActor, id string) (dto.ResourceResponse, bool, error) {
	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResourceResponse{}, false, ErrResourceNotFound
		}
		return dto.ResourceResponse{}, false, err
	}

	if resource.Status == models.ResourceStatusArchived {
		return dto.NewResourceResponse(resource), true, nil
	}

	prior := resource.Status
	resource.Status = models.ResourceStatusArchived
	if err := s.repo.Save(ctx, &resource); err != nil {
		return dto.ResourceResponse{}, false, err
	}

	s.recordActivity(ctx, actor, models.ActionDelete, &resource.ID, map[string]interface{}{
		"prior_status": string(prior),
		"archived":     true,
	})

	return dto.NewResourceResponse(resource), false, nil
}

// recordActivity appends an audit record after a successful primary
// operation. Failures are counted, logged and swallowed: audit logging must
// never surface as a user-facing error or undo the primary mutation.
func (s *resourceService) recordActivity(ctx context.Context, actor RequestActor, action models.ActionType, resourceID *string, details map[string]interface{}) {
	if s.activity == nil {
		return
	}

	input := ActivityInput{
		ActorID:    actor.ID,
		ResourceID: resourceID,
		ActionType: string(action),
		Details:    details,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	}

	if _, err := s.activity.Record(ctx, input); err != nil {
		observability.AuditAppendFailures().WithLabelValues(string(action)).Inc()
		s.logger.Error().
			Err(err).
			Str("action", string(action)).
			Str("actor_id", actor.ID).
			Msg("failed to append activity record")
	}
}

func fieldChange(from, to interface{}) map[string]interface{} {
	return map[string]interface{}{"from": from, "to": to}
}

func equalTags(current, next []string) bool {
	if len(current) != len(next) {
		return false
	}
	for i := range current {
		if current[i] != next[i] {
			return false
		}
	}
	return true
}

func sanitizeTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		cleaned = append(cleaned, normalized)
	}
	return cleaned
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampBrowsePageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
