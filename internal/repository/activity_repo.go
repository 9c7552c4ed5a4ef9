package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/learnvault/learnvault-api/internal/models"
)

// ActivityFilter narrows activity queries. Zero-valued fields are ignored;
// supplied predicates combine with AND. Start and End bound created_at
// inclusively and may be supplied independently.
type ActivityFilter struct {
	ActorID    string
	ResourceID string
	ActionType string
	Start      *time.Time
	End        *time.Time
	Page       int
	PageSize   int
}

// ActivityRepository persists the append-only audit trail.
type ActivityRepository interface {
	Create(ctx context.Context, entry *models.Activity) error
	List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository constructs the activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *models.Activity) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})

	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}

	if filter.ResourceID != "" {
		query = query.Where("resource_id = ?", filter.ResourceID)
	}

	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}

	if filter.Start != nil {
		query = query.Where("created_at >= ?", *filter.Start)
	}

	if filter.End != nil {
		query = query.Where("created_at <= ?", *filter.End)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []models.Activity
	if err := query.Preload("Actor").Preload("Resource").Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
