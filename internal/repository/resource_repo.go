package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/learnvault/learnvault-api/internal/models"
)

// ResourceFilter narrows resource browsing queries.
type ResourceFilter struct {
	Search   string
	Type     string
	Status   string
	Tags     []string
	Page     int
	PageSize int
}

// ResourceRepository persists learning resources.
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id string) (models.Resource, error)
	Save(ctx context.Context, resource *models.Resource) error
	List(ctx context.Context, filter ResourceFilter) ([]models.Resource, int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository constructs the resource repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).First(&resource, "id = ?", id).Error; err != nil {
		return models.Resource{}, err
	}
	return resource, nil
}

func (r *resourceRepository) Save(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *resourceRepository) List(ctx context.Context, filter ResourceFilter) ([]models.Resource, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Resource{})

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	for _, tag := range filter.Tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		query = query.Where("tags LIKE ?", "%|"+normalized+"|%")
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

	var resources []models.Resource
	if err := query.Order("created_at DESC").Find(&resources).Error; err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}
