package dto

import (
	"time"

	"github.com/learnvault/learnvault-api/internal/models"
)

// ResourceCreateRequest captures payloads for creating a learning resource.
type ResourceCreateRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"omitempty,max=10000"`
	Type        string   `json:"type" validate:"required,oneof=Article Video Tutorial"`
	URL         string   `json:"url" validate:"omitempty,url,max=2048"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=64"`
	Status      string   `json:"status" validate:"omitempty,oneof=Draft Published Archived"`
}

// ResourceUpdateRequest captures partial update payloads. Nil fields were
// not supplied and are left untouched.
type ResourceUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=10000"`
	Type        *string  `json:"type" validate:"omitempty,oneof=Article Video Tutorial"`
	URL         *string  `json:"url" validate:"omitempty,url,max=2048"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=64"`
	Status      *string  `json:"status" validate:"omitempty,oneof=Draft Published Archived"`
}

// ResourceListRequest defines filters for browsing resources.
type ResourceListRequest struct {
	Search   string
	Type     string
	Status   string
	Tags     []string
	Page     int
	PageSize int
}

// ResourceResponse serializes a learning resource.
type ResourceResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ResourceListResponse wraps paginated resources.
type ResourceListResponse struct {
	Resources  []ResourceResponse `json:"resources"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewResourceResponse converts a model into a resource DTO.
func NewResourceResponse(resource models.Resource) ResourceResponse {
	tags := resource.Tags
	if tags == nil {
		tags = []string{}
	}

	return ResourceResponse{
		ID:          resource.ID,
		Title:       resource.Title,
		Description: resource.Description,
		Type:        string(resource.Type),
		URL:         resource.URL,
		Tags:        tags,
		Status:      string(resource.Status),
		OwnerID:     resource.OwnerID,
		CreatedAt:   resource.CreatedAt,
		UpdatedAt:   resource.UpdatedAt,
	}
}
