package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ResourceType enumerates the supported resource formats.
type ResourceType string

// Resource formats.
const (
	ResourceTypeArticle  ResourceType = "Article"
	ResourceTypeVideo    ResourceType = "Video"
	ResourceTypeTutorial ResourceType = "Tutorial"
)

// ResourceStatus enumerates the publication lifecycle states.
type ResourceStatus string

// Lifecycle states. Archived resources are soft-deleted, never removed.
const (
	ResourceStatusDraft     ResourceStatus = "Draft"
	ResourceStatusPublished ResourceStatus = "Published"
	ResourceStatusArchived  ResourceStatus = "Archived"
)

// Resource is a learning resource managed by content managers.
type Resource struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	Title       string         `gorm:"size:255;not null"`
	Description string         `gorm:"type:text"`
	Type        ResourceType   `gorm:"size:32;not null"`
	URL         string         `gorm:"size:2048"`
	TagsRaw     string         `gorm:"column:tags;type:text"`
	Status      ResourceStatus `gorm:"size:32;not null;default:'Draft'"`
	OwnerID     string         `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tags        []string `gorm:"-"`
}

// BeforeSave normalises resource data prior to persistence.
func (r *Resource) BeforeSave(tx *gorm.DB) error {
	r.TagsRaw = encodeTags(r.Tags)
	return nil
}

// AfterFind hydrates resource tags after loading from the database.
func (r *Resource) AfterFind(tx *gorm.DB) error {
	r.Tags = decodeTags(r.TagsRaw)
	return nil
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(strings.ToLower(tag))
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return ""
	}
	return "|" + strings.Join(cleaned, "|") + "|"
}

func decodeTags(raw string) []string {
	raw = strings.Trim(raw, "|")
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		tags = append(tags, trimmed)
	}
	return tags
}
