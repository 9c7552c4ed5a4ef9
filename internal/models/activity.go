package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActionType is the closed set of auditable actions.
type ActionType string

// Auditable actions. DELETE records an archive, not a physical removal.
const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
	ActionView   ActionType = "VIEW"
)

// ValidActionType reports whether value belongs to the closed action set.
func ValidActionType(value string) bool {
	switch ActionType(value) {
	case ActionCreate, ActionUpdate, ActionDelete, ActionView:
		return true
	default:
		return false
	}
}

// Activity is an immutable audit fact: one action by one actor, optionally
// on one resource. Rows are appended once and never updated or deleted by
// the application. Deleting a user cascades to their activity rows (kept
// from the original schema); deleting a resource nulls the reference so the
// historical record survives.
type Activity struct {
	ID         string            `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    string            `gorm:"type:uuid;not null;index" json:"actor_id"`
	ResourceID *string           `gorm:"type:uuid;index" json:"resource_id"`
	ActionType ActionType        `gorm:"size:16;not null;index" json:"action_type"`
	Details    datatypes.JSONMap `gorm:"type:json" json:"details"`
	IPAddress  string            `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent  string            `gorm:"size:2000" json:"user_agent,omitempty"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`

	Actor    *User     `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"-"`
	Resource *Resource `gorm:"foreignKey:ResourceID;constraint:OnDelete:SET NULL" json:"-"`
}
