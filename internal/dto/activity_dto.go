package dto

import (
	"time"

	"github.com/learnvault/learnvault-api/internal/models"
)

// ActivityListRequest defines filters for retrieving activity records.
// Zero-valued filters are ignored; supplied filters combine with AND.
type ActivityListRequest struct {
	ActorID    string
	ResourceID string
	ActionType string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// ActivityActorSummary exposes the public identity of the acting user.
type ActivityActorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ActivityResourceSummary is a minimal view of the target resource.
type ActivityResourceSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// ActivityResponse serializes one activity record. Actor and Resource are
// read-time enrichments; a deleted actor or a dangling resource reference
// degrades to null rather than failing the query.
type ActivityResponse struct {
	ID         string                   `json:"id"`
	ActorID    string                   `json:"actor_id"`
	ResourceID *string                  `json:"resource_id"`
	ActionType string                   `json:"action_type"`
	Details    map[string]interface{}   `json:"details"`
	IPAddress  string                   `json:"ip_address,omitempty"`
	UserAgent  string                   `json:"user_agent,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	Actor      *ActivityActorSummary    `json:"actor"`
	Resource   *ActivityResourceSummary `json:"resource"`
}

// ActivityListResponse wraps paginated activity records.
type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse converts a model into an activity DTO.
func NewActivityResponse(entry models.Activity) ActivityResponse {
	response := ActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ResourceID: entry.ResourceID,
		ActionType: string(entry.ActionType),
		Details:    map[string]interface{}(entry.Details),
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		CreatedAt:  entry.CreatedAt,
	}

	if entry.Actor != nil {
		response.Actor = &ActivityActorSummary{
			ID:    entry.Actor.ID,
			Name:  entry.Actor.Name,
			Email: entry.Actor.Email,
			Role:  entry.Actor.Role,
		}
	}

	if entry.Resource != nil {
		response.Resource = &ActivityResourceSummary{
			ID:     entry.Resource.ID,
			Title:  entry.Resource.Title,
			Type:   string(entry.Resource.Type),
			Status: string(entry.Resource.Status),
		}
	}

	return response
}
