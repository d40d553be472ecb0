package freshservice

import (
	"time"

	"itsync/internal/core/domain"
)

type ticket struct {
	ID           int64     `json:"id"`
	Subject      string    `json:"subject"`
	DepartmentID *int64    `json:"department_id"`
	Category     *string   `json:"category"`
	RequesterID  int64     `json:"requester_id"`
	ResponderID  *int64    `json:"responder_id"`
	Priority     int       `json:"priority"`
	Status       int       `json:"status"`
	Source       int       `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	WorkspaceID  int64     `json:"workspace_id"`
	Description  string    `json:"description_text"`
	Requester    struct {
		Email string `json:"email"`
	} `json:"requester"`
	Stats struct {
		TicketID              int64      `json:"ticket_id"`
		ResolvedAt            *time.Time `json:"resolved_at"`
		FirstAssignedAt       *time.Time `json:"first_assigned_at"`
		FirstResponseTimeSecs *int64     `json:"first_resp_time_in_secs"`
		ResolutionTimeSecs    *int64     `json:"resolution_time_in_secs"`
	} `json:"stats"`
}

type agent struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type asset struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AssetTypeID int64  `json:"asset_type_id"`
	AssetTag    string `json:"asset_tag"`
	UserID      *int64 `json:"user_id"`
	LocationID  *int64 `json:"location_id"`
	AgentID     *int64 `json:"agent_id"`
}

type ticketsPage struct {
	Tickets []ticket `json:"tickets"`
}

type agentsPage struct {
	Agents []agent `json:"agents"`
}

type assetsPage struct {
	Assets []asset `json:"assets"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (t ticket) toDomain() domain.Ticket {
	return domain.Ticket{
		ID:              t.ID,
		Subject:         t.Subject,
		DepartmentID:    deref(t.DepartmentID),
		Category:        deref(t.Category),
		RequesterID:     t.RequesterID,
		RequesterEmail:  t.Requester.Email,
		ResponderID:     deref(t.ResponderID),
		Priority:        t.Priority,
		Status:          t.Status,
		Source:          t.Source,
		CreatedAt:       t.CreatedAt,
		WorkspaceID:     t.WorkspaceID,
		DescriptionText: t.Description,
		Stats: domain.TicketStats{
			TicketID:              t.Stats.TicketID,
			ResolvedAt:            t.Stats.ResolvedAt,
			FirstAssignedAt:       t.Stats.FirstAssignedAt,
			FirstResponseTimeSecs: deref(t.Stats.FirstResponseTimeSecs),
			ResolutionTimeSecs:    deref(t.Stats.ResolutionTimeSecs),
		},
	}
}

func (a asset) toDomain() domain.Asset {
	return domain.Asset{
		ID:          a.ID,
		Name:        a.Name,
		AssetTypeID: a.AssetTypeID,
		AssetTag:    a.AssetTag,
		UserID:      deref(a.UserID),
		LocationID:  deref(a.LocationID),
		AgentID:     deref(a.AgentID),
	}
}
