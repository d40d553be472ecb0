package mapping

import (
	"strconv"

	"itsync/internal/core/domain"
)

var ticketStatuses = map[int]string{
	2: "Open",
	3: "Pending",
	4: "Resolved",
	5: "Closed",
}

var ticketPriorities = map[int]string{
	1: "Low",
	2: "Medium",
	3: "High",
	4: "Urgent",
}

var ticketSources = map[int]string{
	1:  "Email",
	2:  "Portal",
	3:  "Phone",
	4:  "Chat",
	5:  "Feedback widget",
	6:  "Yammer",
	7:  "AWS Cloudwatch",
	8:  "Pagerduty",
	9:  "Walkup",
	10: "Slack",
	11: "Chatbot",
	12: "Workplace",
	13: "Employee Onboarding",
	14: "Alerts",
	15: "MS Teams",
	18: "Employee Offboarding",
}

const unknownLabel = "Unknown"

func label(table map[int]string, code int) string {
	if s, ok := table[code]; ok {
		return s
	}
	return unknownLabel
}

func TicketStatus(code int) string   { return label(ticketStatuses, code) }
func TicketPriority(code int) string { return label(ticketPriorities, code) }
func TicketSource(code int) string   { return label(ticketSources, code) }

// AgentEmails indexes agent emails by agent id.
func AgentEmails(agents []domain.Agent) map[int64]string {
	m := make(map[int64]string, len(agents))
	for _, a := range agents {
		m[a.ID] = a.Email
	}
	return m
}

// Ticket maps a service desk ticket to its stored record. requesterID and
// assigneeID are the stored user ids resolved by the caller.
func Ticket(t domain.Ticket, requesterID int64, assigneeID *int64) domain.TicketRecord {
	id := t.Stats.TicketID
	if id == 0 {
		id = t.ID
	}

	return domain.TicketRecord{
		TicketID:          strconv.FormatInt(id, 10),
		Subject:           t.Subject,
		Category:          optional(t.Category),
		Description:       optional(t.DescriptionText),
		Status:            TicketStatus(t.Status),
		Priority:          TicketPriority(t.Priority),
		Source:            TicketSource(t.Source),
		DepartmentID:      strconv.FormatInt(t.DepartmentID, 10),
		WorkspaceID:       t.WorkspaceID,
		CreatedAt:         t.CreatedAt,
		AssignedAt:        t.Stats.FirstAssignedAt,
		ResolvedAt:        t.Stats.ResolvedAt,
		FirstResponseSecs: optionalInt(t.Stats.FirstResponseTimeSecs),
		ResolutionSecs:    optionalInt(t.Stats.ResolutionTimeSecs),
		RequesterID:       requesterID,
		AssigneeID:        assigneeID,
	}
}

// Asset maps a service desk asset to its stored record.
func Asset(a domain.Asset) domain.AssetRecord {
	return domain.AssetRecord{
		AssetID:    strconv.FormatInt(a.ID, 10),
		Name:       a.Name,
		AssetType:  strconv.FormatInt(a.AssetTypeID, 10),
		AssetTag:   optional(a.AssetTag),
		LocationID: optionalID(a.LocationID),
		UserID:     optionalID(a.UserID),
		LenderID:   optionalID(a.AgentID),
	}
}

func optionalInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func optionalID(v int64) *string {
	if v == 0 {
		return nil
	}
	s := strconv.FormatInt(v, 10)
	return &s
}
