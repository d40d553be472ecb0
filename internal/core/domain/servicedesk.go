package domain

import "time"

// Ticket is a service desk ticket as returned by the service desk API.
type Ticket struct {
	ID              int64
	Subject         string
	DepartmentID    int64
	Category        string
	RequesterID     int64
	RequesterEmail  string
	ResponderID     int64
	Priority        int
	Status          int
	Source          int
	CreatedAt       time.Time
	WorkspaceID     int64
	DescriptionText string
	Stats           TicketStats
}

// TicketStats holds the service desk's per-ticket timing statistics.
type TicketStats struct {
	TicketID              int64
	ResolvedAt            *time.Time
	FirstAssignedAt       *time.Time
	FirstResponseTimeSecs int64
	ResolutionTimeSecs    int64
}

// Agent is a service desk agent.
type Agent struct {
	ID    int64
	Email string
}

// Asset is a service desk asset.
type Asset struct {
	ID          int64
	Name        string
	AssetTypeID int64
	AssetTag    string
	UserID      int64
	LocationID  int64
	AgentID     int64
}
