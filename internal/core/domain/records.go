package domain

import "time"

// NetworkDeviceRecord is the stored form of a monitored network device,
// keyed by serial.
type NetworkDeviceRecord struct {
	Serial           string
	Name             string
	ProductType      string
	Status           string
	UptimePercentage float64
	SyncedAt         time.Time
}

// LocationRecord is an office location derived from directory users, keyed by name.
type LocationRecord struct {
	ID       int64
	Name     string
	State    string
	Timezone string
}

// UserRecord is a directory user, keyed by directory id.
type UserRecord struct {
	ID             int64
	DirectoryID    string
	Name           string
	Email          string
	JobTitle       *string
	Department     *string
	CompanyName    *string
	City           *string
	LocationID     *int64
	DirectoryAdded *time.Time
}

// TicketRecord is a service desk ticket, keyed by service desk ticket id.
type TicketRecord struct {
	TicketID          string
	Subject           string
	Category          *string
	Description       *string
	Status            string
	Priority          string
	Source            string
	DepartmentID      string
	WorkspaceID       int64
	CreatedAt         time.Time
	AssignedAt        *time.Time
	ResolvedAt        *time.Time
	FirstResponseSecs *int64
	ResolutionSecs    *int64
	RequesterID       int64
	AssigneeID        *int64
}

// AssetRecord is a service desk asset, keyed by service desk asset id.
type AssetRecord struct {
	AssetID    string
	Name       string
	AssetType  string
	AssetTag   *string
	LocationID *string
	UserID     *string
	LenderID   *string
}
