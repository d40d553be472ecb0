package ports

import (
	"context"
	"time"

	"itsync/internal/core/domain"
)

// NetworkMonitor is the network-device-monitoring platform.
type NetworkMonitor interface {
	OrganizationID(ctx context.Context) (string, error)
	Devices(ctx context.Context, orgID string) ([]domain.Device, error)
	// StatusHistory returns transitions per serial, ascending by timestamp.
	StatusHistory(ctx context.Context, orgID string, lookback time.Duration) (map[string][]domain.StatusChangeEvent, error)
}

// ServiceDesk is the IT service desk platform.
type ServiceDesk interface {
	Agents(ctx context.Context) ([]domain.Agent, error)
	Tickets(ctx context.Context, updatedSince time.Time) ([]domain.Ticket, error)
	Assets(ctx context.Context) ([]domain.Asset, error)
}

// Directory is one tenant of the identity directory.
type Directory interface {
	Tenant() string
	Users(ctx context.Context) ([]domain.DirectoryUser, error)
}
