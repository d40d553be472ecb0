package ports

import (
	"context"

	"itsync/internal/core/domain"
)

// SyncResult summarises one sync run.
type SyncResult struct {
	RunID      string
	Total      int
	Successful int
	Failed     int
	Errors     []string
	// Warnings are problems that did not fail a record.
	Warnings []string
}

// Add folds the counts of other into r.
func (r *SyncResult) Add(other SyncResult) {
	r.Total += other.Total
	r.Successful += other.Successful
	r.Failed += other.Failed
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// NetworkSyncService is the port the HTTP layer uses for the device sync.
type NetworkSyncService interface {
	SyncDevices(ctx context.Context) (*SyncResult, error)
	GetDevice(ctx context.Context, serial string) (*domain.NetworkDeviceRecord, error)
}

// ServiceDeskSyncService syncs tickets and assets.
type ServiceDeskSyncService interface {
	SyncTickets(ctx context.Context) (*SyncResult, error)
	SyncAssets(ctx context.Context) (*SyncResult, error)
	SyncAll(ctx context.Context) (*SyncResult, error)
}

// DirectorySyncService syncs users and their office locations.
type DirectorySyncService interface {
	SyncAll(ctx context.Context) (*SyncResult, error)
	SyncUsers(ctx context.Context) (*SyncResult, error)
	SyncLocations(ctx context.Context) (*SyncResult, error)
}
