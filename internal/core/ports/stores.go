package ports

import (
	"context"

	"itsync/internal/core/domain"
)

// NetworkDeviceStore persists network devices by serial.
type NetworkDeviceStore interface {
	UpsertNetworkDevice(ctx context.Context, rec domain.NetworkDeviceRecord) error
	GetNetworkDevice(ctx context.Context, serial string) (*domain.NetworkDeviceRecord, error)
}

// LocationStore persists locations by name.
type LocationStore interface {
	UpsertLocation(ctx context.Context, loc domain.Location) (int64, error)
	LocationIDs(ctx context.Context) (map[string]int64, error)
}

// UserStore persists directory users by directory id.
type UserStore interface {
	UpsertUser(ctx context.Context, rec domain.UserRecord) (int64, error)
	// UserIDByEmail returns an error matching coreerrors.ErrUserNotFound
	// when no user has the email.
	UserIDByEmail(ctx context.Context, email string) (int64, error)
}

// TicketStore persists tickets and assets by service desk id.
type TicketStore interface {
	UpsertTicket(ctx context.Context, rec domain.TicketRecord) error
	UpsertAsset(ctx context.Context, rec domain.AssetRecord) error
}

// Store is everything the sync services write to.
type Store interface {
	NetworkDeviceStore
	LocationStore
	UserStore
	TicketStore
}
