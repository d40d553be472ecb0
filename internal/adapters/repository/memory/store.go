package memory

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"sync"

	"itsync/internal/core/domain"
	coreerrors "itsync/internal/core/errors"
)

// Store is an in-memory implementation of ports.Store. It backs the service
// when no database is configured and is used throughout the tests.
type Store struct {
	mu sync.RWMutex

	devices   map[string]domain.NetworkDeviceRecord
	locations map[string]domain.LocationRecord
	users     map[string]domain.UserRecord
	tickets   map[string]domain.TicketRecord
	assets    map[string]domain.AssetRecord

	nextLocationID int64
	nextUserID     int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		devices:   make(map[string]domain.NetworkDeviceRecord),
		locations: make(map[string]domain.LocationRecord),
		users:     make(map[string]domain.UserRecord),
		tickets:   make(map[string]domain.TicketRecord),
		assets:    make(map[string]domain.AssetRecord),
	}
}

// LoadDevicesFromCSV seeds network devices from a CSV file.
// Expected format: header line, then serial[,name[,product type]] per line.
func (s *Store) LoadDevicesFromCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range records {
		if i == 0 {
			// skip header
			continue
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		rec := domain.NetworkDeviceRecord{Serial: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			rec.Name = row[1]
		}
		if len(row) > 2 {
			rec.ProductType = row[2]
		}

		if _, exists := s.devices[rec.Serial]; !exists {
			s.devices[rec.Serial] = rec
		}
	}

	return nil
}

// Count returns the number of stored network devices.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}

func (s *Store) UpsertNetworkDevice(_ context.Context, rec domain.NetworkDeviceRecord) error {
	if rec.Serial == "" {
		return coreerrors.New(coreerrors.KindInvalidInput, "serial is required").WithField("serial")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices[rec.Serial] = rec
	return nil
}

// GetNetworkDevice returns a copy of the stored record.
func (s *Store) GetNetworkDevice(_ context.Context, serial string) (*domain.NetworkDeviceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.devices[serial]
	if !ok {
		return nil, coreerrors.ErrDeviceNotFound
	}
	return &rec, nil
}

func (s *Store) UpsertLocation(_ context.Context, loc domain.Location) (int64, error) {
	if loc.Name == "" {
		return 0, coreerrors.New(coreerrors.KindInvalidInput, "location name is required").WithField("name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.locations[loc.Name]
	if !ok {
		s.nextLocationID++
		rec.ID = s.nextLocationID
	}

	rec.Name, rec.State, rec.Timezone = loc.Name, loc.State, loc.Timezone
	s.locations[loc.Name] = rec

	return rec.ID, nil
}

func (s *Store) LocationIDs(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]int64, len(s.locations))
	for name, rec := range s.locations {
		ids[name] = rec.ID
	}
	return ids, nil
}

func (s *Store) UpsertUser(_ context.Context, rec domain.UserRecord) (int64, error) {
	if rec.DirectoryID == "" {
		return 0, coreerrors.New(coreerrors.KindInvalidInput, "directory id is required").WithField("directoryId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[rec.DirectoryID]; ok {
		rec.ID = existing.ID
	} else {
		s.nextUserID++
		rec.ID = s.nextUserID
	}

	s.users[rec.DirectoryID] = rec

	return rec.ID, nil
}

func (s *Store) UserIDByEmail(_ context.Context, email string) (int64, error) {
	if strings.TrimSpace(email) == "" {
		return 0, coreerrors.ErrUserNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u.ID, nil
		}
	}
	return 0, coreerrors.ErrUserNotFound
}

func (s *Store) UpsertTicket(_ context.Context, rec domain.TicketRecord) error {
	if rec.TicketID == "" {
		return coreerrors.New(coreerrors.KindInvalidInput, "ticket id is required").WithField("ticketId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets[rec.TicketID] = rec
	return nil
}

func (s *Store) UpsertAsset(_ context.Context, rec domain.AssetRecord) error {
	if rec.AssetID == "" {
		return coreerrors.New(coreerrors.KindInvalidInput, "asset id is required").WithField("assetId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.assets[rec.AssetID] = rec
	return nil
}

// Ticket returns a stored ticket, for inspection in tests and tooling.
func (s *Store) Ticket(id string) (domain.TicketRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tickets[id]
	return rec, ok
}

// Asset returns a stored asset.
func (s *Store) Asset(id string) (domain.AssetRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.assets[id]
	return rec, ok
}

// User returns a stored user by directory id.
func (s *Store) User(directoryID string) (domain.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[directoryID]
	return rec, ok
}
