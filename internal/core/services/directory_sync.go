package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"itsync/internal/core/domain"
	"itsync/internal/core/mapping"
	"itsync/internal/core/ports"
)

// DirectorySyncServiceImpl syncs users and the office locations derived
// from them across every configured directory tenant.
type DirectorySyncServiceImpl struct {
	directories []ports.Directory
	locations   ports.LocationStore
	users       ports.UserStore
	log         zerolog.Logger
}

func NewDirectorySyncService(directories []ports.Directory, locations ports.LocationStore, users ports.UserStore, log zerolog.Logger) *DirectorySyncServiceImpl {
	return &DirectorySyncServiceImpl{
		directories: directories,
		locations:   locations,
		users:       users,
		log:         log,
	}
}

// SyncAll syncs locations, then users, from a single directory read.
func (s *DirectorySyncServiceImpl) SyncAll(ctx context.Context) (*ports.SyncResult, error) {
	res, log := newRun(s.log, "directory")

	users, err := s.fetchUsers(ctx, log)
	if err != nil {
		return nil, err
	}

	if err := s.syncLocations(ctx, log, users, res); err != nil {
		return nil, err
	}

	if err := s.syncUsers(ctx, log, users, res); err != nil {
		return nil, err
	}

	log.Info().Int("successful", res.Successful).Int("failed", res.Failed).Msg("directory sync completed")

	return res, nil
}

func (s *DirectorySyncServiceImpl) SyncUsers(ctx context.Context) (*ports.SyncResult, error) {
	res, log := newRun(s.log, "directory_users")

	users, err := s.fetchUsers(ctx, log)
	if err != nil {
		return nil, err
	}

	if err := s.syncUsers(ctx, log, users, res); err != nil {
		return nil, err
	}

	return res, nil
}

func (s *DirectorySyncServiceImpl) SyncLocations(ctx context.Context) (*ports.SyncResult, error) {
	res, log := newRun(s.log, "directory_locations")

	users, err := s.fetchUsers(ctx, log)
	if err != nil {
		return nil, err
	}

	if err := s.syncLocations(ctx, log, users, res); err != nil {
		return nil, err
	}

	return res, nil
}

// fetchUsers reads every tenant concurrently. Any tenant failing fails the read.
func (s *DirectorySyncServiceImpl) fetchUsers(ctx context.Context, log zerolog.Logger) ([]domain.DirectoryUser, error) {
	perTenant := make([][]domain.DirectoryUser, len(s.directories))

	g, gctx := errgroup.WithContext(ctx)

	for i, dir := range s.directories {
		g.Go(func() error {
			users, err := dir.Users(gctx)
			if err != nil {
				return err
			}

			log.Info().Str("tenant", dir.Tenant()).Int("users", len(users)).Msg("fetched directory users")
			perTenant[i] = users

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.DirectoryUser
	for _, users := range perTenant {
		all = append(all, users...)
	}

	return all, nil
}

func (s *DirectorySyncServiceImpl) syncLocations(ctx context.Context, log zerolog.Logger, users []domain.DirectoryUser, res *ports.SyncResult) error {
	locations, problems := mapping.LocationsFromUsers(users)
	for _, p := range problems {
		log.Warn().Msg(p)
	}
	res.Warnings = append(res.Warnings, problems...)
	res.Total += len(locations)

	for _, loc := range locations {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := s.locations.UpsertLocation(ctx, loc); err != nil {
			recordFailure(res, log, "location %s: %v", loc.Name, err)
			continue
		}
		recordSuccess(res)
	}

	return nil
}

func (s *DirectorySyncServiceImpl) syncUsers(ctx context.Context, log zerolog.Logger, users []domain.DirectoryUser, res *ports.SyncResult) error {
	locationIDs, err := s.locations.LocationIDs(ctx)
	if err != nil {
		return err
	}

	res.Total += len(users)

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}

		city := strings.TrimSpace(u.City)

		var locationID *int64
		if city != "" && city != "None" {
			id, ok := locationIDs[city]
			if !ok {
				recordFailure(res, log, "required location not found for user %s, city: %s", u.DisplayName, city)
				continue
			}
			locationID = &id
		}

		rec, err := mapping.User(u, locationID)
		if err != nil {
			recordFailure(res, log, "user %s: %v", u.DisplayName, err)
			continue
		}

		if _, err := s.users.UpsertUser(ctx, rec); err != nil {
			recordFailure(res, log, "user %s: %v", u.DisplayName, err)
			continue
		}
		recordSuccess(res)
	}

	return nil
}
