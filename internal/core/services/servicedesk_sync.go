package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"itsync/internal/core/mapping"
	"itsync/internal/core/ports"
)

// ServiceDeskSyncServiceImpl copies tickets and assets from the service desk.
type ServiceDeskSyncServiceImpl struct {
	desk     ports.ServiceDesk
	users    ports.UserStore
	tickets  ports.TicketStore
	lookback time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewServiceDeskSyncService(desk ports.ServiceDesk, users ports.UserStore, tickets ports.TicketStore, lookbackDays int, log zerolog.Logger) *ServiceDeskSyncServiceImpl {
	if lookbackDays <= 0 {
		lookbackDays = 7
	}

	return &ServiceDeskSyncServiceImpl{
		desk:     desk,
		users:    users,
		tickets:  tickets,
		lookback: time.Duration(lookbackDays) * 24 * time.Hour,
		now:      time.Now,
		log:      log,
	}
}

// SetClock replaces the time source.
func (s *ServiceDeskSyncServiceImpl) SetClock(now func() time.Time) {
	s.now = now
}

// SyncTickets upserts every ticket updated within the lookback period. The
// requester and responder are resolved to stored users by email; a ticket
// whose requester is unknown is skipped.
func (s *ServiceDeskSyncServiceImpl) SyncTickets(ctx context.Context) (*ports.SyncResult, error) {
	res, log := newRun(s.log, "freshservice_tickets")

	agents, err := s.desk.Agents(ctx)
	if err != nil {
		return nil, err
	}
	agentEmails := mapping.AgentEmails(agents)

	since := s.now().Add(-s.lookback)
	log.Info().Time("since", since).Int("agents", len(agents)).Msg("fetching tickets")

	tickets, err := s.desk.Tickets(ctx, since)
	if err != nil {
		return nil, err
	}

	res.Total = len(tickets)

	for _, t := range tickets {
		requesterID, err := s.users.UserIDByEmail(ctx, t.RequesterEmail)
		if err != nil {
			recordFailure(res, log, "ticket %d: requester %q: %v", t.ID, t.RequesterEmail, err)
			continue
		}

		var assigneeID *int64
		if t.ResponderID != 0 {
			email, ok := agentEmails[t.ResponderID]
			if !ok {
				recordFailure(res, log, "ticket %d: responder %d is not an active agent", t.ID, t.ResponderID)
				continue
			}

			id, err := s.users.UserIDByEmail(ctx, email)
			if err != nil {
				recordFailure(res, log, "ticket %d: responder %q: %v", t.ID, email, err)
				continue
			}
			assigneeID = &id
		}

		if err := s.tickets.UpsertTicket(ctx, mapping.Ticket(t, requesterID, assigneeID)); err != nil {
			recordFailure(res, log, "ticket %d: %v", t.ID, err)
			continue
		}

		recordSuccess(res)
	}

	log.Info().Int("successful", res.Successful).Int("failed", res.Failed).Msg("ticket sync completed")

	return res, nil
}

func (s *ServiceDeskSyncServiceImpl) SyncAssets(ctx context.Context) (*ports.SyncResult, error) {
	res, log := newRun(s.log, "freshservice_assets")

	assets, err := s.desk.Assets(ctx)
	if err != nil {
		return nil, err
	}

	res.Total = len(assets)

	for _, a := range assets {
		if err := s.tickets.UpsertAsset(ctx, mapping.Asset(a)); err != nil {
			recordFailure(res, log, "asset %d: %v", a.ID, err)
			continue
		}
		recordSuccess(res)
	}

	log.Info().Int("successful", res.Successful).Int("failed", res.Failed).Msg("asset sync completed")

	return res, nil
}

// SyncAll runs the ticket sync followed by the asset sync.
func (s *ServiceDeskSyncServiceImpl) SyncAll(ctx context.Context) (*ports.SyncResult, error) {
	tickets, err := s.SyncTickets(ctx)
	if err != nil {
		return nil, err
	}

	assets, err := s.SyncAssets(ctx)
	if err != nil {
		return nil, err
	}

	tickets.Add(*assets)

	return tickets, nil
}
