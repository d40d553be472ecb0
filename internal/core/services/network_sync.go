package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"itsync/internal/core/domain"
	coreerrors "itsync/internal/core/errors"
	"itsync/internal/core/mapping"
	"itsync/internal/core/ports"
	"itsync/pkg/utils"
)

// NetworkSyncServiceImpl pulls devices from the monitoring platform,
// reconstructs their uptime and stores them.
type NetworkSyncServiceImpl struct {
	monitor    ports.NetworkMonitor
	store      ports.NetworkDeviceStore
	windowDays float64
	workers    int
	now        func() time.Time
	log        zerolog.Logger
}

// NewNetworkSyncService constructs a NetworkSyncServiceImpl. A non-positive
// windowDays falls back to domain.DefaultWindowDays.
func NewNetworkSyncService(monitor ports.NetworkMonitor, store ports.NetworkDeviceStore, windowDays float64, workers int, log zerolog.Logger) *NetworkSyncServiceImpl {
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}

	return &NetworkSyncServiceImpl{
		monitor:    monitor,
		store:      store,
		windowDays: windowDays,
		workers:    workers,
		now:        time.Now,
		log:        log,
	}
}

// SetClock replaces the time source.
func (s *NetworkSyncServiceImpl) SetClock(now func() time.Time) {
	s.now = now
}

func (s *NetworkSyncServiceImpl) SyncDevices(ctx context.Context) (*ports.SyncResult, error) {
	res, log := newRun(s.log, "meraki")

	// captured once so every device is measured against the same window
	now := s.now()

	window, err := domain.NewWindow(now, s.windowDays)
	if err != nil {
		return nil, coreerrors.Wrap(coreerrors.KindConfig, err, "reporting window")
	}

	log.Info().Msg("fetching organization")

	orgID, err := s.monitor.OrganizationID(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().Str("org_id", orgID).Msg("fetching devices")

	devices, err := s.monitor.Devices(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, coreerrors.New(coreerrors.KindUpstream, "no devices found")
	}

	log.Info().Int("devices", len(devices)).Msg("fetching device histories")

	history, err := s.monitor.StatusHistory(ctx, orgID, window.Duration())
	if err != nil {
		return nil, err
	}

	withHistory := make([]domain.Device, len(devices))
	for i, d := range devices {
		d.StatusHistory = window.Clip(history[d.Serial])
		withHistory[i] = d
	}

	log.Info().Msg("calculating device uptime")

	outcomes, err := ComputeUptimes(ctx, withHistory, window, s.workers)
	if err != nil {
		return nil, err
	}

	res.Total = len(outcomes)

	for i, out := range outcomes {
		serial := withHistory[i].Serial

		if out.Err != nil {
			recordFailure(res, log, "skipping device %s: %v", serial, out.Err)
			continue
		}

		if out.Report.ChainGaps > 0 {
			log.Warn().Str("serial", serial).Int("gaps", out.Report.ChainGaps).Msg("status history has gaps in its transition chain")
		}

		log.Debug().Str("serial", serial).Float64("uptime", out.Report.Percentage).Msg("computed uptime")

		if err := s.store.UpsertNetworkDevice(ctx, mapping.NetworkDevice(out.Device, now)); err != nil {
			recordFailure(res, log, "skipping device %s: %v", serial, err)
			continue
		}

		recordSuccess(res)
	}

	log.Info().Int("successful", res.Successful).Int("failed", res.Failed).Msg("meraki sync completed")

	return res, nil
}

func (s *NetworkSyncServiceImpl) GetDevice(ctx context.Context, serial string) (*domain.NetworkDeviceRecord, error) {
	if !utils.IsSerial(serial) {
		return nil, coreerrors.New(coreerrors.KindInvalidInput, "invalid device serial").WithSerial(serial)
	}

	return s.store.GetNetworkDevice(ctx, serial)
}
