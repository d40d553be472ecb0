package services

import (
	"context"
	"errors"
	"time"

	"itsync/internal/core/domain"
)

var errFakeUpstream = errors.New("upstream unavailable")

type fakeMonitor struct {
	orgErr     error
	devices    []domain.Device
	history    map[string][]domain.StatusChangeEvent
	historyErr error

	gotLookback time.Duration
}

func (m *fakeMonitor) OrganizationID(context.Context) (string, error) {
	if m.orgErr != nil {
		return "", m.orgErr
	}
	return "org-1", nil
}

func (m *fakeMonitor) Devices(context.Context, string) ([]domain.Device, error) {
	return m.devices, nil
}

func (m *fakeMonitor) StatusHistory(_ context.Context, _ string, lookback time.Duration) (map[string][]domain.StatusChangeEvent, error) {
	m.gotLookback = lookback
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

type fakeDesk struct {
	agents  []domain.Agent
	tickets []domain.Ticket
	assets  []domain.Asset
	err     error

	gotSince time.Time
}

func (d *fakeDesk) Agents(context.Context) ([]domain.Agent, error) {
	return d.agents, d.err
}

func (d *fakeDesk) Tickets(_ context.Context, since time.Time) ([]domain.Ticket, error) {
	d.gotSince = since
	return d.tickets, d.err
}

func (d *fakeDesk) Assets(context.Context) ([]domain.Asset, error) {
	return d.assets, d.err
}

type fakeDirectory struct {
	tenant string
	users  []domain.DirectoryUser
	err    error
}

func (d *fakeDirectory) Tenant() string { return d.tenant }

func (d *fakeDirectory) Users(context.Context) ([]domain.DirectoryUser, error) {
	return d.users, d.err
}
