package memory

import (
	"context"
	"errors"
	"os"
	"testing"

	"itsync/internal/core/domain"
	coreerrors "itsync/internal/core/errors"
)

var ctx = context.Background()

// -----------------------------------------------------------------------------
// Tests for LoadDevicesFromCSV
// -----------------------------------------------------------------------------

func TestLoadDevicesFromCSV_Success(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "devices-*.csv")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	content := "serial,name,product_type\n" +
		"Q2AA-0000-0001,core-sw,switch\n" +
		"Q2AA-0000-0002\n" +
		"\n" +
		"Q2AA-0000-0003,ap-1\n"

	if _, err = f.WriteString(content); err != nil {
		t.Fatalf("failed to write temp csv: %v", err)
	}
	if err = f.Close(); err != nil {
		t.Fatalf("failed to close temp csv: %v", err)
	}

	store := NewStore()

	if err = store.LoadDevicesFromCSV(f.Name()); err != nil {
		t.Fatalf("LoadDevicesFromCSV returned error: %v", err)
	}

	if got := store.Count(); got != 3 {
		t.Fatalf("expected 3 devices loaded, got %d", got)
	}

	rec, err := store.GetNetworkDevice(ctx, "Q2AA-0000-0001")
	if err != nil {
		t.Fatalf("GetNetworkDevice returned error: %v", err)
	}
	if rec.Name != "core-sw" || rec.ProductType != "switch" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestLoadDevicesFromCSV_FileNotFoundReturnsError(t *testing.T) {
	store := NewStore()
	if err := store.LoadDevicesFromCSV("does-not-exist.csv"); err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}

// -----------------------------------------------------------------------------
// Network devices
// -----------------------------------------------------------------------------

func TestUpsertNetworkDevice_InsertThenUpdate(t *testing.T) {
	store := NewStore()

	if err := store.UpsertNetworkDevice(ctx, domain.NetworkDeviceRecord{Serial: "S1", Status: "online", UptimePercentage: 100}); err != nil {
		t.Fatalf("first upsert returned error: %v", err)
	}
	if err := store.UpsertNetworkDevice(ctx, domain.NetworkDeviceRecord{Serial: "S1", Status: "offline", UptimePercentage: 40}); err != nil {
		t.Fatalf("second upsert returned error: %v", err)
	}

	if store.Count() != 1 {
		t.Fatalf("expected 1 device, got %d", store.Count())
	}

	rec, err := store.GetNetworkDevice(ctx, "S1")
	if err != nil {
		t.Fatalf("GetNetworkDevice returned error: %v", err)
	}
	if rec.Status != "offline" || rec.UptimePercentage != 40 {
		t.Fatalf("expected updated record, got %+v", rec)
	}
}

func TestUpsertNetworkDevice_RequiresSerial(t *testing.T) {
	err := NewStore().UpsertNetworkDevice(ctx, domain.NetworkDeviceRecord{})
	if !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetNetworkDevice_NotFound(t *testing.T) {
	rec, err := NewStore().GetNetworkDevice(ctx, "missing")
	if !errors.Is(err, coreerrors.ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestGetNetworkDevice_ReturnsCopyNotOriginal(t *testing.T) {
	store := NewStore()
	_ = store.UpsertNetworkDevice(ctx, domain.NetworkDeviceRecord{Serial: "S1", UptimePercentage: 50})

	snap1, err := store.GetNetworkDevice(ctx, "S1")
	if err != nil {
		t.Fatalf("GetNetworkDevice returned error: %v", err)
	}
	snap1.UptimePercentage = 999

	snap2, err := store.GetNetworkDevice(ctx, "S1")
	if err != nil {
		t.Fatalf("GetNetworkDevice returned error: %v", err)
	}
	if snap2.UptimePercentage != 50 {
		t.Fatalf("expected stored uptime to remain 50, got %f", snap2.UptimePercentage)
	}
}

// -----------------------------------------------------------------------------
// Locations and users
// -----------------------------------------------------------------------------

func TestUpsertLocation_StableIDs(t *testing.T) {
	store := NewStore()

	id1, err := store.UpsertLocation(ctx, domain.Location{Name: "Tyler", State: "TX", Timezone: "America/Chicago"})
	if err != nil {
		t.Fatalf("UpsertLocation returned error: %v", err)
	}
	id2, _ := store.UpsertLocation(ctx, domain.Location{Name: "Boise", State: "ID", Timezone: "America/Boise"})
	again, _ := store.UpsertLocation(ctx, domain.Location{Name: "Tyler", State: "TX", Timezone: "America/Denver"})

	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d and %d", id1, id2)
	}
	if again != id1 {
		t.Fatalf("expected upsert to keep id %d, got %d", id1, again)
	}

	ids, err := store.LocationIDs(ctx)
	if err != nil {
		t.Fatalf("LocationIDs returned error: %v", err)
	}
	if len(ids) != 2 || ids["Tyler"] != id1 {
		t.Fatalf("unexpected location ids %v", ids)
	}
}

func TestUpsertUser_AndLookupByEmail(t *testing.T) {
	store := NewStore()

	id, err := store.UpsertUser(ctx, domain.UserRecord{DirectoryID: "aad-1", Email: "Ann@Example.com"})
	if err != nil {
		t.Fatalf("UpsertUser returned error: %v", err)
	}

	again, _ := store.UpsertUser(ctx, domain.UserRecord{DirectoryID: "aad-1", Email: "ann@example.com", Name: "Ann"})
	if again != id {
		t.Fatalf("expected upsert to keep id %d, got %d", id, again)
	}

	got, err := store.UserIDByEmail(ctx, "ANN@example.com")
	if err != nil {
		t.Fatalf("UserIDByEmail returned error: %v", err)
	}
	if got != id {
		t.Fatalf("expected id %d, got %d", id, got)
	}

	if _, err := store.UserIDByEmail(ctx, "nobody@example.com"); !errors.Is(err, coreerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserIDByEmail_EmptyEmailNeverMatches(t *testing.T) {
	store := NewStore()

	if _, err := store.UpsertUser(ctx, domain.UserRecord{DirectoryID: "aad-2"}); err != nil {
		t.Fatalf("UpsertUser returned error: %v", err)
	}

	for _, email := range []string{"", "  "} {
		if _, err := store.UserIDByEmail(ctx, email); !errors.Is(err, coreerrors.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound for %q, got %v", email, err)
		}
	}
}

// -----------------------------------------------------------------------------
// Tickets and assets
// -----------------------------------------------------------------------------

func TestUpsertTicketAndAsset(t *testing.T) {
	store := NewStore()

	if err := store.UpsertTicket(ctx, domain.TicketRecord{TicketID: "10", Subject: "a"}); err != nil {
		t.Fatalf("UpsertTicket returned error: %v", err)
	}
	if err := store.UpsertTicket(ctx, domain.TicketRecord{TicketID: "10", Subject: "b"}); err != nil {
		t.Fatalf("UpsertTicket returned error: %v", err)
	}
	if rec, ok := store.Ticket("10"); !ok || rec.Subject != "b" {
		t.Fatalf("expected updated ticket, got %+v (ok=%v)", rec, ok)
	}

	if err := store.UpsertAsset(ctx, domain.AssetRecord{}); !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty asset id, got %v", err)
	}
	if err := store.UpsertAsset(ctx, domain.AssetRecord{AssetID: "7", Name: "Laptop"}); err != nil {
		t.Fatalf("UpsertAsset returned error: %v", err)
	}
	if _, ok := store.Asset("7"); !ok {
		t.Fatalf("expected asset 7 to be stored")
	}
}
