// Package mapping converts records fetched from the external platforms into
// the shapes stored for the dashboard.
package mapping

import (
	"time"

	"itsync/internal/core/domain"
)

// NetworkDevice maps a device with a reconstructed uptime into its stored
// record. A device whose uptime was never computed is stored with 0.
func NetworkDevice(d *domain.Device, syncedAt time.Time) domain.NetworkDeviceRecord {
	var uptime float64
	if d.UptimePercentage != nil {
		uptime = *d.UptimePercentage
	}

	return domain.NetworkDeviceRecord{
		Serial:           d.Serial,
		Name:             d.Name,
		ProductType:      d.ProductType,
		Status:           d.Status,
		UptimePercentage: uptime,
		SyncedAt:         syncedAt,
	}
}
