package domain

import "time"

// StatusOnline is the only device status counted as up.
const StatusOnline = "online"

// Other statuses reported by the monitoring platform. Anything that is not
// StatusOnline, including values not listed here, counts as down.
const (
	StatusOffline  = "offline"
	StatusAlerting = "alerting"
	StatusDormant  = "dormant"
)

// StatusChangeEvent is one recorded availability transition.
type StatusChangeEvent struct {
	Timestamp     time.Time
	PreviousState string
	NewState      string
}

// Device is a network device as seen during a single sync run.
type Device struct {
	Serial        string
	Name          string
	ProductType   string
	NetworkID     string
	Status        string
	StatusHistory []StatusChangeEvent

	// UptimePercentage is nil until the uptime has been reconstructed.
	UptimePercentage *float64
}

// IsOnline reports whether status counts as online.
func IsOnline(status string) bool {
	return status == StatusOnline
}

// Clone returns a deep copy of d.
func (d *Device) Clone() *Device {
	c := *d
	if d.StatusHistory != nil {
		c.StatusHistory = make([]StatusChangeEvent, len(d.StatusHistory))
		copy(c.StatusHistory, d.StatusHistory)
	}
	if d.UptimePercentage != nil {
		v := *d.UptimePercentage
		c.UptimePercentage = &v
	}

	return &c
}
