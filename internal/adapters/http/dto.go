package http

import (
	"time"

	"itsync/internal/core/domain"
	"itsync/internal/core/ports"
)

type ErrorResponse struct {
	Msg string `json:"msg"`
}

type SyncDetails struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings,omitempty"`
}

type SyncResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	RunID   string       `json:"run_id,omitempty"`
	Details *SyncDetails `json:"details,omitempty"`
}

type NetworkDeviceResponse struct {
	Serial           string    `json:"serial"`
	Name             string    `json:"name"`
	ProductType      string    `json:"product_type"`
	Status           string    `json:"status"`
	UptimePercentage float64   `json:"uptime_percentage"`
	SyncedAt         time.Time `json:"synced_at"`
}

func newSyncResponse(message string, res *ports.SyncResult) SyncResponse {
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}

	return SyncResponse{
		Success: true,
		Message: message,
		RunID:   res.RunID,
		Details: &SyncDetails{
			Total:      res.Total,
			Successful: res.Successful,
			Failed:     res.Failed,
			Errors:     errs,
			Warnings:   res.Warnings,
		},
	}
}

func newNetworkDeviceResponse(rec *domain.NetworkDeviceRecord) NetworkDeviceResponse {
	return NetworkDeviceResponse{
		Serial:           rec.Serial,
		Name:             rec.Name,
		ProductType:      rec.ProductType,
		Status:           rec.Status,
		UptimePercentage: rec.UptimePercentage,
		SyncedAt:         rec.SyncedAt,
	}
}
