package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"itsync/internal/core/domain"
)

// UptimeOutcome is the per-device result of ComputeUptimes.
type UptimeOutcome struct {
	Device *domain.Device
	Report domain.UptimeReport
	Err    error
}

// ComputeUptimes reconstructs every device's uptime over w using at most
// workers goroutines. Outcomes are returned in input order; a failure for
// one device is recorded in its outcome and does not stop the others. The
// input devices are not modified.
func ComputeUptimes(ctx context.Context, devices []domain.Device, w domain.Window, workers int) ([]UptimeOutcome, error) {
	if workers <= 0 {
		workers = 1
	}

	outcomes := make([]UptimeOutcome, len(devices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range devices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			d, report, err := domain.WithUptime(&devices[i], w)
			outcomes[i] = UptimeOutcome{Device: d, Report: report, Err: err}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outcomes, nil
}
