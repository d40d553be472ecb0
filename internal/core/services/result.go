package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"itsync/internal/core/ports"
)

// newRun starts a sync run: a fresh result and a logger tagged with its id.
func newRun(log zerolog.Logger, name string) (*ports.SyncResult, zerolog.Logger) {
	runID := uuid.NewString()

	return &ports.SyncResult{RunID: runID}, log.With().
		Str("run_id", runID).
		Str("sync", name).
		Logger()
}

func recordFailure(res *ports.SyncResult, log zerolog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	res.Failed++
	res.Errors = append(res.Errors, msg)

	log.Warn().Msg(msg)
}

func recordSuccess(res *ports.SyncResult) {
	res.Successful++
}
