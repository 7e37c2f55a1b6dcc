package pipeline

import (
	"context"
	"log/slog"

	"songsync/internal/logging"
	"songsync/internal/services"
	"songsync/internal/song"
)

// ExternalInfoStageName identifies the shared-record merge stage.
const ExternalInfoStageName = "external-info"

// RecordSource is the shared record store as seen by ExternalInfo.
type RecordSource interface {
	Eligible(sng *song.Song) bool
	IsKnown(ctx context.Context, id string) (bool, error)
	FetchKnown(ctx context.Context, id string) (song.Info, bool, error)
}

// Outcome is the diagnostic result of one Enrich call.
type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomeUnknown Outcome = "unknown"
	OutcomeAbsent  Outcome = "absent"
	OutcomeApplied Outcome = "applied"
	OutcomeFailed  Outcome = "failed"
)

// Result pairs an Outcome with the failure, if any, and the number of fields
// written.
type Result struct {
	Outcome Outcome
	Applied int
	Err     error
}

// ExternalInfo merges the community record for a song into its processed
// fields and marks the song corrected.
type ExternalInfo struct {
	source RecordSource
	logger *slog.Logger
}

// NewExternalInfo returns the merge stage over source.
func NewExternalInfo(source RecordSource, logger *slog.Logger) *ExternalInfo {
	return &ExternalInfo{
		source: source,
		logger: logging.NewComponentLogger(logger, "external_info"),
	}
}

// Name implements Stage.
func (e *ExternalInfo) Name() string { return ExternalInfoStageName }

// Process implements Stage. It never fails; see Enrich for the outcome.
func (e *ExternalInfo) Process(ctx context.Context, sng *song.Song) error {
	e.Enrich(ctx, sng)
	return nil
}

// Enrich runs the merge and reports what happened. On any failure sng is left
// unchanged.
func (e *ExternalInfo) Enrich(ctx context.Context, sng *song.Song) Result {
	if e.source == nil || sng == nil || !e.source.Eligible(sng) {
		return Result{Outcome: OutcomeSkipped}
	}
	logger := logging.WithContext(ctx, e.logger).With(logging.String("video_id", sng.UniqueID()))

	known, err := e.source.IsKnown(ctx, sng.UniqueID())
	if err != nil {
		e.warn(logger, "anonymity check failed", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	if !known {
		logger.Debug("no shared record listed")
		return Result{Outcome: OutcomeUnknown}
	}

	info, ok, err := e.source.FetchKnown(ctx, sng.UniqueID())
	if err != nil {
		e.warn(logger, "shared record fetch failed", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	if !ok {
		return Result{Outcome: OutcomeAbsent}
	}

	applied := sng.Apply(info)
	sng.MarkCorrected(true)
	logger.Info("shared record applied",
		logging.String(logging.FieldEventType, "shared_record_applied"),
		logging.Int("fields_applied", applied))
	return Result{Outcome: OutcomeApplied, Applied: applied}
}

func (e *ExternalInfo) warn(logger *slog.Logger, msg string, err error) {
	hint := "check connectivity to the metadata index"
	if services.Kind(err) == "protocol" {
		hint = "the metadata index answered unexpectedly; check remote.base_url"
	}
	logging.WarnWithContext(logger, msg, "shared_record_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "song keeps its current metadata"),
	)
}
