package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"songsync/internal/logging"
	"songsync/internal/services"
	"songsync/internal/song"
)

// Stage processes a song in place.
type Stage interface {
	Name() string
	Process(ctx context.Context, sng *song.Song) error
}

// Pipeline runs stages in order.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// New returns a pipeline over stages. Nil stages are dropped.
func New(logger *slog.Logger, stages ...Stage) *Pipeline {
	p := &Pipeline{logger: logging.NewComponentLogger(logger, "pipeline")}
	for _, st := range stages {
		if st != nil {
			p.stages = append(p.stages, st)
		}
	}
	return p
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, st := range p.stages {
		names = append(names, st.Name())
	}
	return names
}

// Process runs every stage against sng. A failing stage is logged and the
// remaining stages still run; the joined stage errors are returned.
func (p *Pipeline) Process(ctx context.Context, sng *song.Song) error {
	if sng == nil {
		return services.Wrap(services.ErrValidation, "pipeline", "process", "song is required", nil)
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithSongKey(ctx, sng.Key())

	var errs []error
	for _, st := range p.stages {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		stageCtx := services.WithStage(ctx, st.Name())
		logger := logging.WithContext(stageCtx, p.logger)

		start := time.Now()
		err := st.Process(stageCtx, sng)
		if err != nil {
			logging.WarnWithContext(logger, "stage failed",
				"stage_failure",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldImpact, "song continues with fields from earlier stages"),
			)
			errs = append(errs, fmt.Errorf("%s: %w", st.Name(), err))
			continue
		}
		logger.Debug("stage completed",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.Duration("elapsed", time.Since(start)),
			logging.Bool("corrected", sng.Flags.IsCorrectedByUser))
	}
	return errors.Join(errs...)
}
