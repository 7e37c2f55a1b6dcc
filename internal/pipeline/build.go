package pipeline

import (
	"log/slog"

	"songsync/internal/config"
	"songsync/internal/localedits"
	"songsync/internal/sharededits"
)

// Default wires the standard stage order from config: the shared record
// first, then the user's own edit so local corrections win. The returned
// close function releases the local edits database, if one was opened.
func Default(cfg *config.Config, logger *slog.Logger) (*Pipeline, func() error, error) {
	shared, err := sharededits.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	stages := []Stage{NewExternalInfo(shared, logger)}

	closeFn := func() error { return nil }
	if cfg.LocalEdits.Enabled {
		edits, err := localedits.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		stages = append(stages, NewUserInput(edits, logger))
		closeFn = edits.Close
	}
	return New(logger, stages...), closeFn, nil
}
