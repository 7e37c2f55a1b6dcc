package pipeline

import (
	"context"
	"log/slog"

	"songsync/internal/logging"
	"songsync/internal/services"
	"songsync/internal/song"
)

// UserInputStageName identifies the local edit stage.
const UserInputStageName = "user-input"

// EditLoader applies a saved local edit to a song.
type EditLoader interface {
	Load(ctx context.Context, sng *song.Song) (bool, error)
}

// UserInput applies the user's saved edit for a song.
type UserInput struct {
	edits  EditLoader
	logger *slog.Logger
}

// NewUserInput returns the local edit stage. A nil loader makes the stage a
// no-op that still settles the corrected flag.
func NewUserInput(edits EditLoader, logger *slog.Logger) *UserInput {
	return &UserInput{
		edits:  edits,
		logger: logging.NewComponentLogger(logger, "user_input"),
	}
}

// Name implements Stage.
func (u *UserInput) Name() string { return UserInputStageName }

// Process implements Stage. Load failures count as "no edit".
func (u *UserInput) Process(ctx context.Context, sng *song.Song) error {
	if sng == nil {
		return nil
	}
	loaded := false
	if u.edits != nil {
		ok, err := u.edits.Load(ctx, sng)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, u.logger), "local edit load failed",
				"local_edit_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldErrorHint, "check local_edits.path is readable"),
				logging.String(logging.FieldImpact, "saved edit not applied"),
			)
		}
		loaded = ok && err == nil
	}
	sng.MarkCorrected(loaded)
	return nil
}
