package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"songsync/internal/logging"
	"songsync/internal/pipeline"
	"songsync/internal/song"
)

type enrichResult struct {
	Key       string     `json:"key"`
	Parsed    song.Info  `json:"parsed"`
	Processed song.Info  `json:"processed"`
	Flags     song.Flags `json:"flags"`
	Errors    []string   `json:"errors,omitempty"`
}

func newEnrichResult(sng *song.Song, err error) enrichResult {
	return enrichResult{
		Key:       sng.Key(),
		Parsed:    song.InfoFromFields(sng.Parsed()),
		Processed: song.InfoFromFields(sng.Processed),
		Flags:     sng.Flags,
		Errors:    errorMessages(err),
	}
}

// errorMessages flattens a joined stage error into one message per stage.
func errorMessages(err error) []string {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []string{err.Error()}
	}
	var messages []string
	for _, inner := range joined.Unwrap() {
		messages = append(messages, errorMessages(inner)...)
	}
	return messages
}

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var (
		uniqueID  string
		connector string
		parsed    infoFlags
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Run the enrichment pipeline for one song",
		Long: "Runs the shared record merge and the local edit stage for a song described\n" +
			"by its connector observations, then prints the resulting fields.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p, closeFn, err := pipeline.Default(cfg, ctx.log())
			if err != nil {
				return err
			}
			defer closeFn()

			observed := parsed.info()
			sng := song.New(uniqueID, connector, song.Fields{
				Track:       observed.Track,
				Album:       observed.Album,
				Artist:      observed.Artist,
				AlbumArtist: observed.AlbumArtist,
			})
			if sng.Key() == "" {
				return fmt.Errorf("enrich: --id or at least one of --artist, --track is required")
			}

			// A failed stage leaves the song with the values of earlier stages.
			processErr := p.Process(requestContext(cmd), sng)
			if processErr != nil {
				ctx.log().Debug("enrich stages reported errors",
					logging.String("song_key", sng.Key()),
					logging.Error(processErr),
				)
			}

			result := newEnrichResult(sng, processErr)
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(song.BaseFields))
			for _, field := range song.BaseFields {
				rows = append(rows, []string{string(field), sng.Parsed().Get(field), sng.Value(field)})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Parsed", "Result"}, rows, nil))
			fmt.Fprintf(out, "Corrected: %s\n", yesNo(sng.Flags.IsCorrectedByUser))
			fmt.Fprintf(out, "Stages: %s\n", strings.Join(p.Stages(), ", "))
			for _, message := range result.Errors {
				fmt.Fprintf(out, "Stage error: %s\n", message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&uniqueID, "id", "", "Platform identifier of the song")
	cmd.Flags().StringVar(&connector, "connector", "YouTube", "Connector label the song was observed on")
	parsed.register(cmd)
	return cmd
}
