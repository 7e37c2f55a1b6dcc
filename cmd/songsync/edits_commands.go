package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"songsync/internal/localedits"
	"songsync/internal/services"
	"songsync/internal/song"
)

func newEditsCommand(ctx *commandContext) *cobra.Command {
	editsCmd := &cobra.Command{
		Use:   "edits",
		Short: "Manage locally saved metadata edits",
	}
	editsCmd.AddCommand(newEditsListCommand(ctx))
	editsCmd.AddCommand(newEditsSetCommand(ctx))
	editsCmd.AddCommand(newEditsRemoveCommand(ctx))
	return editsCmd
}

type editView struct {
	Key       string    `json:"key"`
	UniqueID  string    `json:"unique_id,omitempty"`
	Record    song.Info `json:"record"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newEditsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEdits(func(store *localedits.Store) error {
				edits, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					views := make([]editView, 0, len(edits))
					for _, edit := range edits {
						views = append(views, editView{Key: edit.Key, UniqueID: edit.UniqueID, Record: edit.Info, UpdatedAt: edit.UpdatedAt})
					}
					return writeJSON(cmd, views)
				}

				out := cmd.OutOrStdout()
				if len(edits) == 0 {
					fmt.Fprintln(out, "No saved edits")
					return nil
				}
				rows := make([][]string, 0, len(edits))
				for _, edit := range edits {
					rows = append(rows, []string{
						edit.Key,
						edit.Info.Track,
						edit.Info.Album,
						edit.Info.Artist,
						edit.Info.AlbumArtist,
						edit.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Key", "Track", "Album", "Artist", "Album Artist", "Updated"}, rows, nil))
				return nil
			})
		},
	}
}

func newEditsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		sourceArtist string
		sourceTrack  string
		values       infoFlags
	)
	cmd := &cobra.Command{
		Use:   "set [id]",
		Short: "Save an edit for a song",
		Long: "Saves an edit keyed by the song's platform id. Songs without an id are\n" +
			"keyed by --source-artist and --source-track as the connector reports them.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = strings.TrimSpace(args[0])
			}
			sng := song.New(id, "", song.Fields{Artist: sourceArtist, Track: sourceTrack})
			if sng.Key() == "" {
				return fmt.Errorf("edits set: an id or --source-artist/--source-track is required")
			}
			return ctx.withEdits(func(store *localedits.Store) error {
				if err := store.Save(cmd.Context(), sng, values.info()); err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"key": sng.Key(), "saved": true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved edit for %s\n", sng.Key())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sourceArtist, "source-artist", "", "Artist reported by the connector, for songs without an id")
	cmd.Flags().StringVar(&sourceTrack, "source-track", "", "Track reported by the connector, for songs without an id")
	values.register(cmd)
	return cmd
}

func newEditsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a saved edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			return ctx.withEdits(func(store *localedits.Store) error {
				removed, err := store.Remove(cmd.Context(), key)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"key": key, "removed": removed})
				}
				if !removed {
					return services.Wrap(services.ErrNotFound, "edits", "remove", fmt.Sprintf("no edit saved under %q", key), nil)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed edit %s\n", key)
				return nil
			})
		},
	}
}
