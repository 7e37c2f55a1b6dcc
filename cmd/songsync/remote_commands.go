package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"songsync/internal/song"
)

func newPrefixLengthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prefix-length",
		Short: "Show the digest prefix length the metadata index expects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.sharedStore()
			if err != nil {
				return err
			}
			n, err := store.Engine().PrefixLength(requestContext(cmd))
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"prefix_length": n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

type knownResult struct {
	ID     string `json:"id"`
	Digest string `json:"digest"`
	Known  bool   `json:"known"`
}

func newKnownCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "known <id>",
		Short: "Check whether the index has a record, sending only a digest prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			store, err := ctx.sharedStore()
			if err != nil {
				return err
			}
			known, err := store.IsKnown(requestContext(cmd), id)
			if err != nil {
				return err
			}
			result := knownResult{ID: id, Digest: store.Engine().Algorithm().Sum(id), Known: known}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s known: %s\n", id, yesNo(known))
			return nil
		},
	}
}

type fetchResult struct {
	ID     string     `json:"id"`
	Found  bool       `json:"found"`
	Record *song.Info `json:"record,omitempty"`
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <id>",
		Short: "Fetch the shared record for an identifier the index knows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			store, err := ctx.sharedStore()
			if err != nil {
				return err
			}
			info, found, err := store.FetchRecord(requestContext(cmd), id)
			if err != nil {
				return err
			}
			result := fetchResult{ID: id, Found: found}
			if found {
				result.Record = &info
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintf(out, "No shared record for %s\n", id)
				return nil
			}
			fmt.Fprintln(out, renderInfo(out, info))
			return nil
		},
	}
}

type infoFlags struct {
	track       string
	album       string
	artist      string
	albumArtist string
}

func (f *infoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.track, "track", "", "Track title")
	cmd.Flags().StringVar(&f.album, "album", "", "Album title")
	cmd.Flags().StringVar(&f.artist, "artist", "", "Track artist")
	cmd.Flags().StringVar(&f.albumArtist, "album-artist", "", "Album artist")
}

func (f *infoFlags) info() song.Info {
	return song.Info{
		Track:       strings.TrimSpace(f.track),
		Album:       strings.TrimSpace(f.album),
		Artist:      strings.TrimSpace(f.artist),
		AlbumArtist: strings.TrimSpace(f.albumArtist),
	}
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var flags infoFlags
	cmd := &cobra.Command{
		Use:   "submit <id>",
		Short: "Share a metadata correction with the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			info := flags.info()
			if info.IsEmpty() {
				return fmt.Errorf("submit: at least one of --track, --album, --artist, --album-artist is required")
			}
			store, err := ctx.sharedStore()
			if err != nil {
				return err
			}
			accepted, err := store.PutRecord(requestContext(cmd), id, info)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"id": id, "accepted": accepted})
			}
			if !accepted {
				return fmt.Errorf("submit: index refused the record for %s", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted record for %s\n", id)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func renderInfo(w io.Writer, info song.Info) string {
	rows := make([][]string, 0, len(song.BaseFields))
	for _, field := range song.BaseFields {
		rows = append(rows, []string{string(field), info.Get(field)})
	}
	return renderTable(w, []string{"Field", "Value"}, rows, nil)
}
