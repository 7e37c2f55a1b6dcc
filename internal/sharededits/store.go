package sharededits

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/text/cases"

	"songsync/internal/config"
	"songsync/internal/hashprefix"
	"songsync/internal/logging"
	"songsync/internal/metadataapi"
	"songsync/internal/services"
	"songsync/internal/song"
)

// Transport is the subset of the index client used for records.
type Transport interface {
	GetVideo(ctx context.Context, platform, id string) (metadataapi.Response, error)
	PostVideo(ctx context.Context, platform, id string, payload any) (metadataapi.Response, error)
}

// Store fetches and submits shared records for one platform.
type Store struct {
	engine    *hashprefix.Engine
	transport Transport
	platform  string
	logger    *slog.Logger
}

// New builds a store around an engine and transport.
func New(engine *hashprefix.Engine, transport Transport, platform string, logger *slog.Logger) *Store {
	return &Store{
		engine:    engine,
		transport: transport,
		platform:  strings.ToLower(strings.TrimSpace(platform)),
		logger:    logging.NewComponentLogger(logger, "sharededits"),
	}
}

// NewFromConfig wires a client, engine and store from config.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	client, err := metadataapi.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "sharededits", "configure store", "", err)
	}
	engine, err := hashprefix.NewEngineFromConfig(cfg, client, logger)
	if err != nil {
		return nil, err
	}
	return New(engine, client, cfg.Remote.Platform, logger), nil
}

// Engine returns the anonymity engine used for reads.
func (s *Store) Engine() *hashprefix.Engine {
	return s.engine
}

// Platform returns the platform name used in record paths.
func (s *Store) Platform() string {
	return s.platform
}

// IsKnown reports whether the index holds a record for id.
func (s *Store) IsKnown(ctx context.Context, id string) (bool, error) {
	return s.engine.IsKnown(ctx, id)
}

// Eligible reports whether sng can be looked up: it needs a unique id and a
// connector label naming the platform.
func (s *Store) Eligible(sng *song.Song) bool {
	if sng == nil || sng.UniqueID() == "" || s.platform == "" {
		return false
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(sng.ConnectorLabel()), fold.String(s.platform))
}

// FetchRecord returns the shared record for id. The record endpoint is only
// called once IsKnown confirms the index has one; a false answer and a 404
// both come back as absent.
func (s *Store) FetchRecord(ctx context.Context, id string) (song.Info, bool, error) {
	known, err := s.engine.IsKnown(ctx, id)
	if err != nil {
		return song.Info{}, false, err
	}
	if !known {
		return song.Info{}, false, nil
	}
	return s.FetchKnown(ctx, id)
}

// FetchKnown fetches the record for id without the anonymity check. Callers
// must already have a true IsKnown answer for id.
func (s *Store) FetchKnown(ctx context.Context, id string) (song.Info, bool, error) {
	resp, err := s.transport.GetVideo(ctx, s.platform, id)
	if err != nil {
		return song.Info{}, false, err
	}
	if resp.StatusCode == http.StatusNotFound {
		s.logger.Debug("record listed in range but not found", logging.String("video_id", id))
		return song.Info{}, false, nil
	}
	if !resp.OK() {
		return song.Info{}, false, services.Wrap(services.ErrRejected, "sharededits", "fetch record",
			fmt.Sprintf("status %d: %s", resp.StatusCode, snippet(resp.Text())), nil)
	}

	var info song.Info
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return song.Info{}, false, services.Wrap(services.ErrProtocol, "sharededits", "fetch record", "decode record", err)
	}
	return info, true, nil
}

// PutRecord submits info for id and reports whether the index accepted it.
// A refusal is not an error; only transport failures are.
func (s *Store) PutRecord(ctx context.Context, id string, info song.Info) (bool, error) {
	resp, err := s.transport.PostVideo(ctx, s.platform, id, info)
	if err != nil {
		return false, err
	}
	if !resp.OK() {
		s.logger.Info("record submission refused",
			logging.String(logging.FieldEventType, "submission_refused"),
			logging.String("video_id", id),
			logging.Int("status", resp.StatusCode))
		return false, nil
	}
	return true, nil
}

// Get fetches the shared record for sng, or reports absent without any
// request when sng is not eligible.
func (s *Store) Get(ctx context.Context, sng *song.Song) (song.Info, bool, error) {
	if !s.Eligible(sng) {
		return song.Info{}, false, nil
	}
	return s.FetchRecord(ctx, sng.UniqueID())
}

// Put submits info for sng. Ineligible songs return false without a request.
func (s *Store) Put(ctx context.Context, sng *song.Song, info song.Info) (bool, error) {
	if !s.Eligible(sng) {
		return false, nil
	}
	return s.PutRecord(ctx, sng.UniqueID(), info)
}

func snippet(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > 120 {
		return body[:120] + "..."
	}
	return body
}
