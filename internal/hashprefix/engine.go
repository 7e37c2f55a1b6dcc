package hashprefix

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"songsync/internal/config"
	"songsync/internal/logging"
	"songsync/internal/metadataapi"
	"songsync/internal/services"
)

// RejectionMessage is the body fragment the index sends, with HTTP 400, when
// the requested prefix does not have the current length.
const RejectionMessage = "Incorrect prefix length requested."

// DefaultMaxAttempts is the number of range queries one lookup may issue.
const DefaultMaxAttempts = 3

// Index is the subset of the metadata index the engine queries.
type Index interface {
	PrefixLength(ctx context.Context) (metadataapi.Response, error)
	Range(ctx context.Context, prefix string) (metadataapi.Response, error)
}

// Engine answers "does the index know this identifier" without sending the
// identifier.
type Engine struct {
	index       Index
	algorithm   Algorithm
	maxAttempts int
	cache       *PrefixLengthCache
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithAlgorithm selects the digest primitive.
func WithAlgorithm(alg Algorithm) Option {
	return func(e *Engine) {
		if alg != "" {
			e.algorithm = alg
		}
	}
}

// WithMaxAttempts bounds the range queries per lookup. Values below one are
// ignored.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.NewComponentLogger(logger, "hashprefix")
	}
}

// NewEngine builds an engine with its own prefix-length cache.
func NewEngine(index Index, opts ...Option) *Engine {
	e := &Engine{
		index:       index,
		algorithm:   SHA1,
		maxAttempts: DefaultMaxAttempts,
		logger:      logging.NewComponentLogger(nil, "hashprefix"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = NewPrefixLengthCache(e.fetchPrefixLength)
	return e
}

// NewEngineFromConfig builds an engine from the [remote] config section.
func NewEngineFromConfig(cfg *config.Config, index Index, logger *slog.Logger) (*Engine, error) {
	alg, err := ParseAlgorithm(cfg.Remote.DigestAlgorithm)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "hashprefix", "configure engine", "", err)
	}
	return NewEngine(index,
		WithAlgorithm(alg),
		WithMaxAttempts(cfg.Remote.MaxPrefixAttempts),
		WithLogger(logger),
	), nil
}

// Cache exposes the engine's prefix-length cache.
func (e *Engine) Cache() *PrefixLengthCache {
	return e.cache
}

// Algorithm returns the digest primitive in use.
func (e *Engine) Algorithm() Algorithm {
	return e.algorithm
}

// PrefixLength returns the cached prefix length, fetching it when unset.
func (e *Engine) PrefixLength(ctx context.Context) (int, error) {
	return e.cache.Get(ctx)
}

// IsKnown reports whether the index holds a record for identifier. Only a
// digest prefix leaves the process.
func (e *Engine) IsKnown(ctx context.Context, identifier string) (bool, error) {
	digest := e.algorithm.Sum(identifier)
	logger := logging.WithContext(ctx, e.logger)

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		length, err := e.cache.Get(ctx)
		if err != nil {
			return false, err
		}
		prefix := digest[:min(length, len(digest))]

		resp, err := e.index.Range(ctx, prefix)
		if err != nil {
			return false, err
		}

		if resp.OK() {
			known := containsDigest(resp.Text(), digest, e.algorithm.HexLen())
			logger.Debug("range query answered",
				logging.String("prefix", prefix),
				logging.Int("attempt", attempt),
				logging.Bool("known", known))
			return known, nil
		}

		if isPrefixLengthRejection(resp) {
			e.cache.Invalidate()
			logger.Info("prefix length rejected; refetching",
				logging.String(logging.FieldEventType, "prefix_length_rejected"),
				logging.Int("prefix_length", length),
				logging.Int("attempt", attempt),
				logging.Int("max_attempts", e.maxAttempts))
			continue
		}

		return false, services.Wrap(services.ErrProtocol, "hashprefix", "range query",
			fmt.Sprintf("unhandled response status %d", resp.StatusCode), nil)
	}

	return false, services.Wrap(services.ErrProtocol, "hashprefix", "range query",
		fmt.Sprintf("prefix length still rejected after %d attempts", e.maxAttempts), nil)
}

func (e *Engine) fetchPrefixLength(ctx context.Context) (int, error) {
	resp, err := e.index.PrefixLength(ctx)
	if err != nil {
		return 0, err
	}
	if !resp.OK() {
		return 0, services.Wrap(services.ErrProtocol, "hashprefix", "prefix length",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	raw := strings.TrimSpace(resp.Text())
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.Wrap(services.ErrProtocol, "hashprefix", "prefix length",
			fmt.Sprintf("invalid value %q", raw), err)
	}
	if n <= 0 {
		return 0, services.Wrap(services.ErrProtocol, "hashprefix", "prefix length",
			fmt.Sprintf("non-positive value %d", n), nil)
	}
	e.logger.Debug("fetched prefix length", logging.Int("prefix_length", n))
	return n, nil
}

func isPrefixLengthRejection(resp metadataapi.Response) bool {
	return resp.StatusCode == http.StatusBadRequest && strings.Contains(resp.Text(), RejectionMessage)
}
