package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/config"
	"github.com/roach88/designrail/internal/generate"
	"github.com/roach88/designrail/internal/ident"
	"github.com/roach88/designrail/internal/schema"
	"github.com/roach88/designrail/internal/session"
	"github.com/roach88/designrail/internal/store"
)

// env is the state a command works against: configuration, the open
// database and a session loaded from it.
type env struct {
	cfg   *config.Config
	store *store.Store
	sess  *session.Session
}

// openEnv loads configuration, opens the database and loads the rail.
// Failures are reported through f and returned as ExitErrors.
func openEnv(ctx context.Context, opts *RootOptions, f *OutputFormatter) (*env, error) {
	logger := opts.log()

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, err)
	}

	gen, err := buildGenerator(ctx, opts, cfg)
	if err != nil {
		st.Close()
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	sessOpts := []session.Option{session.WithLogger(logger)}
	if opts.IDs != nil {
		sessOpts = append(sessOpts, session.WithIDs(opts.IDs))
	}
	if opts.Clock != nil {
		sessOpts = append(sessOpts, session.WithClock(opts.Clock))
	}
	sess := session.New(st, gen, sessOpts...)

	if _, err := sess.Load(ctx); err != nil {
		st.Close()
		return nil, f.Fail(ExitCommandError, ErrCodeStore, err)
	}
	f.VerboseLog("Loaded %d decision(s) from %s", sess.Rail().Len(), cfg.Database)

	return &env{cfg: cfg, store: st, sess: sess}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error closing database: %v\n", err)
	}
}

// buildGenerator returns the injected generator, a Gemini generator when an
// API key is configured, or nil (canned cards only).
func buildGenerator(ctx context.Context, opts *RootOptions, cfg *config.Config) (generate.Generator, error) {
	if opts.Generator != nil {
		return opts.Generator, nil
	}
	if cfg.APIKey == "" {
		opts.log().Debug("no API key configured; refine and fork are unavailable")
		return nil, nil
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("load card schemas: %w", err)
	}
	var ids ident.Generator = ident.UUIDv7Generator{}
	if opts.IDs != nil {
		ids = opts.IDs
	}
	return generate.NewGeminiGenerator(ctx, cfg.APIKey, generate.NewFinisher(validator, ids),
		generate.WithModel(cfg.Model),
		generate.WithLogger(opts.log()),
	)
}

// readCard loads a card from a JSON file, as written by next --save.
func readCard(path string) (card.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card file: %w", err)
	}
	c, err := card.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// writeCard saves a card as JSON so later commands can refer to it.
func writeCard(path string, c card.Card) error {
	data, err := card.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write card file: %w", err)
	}
	return nil
}
