package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/config"
	"github.com/five82/vapor/internal/logging"
	"github.com/five82/vapor/internal/prefs"
	"github.com/five82/vapor/internal/session"
	"github.com/five82/vapor/internal/state"
	"github.com/five82/vapor/internal/ui"
	"github.com/five82/vapor/internal/vapor"
)

// Options configure the Vapor application.
type Options struct {
	ConfigPath string
	// APIURL overrides the configured api_url when set.
	APIURL string
	// Verbose mirrors log output to stderr. Only useful outside the TUI.
	Verbose bool
}

// Runtime holds the dependencies shared by the TUI and the CLI commands.
type Runtime struct {
	Config   config.Config
	Logger   *zap.Logger
	Sessions *session.Store
	Client   *vapor.Client
	Prefs    prefs.Prefs

	sync func()
}

// Bootstrap loads configuration, opens the log and session files and builds the
// API client.
func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}

	logger, sync, err := logging.New(logging.Options{
		File:    cfg.LogFile,
		Level:   cfg.LogLevel,
		Console: opts.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	sessions := session.NewStore(cfg.SessionFile, logger.Named("session"))
	if err := sessions.Load(); err != nil {
		// A corrupt session file means logging in again, not refusing to start.
		logger.Warn("ignoring unreadable session", zap.String("path", cfg.SessionFile), zap.Error(err))
	}

	userPrefs, err := prefs.Load(cfg.PrefsFile)
	if err != nil {
		logger.Warn("using default preferences", zap.Error(err))
	}

	client, err := vapor.NewClient(cfg.APIURL, vapor.Options{
		Timeout: cfg.RequestTimeout,
		Tokens:  sessions,
		OnUnauthorized: func() {
			if err := sessions.Clear(); err != nil {
				logger.Warn("clear session failed", zap.Error(err))
			}
		},
		Logger: logger.Named("vapor"),
	})
	if err != nil {
		sync()
		return nil, fmt.Errorf("init vapor client: %w", err)
	}

	logger.Info("vapor starting",
		zap.String("api_url", client.BaseURL()),
		zap.String("config", cfg.Path),
		zap.Bool("logged_in", sessions.LoggedIn()),
	)

	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		Client:   client,
		Prefs:    userPrefs,
		sync:     sync,
	}, nil
}

// Account is the session store as the UI sees it. Signing in or out also
// drops the client's cached per-user responses.
func (r *Runtime) Account() ui.Sessions {
	return accountSessions{Store: r.Sessions, client: r.Client}
}

type accountSessions struct {
	*session.Store
	client *vapor.Client
}

func (a accountSessions) Save(token, email string) error {
	a.client.Forget()
	return a.Store.Save(token, email)
}

func (a accountSessions) Clear() error {
	a.client.Forget()
	return a.Store.Clear()
}

// Close flushes the logger.
func (r *Runtime) Close() {
	if r != nil && r.sync != nil {
		r.sync()
	}
}

// Run boots the Vapor TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := waitForAPI(ctx, rt.Client, rt.Config.WakeTimeout, os.Stderr, rt.Logger); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		// The UI shows the offline state and keeps retrying.
		rt.Logger.Warn("api not reachable, starting anyway", zap.Error(err))
		color.New(color.FgRed).Fprintf(os.Stderr, "API at %s is not answering: %v\n", rt.Client.BaseURL(), err)
	}

	store := &state.Store{}
	poller := NewPoller(store, rt.Client, rt.Sessions.LoggedIn, rt.Config.HomeRefresh, rt.Logger.Named("poller"))

	// Populate the store before the UI draws its first frame.
	_ = poller.Refresh(ctx)
	poller.Start(ctx)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    rt.Client,
		Store:     store,
		Sessions:  rt.Account(),
		Config:    &rt.Config,
		Refresher: poller,
		Logger:    rt.Logger.Named("ui"),
		Prefs:     rt.Prefs,
	})
}
