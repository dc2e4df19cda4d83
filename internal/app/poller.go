package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/vapor/internal/state"
	"github.com/five82/vapor/internal/vapor"
)

const (
	defaultPollInterval = 5 * time.Minute
	retryBase           = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// homeLoader is the subset of the API the home screen needs.
type homeLoader interface {
	Games(ctx context.Context, query vapor.GameQuery) (vapor.GamesPage, error)
	Lists(ctx context.Context) ([]vapor.List, error)
	Me(ctx context.Context) (vapor.User, error)
}

// Poller keeps the home store fresh. It refreshes on a fixed interval while the
// API answers and retries with exponential backoff while it does not.
type Poller struct {
	store    *state.Store
	loader   homeLoader
	loggedIn func() bool
	interval time.Duration
	logger   *zap.Logger
	kick     chan struct{}

	mu       sync.Mutex
	failures int
}

// NewPoller returns a poller that is not yet running. loggedIn decides whether
// the user's lists and profile are fetched.
func NewPoller(store *state.Store, loader homeLoader, loggedIn func() bool, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if loggedIn == nil {
		loggedIn = func() bool { return false }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		store:    store,
		loader:   loader,
		loggedIn: loggedIn,
		interval: interval,
		logger:   logger,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the refresh loop and returns immediately. The first refresh
// happens after the first wait; call Refresh beforehand to load eagerly.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		for {
			timer := time.NewTimer(p.nextWait())
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-p.kick:
				timer.Stop()
			case <-timer.C:
			}
			_ = p.Refresh(ctx)
		}
	}()
}

// Kick asks the loop to refresh now. Kicks made while one is pending coalesce.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) nextWait() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		return calculateBackoff(p.failures, retryBase)
	}
	return p.interval
}

// Refresh loads the home data once and records the outcome in the store.
func (p *Poller) Refresh(ctx context.Context) error {
	home, err := p.load(ctx)

	p.mu.Lock()
	if err != nil {
		p.failures++
	} else {
		p.failures = 0
	}
	failures := p.failures
	p.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.store.Update(nil, err)
		p.logger.Warn("home refresh failed", zap.Error(err), zap.Int("failures", failures))
		return err
	}
	p.store.Update(home, nil)
	p.logger.Debug("home refreshed",
		zap.Int("games", len(home.Games)),
		zap.Int("lists", len(home.Lists)),
	)
	return nil
}

func (p *Poller) load(ctx context.Context) (*state.Home, error) {
	var home state.Home
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := p.loader.Games(gctx, vapor.GameQuery{})
		if err != nil {
			return err
		}
		home.Games = page.Data
		return nil
	})

	if p.loggedIn() {
		// A rejected session only costs the personal rows; the catalog still loads.
		g.Go(func() error {
			lists, err := p.loader.Lists(gctx)
			if errors.Is(err, vapor.ErrUnauthorized) {
				return nil
			}
			if err != nil {
				return err
			}
			home.Lists = lists
			return nil
		})
		g.Go(func() error {
			me, err := p.loader.Me(gctx)
			if errors.Is(err, vapor.ErrUnauthorized) {
				return nil
			}
			if err != nil {
				return err
			}
			home.Profile = &me
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}

// calculateBackoff doubles base for every consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures > 16 {
		failures = 16
	}
	backoff := base << failures
	if backoff > maxBackoff || backoff <= 0 {
		return maxBackoff
	}
	return backoff
}
