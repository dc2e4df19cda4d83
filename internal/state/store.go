package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/vapor/internal/vapor"
)

const (
	// FeaturedCount is how many catalog games lead the home screen.
	FeaturedCount = 8
	// RecentCount is how many games follow them in the recent row.
	RecentCount = 12
)

// Home is one successful load of the home screen data.
type Home struct {
	Games   []vapor.Game
	Lists   []vapor.List
	Profile *vapor.User
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Featured            []vapor.Game
	Recent              []vapor.Game
	Lists               []vapor.List
	Profile             vapor.User
	HasProfile          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the API has been unreachable for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Loaded reports whether any refresh has completed, successfully or not.
func (s Snapshot) Loaded() bool {
	return !s.LastUpdated.IsZero()
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(home *Home, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	var games []vapor.Game
	if home != nil {
		games = home.Games
		s.snapshot.Lists = clone(home.Lists)
		if home.Profile != nil {
			s.snapshot.Profile = *home.Profile
			s.snapshot.HasProfile = true
		} else {
			s.snapshot.Profile = vapor.User{}
			s.snapshot.HasProfile = false
		}
	}
	featured, recent := splitHome(games)
	s.snapshot.Featured = featured
	s.snapshot.Recent = recent
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// UpdateLists replaces only the lists, e.g. after one was created.
func (s *Store) UpdateLists(lists []vapor.List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Lists = clone(lists)
}

// Reset drops all data, e.g. after logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Featured = clone(s.snapshot.Featured)
	snap.Recent = clone(s.snapshot.Recent)
	snap.Lists = clone(s.snapshot.Lists)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// splitHome divides the first catalog page into the featured and recent rows.
func splitHome(games []vapor.Game) (featured, recent []vapor.Game) {
	n := len(games)
	featured = clone(games[:min(n, FeaturedCount)])
	if n > FeaturedCount {
		recent = clone(games[FeaturedCount:min(n, FeaturedCount+RecentCount)])
	}
	return featured, recent
}

func clone[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
