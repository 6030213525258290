package usecase

import (
	"sync"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// Sequencer orders load results so the last-initiated load wins.
// It is not locked; owners guard it with their own mutex.
type Sequencer struct {
	issued  uint64
	applied uint64
}

// Next issues a ticket for a load about to start.
func (s *Sequencer) Next() uint64 {
	s.issued++
	return s.issued
}

// Apply reports whether the result of ticket may replace local state, and
// records it as applied. Results of loads started before an applied one are stale.
func (s *Sequencer) Apply(ticket uint64) bool {
	if ticket <= s.applied {
		return false
	}
	s.applied = ticket
	return true
}

// Invalidate marks every load issued so far as stale. Owners call it after a
// local mutation so an older response cannot overwrite it.
func (s *Sequencer) Invalidate() {
	s.applied = s.issued
}

type refreshKey struct {
	userID  int64
	topicID int64
}

// RefreshGuard tracks outstanding refreshes per (user, topic). Topic 0 means
// "all topics" and is tracked separately from single-topic refreshes.
type RefreshGuard struct {
	mu       sync.Mutex
	inFlight map[refreshKey]struct{}
}

// Acquire marks the refresh as outstanding. It returns false if it already is;
// otherwise the caller must call the returned release func when done.
func (g *RefreshGuard) Acquire(userID, topicID int64) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == nil {
		g.inFlight = make(map[refreshKey]struct{})
	}
	key := refreshKey{userID: userID, topicID: topicID}
	if _, busy := g.inFlight[key]; busy {
		return nil, false
	}
	g.inFlight[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.inFlight, key)
		g.mu.Unlock()
	}, true
}

// InFlight reports whether the refresh is outstanding.
func (g *RefreshGuard) InFlight(userID, topicID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[refreshKey{userID: userID, topicID: topicID}]
	return busy
}

func requireSession(s curation.Session) error {
	if !s.Active() {
		return ErrNoSession
	}
	return nil
}
