package intake

import (
	"sync"
	"time"
)

type draft struct {
	wizard  *Wizard
	touched time.Time
}

// DraftStore keeps one Wizard per browser, keyed by a cookie id. Drafts idle
// for longer than the TTL are dropped by a background sweeper.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]*draft
	ttl    time.Duration
	now    func() time.Time
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once

	sweeping bool
}

// NewDraftStore starts the sweeper; call Close to stop it.
func NewDraftStore(ttl time.Duration) *DraftStore {
	s := newDraftStore(ttl, time.Now)
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	s.sweeping = true
	go s.sweepEvery(interval)
	return s
}

func newDraftStore(ttl time.Duration, now func() time.Time) *DraftStore {
	return &DraftStore{
		drafts: make(map[string]*draft),
		ttl:    ttl,
		now:    now,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Get returns the wizard for id, creating an empty one when none is live.
func (s *DraftStore) Get(id string) *Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		d = &draft{wizard: NewWizard()}
		s.drafts[id] = d
	}
	d.touched = s.now()
	return d.wizard
}

// Len reports the number of live drafts.
func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

func (s *DraftStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, d := range s.drafts {
		if d.touched.Before(cutoff) {
			delete(s.drafts, id)
			n++
		}
	}
	return n
}

func (s *DraftStore) sweepEvery(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// Close stops the sweeper and waits for it to exit.
func (s *DraftStore) Close() {
	s.once.Do(func() {
		close(s.stop)
		if s.sweeping {
			<-s.done
		}
	})
}
