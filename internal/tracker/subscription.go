package tracker

import "sync"

// Subscription delivers tracker snapshots to one reader. Only the latest
// snapshot is kept; a slow reader skips intermediate ones.
type Subscription struct {
	C <-chan Snapshot

	ch   chan Snapshot
	t    *Tracker
	once sync.Once
}

// Subscribe registers a reader. The current snapshot is delivered
// immediately. Close releases the subscription.
func (t *Tracker) Subscribe() *Subscription {
	ch := make(chan Snapshot, 1)
	sub := &Subscription{C: ch, ch: ch, t: t}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs[sub] = struct{}{}
	sub.offer(t.snapshotLocked())
	return sub
}

// Close unregisters the subscription and closes C. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.t.mu.Lock()
		defer s.t.mu.Unlock()
		delete(s.t.subs, s)
		close(s.ch)
	})
}

// Subscribers returns the number of live subscriptions.
func (t *Tracker) Subscribers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}

func (t *Tracker) publishLocked() {
	if len(t.subs) == 0 {
		return
	}
	snap := t.snapshotLocked()
	for sub := range t.subs {
		sub.offer(snap)
	}
}

func (s *Subscription) offer(snap Snapshot) {
	select {
	case s.ch <- snap:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snap:
	default:
	}
}
