// internal/store/subscribe.go
package store

// Subscribe returns a channel that receives a snapshot after every state
// change, and a function that ends the subscription and closes the channel.
// A subscriber that falls behind only sees the latest snapshot.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// notify publishes the current state to all subscribers without blocking.
// The snapshot and sends happen under the write lock so that a concurrent
// cancel cannot close a channel mid-send.
func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) == 0 {
		return
	}

	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
