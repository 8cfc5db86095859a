package split

import "sync"

// Store keeps the live split sessions, one per order.  A session lives only
// in memory: it is created when staff open the split screen and removed on
// commit or cancel.  The engine itself is single-threaded; the store's lock
// only guards the map against concurrent HTTP requests for different
// orders.
type Store struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[uint64]*Session)}
}

// Get returns the live session for an order, or nil when none exists.
func (st *Store) Get(orderID uint64) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[orderID]
}

// Put installs the session for its order, replacing any previous one.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.OrderID()] = s
}

// Remove discards the session for an order.
func (st *Store) Remove(orderID uint64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, orderID)
}
