package auth

import "sync"

// Session is proof of an authenticated identity: who is signed in right
// now. Absence (nil) means signed out. The cell below is the only writer.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// SessionCell is the process-wide observed session state: a single-owner
// cell with subscriber callbacks invoked on every transition
// (none → present, present → none, present → different present).
//
// Only the auth service mutates the cell; everything else observes. A Set
// that does not change the session (same user, same email) notifies nobody.
type SessionCell struct {
	mu      sync.Mutex
	current *Session
	subs    map[int]func(*Session)
	nextSub int
}

// NewSessionCell creates an empty (signed-out) cell.
func NewSessionCell() *SessionCell {
	return &SessionCell{subs: make(map[int]func(*Session))}
}

// Get returns the current session, or (nil, false) when signed out.
func (c *SessionCell) Get() (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, false
	}
	s := *c.current
	return &s, true
}

// Set replaces the session (nil to sign out) and notifies every subscriber
// of the transition. Callbacks run outside the lock, in registration-
// independent order, and receive a private copy.
func (c *SessionCell) Set(s *Session) {
	c.mu.Lock()
	if sameSession(c.current, s) {
		c.mu.Unlock()
		return
	}
	if s != nil {
		copied := *s
		c.current = &copied
	} else {
		c.current = nil
	}

	callbacks := make([]func(*Session), 0, len(c.subs))
	for _, fn := range c.subs {
		callbacks = append(callbacks, fn)
	}
	c.mu.Unlock()

	for _, fn := range callbacks {
		if s != nil {
			copied := *s
			fn(&copied)
		} else {
			fn(nil)
		}
	}
}

// Subscribe registers a callback for session transitions and returns its
// unsubscribe function. Unsubscribing twice is harmless.
func (c *SessionCell) Subscribe(fn func(*Session)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func sameSession(a, b *Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UserID == b.UserID && a.Email == b.Email
}
