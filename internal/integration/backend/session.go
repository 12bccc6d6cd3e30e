// Package backend talks to the remote finance service on behalf of the signed-in user.
package backend

import "sync"

// Session holds the credential sent with every backend request.
type Session struct {
	mu             sync.RWMutex
	credential     string
	listeners      []func(credential string)
	onUnauthorized func()
}

// NewSession creates a Session seeded with credential, which may be empty.
func NewSession(credential string) *Session {
	return &Session{credential: credential}
}

// Credential returns the current credential.
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetCredential replaces the credential and tells listeners when it changed.
func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	if s.credential == credential {
		s.mu.Unlock()
		return
	}
	s.credential = credential
	listeners := append([]func(string){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(credential)
	}
}

// OnChange registers fn to run after every credential change.
func (s *Session) OnChange(fn func(credential string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// OnUnauthorized sets the callback run when the backend rejects the credential.
func (s *Session) OnUnauthorized(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUnauthorized = fn
}

func (s *Session) unauthorized() {
	s.mu.RLock()
	fn := s.onUnauthorized
	s.mu.RUnlock()

	if fn != nil {
		fn()
	}
}
