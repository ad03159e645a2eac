package main

import (
	"sync"
	"unsafe"

	"cccolutils"
)

// stubNative is an in-memory credential cache collection
type stubNative struct {
	mu     sync.Mutex
	any    bool
	authed map[string]bool
	users  map[string]string
	live   map[unsafe.Pointer][]byte
}

func newStubNative() *stubNative {
	return &stubNative{
		authed: make(map[string]bool),
		users:  make(map[string]string),
		live:   make(map[unsafe.Pointer][]byte),
	}
}

// login records an unexpired ticket for user@realm
func (s *stubNative) login(realm, user string) *stubNative {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.any = true
	s.authed[realm] = true
	s.users[realm] = user
	return s
}

// expire keeps the principal but drops the realm's usable tickets
func (s *stubNative) expire(realm string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authed[realm] = false
}

func (s *stubNative) destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.any = false
	s.authed = make(map[string]bool)
	s.users = make(map[string]string)
}

func (s *stubNative) outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *stubNative) UsernameForRealm(realm cccolutils.CString) *cccolutils.ForeignString {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.users[realm.String()]
	if !ok {
		return nil
	}
	b := append([]byte(name), 0)
	p := unsafe.Pointer(&b[0])
	s.live[p] = b
	return cccolutils.NewForeignString(p)
}

func (s *stubNative) Free(h *cccolutils.ForeignString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, h.Pointer())
}

func (s *stubNative) HasCredentials() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.any {
		return 1
	}
	return 0
}

func (s *stubNative) HasCredentialsForRealm(realm cccolutils.CString) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authed[realm.String()] {
		return 1
	}
	return 0
}
