package cccolutils

import (
	"sync"
	"unsafe"
)

// fakeNative is an in-memory Native that counts every allocation and
// release, so tests can check the exactly-once contract.
type fakeNative struct {
	mu sync.Mutex

	any    bool
	authed map[string]bool
	users  map[string][]byte // raw bytes, may be invalid UTF-8
	live   map[unsafe.Pointer][]byte
	realms []string
	calls  int
	allocs int
	frees  int
	strays int
}

func newFakeNative() *fakeNative {
	return &fakeNative{
		authed: make(map[string]bool),
		users:  make(map[string][]byte),
		live:   make(map[unsafe.Pointer][]byte),
	}
}

func (f *fakeNative) withUser(realm string, raw []byte) *fakeNative {
	f.users[realm] = raw
	f.authed[realm] = true
	f.any = true
	return f
}

func (f *fakeNative) UsernameForRealm(realm CString) *ForeignString {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.realms = append(f.realms, realm.String())
	raw, ok := f.users[realm.String()]
	if !ok {
		return nil
	}
	b := append(append([]byte{}, raw...), 0)
	p := unsafe.Pointer(&b[0])
	f.live[p] = b
	f.allocs++
	return NewForeignString(p)
}

func (f *fakeNative) Free(h *ForeignString) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := h.Pointer()
	if _, ok := f.live[p]; !ok {
		f.strays++
		return
	}
	delete(f.live, p)
	f.frees++
}

func (f *fakeNative) HasCredentials() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.any {
		return 1
	}
	return 0
}

func (f *fakeNative) HasCredentialsForRealm(realm CString) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.realms = append(f.realms, realm.String())
	if f.authed[realm.String()] {
		return 1
	}
	return 0
}

func (f *fakeNative) counts() (allocs, frees, strays, live int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.allocs, f.frees, f.strays, len(f.live)
}
