package cccolutils

import (
	"bytes"
	"unicode/utf8"
	"unsafe"

	"github.com/sirupsen/logrus"
)

// noCopy lets go vet's copylocks check flag copies of the embedding struct.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// ForeignString is a NUL-terminated string allocated by a Native backend.
//
// The backend's allocator owns the memory until Reclaim copies it and calls
// Native.Free. A ForeignString must not be copied and can be reclaimed once.
// A nil *ForeignString means the backend found nothing.
type ForeignString struct {
	noCopy   noCopy
	p        unsafe.Pointer
	consumed bool
}

// NewForeignString wraps a pointer returned by native code. A nil pointer
// yields a nil *ForeignString, the absence sentinel.
func NewForeignString(p unsafe.Pointer) *ForeignString {
	if p == nil {
		return nil
	}
	return &ForeignString{p: p}
}

// Pointer returns the wrapped native pointer, or nil once reclaimed.
func (h *ForeignString) Pointer() unsafe.Pointer {
	if h == nil {
		return nil
	}
	return h.p
}

// Username is the result of a principal lookup: either present with a name,
// or absent. The zero value is absent.
type Username struct {
	name    string
	present bool
}

// Present returns a Username holding name.
func Present(name string) Username {
	return Username{name: name, present: true}
}

// Absent returns the absent Username.
func Absent() Username {
	return Username{}
}

// Get returns the name and whether it is present.
func (u Username) Get() (string, bool) {
	return u.name, u.present
}

// IsPresent reports whether a principal was found.
func (u Username) IsPresent() bool {
	return u.present
}

func (u Username) String() string {
	if !u.present {
		return "<absent>"
	}
	return u.name
}

// Reclaim turns a backend-allocated string into a Username and returns the
// buffer to n.
//
// A nil handle is the absence sentinel: Reclaim returns Absent and releases
// nothing. Any other handle is copied into Go memory and then released with
// n.Free exactly once, whether or not the bytes are valid UTF-8. Invalid
// bytes yield a *DecodingError. Reclaiming the same handle again returns
// ErrHandleConsumed without touching n.
func Reclaim(n Native, h *ForeignString) (Username, error) {
	if h == nil {
		return Absent(), nil
	}
	if h.consumed {
		return Absent(), ErrHandleConsumed
	}
	if h.p == nil {
		return Absent(), nil
	}

	b := copyCString(h.p)
	n.Free(h)
	h.p = nil
	h.consumed = true

	if !utf8.Valid(b) {
		log.WithFields(logrus.Fields{
			"op":       "reclaim",
			"length":   len(b),
			"released": true,
		}).Debug("Native string is not valid UTF-8")
		return Absent(), &DecodingError{Bytes: b}
	}
	return Present(string(b)), nil
}

// copyCString copies the bytes at p up to, not including, the first NUL.
func copyCString(p unsafe.Pointer) []byte {
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return bytes.Clone(unsafe.Slice((*byte)(p), n))
}
