package cccolutils

import (
	"runtime"
	"strings"
	"unsafe"
)

// CString is a NUL-terminated copy of a Go string, allocated and owned by Go.
//
// It is only valid for the native call it is passed to. Backends must keep
// it reachable until the call returns, for example with runtime.KeepAlive.
type CString struct {
	b []byte
}

// EncodeRealm converts s into a CString. It fails with an *EncodingError if s
// contains a NUL byte, since the native side would silently truncate it.
func EncodeRealm(s string) (CString, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return CString{}, &EncodingError{Offset: i}
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return CString{b: b}, nil
}

// Bytes returns the encoded bytes without the terminator.
func (s CString) Bytes() []byte {
	if len(s.b) == 0 {
		return nil
	}
	return s.b[:len(s.b)-1:len(s.b)-1]
}

// String returns the encoded text without the terminator.
func (s CString) String() string {
	return string(s.Bytes())
}

// Pointer returns the address of the first byte, or nil for the zero CString.
func (s CString) Pointer() unsafe.Pointer {
	if len(s.b) == 0 {
		return nil
	}
	return unsafe.Pointer(&s.b[0])
}

// KeepAlive marks the buffer as reachable up to this point.
func (s CString) KeepAlive() {
	runtime.KeepAlive(s.b)
}
