package cccolutils

import (
	"errors"
	"fmt"
)

var (
	// ErrEncoding is matched by every *EncodingError.
	ErrEncoding = errors.New("cccolutils: cannot encode string for native call")
	// ErrDecoding is matched by every *DecodingError.
	ErrDecoding = errors.New("cccolutils: cannot decode native string")
	// ErrHandleConsumed is returned when a ForeignString is reclaimed twice.
	ErrHandleConsumed = errors.New("cccolutils: foreign string already reclaimed")
)

// EncodingError reports a string that cannot be passed to native code
// because it contains a NUL byte.
type EncodingError struct {
	Offset int // index of the first NUL byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode string as C string: nul byte found at offset %d", e.Offset)
}

// Is reports whether target is ErrEncoding.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// DecodingError reports native bytes that are not valid UTF-8.
type DecodingError struct {
	Bytes []byte // Go-owned copy of the rejected bytes
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to decode char array: invalid utf-8 in %q", e.Bytes)
}

// Is reports whether target is ErrDecoding.
func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding
}
