//go:build !cgo || windows || darwin
// +build !cgo windows darwin

package cccolutils

func defaultNative() Native {
	return NewGoNative()
}
