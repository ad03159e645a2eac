package cccolutils

// Native is the narrow set of entry points a credential-cache backend offers.
//
// Implementations must return strings from UsernameForRealm in memory they
// own and accept them back, once, through Free. The integer results follow the
// C convention: 1 means yes, anything else means no.
type Native interface {
	// UsernameForRealm returns the principal name, without realm, of the
	// first cache whose principal belongs to realm, or nil if there is none.
	UsernameForRealm(realm CString) *ForeignString
	// Free releases a string returned by UsernameForRealm.
	Free(h *ForeignString)
	// HasCredentials returns 1 if any cache holds a non-config credential.
	HasCredentials() int
	// HasCredentialsForRealm returns 1 if a cache for realm holds an
	// unexpired non-config credential.
	HasCredentialsForRealm(realm CString) int
}

// Default returns the backend compiled for this platform: libkrb5 when built
// with cgo, gokrb5 otherwise.
func Default() Native {
	return defaultNative()
}
