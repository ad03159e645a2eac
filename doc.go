// Package cccolutils provides convenience functions for checking for valid
// Kerberos credentials in the credential cache collection.
//
// It answers three questions: whether any valid credential exists, whether a
// valid credential exists for a given realm, and which principal owns the
// credential for a given realm. The credential cache itself is read by a
// native backend: libkrb5 through cgo, or gokrb5 when cgo is unavailable.
//
// Strings crossing into the backend are encoded by EncodeRealm. Strings coming
// back are owned by the backend's allocator until Reclaim copies them and
// hands them back through Native.Free, exactly once.
//
// The package keeps no state between calls. Every function is safe for
// concurrent use as long as the backend is; the libkrb5 backend opens a fresh
// krb5_context for each call.
package cccolutils
