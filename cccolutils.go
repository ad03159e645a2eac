package cccolutils

import (
	"github.com/sirupsen/logrus"
)

// Client answers credential questions using one Native backend.
type Client struct {
	native Native
}

// New returns a Client backed by n. A nil n selects Default().
func New(n Native) *Client {
	if n == nil {
		n = Default()
	}
	return &Client{native: n}
}

// HasCredentials checks if there is any authenticated user for any realm.
// It never fails; a missing or unreadable cache counts as no credentials.
func (c *Client) HasCredentials() bool {
	ok := c.native.HasCredentials() == 1
	log.WithFields(logrus.Fields{
		"op":     "has_credentials",
		"result": ok,
	}).Debug("Checked credential cache collection")
	return ok
}

// HasCredentialsForRealm checks if there is an authenticated user for realm.
//
// An error is returned only if realm cannot be encoded for the native call.
func (c *Client) HasCredentialsForRealm(realm string) (bool, error) {
	cs, err := EncodeRealm(realm)
	if err != nil {
		return false, err
	}
	ok := c.native.HasCredentialsForRealm(cs) == 1
	cs.KeepAlive()

	log.WithFields(logrus.Fields{
		"op":     "has_credentials_for_realm",
		"realm":  realm,
		"result": ok,
	}).Debug("Checked credential cache collection")
	return ok, nil
}

// Username looks up the authenticated user for realm and returns the
// two-variant result.
func (c *Client) Username(realm string) (Username, error) {
	cs, err := EncodeRealm(realm)
	if err != nil {
		return Absent(), err
	}
	h := c.native.UsernameForRealm(cs)
	cs.KeepAlive()

	u, err := Reclaim(c.native, h)
	if err != nil {
		return Absent(), err
	}
	log.WithFields(logrus.Fields{
		"op":      "username_for_realm",
		"realm":   realm,
		"present": u.IsPresent(),
	}).Debug("Looked up principal")
	return u, nil
}

// UsernameForRealm checks the name of the authenticated user for realm.
//
// It returns the name and true if there is an authenticated user, "" and
// false if there is none. Errors are returned only when a string conversion
// fails, in either direction.
func (c *Client) UsernameForRealm(realm string) (string, bool, error) {
	u, err := c.Username(realm)
	if err != nil {
		return "", false, err
	}
	name, ok := u.Get()
	return name, ok, nil
}

// HasCredentials checks if there is any authenticated user for any realm,
// using the default backend.
func HasCredentials() bool {
	return New(nil).HasCredentials()
}

// HasCredentialsForRealm checks if there is an authenticated user for realm,
// using the default backend.
func HasCredentialsForRealm(realm string) (bool, error) {
	return New(nil).HasCredentialsForRealm(realm)
}

// UsernameForRealm returns the authenticated user for realm, using the
// default backend.
//
//	name, ok, err := cccolutils.UsernameForRealm("FEDORAPROJECT.ORG")
func UsernameForRealm(realm string) (string, bool, error) {
	return New(nil).UsernameForRealm(realm)
}
