package cccolutils

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Client against a fake backend
// ============================================================================

func TestClient_HasCredentials(t *testing.T) {
	f := newFakeNative()
	c := New(f)
	assert.False(t, c.HasCredentials())

	f.any = true
	assert.True(t, c.HasCredentials())
}

func TestClient_HasCredentialsForRealm(t *testing.T) {
	f := newFakeNative().withUser("FEDORAPROJECT.ORG", []byte("jdoe"))
	c := New(f)

	ok, err := c.HasCredentialsForRealm("FEDORAPROJECT.ORG")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.HasCredentialsForRealm("EXAMPLE.COM")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_UsernameForRealm(t *testing.T) {
	f := newFakeNative().withUser("FEDORAPROJECT.ORG", []byte("jdoe"))
	c := New(f)

	name, ok, err := c.UsernameForRealm("FEDORAPROJECT.ORG")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jdoe", name)

	name, ok, err = c.UsernameForRealm("EXAMPLE.COM")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)

	allocs, frees, strays, live := f.counts()
	assert.Equal(t, 1, allocs)
	assert.Equal(t, 1, frees)
	assert.Zero(t, strays)
	assert.Zero(t, live)
}

func TestClient_EncodingErrorSkipsNativeCall(t *testing.T) {
	f := newFakeNative().withUser("EXAMPLE.COM", []byte("jdoe"))
	c := New(f)

	ok, err := c.HasCredentialsForRealm("EXAMPLE.COM\x00")
	assert.ErrorIs(t, err, ErrEncoding)
	assert.False(t, ok)

	name, present, err := c.UsernameForRealm("\x00EXAMPLE.COM")
	assert.ErrorIs(t, err, ErrEncoding)
	assert.False(t, present)
	assert.Empty(t, name)

	assert.Zero(t, f.calls)
	assert.Empty(t, f.realms)
}

func TestClient_DecodingError(t *testing.T) {
	f := newFakeNative().withUser("EXAMPLE.COM", []byte{0xc3, 0x28})
	c := New(f)

	name, ok, err := c.UsernameForRealm("EXAMPLE.COM")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecoding))
	assert.False(t, ok)
	assert.Empty(t, name)

	_, frees, strays, live := f.counts()
	assert.Equal(t, 1, frees)
	assert.Zero(t, strays)
	assert.Zero(t, live)
}

func TestClient_PassesRealmVerbatim(t *testing.T) {
	f := newFakeNative()
	c := New(f)

	_, _, err := c.UsernameForRealm("Mixed.Case.Realm")
	require.NoError(t, err)
	_, err = c.HasCredentialsForRealm("")
	require.NoError(t, err)

	assert.Equal(t, []string{"Mixed.Case.Realm", ""}, f.realms)
}

func TestClient_NoLeaksUnderConcurrentLookups(t *testing.T) {
	f := newFakeNative().
		withUser("A.EXAMPLE", []byte("alice")).
		withUser("B.EXAMPLE", []byte("bob")).
		withUser("BAD.EXAMPLE", []byte{0xff})
	c := New(f)

	realms := []string{"A.EXAMPLE", "B.EXAMPLE", "BAD.EXAMPLE", "NONE.EXAMPLE"}

	const workers = 8
	const rounds = 250

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				realm := realms[(w+i)%len(realms)]
				_, _, _ = c.UsernameForRealm(realm)
			}
		}(w)
	}
	wg.Wait()

	allocs, frees, strays, live := f.counts()
	assert.Equal(t, workers*rounds*3/4, allocs)
	assert.Equal(t, allocs, frees)
	assert.Zero(t, strays)
	assert.Zero(t, live)
}

func TestNew_NilSelectsDefault(t *testing.T) {
	c := New(nil)
	require.NotNil(t, c.native)
}

// ============================================================================
// Default backend (real credential cache of the test environment)
// ============================================================================

func TestHasCredentials_NeverFails(t *testing.T) {
	// Either answer is fine; the call must simply return.
	if HasCredentials() {
		t.Log("Successfully checked for valid credentials.")
	} else {
		t.Log("Successfully checked for no valid credentials.")
	}
}

func TestHasCredentialsForRealm_FromEnv(t *testing.T) {
	realm := os.Getenv("REALM")
	if realm == "" {
		t.Skip("No realm specified.")
	}

	ok, err := HasCredentialsForRealm(realm)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasCredentialsForRealm_ExampleCom(t *testing.T) {
	// nobody should have a kerberos ticket for example.com
	ok, err := HasCredentialsForRealm("EXAMPLE.COM")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsernameForRealm_FromEnv(t *testing.T) {
	realm, user := os.Getenv("REALM"), os.Getenv("KUSER")
	if realm == "" || user == "" {
		t.Skip("No realm and username specified.")
	}

	name, ok, err := UsernameForRealm(realm)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, user, name)
}

func TestUsernameForRealm_ExampleCom(t *testing.T) {
	name, ok, err := UsernameForRealm("EXAMPLE.COM")
	require.NoError(t, err)
	assert.False(t, ok, fmt.Sprintf("unexpected principal %q", name))
}

func TestUsernameForRealm_NulRealm(t *testing.T) {
	_, _, err := UsernameForRealm("EXAMPLE.COM\x00evil")
	assert.ErrorIs(t, err, ErrEncoding)
}
