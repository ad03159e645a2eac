package cccolutils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogger_RecordsBoundaryCrossings(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	SetLogger(logger)
	t.Cleanup(func() { SetLogger(nil) })

	c := New(newFakeNative().withUser("EXAMPLE.ORG", []byte("jdoe")))

	_, _, err := c.UsernameForRealm("EXAMPLE.ORG")
	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "username_for_realm", entry.Data["op"])
	assert.Equal(t, "EXAMPLE.ORG", entry.Data["realm"])
	assert.Equal(t, true, entry.Data["present"])

	hook.Reset()
	_, err = c.HasCredentialsForRealm("EXAMPLE.COM")
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, false, hook.LastEntry().Data["result"])
}

func TestSetLogger_DecodeFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	SetLogger(logger)
	t.Cleanup(func() { SetLogger(nil) })

	_, err := New(newFakeNative().withUser("EXAMPLE.ORG", []byte{0xff})).Username("EXAMPLE.ORG")
	require.ErrorIs(t, err, ErrDecoding)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "reclaim", entry.Data["op"])
	assert.Equal(t, true, entry.Data["released"])
}

func TestSetLogger_NilDiscards(t *testing.T) {
	logger, hook := test.NewNullLogger()
	SetLogger(logger)
	SetLogger(nil)

	New(newFakeNative()).HasCredentials()
	assert.Empty(t, hook.AllEntries())
}
