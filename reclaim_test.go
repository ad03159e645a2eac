package cccolutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReclaim_AbsentSentinel(t *testing.T) {
	f := newFakeNative()

	u, err := Reclaim(f, nil)
	require.NoError(t, err)
	assert.False(t, u.IsPresent())
	assert.Equal(t, Absent(), u)

	u, err = Reclaim(f, &ForeignString{})
	require.NoError(t, err)
	assert.False(t, u.IsPresent())

	allocs, frees, strays, _ := f.counts()
	assert.Zero(t, allocs)
	assert.Zero(t, frees)
	assert.Zero(t, strays)
}

func TestNewForeignString_NilPointerIsAbsent(t *testing.T) {
	assert.Nil(t, NewForeignString(nil))

	var h *ForeignString
	assert.Nil(t, h.Pointer())
}

func TestReclaim_Present(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"simple", "jdoe"},
		{"instance", "jdoe/admin"},
		{"unicode", "jörg"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeNative().withUser("EXAMPLE.COM", []byte(tt.raw))
			cs, err := EncodeRealm("EXAMPLE.COM")
			require.NoError(t, err)

			h := f.UsernameForRealm(cs)
			require.NotNil(t, h)

			u, err := Reclaim(f, h)
			require.NoError(t, err)

			name, ok := u.Get()
			assert.True(t, ok)
			assert.Equal(t, tt.raw, name)
			assert.Nil(t, h.Pointer(), "handle must be cleared after release")

			allocs, frees, strays, live := f.counts()
			assert.Equal(t, 1, allocs)
			assert.Equal(t, 1, frees)
			assert.Zero(t, strays)
			assert.Zero(t, live)
		})
	}
}

func TestReclaim_InvalidUTF8ReleasesOnce(t *testing.T) {
	raw := []byte{'j', 0xff, 0xfe, 'e'}
	f := newFakeNative().withUser("EXAMPLE.COM", raw)
	cs, err := EncodeRealm("EXAMPLE.COM")
	require.NoError(t, err)

	h := f.UsernameForRealm(cs)
	u, err := Reclaim(f, h)
	require.Error(t, err)
	assert.False(t, u.IsPresent())
	assert.True(t, errors.Is(err, ErrDecoding))

	var decErr *DecodingError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, raw, decErr.Bytes)

	allocs, frees, strays, live := f.counts()
	assert.Equal(t, 1, allocs)
	assert.Equal(t, 1, frees)
	assert.Zero(t, strays)
	assert.Zero(t, live)
}

func TestReclaim_SecondReclaimIsRejected(t *testing.T) {
	f := newFakeNative().withUser("EXAMPLE.COM", []byte("jdoe"))
	cs, err := EncodeRealm("EXAMPLE.COM")
	require.NoError(t, err)

	h := f.UsernameForRealm(cs)
	_, err = Reclaim(f, h)
	require.NoError(t, err)

	u, err := Reclaim(f, h)
	assert.ErrorIs(t, err, ErrHandleConsumed)
	assert.False(t, u.IsPresent())

	_, frees, strays, _ := f.counts()
	assert.Equal(t, 1, frees)
	assert.Zero(t, strays)
}

func TestReclaim_DecodedStringOutlivesBuffer(t *testing.T) {
	f := newFakeNative().withUser("EXAMPLE.COM", []byte("jdoe"))
	cs, err := EncodeRealm("EXAMPLE.COM")
	require.NoError(t, err)

	h := f.UsernameForRealm(cs)
	buf := f.live[h.Pointer()]

	u, err := Reclaim(f, h)
	require.NoError(t, err)

	// Scribble over the released buffer; the reclaimed name must not change.
	for i := range buf {
		buf[i] = 'X'
	}
	assert.Equal(t, "jdoe", u.String())
}

func TestUsername_String(t *testing.T) {
	assert.Equal(t, "<absent>", Absent().String())
	assert.Equal(t, "jdoe", Present("jdoe").String())
	assert.True(t, Present("").IsPresent())
}
