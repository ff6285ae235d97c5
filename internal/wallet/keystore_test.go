package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// normaliseHexKey
// ---------------------------------------------------------------------------

func TestNormaliseHexKey(t *testing.T) {
	cases := map[string]string{
		"0xabc123":  "abc123",
		"0Xabc123":  "abc123",
		"abc123":    "abc123",
		"  0xabc  ": "abc",
		"0x":        "",
		"":          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normaliseHexKey(in), in)
	}
}

// ---------------------------------------------------------------------------
// Keystore.Retrieve lookup order
// ---------------------------------------------------------------------------

func TestKeystoreRetrieveEnvVarOverride(t *testing.T) {
	isolateSession(t)
	t.Setenv(KeyEnvVar, "0x"+testPrivKeyHex)

	ks := &Keystore{ring: nil}
	got, err := ks.Retrieve("urwacli.any-ref")
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)
}

func TestKeystoreRetrieveFromSessionFile(t *testing.T) {
	isolateSession(t)
	require.NoError(t, PutSessionKey("urwacli.sessionwallet", "0xsessionkey"))

	ks := &Keystore{ring: nil}
	got, err := ks.Retrieve("urwacli.sessionwallet")
	require.NoError(t, err)
	assert.Equal(t, "0xsessionkey", got)

	// Now served from the in-process cache.
	_, cached := sessionCache.Load("urwacli.sessionwallet")
	assert.True(t, cached)
}

func TestKeystoreRetrieveNilRingNoSession(t *testing.T) {
	isolateSession(t)
	ks := &Keystore{ring: nil}
	_, err := ks.Retrieve("urwacli.ghost")
	assert.ErrorContains(t, err, "keystore not available")
}

func TestKeystoreStoreNilRingUsesProcessCache(t *testing.T) {
	isolateSession(t)
	ks := &Keystore{ring: nil}

	ref, err := ks.Store("temp", "0xkey")
	require.NoError(t, err)
	assert.Equal(t, "urwacli.temp", ref)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, "0xkey", got)
}

func TestFileKeystoreRoundTrip(t *testing.T) {
	isolateSession(t)
	ks := testKeystore(t)

	ref, err := ks.Store("filewallet", testPrivKeyHex)
	require.NoError(t, err)
	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, got)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
	assert.NoError(t, ks.Delete(ref), "deleting twice is fine")
}

// ---------------------------------------------------------------------------
// Keystore.Delete clears every cache
// ---------------------------------------------------------------------------

func TestKeystoreDeleteClearsCaches(t *testing.T) {
	isolateSession(t)
	require.NoError(t, PutSessionKey("urwacli.todelete", "somekey"))
	sessionCache.Store("urwacli.todelete", "somekey")

	ks := &Keystore{ring: nil}
	require.NoError(t, ks.Delete("urwacli.todelete"))

	_, ok := GetSessionKey("urwacli.todelete")
	assert.False(t, ok)
	_, inCache := sessionCache.Load("urwacli.todelete")
	assert.False(t, inCache)
}

func TestRemoveWalletWithMissingKeyFile(t *testing.T) {
	isolateSession(t)
	dir := t.TempDir()
	ks, err := NewFileKeystore(dir, keyring.FixedStringPrompt("testpass"))
	require.NoError(t, err)

	mgr := NewManager(WithStore(&memStore{}), WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("orphan", testPrivKeyHex))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		require.NoError(t, os.Remove(filepath.Join(dir, e.Name())))
	}

	require.NoError(t, mgr.Remove("orphan"))
	_, err = mgr.Get("orphan")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

// ---------------------------------------------------------------------------
// InMemoryKeystore
// ---------------------------------------------------------------------------

func TestInMemoryKeystore(t *testing.T) {
	iks := NewInMemoryKeystore()

	ref, err := iks.Store("mykey", "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "urwacli.mykey", ref)

	val, err := iks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", val)

	_, err = iks.Store("mykey", "0xdef")
	require.NoError(t, err)
	val, _ = iks.Retrieve(ref)
	assert.Equal(t, "0xdef", val)

	require.NoError(t, iks.Delete(ref))
	_, err = iks.Retrieve(ref)
	assert.ErrorContains(t, err, "key not found")
	assert.NoError(t, iks.Delete("urwacli.ghost"))
}
