package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	s := NewTokenStore(filepath.Join(t.TempDir(), "nested", "sessions.json"))
	s.now = func() time.Time { return storeNow }
	return s
}

func TestTokenKey(t *testing.T) {
	addr := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	assert.Equal(t, "localnet/0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", TokenKey("localnet", addr))
}

func TestTokenStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("localnet/0xabc", "0xdeadbeef", storeNow.Add(time.Hour)))

	tok, ok := s.Load("localnet/0xabc")
	require.True(t, ok)
	assert.Equal(t, "0xdeadbeef", tok)

	_, ok = s.Load("testnet/0xabc")
	assert.False(t, ok)
}

func TestTokenStoreExpired(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("k", "0x01", storeNow.Add(time.Minute)))

	s.now = func() time.Time { return storeNow.Add(time.Minute) }
	_, ok := s.Load("k")
	assert.False(t, ok)
}

func TestTokenStoreSaveDropsExpiredEntries(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("old", "0x01", storeNow.Add(time.Minute)))

	s.now = func() time.Time { return storeNow.Add(2 * time.Minute) }
	require.NoError(t, s.Save("new", "0x02", storeNow.Add(time.Hour)))

	assert.NotContains(t, s.read(), "old")
	assert.Contains(t, s.read(), "new")
}

func TestTokenStoreDelete(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("k", "0x01", storeNow.Add(time.Hour)))

	require.NoError(t, s.Delete("k"))
	_, ok := s.Load("k")
	assert.False(t, ok)

	assert.NoError(t, s.Delete("missing"))
}

func TestTokenStoreCorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o700))
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o600))

	_, ok := s.Load("k")
	assert.False(t, ok)
	assert.NoError(t, s.Save("k", "0x01", storeNow.Add(time.Hour)))
}

func TestTokenStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	s := newTestStore(t)
	require.NoError(t, s.Save("k", "0x01", storeNow.Add(time.Hour)))

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
