package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateSession points the session file at a temp dir and clears the
// in-process cache.
func isolateSession(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(SessionDirEnvVar, dir)
	t.Setenv(KeyEnvVar, "")
	require.NoError(t, ClearSession())
	return dir
}

func TestSessionActive(t *testing.T) {
	isolateSession(t)
	assert.False(t, SessionActive())

	require.NoError(t, PutSessionKey("urwacli.test", "0xdeadbeef"))
	assert.True(t, SessionActive())
}

func TestPutAndGetSessionKey(t *testing.T) {
	isolateSession(t)
	require.NoError(t, PutSessionKey("urwacli.mywallet", "0xprivatekey"))

	got, ok := GetSessionKey("urwacli.mywallet")
	assert.True(t, ok)
	assert.Equal(t, "0xprivatekey", got)

	_, ok = GetSessionKey("urwacli.nonexistent")
	assert.False(t, ok)
}

func TestPutSessionKeyOverwrites(t *testing.T) {
	isolateSession(t)
	require.NoError(t, PutSessionKey("urwacli.wallet1", "firstkey"))
	require.NoError(t, PutSessionKey("urwacli.wallet1", "secondkey"))

	got, _ := GetSessionKey("urwacli.wallet1")
	assert.Equal(t, "secondkey", got)
}

func TestRemoveSessionKey(t *testing.T) {
	isolateSession(t)
	require.NoError(t, PutSessionKey("urwacli.target", "k1"))
	require.NoError(t, PutSessionKey("urwacli.other", "k2"))

	RemoveSessionKey("urwacli.target")
	_, ok := GetSessionKey("urwacli.target")
	assert.False(t, ok)
	_, ok = GetSessionKey("urwacli.other")
	assert.True(t, ok)

	assert.NotPanics(t, func() { RemoveSessionKey("urwacli.ghost") })
}

func TestIsUnlocked(t *testing.T) {
	isolateSession(t)
	assert.False(t, IsUnlocked("mywallet"))
	require.NoError(t, PutSessionKey("urwacli.mywallet", "somekey"))
	assert.True(t, IsUnlocked("mywallet"))
}

func TestClearSession(t *testing.T) {
	isolateSession(t)
	require.NoError(t, ClearSession(), "clearing an empty session is fine")

	require.NoError(t, PutSessionKey("urwacli.a", "ka"))
	sessionCache.Store("urwacli.a", "ka")
	require.NoError(t, ClearSession())

	assert.False(t, SessionActive())
	_, cached := sessionCache.Load("urwacli.a")
	assert.False(t, cached)
}

func TestSessionFilePermissions(t *testing.T) {
	dir := isolateSession(t)
	require.NoError(t, PutSessionKey("urwacli.perm", "testkey"))

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	if info.Mode().Perm() != 0 { // Unix only
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestSessionFilePathDefault(t *testing.T) {
	t.Setenv(SessionDirEnvVar, "")
	assert.Contains(t, sessionFilePath(), filepath.Join("urwacli", "session.json"))
}

func TestLoadSessionKeysCorruptFile(t *testing.T) {
	dir := isolateSession(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{nope"), 0o600))

	m := loadSessionKeys()
	assert.NotNil(t, m)
	assert.Empty(t, m)
}
