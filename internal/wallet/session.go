package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SessionDirEnvVar overrides the directory of the unlocked-key cache.
const SessionDirEnvVar = "URWACLI_SESSION_DIR"

// sessionFilePath returns the per-user unlocked-key cache file, created
// with 0600 permissions.
//
//	macOS:   ~/Library/Caches/urwacli/session.json
//	Linux:   ~/.cache/urwacli/session.json
//	Windows: %LocalAppData%\urwacli\session.json
func sessionFilePath() string {
	if dir := os.Getenv(SessionDirEnvVar); dir != "" {
		return filepath.Join(dir, "session.json")
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, keychainService, "session.json")
}

// loadSessionKeys returns the cached key map, never nil.
func loadSessionKeys() map[string]string {
	data, err := os.ReadFile(sessionFilePath())
	if err != nil {
		return make(map[string]string)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]string)
	}
	return m
}

func saveSessionKeys(m map[string]string) error {
	path := sessionFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// GetSessionKey returns a cached key for ref.
func GetSessionKey(ref string) (string, bool) {
	v, ok := loadSessionKeys()[ref]
	return v, ok
}

// IsUnlocked reports whether wallet name has a cached key.
func IsUnlocked(name string) bool {
	_, ok := GetSessionKey(keychainService + "." + name)
	return ok
}

// PutSessionKey caches a key for ref.
func PutSessionKey(ref, hexKey string) error {
	m := loadSessionKeys()
	m[ref] = hexKey
	return saveSessionKeys(m)
}

// RemoveSessionKey evicts ref from the cache.
func RemoveSessionKey(ref string) {
	m := loadSessionKeys()
	if _, ok := m[ref]; !ok {
		return
	}
	delete(m, ref)
	_ = saveSessionKeys(m)
}

// ClearSession forgets every cached key.
func ClearSession() error {
	sessionCache.Range(func(k, _ any) bool {
		sessionCache.Delete(k)
		return true
	})
	err := os.Remove(sessionFilePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SessionActive reports whether any key is cached.
func SessionActive() bool {
	return len(loadSessionKeys()) > 0
}
