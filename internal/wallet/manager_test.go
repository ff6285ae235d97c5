package wallet_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/urwacli/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	issuerKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	issuerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	auditorAdr = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func watch(name string) *wallet.Wallet {
	return &wallet.Wallet{Name: name, Address: auditorAdr, Type: wallet.TypeWatchOnly}
}

func newManager(t *testing.T, names ...string) *wallet.Manager {
	t.Helper()
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	for _, n := range names {
		require.NoError(t, mgr.Add(n, watch(n)))
	}
	return mgr
}

func TestAddWatchOnly(t *testing.T) {
	mgr := newManager(t, "auditor")

	w, err := mgr.Get("auditor")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeWatchOnly, w.Type)
	assert.Empty(t, w.KeyRef)
	assert.NotEmpty(t, w.CreatedAt)

	assert.ErrorIs(t, mgr.Add("auditor", watch("auditor")), wallet.ErrWalletExists)
}

func TestAddWithKey(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, mgr.AddWithKey("issuer", issuerKey))

	w, err := mgr.Get("issuer")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, issuerAddr, w.Address)

	assert.Error(t, mgr.AddWithKey("broken", "not-a-valid-key"))
	assert.ErrorIs(t, mgr.AddWithKey("issuer", issuerKey), wallet.ErrWalletExists)
}

func TestListSortedByName(t *testing.T) {
	mgr := newManager(t, "treasury", "auditor", "compliance")

	var names []string
	for _, w := range mgr.List() {
		names = append(names, w.Name)
	}
	assert.Equal(t, []string{"auditor", "compliance", "treasury"}, names)
}

func TestRemove(t *testing.T) {
	mgr := newManager(t, "auditor")
	require.NoError(t, mgr.Remove("auditor"))

	_, err := mgr.Get("auditor")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	assert.ErrorIs(t, mgr.Remove("auditor"), wallet.ErrWalletNotFound)
}

func TestDefaultWallet(t *testing.T) {
	assert.Nil(t, newManager(t).Default())
	assert.Equal(t, "solo", newManager(t, "solo").Default().Name, "a lone wallet is the default")

	mgr := newManager(t, "auditor", "treasury")
	assert.Nil(t, mgr.Default(), "no implicit default among several")

	require.NoError(t, mgr.SetDefault("treasury"))
	assert.Equal(t, "treasury", mgr.Default().Name)
	assert.ErrorIs(t, mgr.SetDefault("ghost"), wallet.ErrWalletNotFound)
}

func TestGenerate(t *testing.T) {
	mgr := newManager(t)

	w, key, err := mgr.Generate("fresh")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Len(t, w.Address, 42)
	assert.True(t, strings.HasPrefix(key, "0x"))
	assert.Len(t, key, 66)
	assert.NotEmpty(t, w.CreatedAt)

	stored, err := mgr.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, w.Address, stored.Address)

	_, other, err := mgr.Generate("fresh-2")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, _, err = mgr.Generate("fresh")
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
}

func TestExportKey(t *testing.T) {
	mgr := newManager(t, "auditor")
	require.NoError(t, mgr.AddWithKey("issuer", issuerKey))

	got, err := mgr.ExportKey("issuer")
	require.NoError(t, err)
	assert.Equal(t, issuerKey, got)

	_, err = mgr.ExportKey("ghost")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)

	_, err = mgr.ExportKey("auditor")
	assert.ErrorContains(t, err, "watch-only")
}

func TestRemoveDeletesStoredKey(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithInMemoryStore(), wallet.WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("gone", "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"))

	w, err := mgr.Get("gone")
	require.NoError(t, err)
	require.NoError(t, mgr.Remove("gone"))

	_, err = ks.Retrieve(w.KeyRef)
	assert.Error(t, err)
}

func TestSignerForDefaultWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWithKey("main", "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"))

	s, err := mgr.Signer("")
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", s.Address().Hex())

	sig, err := s.SignMessage(context.Background(), "hello")
	require.NoError(t, err)
	recovered, err := wallet.RecoverSigner([]byte("hello"), sig)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), recovered)
}

func TestSignerNoDefault(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	_, err := mgr.Signer("")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)

	_, err = mgr.Signer("ghost")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestUnlockCachesKey(t *testing.T) {
	t.Setenv(wallet.SessionDirEnvVar, t.TempDir())
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	require.NoError(t, mgr.AddWithKey("u", "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"))

	assert.False(t, wallet.IsUnlocked("u"))
	require.NoError(t, mgr.Unlock("u"))
	assert.True(t, wallet.IsUnlocked("u"))
	require.NoError(t, wallet.ClearSession())
	assert.False(t, wallet.IsUnlocked("u"))
}
