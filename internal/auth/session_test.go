package auth

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

var testAccount = StaticAccount{
	Address: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
	ChainID: big.NewInt(23293),
}

type fakeSigner struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (s *fakeSigner) SignMessage(_ context.Context, msg string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	if s.err != nil {
		return nil, s.err
	}
	sig := make([]byte, 65)
	sig[64] = 0
	return sig, nil
}

type fakeContract struct {
	mu          sync.Mutex
	domain      string
	domainErr   error
	domainCalls int
	login       func(ctx context.Context, msg string, sig SignatureRSV) ([]byte, error)
	loginCalls  int
}

func (c *fakeContract) Domain(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.domainCalls++
	return c.domain, c.domainErr
}

func (c *fakeContract) Login(ctx context.Context, msg string, sig SignatureRSV) ([]byte, error) {
	c.mu.Lock()
	c.loginCalls++
	fn := c.login
	c.mu.Unlock()
	if fn == nil {
		return []byte{0xde, 0xad, 0xbe, 0xef}, nil
	}
	return fn(ctx, msg, sig)
}

func newTestManager(account Account, signer MessageSigner, c ContractAuthenticator, opts ...Option) *Manager {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return base })}, opts...)
	return NewManager(account, signer, c, "http://localhost", opts...)
}

func nonceOf(t *testing.T, msg string) string {
	t.Helper()
	for _, line := range strings.Split(msg, "\n") {
		if n, ok := strings.CutPrefix(line, "Nonce: "); ok {
			return n
		}
	}
	t.Fatalf("no nonce in message:\n%s", msg)
	return ""
}

// ---------------------------------------------------------------------------
// Authenticate
// ---------------------------------------------------------------------------

func TestAuthenticateSuccess(t *testing.T) {
	signer := &fakeSigner{}
	c := &fakeContract{domain: "urwa.example"}
	m := newTestManager(testAccount, signer, c)

	assert.Equal(t, StateIdle, m.State())
	assert.False(t, m.IsAuthenticated())

	token, err := m.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", token)
	assert.Equal(t, token, m.Token())
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, StateAuthenticated, m.State())

	snap := m.Snapshot()
	assert.Equal(t, "urwa.example", snap.Domain)
	assert.Len(t, snap.Signature, 65)
	assert.NoError(t, snap.Err)
	require.Len(t, signer.messages, 1)
	assert.Equal(t, signer.messages[0], snap.Message)
	assert.True(t, strings.HasPrefix(snap.Message, "urwa.example wants you to sign in with your Ethereum account:\n0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266\n"))
	assert.Contains(t, snap.Message, "Chain ID: 23293\n")
	assert.Contains(t, snap.Message, "Issued At: 2024-05-01T12:00:00.000Z\n")
	assert.Contains(t, snap.Message, "Expiration Time: 2024-05-01T13:00:00.000Z")
}

func TestAuthenticateWithTTL(t *testing.T) {
	m := newTestManager(testAccount, &fakeSigner{}, &fakeContract{domain: "urwa.example"}, WithTTL(15*time.Minute))

	_, err := m.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Contains(t, m.Snapshot().Message, "Expiration Time: 2024-05-01T12:15:00.000Z")
}

func TestAuthenticateSignatureSplitsRSV(t *testing.T) {
	var got SignatureRSV
	c := &fakeContract{domain: "d", login: func(_ context.Context, _ string, sig SignatureRSV) ([]byte, error) {
		got = sig
		return []byte{1}, nil
	}}
	m := newTestManager(testAccount, &fakeSigner{}, c)

	_, err := m.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(27), got.V.Int64())
}

func TestAuthenticateNotConnected(t *testing.T) {
	signer := &fakeSigner{}
	c := &fakeContract{domain: "d"}
	m := newTestManager(StaticAccount{}, signer, c)

	_, err := m.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, StateFailed, m.State())
	assert.ErrorIs(t, m.Snapshot().Err, ErrNotConnected)

	// Nothing was sent anywhere.
	assert.Zero(t, c.domainCalls)
	assert.Zero(t, c.loginCalls)
	assert.Empty(t, signer.messages)
}

func TestAuthenticateMissingChain(t *testing.T) {
	m := newTestManager(StaticAccount{Address: testAccount.Address}, &fakeSigner{}, &fakeContract{domain: "d"})
	_, err := m.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestAuthenticateDistinctNonces(t *testing.T) {
	signer := &fakeSigner{}
	m := newTestManager(testAccount, signer, &fakeContract{domain: "d"})

	_, err := m.Authenticate(context.Background())
	require.NoError(t, err)
	_, err = m.Authenticate(context.Background())
	require.NoError(t, err)

	require.Len(t, signer.messages, 2)
	assert.NotEqual(t, nonceOf(t, signer.messages[0]), nonceOf(t, signer.messages[1]))
}

func TestAuthenticateRegeneratesRepeatedNonce(t *testing.T) {
	seq := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	next := func() string {
		n := seq[0]
		seq = seq[1:]
		return n
	}
	signer := &fakeSigner{}
	m := newTestManager(testAccount, signer, &fakeContract{domain: "d"}, WithNonceSource(next))

	_, err := m.Authenticate(context.Background())
	require.NoError(t, err)
	_, err = m.Authenticate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "aaaaaaaa", nonceOf(t, signer.messages[0]))
	assert.Equal(t, "bbbbbbbb", nonceOf(t, signer.messages[1]))
}

func TestAuthenticateStuckNonceSourceFails(t *testing.T) {
	m := newTestManager(testAccount, &fakeSigner{}, &fakeContract{domain: "d"}, WithNonceSource(func() string { return "same1234" }))

	_, err := m.Authenticate(context.Background())
	require.NoError(t, err)
	_, err = m.Authenticate(context.Background())
	assert.ErrorContains(t, err, "nonce source keeps repeating")
	assert.Equal(t, StateFailed, m.State())
}

func TestAuthenticateDomainFetchedOnce(t *testing.T) {
	c := &fakeContract{domain: "d"}
	m := newTestManager(testAccount, &fakeSigner{}, c)

	_, _ = m.Authenticate(context.Background())
	_, _ = m.Authenticate(context.Background())
	assert.Equal(t, 1, c.domainCalls)
}

func TestAuthenticateDomainUnavailable(t *testing.T) {
	for name, c := range map[string]*fakeContract{
		"empty": {domain: ""},
		"error": {domainErr: errors.New("execution reverted")},
	} {
		t.Run(name, func(t *testing.T) {
			signer := &fakeSigner{}
			m := newTestManager(testAccount, signer, c)

			_, err := m.Authenticate(context.Background())
			assert.ErrorIs(t, err, ErrDomainUnavailable)
			assert.Equal(t, StateFailed, m.State())
			assert.Empty(t, signer.messages)
		})
	}
}

func TestAuthenticateSignatureRejected(t *testing.T) {
	c := &fakeContract{domain: "d"}
	m := newTestManager(testAccount, &fakeSigner{err: errors.New("user declined")}, c)

	_, err := m.Authenticate(context.Background())
	assert.ErrorIs(t, err, ErrSignatureRejected)
	assert.ErrorContains(t, err, "user declined")
	assert.Equal(t, StateFailed, m.State())
	assert.Zero(t, c.loginCalls)
	assert.False(t, m.IsAuthenticated())
}

func TestAuthenticateLoginRejected(t *testing.T) {
	cases := map[string]func(context.Context, string, SignatureRSV) ([]byte, error){
		"error": func(context.Context, string, SignatureRSV) ([]byte, error) { return nil, errors.New("invalid siwe") },
		"empty": func(context.Context, string, SignatureRSV) ([]byte, error) { return []byte{}, nil },
	}
	for name, login := range cases {
		t.Run(name, func(t *testing.T) {
			m := newTestManager(testAccount, &fakeSigner{}, &fakeContract{domain: "d", login: login})

			_, err := m.Authenticate(context.Background())
			assert.ErrorIs(t, err, ErrLoginRejected)
			assert.Equal(t, StateFailed, m.State())
			assert.Empty(t, m.Token())
		})
	}
}

func TestFailedAttemptClearsPreviousToken(t *testing.T) {
	c := &fakeContract{domain: "d"}
	m := newTestManager(testAccount, &fakeSigner{}, c)
	_, err := m.Authenticate(context.Background())
	require.NoError(t, err)

	c.login = func(context.Context, string, SignatureRSV) ([]byte, error) { return nil, errors.New("nope") }
	_, err = m.Authenticate(context.Background())
	require.Error(t, err)
	assert.False(t, m.IsAuthenticated())
}

// ---------------------------------------------------------------------------
// Generations
// ---------------------------------------------------------------------------

func TestStaleLoginDoesNotClobberNewerToken(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	c := &fakeContract{domain: "d"}
	c.login = func(context.Context, string, SignatureRSV) ([]byte, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return []byte{0xaa}, nil
		}
		return []byte{0xbb}, nil
	}
	m := newTestManager(testAccount, &fakeSigner{}, c)

	staleErr := make(chan error, 1)
	go func() {
		_, err := m.Authenticate(context.Background())
		staleErr <- err
	}()
	<-entered

	token, err := m.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xbb", token)

	close(release)
	assert.ErrorIs(t, <-staleErr, ErrSuperseded)
	assert.Equal(t, "0xbb", m.Token())
	assert.Equal(t, StateAuthenticated, m.State())
}

func TestClearDiscardsInFlightAttempt(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c := &fakeContract{domain: "d", login: func(context.Context, string, SignatureRSV) ([]byte, error) {
		close(entered)
		<-release
		return []byte{0x01}, nil
	}}
	m := newTestManager(testAccount, &fakeSigner{}, c)

	done := make(chan error, 1)
	go func() {
		_, err := m.Authenticate(context.Background())
		done <- err
	}()
	<-entered
	m.Clear()
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, StateIdle, m.State())
	assert.False(t, m.IsAuthenticated())
}

func TestClear(t *testing.T) {
	m := newTestManager(testAccount, &fakeSigner{}, &fakeContract{domain: "d"})
	_, err := m.Authenticate(context.Background())
	require.NoError(t, err)

	m.Clear()
	snap := m.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Token)
	assert.Empty(t, snap.Message)
	assert.Nil(t, snap.Signature)
	assert.Equal(t, "d", snap.Domain)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting-login", StateAwaitingLoginResponse.String())
	assert.Equal(t, "state(42)", State(42).String())
}
