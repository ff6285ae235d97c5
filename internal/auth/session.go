// Package auth drives the Sign-In with Ethereum handshake against a contract
// and holds the resulting bearer token.
package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/logger"
	"github.com/Mohsinsiddi/urwacli/internal/metrics"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrNotConnected      = errors.New("wallet not connected")
	ErrDomainUnavailable = errors.New("unable to retrieve domain from contract")
	ErrSignatureRejected = errors.New("signature rejected")
	ErrLoginRejected     = errors.New("login rejected")
	ErrSuperseded        = errors.New("authentication attempt superseded")
)

// DefaultTTL is how long a challenge message stays valid.
const DefaultTTL = time.Hour

// State is a step of the handshake.
type State int

const (
	StateIdle State = iota
	StateAwaitingDomain
	StateAwaitingSignature
	StateAwaitingLoginResponse
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDomain:
		return "awaiting-domain"
	case StateAwaitingSignature:
		return "awaiting-signature"
	case StateAwaitingLoginResponse:
		return "awaiting-login"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Account reports the connected account and its chain. ok is false when no
// account is connected.
type Account interface {
	Account() (addr common.Address, chainID *big.Int, ok bool)
}

// MessageSigner produces an EIP-191 personal signature over msg.
type MessageSigner interface {
	SignMessage(ctx context.Context, msg string) ([]byte, error)
}

// ContractAuthenticator is the contract side of the handshake.
type ContractAuthenticator interface {
	Domain(ctx context.Context) (string, error)
	Login(ctx context.Context, msg string, sig SignatureRSV) ([]byte, error)
}

// StaticAccount is an Account with a fixed address and chain.
type StaticAccount struct {
	Address common.Address
	ChainID *big.Int
}

func (a StaticAccount) Account() (common.Address, *big.Int, bool) {
	ok := a.Address != (common.Address{}) && a.ChainID != nil && a.ChainID.Sign() > 0
	return a.Address, a.ChainID, ok
}

// Session is a snapshot of the handshake state.
type Session struct {
	Domain    string
	Message   string
	Signature []byte
	Token     string
	State     State
	Err       error
}

// Manager owns the single active session. Every attempt is tagged with a
// generation; results from an attempt whose generation is no longer current
// are dropped.
type Manager struct {
	account  Account
	signer   MessageSigner
	contract ContractAuthenticator
	uri      string
	ttl      time.Duration
	now      func() time.Time
	nonce    func() string
	log      logger.Logger
	metrics  metrics.Recorder

	mu         sync.Mutex
	session    Session
	generation uint64
	lastNonce  string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(m *Manager) { m.log = logger.OrNoop(l) } }

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(m *Manager) { m.metrics = metrics.OrNoop(r) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithNonceSource overrides NewNonce.
func WithNonceSource(f func() string) Option { return func(m *Manager) { m.nonce = f } }

// WithTTL sets the challenge lifetime.
func WithTTL(d time.Duration) Option { return func(m *Manager) { m.ttl = d } }

// NewManager creates a Manager. uri is the origin placed in the challenge.
func NewManager(account Account, signer MessageSigner, contract ContractAuthenticator, uri string, opts ...Option) *Manager {
	m := &Manager{
		account:  account,
		signer:   signer,
		contract: contract,
		uri:      uri,
		ttl:      DefaultTTL,
		now:      time.Now,
		nonce:    NewNonce,
		log:      logger.NoopLogger{},
		metrics:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Authenticate runs one full handshake and returns the token.
func (m *Manager) Authenticate(ctx context.Context) (string, error) {
	start := m.now()
	gen := m.begin()

	addr, chainID, ok := m.account.Account()
	if !ok {
		return "", m.fail(gen, ErrNotConnected)
	}

	domain, err := m.domain(ctx, gen)
	if err != nil {
		return "", err
	}

	msg, err := m.challenge(gen, domain, addr, chainID)
	if err != nil {
		return "", err
	}

	sig, err := m.signer.SignMessage(ctx, msg)
	if err != nil {
		return "", m.fail(gen, fmt.Errorf("%w: %v", ErrSignatureRejected, err))
	}
	rsv, err := ParseSignature(sig)
	if err != nil {
		return "", m.fail(gen, fmt.Errorf("%w: %v", ErrSignatureRejected, err))
	}
	if err := m.update(gen, func(s *Session) {
		s.Signature = bytes.Clone(sig)
		s.State = StateAwaitingLoginResponse
	}); err != nil {
		return "", err
	}

	resp, err := m.contract.Login(ctx, msg, rsv)
	if err != nil {
		return "", m.fail(gen, fmt.Errorf("%w: %v", ErrLoginRejected, err))
	}
	if len(resp) == 0 {
		return "", m.fail(gen, fmt.Errorf("%w: empty response", ErrLoginRejected))
	}

	token := hexutil.Encode(resp)
	if err := m.update(gen, func(s *Session) {
		s.Token = token
		s.State = StateAuthenticated
	}); err != nil {
		return "", err
	}

	m.metrics.IncCounter("auth_success", nil)
	m.metrics.ObserveLatency("auth", m.now().Sub(start), nil)
	m.log.Info("authenticated", map[string]any{"address": addr.Hex(), "domain": domain})
	return token, nil
}

// Clear discards message, signature and token and returns to Idle. Any
// attempt still in flight is invalidated. The fetched domain is kept.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.session = Session{Domain: m.session.Domain, State: StateIdle}
}

// IsAuthenticated reports whether a token is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token != ""
}

// Token returns the current token, or "" when none is held.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Token
}

// State returns the current handshake state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.State
}

// Snapshot returns a copy of the session.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	s.Signature = bytes.Clone(s.Signature)
	return s
}

// begin starts a new attempt and returns its generation.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.session = Session{Domain: m.session.Domain, State: StateAwaitingDomain}
	return m.generation
}

func (m *Manager) domain(ctx context.Context, gen uint64) (string, error) {
	m.mu.Lock()
	domain := m.session.Domain
	m.mu.Unlock()
	if domain != "" {
		return domain, nil
	}

	domain, err := m.contract.Domain(ctx)
	if err != nil {
		return "", m.fail(gen, fmt.Errorf("%w: %v", ErrDomainUnavailable, err))
	}
	if domain == "" {
		return "", m.fail(gen, ErrDomainUnavailable)
	}
	if err := m.update(gen, func(s *Session) { s.Domain = domain }); err != nil {
		return "", err
	}
	return domain, nil
}

// challenge builds a fresh message for this attempt.
func (m *Manager) challenge(gen uint64, domain string, addr common.Address, chainID *big.Int) (string, error) {
	nonce, err := m.freshNonce()
	if err != nil {
		return "", m.fail(gen, err)
	}
	now := m.now()
	msg := Message{
		Domain:         domain,
		Address:        addr,
		URI:            m.uri,
		Version:        "1",
		ChainID:        chainID,
		Nonce:          nonce,
		IssuedAt:       now,
		ExpirationTime: now.Add(m.ttl),
	}.String()

	if err := m.update(gen, func(s *Session) {
		s.Message = msg
		s.State = StateAwaitingSignature
	}); err != nil {
		return "", err
	}
	return msg, nil
}

// freshNonce never returns the nonce of the previous attempt.
func (m *Manager) freshNonce() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < 8; i++ {
		n := m.nonce()
		if n != "" && n != m.lastNonce {
			m.lastNonce = n
			return n, nil
		}
	}
	return "", errors.New("nonce source keeps repeating")
}

// update applies fn if gen is still current.
func (m *Manager) update(gen uint64, fn func(*Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return ErrSuperseded
	}
	fn(&m.session)
	return nil
}

// fail records err on the session if gen is still current and returns it.
// A stale attempt gets ErrSuperseded and leaves the session untouched.
func (m *Manager) fail(gen uint64, err error) error {
	if uerr := m.update(gen, func(s *Session) {
		s.State = StateFailed
		s.Err = err
	}); uerr != nil {
		m.log.Debug("dropping stale authentication result", map[string]any{"error": err.Error()})
		return uerr
	}
	m.metrics.IncCounter("auth_failure", nil)
	m.log.Warn("authentication failed", map[string]any{"error": err.Error()})
	return err
}
