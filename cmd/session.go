package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/Mohsinsiddi/urwacli/internal/auth"
	"github.com/Mohsinsiddi/urwacli/internal/chain"
	"github.com/Mohsinsiddi/urwacli/internal/config"
	"github.com/Mohsinsiddi/urwacli/internal/console"
	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/Mohsinsiddi/urwacli/internal/events"
	"github.com/Mohsinsiddi/urwacli/internal/rpc"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/Mohsinsiddi/urwacli/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// errSigningDeclined is returned when the user refuses a signing prompt.
var errSigningDeclined = errors.New("declined by user")

const sessionsFile = "sessions.json"

// session is everything one command needs to talk to the contract on the
// selected network.
type session struct {
	chain   *chain.Chain
	target  *config.Target
	client  *chain.EVMClient
	iface   *contract.Interface
	address common.Address

	signer  *wallet.Signer // nil when no wallet is configured
	auth    *auth.Manager  // nil when signer is nil
	tokens  *tokenSource
	ttl     time.Duration
	store   *auth.TokenStore
	scanner *events.Scanner
	console *console.Console
}

// sessionOptions controls what openSession wires.
type sessionOptions struct {
	needSigner bool   // fail instead of running read-only without a wallet
	token      string // explicit token; skips the cached session
	assumeYes  bool   // sign SIWE challenges without asking
	ttl        time.Duration
}

// selectedNetwork returns --network or the configured network.
func selectedNetwork() string {
	if networkFlag != "" {
		return networkFlag
	}
	return cfg.SelectedNetwork
}

// selectedChain resolves the selected network in the registry.
func selectedChain() (*chain.Chain, error) {
	name := selectedNetwork()
	ch, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("unknown network %q, see `urwacli network list`", name)
	}
	return ch, nil
}

// loadInterface returns the ABI from --abi or the built-in uRWA20.
func loadInterface() (*contract.Interface, error) {
	return contract.Resolve(abiPath, "")
}

// openSession resolves the selected network, picks an RPC and wires the
// caller, sender, auth manager, event scanner and console.
func openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	ch, err := selectedChain()
	if err != nil {
		return nil, err
	}
	target, err := cfg.Resolve(ch)
	if err != nil {
		return nil, err
	}
	iface, err := loadInterface()
	if err != nil {
		return nil, err
	}

	selectCtx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	client, err := rpc.Connect(selectCtx, target.RPCURLs, cfg.RPCAlgorithm, target.ChainID, log)
	cancel()
	if err != nil {
		return nil, err
	}

	s := &session{
		chain:   ch,
		target:  target,
		client:  client,
		iface:   iface,
		address: common.HexToAddress(target.ContractAddress),
		ttl:     auth.DefaultTTL,
		store:   auth.NewTokenStore(filepath.Join(cfg.Dir(), sessionsFile)),
	}
	if opts.ttl > 0 {
		s.ttl = opts.ttl
	}

	signer, err := newWalletManager().Signer(walletName())
	switch {
	case err == nil:
		s.signer = signer
	case opts.needSigner:
		client.Close()
		return nil, err
	default:
		log.Debug("running read-only", map[string]any{"reason": err.Error()})
	}

	caller := contract.NewCaller(client, iface, s.address)
	chainID := big.NewInt(target.ChainID)

	s.tokens = &tokenSource{explicit: opts.token}
	consoleOpts := []console.Option{
		console.WithNetwork(target.Network),
		console.WithLogger(log),
		console.WithMetrics(recorder),
		console.WithTokenSource(s.tokens),
	}

	if s.signer != nil {
		caller.SetFrom(s.signer.Address())

		fees := chain.NewNegotiator(client, log)
		sender := contract.NewSender(client, fees, s.signer, iface, s.address, chainID, config.GasLimitContractCall, log)
		consoleOpts = append(consoleOpts, console.WithSender(sender, client))

		s.auth = auth.NewManager(
			auth.StaticAccount{Address: s.signer.Address(), ChainID: chainID},
			&confirmingSigner{signer: s.signer, prompt: ui.StdPrompter(), out: os.Stdout, assumeYes: opts.assumeYes},
			auth.NewContractClient(caller),
			cfg.OriginURI,
			auth.WithLogger(log),
			auth.WithMetrics(recorder),
			auth.WithTTL(s.ttl),
		)
		s.tokens.manager = s.auth
		if opts.token == "" {
			s.tokens.cached, _ = s.store.Load(s.tokenKey())
		}
	}

	s.console = console.New(iface, caller, consoleOpts...)
	s.scanner = events.NewScanner(client, events.NewDecoder(iface), s.address, log)

	log.Debug("session ready", map[string]any{
		"network":  target.Network,
		"contract": target.ContractAddress,
		"rpc":      client.URL(),
		"signer":   s.signer != nil,
	})
	return s, nil
}

// Close releases the RPC connection.
func (s *session) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *session) tokenKey() string {
	return auth.TokenKey(s.target.Network, s.signer.Address())
}

// authenticated reports whether a token is available for token-gated calls.
func (s *session) authenticated() bool {
	return s.tokens.Token() != ""
}

// login runs the SIWE handshake and caches the token until the challenge
// expires.
func (s *session) login(ctx context.Context) (string, error) {
	if s.auth == nil {
		return "", auth.ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, config.LoginTimeout)
	defer cancel()

	expires := time.Now().Add(s.ttl)
	token, err := s.auth.Authenticate(ctx)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(s.tokenKey(), token, expires); err != nil {
		log.Warn("could not cache session token", map[string]any{"error": err.Error()})
	}
	return token, nil
}

// ensureToken signs in unless a token is already held.
func (s *session) ensureToken(ctx context.Context) error {
	if s.authenticated() {
		return nil
	}
	_, err := s.login(ctx)
	return err
}

// tokenSource prefers an explicit token, then the live session, then the
// token cached by an earlier login.
type tokenSource struct {
	explicit string
	manager  *auth.Manager
	cached   string
}

func (t *tokenSource) Token() string {
	if t.explicit != "" {
		return t.explicit
	}
	if t.manager != nil {
		if tok := t.manager.Token(); tok != "" {
			return tok
		}
	}
	return t.cached
}

// confirmingSigner shows the SIWE challenge and asks before signing it.
type confirmingSigner struct {
	signer    auth.MessageSigner
	prompt    *ui.Prompter
	out       io.Writer
	assumeYes bool
}

func (c *confirmingSigner) SignMessage(ctx context.Context, msg string) ([]byte, error) {
	if !c.assumeYes {
		fmt.Fprintln(c.out, ui.StyleBorder.Render(ui.StyleTitle.Render("Sign-In with Ethereum")+"\n\n"+ui.Meta(msg)))
		if !c.prompt.Confirm("Sign this message?") {
			return nil, errSigningDeclined
		}
	}
	return c.signer.SignMessage(ctx, msg)
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, opts sessionOptions, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
