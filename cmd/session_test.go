package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/urwacli/internal/auth"
	"github.com/Mohsinsiddi/urwacli/internal/contract"
	"github.com/Mohsinsiddi/urwacli/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSigner struct {
	msgs []string
}

func (r *recordingSigner) SignMessage(_ context.Context, msg string) ([]byte, error) {
	r.msgs = append(r.msgs, msg)
	return []byte{0x01}, nil
}

func newConfirmingSigner(answer string, assumeYes bool) (*confirmingSigner, *recordingSigner, *bytes.Buffer) {
	inner := &recordingSigner{}
	out := &bytes.Buffer{}
	return &confirmingSigner{
		signer:    inner,
		prompt:    ui.NewPrompter(strings.NewReader(answer), out),
		out:       out,
		assumeYes: assumeYes,
	}, inner, out
}

func TestConfirmingSignerAccepts(t *testing.T) {
	s, inner, out := newConfirmingSigner("y\n", false)
	sig, err := s.SignMessage(context.Background(), "example.com wants you to sign in")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, sig)
	assert.Equal(t, []string{"example.com wants you to sign in"}, inner.msgs)
	assert.Contains(t, out.String(), "Sign-In with Ethereum")
	assert.Contains(t, out.String(), "example.com wants you to sign in")
}

func TestConfirmingSignerDeclines(t *testing.T) {
	for _, answer := range []string{"n\n", "\n", ""} {
		s, inner, _ := newConfirmingSigner(answer, false)
		_, err := s.SignMessage(context.Background(), "msg")
		assert.ErrorIs(t, err, errSigningDeclined, "answer %q", answer)
		assert.Empty(t, inner.msgs)
	}
}

func TestConfirmingSignerAssumeYes(t *testing.T) {
	s, inner, out := newConfirmingSigner("", true)
	_, err := s.SignMessage(context.Background(), "msg")
	require.NoError(t, err)
	assert.Len(t, inner.msgs, 1)
	assert.Empty(t, out.String())
}

func TestTokenSourcePriority(t *testing.T) {
	assert.Equal(t, "", (&tokenSource{}).Token())
	assert.Equal(t, "0xcached", (&tokenSource{cached: "0xcached"}).Token())
	assert.Equal(t, "0xexplicit", (&tokenSource{explicit: "0xexplicit", cached: "0xcached"}).Token())

	// A manager with no live session falls through to the cache.
	m := auth.NewManager(auth.StaticAccount{}, nil, nil, "https://example.com")
	assert.Equal(t, "0xcached", (&tokenSource{manager: m, cached: "0xcached"}).Token())
}

func gatedFunction() *contract.FunctionDescriptor {
	return &contract.FunctionDescriptor{
		Name: "balanceOf",
		Inputs: []contract.ParamSpec{
			{Name: "account", Type: "address", Kind: contract.KindAddress},
			{Name: "token", Type: "bytes", Kind: contract.KindBytes},
		},
		Mutability: contract.MutabilityView,
	}
}

func TestNeedsLogin(t *testing.T) {
	m := auth.NewManager(auth.StaticAccount{}, nil, nil, "https://example.com")
	fn := gatedFunction()

	s := &session{tokens: &tokenSource{}, auth: m}
	assert.True(t, needsLogin(s, fn, []string{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}))
	assert.False(t, needsLogin(s, fn, []string{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "0xdead"}), "token passed explicitly")

	s.tokens.cached = "0xbeef"
	assert.False(t, needsLogin(s, fn, nil), "token already held")

	readOnly := &session{tokens: &tokenSource{}}
	assert.False(t, needsLogin(readOnly, fn, nil), "no signer to log in with")

	plain := &contract.FunctionDescriptor{Name: "totalSupply", Mutability: contract.MutabilityView}
	assert.False(t, needsLogin(s, plain, nil))
}
