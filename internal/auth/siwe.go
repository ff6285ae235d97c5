package auth

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// siweTimeFormat is ISO 8601 with millisecond precision, always UTC.
const siweTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Message is an EIP-4361 (Sign-In with Ethereum) challenge without a
// statement or resources.
type Message struct {
	Domain         string
	Address        common.Address
	URI            string
	Version        string
	ChainID        *big.Int
	Nonce          string
	IssuedAt       time.Time
	ExpirationTime time.Time
}

// String renders the message exactly as it is signed.
func (m Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", m.Domain)
	b.WriteString(m.Address.Hex())
	b.WriteString("\n\n\n")
	fmt.Fprintf(&b, "URI: %s\n", m.URI)
	fmt.Fprintf(&b, "Version: %s\n", m.Version)
	fmt.Fprintf(&b, "Chain ID: %s\n", m.ChainID.String())
	fmt.Fprintf(&b, "Nonce: %s\n", m.Nonce)
	fmt.Fprintf(&b, "Issued At: %s", m.IssuedAt.UTC().Format(siweTimeFormat))
	if !m.ExpirationTime.IsZero() {
		fmt.Fprintf(&b, "\nExpiration Time: %s", m.ExpirationTime.UTC().Format(siweTimeFormat))
	}
	return b.String()
}

// NewNonce returns a random alphanumeric nonce.
func NewNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SignatureRSV is the split form of a 65-byte secp256k1 signature, laid out
// the way the login entry point expects its tuple argument.
type SignatureRSV struct {
	R [32]byte
	S [32]byte
	V *big.Int
}

// ParseSignature splits a 65-byte [R || S || V] signature. A recovery id of
// 0 or 1 is shifted to 27 or 28.
func ParseSignature(sig []byte) (SignatureRSV, error) {
	if len(sig) != 65 {
		return SignatureRSV{}, fmt.Errorf("invalid signature length %d, want 65", len(sig))
	}
	var rsv SignatureRSV
	copy(rsv.R[:], sig[:32])
	copy(rsv.S[:], sig[32:64])
	v := int64(sig[64])
	if v < 27 {
		v += 27
	}
	rsv.V = big.NewInt(v)
	return rsv, nil
}
