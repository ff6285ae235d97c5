package wallet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrKeyMismatch means the stored key does not belong to the wallet's
// recorded address.
var ErrKeyMismatch = errors.New("key does not match wallet address")

// personalSigLen is the size of an [R || S || V] signature.
const personalSigLen = crypto.SignatureLength

// SignMessage produces the personal_sign (EIP-191) signature of message with
// the wallet's key. V is 27 or 28, the form SIWE verifiers expect.
func SignMessage(w *Wallet, ks KeystoreBackend, message []byte) ([]byte, error) {
	key, err := loadKey(w, ks)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return nil, fmt.Errorf("signing message for %q: %w", w.Name, err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// RecoverSigner returns the address that produced a personal_sign signature
// over message. Both V encodings (0/1 and 27/28) are accepted.
func RecoverSigner(message, sig []byte) (common.Address, error) {
	if len(sig) != personalSigLen {
		return common.Address{}, fmt.Errorf("signature is %d bytes, want %d", len(sig), personalSigLen)
	}
	rsv := common.CopyBytes(sig)
	if v := rsv[crypto.RecoveryIDOffset]; v >= 27 {
		rsv[crypto.RecoveryIDOffset] = v - 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash(message), rsv)
	if err != nil {
		return common.Address{}, fmt.Errorf("recovering signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// signChecked signs message and confirms the signature recovers to the
// wallet's address, so a keychain entry swapped under a wallet name is
// caught before the contract sees it.
func signChecked(w *Wallet, ks KeystoreBackend, message []byte) ([]byte, error) {
	sig, err := SignMessage(w, ks, message)
	if err != nil {
		return nil, err
	}
	got, err := RecoverSigner(message, sig)
	if err != nil {
		return nil, err
	}
	if want := common.HexToAddress(w.Address); got != want {
		return nil, fmt.Errorf("%w: wallet %q is %s, key signs as %s", ErrKeyMismatch, w.Name, want.Hex(), got.Hex())
	}
	return sig, nil
}
