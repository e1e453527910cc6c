// Package ephemeral provides symmetric encryption of application payloads
// under the session key established by a SPAKE2 run. The key confirmation
// phase proves both parties hold the same Ke; this package turns that Ke
// into a usable sealing key.
package ephemeral

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SymmetricKey is a symmetric sealing key. Implementations provide
// authenticated encryption of application payloads.
type SymmetricKey interface {
	// Encrypt plaintext.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt ciphertext.
	Decrypt(ciphertext []byte) (plaintext []byte, err error)
}

// SessionKey is a SymmetricKey derived from the SPAKE2 shared symmetric
// secret Ke. Both parties of a validated protocol run construct the same
// SessionKey and can exchange sealed payloads.
type SessionKey struct {
	box *box
}

// NewSessionKey creates a SessionKey from the Ke hex string exposed by a
// session after the key derivation phase. The "0x" prefix is optional. The
// sealing key is the SHA-256 hash of the raw Ke bytes.
func NewSessionKey(keHex string) (*SessionKey, error) {
	stripped := strings.TrimPrefix(strings.TrimPrefix(keHex, "0x"), "0X")

	ke, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("malformed session key: [%v]", err)
	}
	if len(ke) == 0 {
		return nil, fmt.Errorf("empty session key")
	}

	return &SessionKey{box: newBox(sha256.Sum256(ke))}, nil
}

// Encrypt plaintext.
func (sk *SessionKey) Encrypt(plaintext []byte) ([]byte, error) {
	return sk.box.encrypt(plaintext)
}

// Decrypt ciphertext.
func (sk *SessionKey) Decrypt(ciphertext []byte) (plaintext []byte, err error) {
	return sk.box.decrypt(ciphertext)
}
