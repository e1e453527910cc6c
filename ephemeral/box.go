package ephemeral

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// nonceSize is the size of the unique nonce prepended to every box
// ciphertext.
const nonceSize = 24

// box seals and opens messages with XSalsa20 and authenticates them with
// Poly1305, as implemented by NaCl secretbox.
type box struct {
	key [32]byte
}

func newBox(key [32]byte) *box {
	return &box{key: key}
}

// encrypt seals the plaintext under a fresh random nonce. The nonce is
// prepended to the returned ciphertext.
func (b *box) encrypt(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("nonce generation failed: [%v]", err)
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, &b.key), nil
}

// decrypt opens a ciphertext produced by encrypt.
func (b *box) decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("symmetric key decryption failed")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[:nonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[nonceSize:], &nonce, &b.key)
	if !ok {
		return nil, fmt.Errorf("symmetric key decryption failed")
	}

	return plaintext, nil
}
