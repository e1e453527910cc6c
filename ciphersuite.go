package spake2

import (
	"pake.network/spake2/curve"
)

// Ciphersuite interface abstracts out the particular ciphersuite
// implementation used for the [SPAKE2] protocol execution. This is a
// strategy design pattern allowing to run [SPAKE2] with different
// ciphersuites. A [SPAKE2] ciphersuite must specify the underlying elliptic
// curve group, the two blinding bases M and N whose discrete logarithms are
// unknown, and the cryptographic hash, key derivation, MAC, and memory-hard
// password hash functions.
type Ciphersuite interface {
	Hashing

	// Curve returns the elliptic curve group of the ciphersuite.
	Curve() *curve.Curve

	// M returns the blinding base the client mixes into its public key.
	M() *curve.Point

	// N returns the blinding base the server mixes into its public key.
	N() *curve.Point
}

// Hashing interface abstracts out the hash function implementations specific
// to the ciphersuite used.
//
// [SPAKE2] requires a cryptographically secure hash function Hash, a key
// derivation function KDF, a message authentication code MAC, and a
// memory-hard function MHF turning the low-entropy password into the shared
// integer w. The details of each vary based on ciphersuite.
type Hashing interface {
	// Hash computes the ciphersuite hash of the message.
	Hash(message []byte) []byte

	// KDF derives length bytes of keying material from the input keying
	// material and the context info. [SPAKE2] uses it with an empty salt
	// to derive the confirmation MAC keys from Ka.
	KDF(ikm, info []byte, length int) ([]byte, error)

	// MAC computes the ciphersuite message authentication code of the
	// message under the given key.
	MAC(key, message []byte) []byte

	// MHF computes length bytes of the memory-hard password hash. Both
	// parties must use identical parameters for the protocol to
	// validate.
	MHF(password string, length int) []byte
}
