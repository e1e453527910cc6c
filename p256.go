package spake2

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"pake.network/spake2/curve"
)

// Argon2id parameters for the memory-hard password hash. They correspond to
// the moderate operational and memory limits of the libsodium default
// password hashing construction: 3 passes over 256 MiB with a single lane.
const (
	mhfTime    = 3
	mhfMemory  = 256 * 1024 // KiB
	mhfThreads = 1
)

// mhfSalt is the fixed salt for the memory-hard function. A constant salt is
// insecure against precomputation across passwords; it is kept so that two
// parties derive the same w without negotiating a salt first.
const mhfSalt = "foo"

// P256Ciphersuite is the SPAKE2-P256-SHA256-HKDF-HMAC ciphersuite defined in
// [SPAKE2]. The blinding bases M and N are the seed-derived points for P-256
// from [SPAKE2] section 4.
type P256Ciphersuite struct {
	curve *curve.Curve
	m     *curve.Point
	n     *curve.Point
}

// NewP256Ciphersuite creates a new instance of P256Ciphersuite in a state
// ready to be used for the [SPAKE2] protocol execution.
func NewP256Ciphersuite() *P256Ciphersuite {
	return &P256Ciphersuite{
		curve: curve.P256(),
		m: mustPoint(
			"61709229055687782219344352628424647386531596507379261315813478518843566432559",
			"43399651700267013692148409492066214468674361939146464406474584691695279811872",
		),
		n: mustPoint(
			"98031458012971070369465795029179261841266230867477002166417845678366165379913",
			"3544368724946236282841049099645644789675854804295951046212527731618188549095",
		),
	}
}

// Curve returns the P-256 curve implementation used by this ciphersuite.
func (c *P256Ciphersuite) Curve() *curve.Curve {
	return c.curve
}

// M returns the client blinding base for P-256.
func (c *P256Ciphersuite) M() *curve.Point {
	return c.m
}

// N returns the server blinding base for P-256.
func (c *P256Ciphersuite) N() *curve.Point {
	return c.n
}

// Hash computes the SHA-256 hash of the message.
func (c *P256Ciphersuite) Hash(message []byte) []byte {
	hashed := sha256.Sum256(message)
	return hashed[:]
}

// KDF derives length bytes using HKDF-SHA256 as specified in [RFC5869],
// extract-then-expand, with an empty salt.
func (c *P256Ciphersuite) KDF(ikm, info []byte, length int) ([]byte, error) {
	reader := hkdf.New(sha256.New, ikm, nil, info)

	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MAC computes the HMAC-SHA256 of the message under the given key, as
// specified in [RFC2104].
func (c *P256Ciphersuite) MAC(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

// MHF computes length bytes of the Argon2id hash of the password under the
// fixed salt.
func (c *P256Ciphersuite) MHF(password string, length int) []byte {
	return argon2.IDKey(
		[]byte(password),
		[]byte(mhfSalt),
		mhfTime,
		mhfMemory,
		mhfThreads,
		uint32(length),
	)
}

func mustPoint(x, y string) *curve.Point {
	p, ok := curve.PointFromDecimal(x, y)
	if !ok {
		panic("spake2: malformed blinding base")
	}
	return p
}
