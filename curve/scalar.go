package curve

import (
	"crypto/rand"
	"io"
	"math/big"
	"strings"
)

// ByteLength returns the number of bytes needed to represent n, i.e.
// ceil(bitlen(n) / 8). The zero value needs zero bytes.
func ByteLength(n *big.Int) int {
	return (n.BitLen() + 7) / 8
}

// UniformRandom draws a uniformly distributed integer from [0, upper) using
// the provided entropy source. A nil reader falls back to the system
// cryptographic source.
func UniformRandom(reader io.Reader, upper *big.Int) (*big.Int, error) {
	if reader == nil {
		reader = rand.Reader
	}
	return rand.Int(reader, upper)
}

// modInverse computes the multiplicative inverse of x modulo p. The inverse
// does not exist when gcd(x, p) != 1. All callers in this package invert
// field elements derived from points lying on a curve over a prime field, so
// a missing inverse indicates corrupted inputs and is treated as a
// programming error.
func modInverse(x, p *big.Int) *big.Int {
	inverse := new(big.Int).ModInverse(x, p)
	if inverse == nil {
		panic("curve: modular inverse does not exist")
	}
	return inverse
}

// PadHex renders n as a lowercase hex string without the "0x" prefix,
// left-padded with '0' up to width characters. A width of zero applies no
// padding.
func PadHex(n *big.Int, width int) string {
	s := n.Text(16)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}
