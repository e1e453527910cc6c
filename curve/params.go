package curve

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec"
)

// p256 parameters as published in [SP800-186] section 3.2.1.3. The a
// parameter is -3, stored reduced modulo p.
var p256 = newCurve(
	"P-256",
	"-3",
	"0x5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
	"115792089210356248762697446949407573530086143415290314195533631308867097853951",
	"115792089210356248762697446949407573529996955224135760342422259061068512044369",
	"1",
	"0x6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
	"0x4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
	32,
)

// secp256k1 parameters are taken from the btcec implementation of the curve.
// The curve has a = 0, b = 7, and a cofactor of 1.
var secp256k1 = fromBtcec()

// P256 returns the NIST P-256 curve.
func P256() *Curve {
	return p256
}

// Secp256k1 returns the secp256k1 curve used by Bitcoin.
func Secp256k1() *Curve {
	return secp256k1
}

// newCurve builds a Curve from string-encoded parameters. Decimal and
// "0x"-prefixed hex encodings are accepted. The a parameter may be negative
// and is reduced modulo p. The function panics on malformed constants; it is
// only invoked with the registered curve parameters.
func newCurve(
	name string,
	a string,
	b string,
	p string,
	n string,
	h string,
	gx string,
	gy string,
	fieldSizeBytes int,
) *Curve {
	prime := mustInt(p)

	aInt := mustInt(a)
	aInt.Mod(aInt, prime)

	return &Curve{
		Name:           name,
		A:              aInt,
		B:              mustInt(b),
		P:              prime,
		N:              mustInt(n),
		H:              mustInt(h),
		G:              &Point{mustInt(gx), mustInt(gy), false},
		FieldSizeBytes: fieldSizeBytes,
	}
}

func fromBtcec() *Curve {
	params := btcec.S256().CurveParams

	return &Curve{
		Name:           "secp256k1",
		A:              big.NewInt(0),
		B:              new(big.Int).Set(params.B),
		P:              new(big.Int).Set(params.P),
		N:              new(big.Int).Set(params.N),
		H:              big.NewInt(1),
		G:              NewPoint(params.Gx, params.Gy),
		FieldSizeBytes: (params.BitSize + 7) / 8,
	}
}

func mustInt(s string) *big.Int {
	base := 10
	negative := false

	if len(s) > 0 && s[0] == '-' {
		negative = true
		s = s[1:]
	}
	if len(s) > 2 && s[:2] == "0x" {
		base = 16
		s = s[2:]
	}

	value, ok := new(big.Int).SetString(s, base)
	if !ok {
		panic("curve: malformed curve parameter")
	}
	if negative {
		value.Neg(value)
	}
	return value
}
