// Package curve implements arithmetic on short Weierstrass elliptic curves
// over a prime field, in affine coordinates over math/big integers.
//
// A curve is an algebraic curve of the form y^2 = x^3 + ax + b (mod p) with
// no cusps or self-intersections. The package provides the group operation
// (point addition with doubling handled transparently), scalar
// multiplication via the classical left-to-right double-and-add algorithm,
// and point negation. None of the operations are constant-time.
//
// [SEC1]
//
//	Standards for Efficient Cryptography, "SEC 1: Elliptic Curve
//	Cryptography", Version 2.0, May 2009,
//	<https://www.secg.org/sec1-v2.pdf>.
//
// [SP800-186]
//
//	Chen, L., Moody, D., Regenscheid, A., and K. Randall, "Recommendations
//	for Discrete Logarithm-based Cryptography: Elliptic Curve Domain
//	Parameters", NIST SP 800-186, February 2023,
//	<https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-186.pdf>.
package curve

import (
	"math/big"
)

// Curve describes a short Weierstrass curve y^2 = x^3 + ax + b over the
// prime field of modulus P. A Curve is immutable after construction and safe
// to share between goroutines.
type Curve struct {
	// Name of the curve, e.g. "P-256".
	Name string

	// A and B are the curve equation parameters. A is stored reduced
	// modulo P, so a = -3 is represented as P - 3.
	A *big.Int
	B *big.Int

	// P is the prime modulus of the underlying field.
	P *big.Int

	// N is the order of the group generated by G.
	N *big.Int

	// H is the cofactor.
	H *big.Int

	// G is the generator point.
	G *Point

	// FieldSizeBytes is the byte length of a field element,
	// ceil(log2(P) / 8).
	FieldSizeBytes int
}

// EcAdd computes the group operation on two points of the curve. Doubling is
// performed when both points are equal. The point at infinity is a valid
// input and output: adding it to any point returns that point. Adding a
// point to its negation returns the point at infinity.
func (c *Curve) EcAdd(p, q *Point) *Point {
	if p.Infinity {
		return q.Copy()
	}
	if q.Infinity {
		return p.Copy()
	}

	if p.X.Cmp(q.X) == 0 {
		if p.Y.Cmp(q.Y) != 0 {
			// q is the negation of p.
			return Infinity()
		}
		return c.double(p)
	}

	return c.add(p, q)
}

// add computes p + q for two distinct affine points with different x
// coordinates:
//
//	s   = (y_q - y_p) / (x_q - x_p)  (mod p)
//	x_r = s^2 - x_p - x_q            (mod p)
//	y_r = s*(x_p - x_r) - y_p        (mod p)
func (c *Curve) add(p, q *Point) *Point {
	dy := new(big.Int).Sub(q.Y, p.Y)
	dx := new(big.Int).Sub(q.X, p.X)
	dx.Mod(dx, c.P)

	s := dy.Mul(dy, modInverse(dx, c.P))
	s.Mod(s, c.P)

	return c.chord(s, p, q)
}

// double computes 2p for an affine point:
//
//	s   = (3*x_p^2 + a) / (2*y_p)  (mod p)
//	x_r = s^2 - 2*x_p              (mod p)
//	y_r = s*(x_p - x_r) - y_p      (mod p)
//
// A point with y = 0 is its own negation and doubles to the point at
// infinity. Such points never occur in honest protocol runs on the
// registered curves.
func (c *Curve) double(p *Point) *Point {
	if p.Y.Sign() == 0 {
		return Infinity()
	}

	num := new(big.Int).Mul(p.X, p.X)
	num.Mul(num, big.NewInt(3))
	num.Add(num, c.A)

	den := new(big.Int).Lsh(p.Y, 1)
	den.Mod(den, c.P)

	s := num.Mul(num, modInverse(den, c.P))
	s.Mod(s, c.P)

	return c.chord(s, p, p)
}

// chord completes addition and doubling from the slope s of the chord (or
// tangent) through p and q.
func (c *Curve) chord(s *big.Int, p, q *Point) *Point {
	x := new(big.Int).Mul(s, s)
	x.Sub(x, p.X)
	x.Sub(x, q.X)
	x.Mod(x, c.P)

	y := new(big.Int).Sub(p.X, x)
	y.Mul(y, s)
	y.Sub(y, p.Y)
	y.Mod(y, c.P)

	return &Point{x, y, false}
}

// EcMul computes d*p using the left-to-right double-and-add algorithm. The
// scalar zero yields the point at infinity.
func (c *Curve) EcMul(p *Point, d *big.Int) *Point {
	if d.Sign() == 0 || p.Infinity {
		return Infinity()
	}

	// The accumulator starts at p, consuming the topmost set bit of the
	// scalar. Every remaining bit doubles the accumulator and adds p when
	// the bit is set.
	result := p.Copy()
	for i := d.BitLen() - 2; i >= 0; i-- {
		result = c.EcAdd(result, result)
		if d.Bit(i) == 1 {
			result = c.EcAdd(result, p)
		}
	}

	return result
}

// EcBaseMul computes d*G, where G is the generator of the curve group.
func (c *Curve) EcBaseMul(d *big.Int) *Point {
	return c.EcMul(c.G, d)
}

// Negate returns -p, the reflection of p across the x axis:
// -(x, y) = (x, p-y mod p). The negation of the point at infinity is itself.
func (c *Curve) Negate(p *Point) *Point {
	if p.Infinity {
		return Infinity()
	}

	y := new(big.Int).Sub(c.P, p.Y)
	y.Mod(y, c.P)

	return &Point{new(big.Int).Set(p.X), y, false}
}

// IsOnCurve validates that the given point is either the point at infinity
// or an affine point satisfying y^2 = x^3 + ax + b (mod p).
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.Infinity {
		return true
	}

	left := new(big.Int).Mul(p.Y, p.Y)
	left.Mod(left, c.P)

	right := new(big.Int).Exp(p.X, big.NewInt(3), c.P)
	ax := new(big.Int).Mul(c.A, p.X)
	right.Add(right, ax)
	right.Add(right, c.B)
	right.Mod(right, c.P)

	return left.Cmp(right) == 0
}
