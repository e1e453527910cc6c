package curve

import (
	"fmt"
	"math/big"
)

// Point represents a point on a short Weierstrass curve in affine
// coordinates, or the point at infinity. The point at infinity is the
// identity element of the curve group and is represented explicitly with the
// Infinity flag so that (0, 0) remains a usable affine coordinate pair on
// curves where it happens to satisfy the curve equation.
type Point struct {
	X *big.Int // the X coordinate of the point
	Y *big.Int // the Y coordinate of the point

	// Infinity is true if this point is the point at infinity.
	Infinity bool
}

// Infinity is the point at infinity, the identity element of the curve group.
func Infinity() *Point {
	return &Point{big.NewInt(0), big.NewInt(0), true}
}

// NewPoint creates an affine point with the given coordinates.
func NewPoint(x, y *big.Int) *Point {
	return &Point{new(big.Int).Set(x), new(big.Int).Set(y), false}
}

// PointFromDecimal creates an affine point from decimal coordinate strings.
// The second return value is false when either string is malformed.
func PointFromDecimal(x, y string) (*Point, bool) {
	xInt, ok := new(big.Int).SetString(x, 10)
	if !ok {
		return nil, false
	}
	yInt, ok := new(big.Int).SetString(y, 10)
	if !ok {
		return nil, false
	}
	return &Point{xInt, yInt, false}, true
}

// Equals compares two points structurally: both at infinity, or both affine
// with the same coordinates.
func (p *Point) Equals(other *Point) bool {
	if p.Infinity || other.Infinity {
		return p.Infinity == other.Infinity
	}
	return p.X.Cmp(other.X) == 0 && p.Y.Cmp(other.Y) == 0
}

// Copy returns a deep copy of the point.
func (p *Point) Copy() *Point {
	return &Point{new(big.Int).Set(p.X), new(big.Int).Set(p.Y), p.Infinity}
}

// RawAffineHex renders the point as hex(x) || hex(y) with each coordinate
// left-padded with zeroes to 2*fieldSizeBytes hex characters.
func (p *Point) RawAffineHex(fieldSizeBytes int) string {
	width := 2 * fieldSizeBytes
	return PadHex(p.X, width) + PadHex(p.Y, width)
}

// UncompressedHex renders the point in the uncompressed format used on the
// wire: the literal "04" followed by both zero-padded affine coordinates,
// optionally prefixed with "0x".
func (p *Point) UncompressedHex(fieldSizeBytes int, hexPrefix bool) string {
	prefix := "04"
	if hexPrefix {
		prefix = "0x04"
	}
	return prefix + p.RawAffineHex(fieldSizeBytes)
}

// UncompressedByteCount returns the number of raw bytes of the uncompressed
// encoding: the 0x04 lead byte plus both padded coordinates.
func (p *Point) UncompressedByteCount(fieldSizeBytes int) int {
	return 1 + 2*fieldSizeBytes
}

func (p *Point) String() string {
	if p.Infinity {
		return "Point[Infinity]"
	}
	return fmt.Sprintf("Point[X=0x%v, Y=0x%v]", p.X.Text(16), p.Y.Text(16))
}

// ParseUncompressedHex parses a point from its uncompressed hex encoding as
// produced by UncompressedHex. The "0x"/"0X" prefix is optional. Both
// coordinates must be present and exactly 2*fieldSizeBytes hex characters
// each.
func ParseUncompressedHex(s string, fieldSizeBytes int) (*Point, error) {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if len(s) < 2 || s[:2] != "04" {
		return nil, fmt.Errorf("uncompressed point must start with 04")
	}
	s = s[2:]

	coordLen := 2 * fieldSizeBytes
	if len(s) != 2*coordLen {
		return nil, fmt.Errorf(
			"uncompressed point has [%d] coordinate characters, expected [%d]",
			len(s),
			2*coordLen,
		)
	}

	x, ok := new(big.Int).SetString(s[:coordLen], 16)
	if !ok {
		return nil, fmt.Errorf("malformed x coordinate")
	}
	y, ok := new(big.Int).SetString(s[coordLen:], 16)
	if !ok {
		return nil, fmt.Errorf("malformed y coordinate")
	}

	return &Point{x, y, false}, nil
}
