package curve

import (
	"math/big"
	"strings"
	"testing"

	"pake.network/spake2/internal/testutils"
)

func TestUncompressedHexRoundTrip(t *testing.T) {
	c := P256()
	point := c.EcBaseMul(big.NewInt(99))

	encoded := point.UncompressedHex(c.FieldSizeBytes, true)
	testutils.AssertBoolsEqual(
		t,
		"encoding prefix",
		true,
		strings.HasPrefix(encoded, "0x04"),
	)
	testutils.AssertIntsEqual(
		t,
		"encoding length",
		len("0x04")+4*c.FieldSizeBytes,
		len(encoded),
	)

	decoded, err := ParseUncompressedHex(encoded, c.FieldSizeBytes)
	if err != nil {
		t.Fatal(err)
	}
	testutils.AssertBoolsEqual(t, "round trip", true, decoded.Equals(point))
}

func TestUncompressedHexNoPrefix(t *testing.T) {
	c := P256()
	point := c.EcBaseMul(big.NewInt(7))

	encoded := point.UncompressedHex(c.FieldSizeBytes, false)
	testutils.AssertBoolsEqual(
		t,
		"encoding prefix",
		true,
		strings.HasPrefix(encoded, "04"),
	)

	decoded, err := ParseUncompressedHex(encoded, c.FieldSizeBytes)
	if err != nil {
		t.Fatal(err)
	}
	testutils.AssertBoolsEqual(t, "round trip", true, decoded.Equals(point))
}

func TestParseUncompressedHexErrors(t *testing.T) {
	tests := map[string]struct {
		input string
	}{
		"empty input": {
			input: "",
		},
		"missing 04 lead byte": {
			input: "0x05" + strings.Repeat("ab", 64),
		},
		"truncated coordinates": {
			input: "0x04abcd",
		},
		"non-hex characters": {
			input: "0x04" + strings.Repeat("zz", 64),
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			_, err := ParseUncompressedHex(test.input, 32)
			if err == nil {
				t.Fatalf("expected a non-nil error")
			}
		})
	}
}

func TestPointEquals(t *testing.T) {
	p := NewPoint(big.NewInt(5), big.NewInt(1))
	q := NewPoint(big.NewInt(5), big.NewInt(1))
	r := NewPoint(big.NewInt(5), big.NewInt(16))

	testutils.AssertBoolsEqual(t, "equal points", true, p.Equals(q))
	testutils.AssertBoolsEqual(t, "different points", false, p.Equals(r))
	testutils.AssertBoolsEqual(t, "affine vs infinity", false, p.Equals(Infinity()))
	testutils.AssertBoolsEqual(t, "infinity vs infinity", true, Infinity().Equals(Infinity()))
}

func TestRawAffineHexPadding(t *testing.T) {
	point := NewPoint(big.NewInt(5), big.NewInt(1))

	testutils.AssertStringsEqual(
		t,
		"padded encoding",
		"00050001",
		point.RawAffineHex(2),
	)
}
