package curve

import (
	"math/big"
	"testing"

	"pake.network/spake2/internal/testutils"
)

func TestByteLength(t *testing.T) {
	tests := map[string]struct {
		value    *big.Int
		expected int
	}{
		"zero":         {big.NewInt(0), 0},
		"one":          {big.NewInt(1), 1},
		"255":          {big.NewInt(255), 1},
		"256":          {big.NewInt(256), 2},
		"p256 modulus": {P256().P, 32},
		"p256 order":   {P256().N, 32},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			testutils.AssertIntsEqual(
				t,
				"byte length",
				test.expected,
				ByteLength(test.value),
			)
		})
	}
}

func TestPadHex(t *testing.T) {
	tests := map[string]struct {
		value    int64
		width    int
		expected string
	}{
		"no padding needed":   {255, 2, "ff"},
		"padded":              {255, 6, "0000ff"},
		"zero width":          {255, 0, "ff"},
		"narrower than value": {255, 1, "ff"},
		"zero value":          {0, 4, "0000"},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			testutils.AssertStringsEqual(
				t,
				"padded hex",
				test.expected,
				PadHex(big.NewInt(test.value), test.width),
			)
		})
	}
}

func TestUniformRandomRange(t *testing.T) {
	upper := big.NewInt(1000)

	for i := 0; i < 100; i++ {
		value, err := UniformRandom(nil, upper)
		if err != nil {
			t.Fatal(err)
		}

		if value.Sign() < 0 || value.Cmp(upper) >= 0 {
			t.Fatalf("value [%v] out of [0, %v) range", value, upper)
		}
	}
}
