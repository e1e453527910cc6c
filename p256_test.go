package spake2

import (
	"strings"
	"testing"

	"pake.network/spake2/internal/testutils"
)

func TestBlindingBasesOnCurve(t *testing.T) {
	suite := NewP256Ciphersuite()
	c := suite.Curve()

	testutils.AssertBoolsEqual(t, "M on curve", true, c.IsOnCurve(suite.M()))
	testutils.AssertBoolsEqual(t, "N on curve", true, c.IsOnCurve(suite.N()))
	testutils.AssertBoolsEqual(t, "M and N distinct", false, suite.M().Equals(suite.N()))
}

func TestHashKnownValue(t *testing.T) {
	suite := NewP256Ciphersuite()

	// SHA-256("abc") from FIPS 180-2 appendix B.1.
	testutils.AssertStringsEqual(
		t,
		"hash output",
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		binToHex(suite.Hash([]byte("abc")), false),
	)
}

func TestKDFKnownValue(t *testing.T) {
	suite := NewP256Ciphersuite()

	// Test case 1 from [RFC5869] appendix A, with the salt forced empty
	// as the protocol uses it.
	ikm, err := hexToBin("0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	if err != nil {
		t.Fatal(err)
	}
	info, err := hexToBin("f0f1f2f3f4f5f6f7f8f9")
	if err != nil {
		t.Fatal(err)
	}

	okm, err := suite.KDF(ikm, info, 42)
	if err != nil {
		t.Fatal(err)
	}

	testutils.AssertStringsEqual(
		t,
		"KDF output",
		"abbafb13f5c1bc489d4203135817956dd521b39e3bd61d1cc85cef884d1f8e2e"+
			"2ca9c19f23df620dd394",
		binToHex(okm, false),
	)
}

func TestKDFDeterministic(t *testing.T) {
	suite := NewP256Ciphersuite()

	first, err := suite.KDF([]byte("key material"), []byte("ConfirmationKeys"), 32)
	if err != nil {
		t.Fatal(err)
	}
	second, err := suite.KDF([]byte("key material"), []byte("ConfirmationKeys"), 32)
	if err != nil {
		t.Fatal(err)
	}

	testutils.AssertBytesEqual(t, first, second)

	other, err := suite.KDF([]byte("key material"), []byte("ConfirmationKeysaad"), 32)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) == string(other) {
		t.Fatalf("expected different outputs for different info parameters")
	}
}

func TestMACKnownValue(t *testing.T) {
	suite := NewP256Ciphersuite()

	// Test case 2 from [RFC4231] section 4.3.
	mac := suite.MAC([]byte("Jefe"), []byte("what do ya want for nothing?"))

	testutils.AssertStringsEqual(
		t,
		"MAC output",
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		binToHex(mac, false),
	)
}

func TestMHFDeterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping memory-hard password hashing in short mode")
	}

	suite := NewP256Ciphersuite()

	first := suite.MHF("foo", 40)
	second := suite.MHF("foo", 40)
	other := suite.MHF("far", 40)

	testutils.AssertIntsEqual(t, "output length", 40, len(first))
	testutils.AssertBytesEqual(t, first, second)
	if string(first) == string(other) {
		t.Fatalf("expected different outputs for different passwords")
	}
}

func TestUncompressedBlindingBases(t *testing.T) {
	suite := NewP256Ciphersuite()
	fieldSize := suite.Curve().FieldSizeBytes

	m := suite.M().UncompressedHex(fieldSize, true)
	n := suite.N().UncompressedHex(fieldSize, true)

	for description, encoded := range map[string]string{"M": m, "N": n} {
		testutils.AssertBoolsEqual(
			t,
			description+" prefix",
			true,
			strings.HasPrefix(encoded, "0x04"),
		)
		testutils.AssertIntsEqual(
			t,
			description+" length",
			len("0x04")+4*fieldSize,
			len(encoded),
		)
	}
}
