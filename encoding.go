package spake2

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	hexPrefixLowercase = "0x"
	hexPrefixUppercase = "0X"
)

// ErrEmptyHexString is returned when a hex string operation receives an
// empty input.
var ErrEmptyHexString = errors.New("spake2: empty hex string")

// stripHexPrefix removes a leading "0x" or "0X" from the string, if present.
func stripHexPrefix(s string) string {
	if strings.HasPrefix(s, hexPrefixLowercase) ||
		strings.HasPrefix(s, hexPrefixUppercase) {
		return s[len(hexPrefixLowercase):]
	}
	return s
}

// splitHexInHalf splits a hex string into two equal halves, each re-prefixed
// with "0x". The "0x"/"0X" prefix on the input is optional. For inputs of
// odd length the second half receives the extra character.
func splitHexInHalf(s string) (string, string, error) {
	if s == "" {
		return "", "", ErrEmptyHexString
	}

	stripped := stripHexPrefix(s)
	midpoint := len(stripped) / 2

	first := hexPrefixLowercase + stripped[:midpoint]
	second := hexPrefixLowercase + stripped[midpoint:]

	return first, second, nil
}

// binToHex renders bytes as a lowercase hex string, optionally prefixed with
// "0x".
func binToHex(data []byte, withPrefix bool) string {
	if withPrefix && len(data) > 0 {
		return hexPrefixLowercase + hex.EncodeToString(data)
	}
	return hex.EncodeToString(data)
}

// hexToBin decodes a hex string into its underlying bytes. The "0x"/"0X"
// prefix is optional. An odd number of hex characters is malformed input.
func hexToBin(s string) ([]byte, error) {
	stripped := stripHexPrefix(s)

	if len(stripped)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string [%d]", len(stripped))
	}

	data, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("malformed hex string: [%v]", err)
	}
	return data, nil
}

// littleEndianHex renders width bytes of value in little-endian byte order
// as hex characters. A width of zero yields the empty string.
func littleEndianHex(value uint64, width int) string {
	var builder strings.Builder
	for i := 0; i < width; i++ {
		fmt.Fprintf(&builder, "%02x", byte(value>>(8*i)))
	}
	return builder.String()
}

// asciiToHex renders each byte of the string as two hex characters,
// optionally prefixed with "0x". An empty input yields the empty string.
func asciiToHex(s string, withPrefix bool) string {
	if s == "" {
		return ""
	}
	return binToHex([]byte(s), withPrefix)
}
