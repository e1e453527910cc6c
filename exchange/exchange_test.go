package exchange

import (
	"testing"

	"pake.network/spake2/internal/testutils"
)

func TestMessageEncodeDecode(t *testing.T) {
	tests := map[string]struct {
		message Message
		encoded string
	}{
		"with identity": {
			message: Message{Identity: "server", Payload: "0x04cafe"},
			encoded: "server,0x04cafe",
		},
		"empty identity": {
			message: Message{Identity: "", Payload: "0x04cafe"},
			encoded: ",0x04cafe",
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			testutils.AssertStringsEqual(
				t,
				"encoded message",
				test.encoded,
				test.message.Encode(),
			)

			decoded, err := DecodeMessage(test.encoded)
			if err != nil {
				t.Fatal(err)
			}
			testutils.AssertDeepEqual(t, "decoded message", test.message, decoded)
		})
	}
}

func TestDecodeMessageNoSeparator(t *testing.T) {
	_, err := DecodeMessage("0x04cafe")
	if err == nil {
		t.Fatalf("expected a non-nil error")
	}
}

func TestDecodeMessagePayloadWithComma(t *testing.T) {
	// Only the first comma separates the identity; the payload is opaque.
	decoded, err := DecodeMessage("alice,0x04,cafe")
	if err != nil {
		t.Fatal(err)
	}

	testutils.AssertStringsEqual(t, "identity", "alice", decoded.Identity)
	testutils.AssertStringsEqual(t, "payload", "0x04,cafe", decoded.Payload)
}

func TestPipeDelivery(t *testing.T) {
	a, b := Pipe()

	if err := a.Send(Message{Identity: "alice", Payload: "0x01"}); err != nil {
		t.Fatal(err)
	}
	if err := a.Send(Message{Identity: "alice", Payload: "0x02"}); err != nil {
		t.Fatal(err)
	}

	first, err := b.Receive()
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Receive()
	if err != nil {
		t.Fatal(err)
	}

	testutils.AssertStringsEqual(t, "first payload", "0x01", first.Payload)
	testutils.AssertStringsEqual(t, "second payload", "0x02", second.Payload)
}

func TestPipeClosed(t *testing.T) {
	a, b := Pipe()
	a.Close()

	if err := a.Send(Message{}); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got [%v]", err)
	}
	if _, err := a.Receive(); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got [%v]", err)
	}

	// The peer endpoint stays usable for sends.
	if err := b.Send(Message{}); err != nil {
		t.Fatal(err)
	}
}
