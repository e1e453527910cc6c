package exchange

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pake.network/spake2/internal/testutils"
)

func newTestDir(t *testing.T, dir, localRole, peerRole string) *Dir {
	endpoint, err := NewDir(DirConfig{
		Dir:          dir,
		LocalRole:    localRole,
		PeerRole:     peerRole,
		PollInterval: 5 * time.Millisecond,
		Timeout:      2 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	return endpoint
}

func TestDirRoundtrip(t *testing.T) {
	dir := t.TempDir()

	client := newTestDir(t, dir, "client", "server")
	server := newTestDir(t, dir, "server", "client")

	err := client.Send(Message{Identity: "alice", Payload: "0x04aa"})
	if err != nil {
		t.Fatal(err)
	}
	err = server.Send(Message{Identity: "bob", Payload: "0x04bb"})
	if err != nil {
		t.Fatal(err)
	}

	fromClient, err := server.Receive()
	if err != nil {
		t.Fatal(err)
	}
	fromServer, err := client.Receive()
	if err != nil {
		t.Fatal(err)
	}

	testutils.AssertDeepEqual(
		t,
		"message from client",
		Message{Identity: "alice", Payload: "0x04aa"},
		fromClient,
	)
	testutils.AssertDeepEqual(
		t,
		"message from server",
		Message{Identity: "bob", Payload: "0x04bb"},
		fromServer,
	)

	// The second message of each direction travels in the confirmation
	// key file.
	err = client.Send(Message{Identity: "alice", Payload: "0xc0"})
	if err != nil {
		t.Fatal(err)
	}

	confirmation, err := server.Receive()
	if err != nil {
		t.Fatal(err)
	}
	testutils.AssertStringsEqual(t, "confirmation payload", "0xc0", confirmation.Payload)

	for _, name := range []string{
		"spake2_client_kpub.key",
		"spake2_server_kpub.key",
		"spake2_client_kconf.key",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected file [%s] to exist: [%v]", name, err)
		}
	}
}

func TestDirReceiveTimeout(t *testing.T) {
	endpoint, err := NewDir(DirConfig{
		Dir:          t.TempDir(),
		LocalRole:    "client",
		PeerRole:     "server",
		PollInterval: 5 * time.Millisecond,
		Timeout:      50 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = endpoint.Receive()
	if err == nil {
		t.Fatalf("expected a non-nil error")
	}
}

func TestDirRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	endpoint := newTestDir(t, dir, "client", "server")

	if err := endpoint.Send(Message{Identity: "alice", Payload: "0x04aa"}); err != nil {
		t.Fatal(err)
	}
	if err := endpoint.Send(Message{Identity: "alice", Payload: "0xc0"}); err != nil {
		t.Fatal(err)
	}

	endpoint.RemoveFiles()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	testutils.AssertIntsEqual(t, "remaining files", 0, len(entries))
}

func TestNewDirValidation(t *testing.T) {
	tests := map[string]DirConfig{
		"missing directory": {LocalRole: "client", PeerRole: "server"},
		"missing roles":     {Dir: "."},
	}

	for testName, config := range tests {
		t.Run(testName, func(t *testing.T) {
			if _, err := NewDir(config); err == nil {
				t.Fatalf("expected a non-nil error")
			}
		})
	}
}
