// spake2 runs one side of the SPAKE2 Password Authenticated Key Exchange
// against a peer process operating in the same directory.
//
// Usage:
//
//	spake2 -pw <password> [options]
//
// Options:
//
//	-s, -server    Run as the server (default: client)
//	-i, -identity  Identity of this party (default: empty)
//	-aad           Additional authenticated data (default: empty)
//	-pw            Shared password (required)
//
// One party must run as the client and the other as the server. The parties
// exchange their public keys and confirmation keys through files in the
// current directory.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pion/logging"

	"pake.network/spake2"
	"pake.network/spake2/exchange"
)

func main() {
	var (
		serverMode bool
		identity   string
		aad        string
		password   string
	)

	flag.BoolVar(&serverMode, "s", false, "run as the server")
	flag.BoolVar(&serverMode, "server", false, "run as the server")
	flag.StringVar(&identity, "i", "", "identity of this party")
	flag.StringVar(&identity, "identity", "", "identity of this party")
	flag.StringVar(&aad, "aad", "", "additional authenticated data")
	flag.StringVar(&password, "pw", "", "shared password (required)")
	flag.Parse()

	if password == "" {
		fmt.Fprintln(os.Stderr, "spake2: -pw is required")
		flag.Usage()
		os.Exit(2)
	}

	mode := spake2.ModeClient
	if serverMode {
		mode = spake2.ModeServer
	}

	loggerFactory := logging.NewDefaultLoggerFactory()
	log := loggerFactory.NewLogger("spake2")

	if err := run(mode, identity, password, aad, loggerFactory, log); err != nil {
		log.Errorf("protocol run failed: %v", err)
		os.Exit(1)
	}

	log.Info("protocol complete, confirmation keys match")
}

func run(
	mode spake2.Mode,
	identity string,
	password string,
	aad string,
	loggerFactory logging.LoggerFactory,
	log logging.LeveledLogger,
) error {
	session, err := spake2.NewSession(spake2.Config{
		Identity: identity,
		Password: password,
		AAD:      aad,
		Mode:     mode,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	workingDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory failed: [%v]", err)
	}

	endpoint, err := exchange.NewDir(exchange.DirConfig{
		Dir:           workingDir,
		LocalRole:     mode.String(),
		PeerRole:      mode.Peer().String(),
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return err
	}
	defer endpoint.RemoveFiles()

	log.Infof("running as %s", mode)

	if err := session.SetupPhase(); err != nil {
		return err
	}
	err = endpoint.Send(exchange.Message{
		Identity: identity,
		Payload:  session.UncompressedPublicKey(),
	})
	if err != nil {
		return err
	}

	log.Info("setup phase done, waiting for peer public key")

	peerSetup, err := endpoint.Receive()
	if err != nil {
		return err
	}
	if err := session.PutPeerPublicKeyHex(peerSetup.Identity, peerSetup.Payload); err != nil {
		return err
	}

	if err := session.KeyDerivationPhase(); err != nil {
		return err
	}
	err = endpoint.Send(exchange.Message{
		Identity: identity,
		Payload:  session.ConfirmationKey(),
	})
	if err != nil {
		return err
	}

	log.Info("key derivation done, waiting for peer confirmation key")

	peerConfirmation, err := endpoint.Receive()
	if err != nil {
		return err
	}
	err = session.PutPeerConfirmationKey(
		peerConfirmation.Identity,
		peerConfirmation.Payload,
	)
	if err != nil {
		return err
	}

	complete, err := session.CheckProtocolComplete()
	if err != nil {
		return err
	}
	if !complete {
		return fmt.Errorf("confirmation keys do not match")
	}

	return nil
}
