package exchange

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pion/logging"
)

// File names used in the shared directory. The role is "client" or
// "server"; each party writes its own files and polls for the peer's.
const (
	publicKeyFilePattern    = "spake2_%s_kpub.key"
	confirmationFilePattern = "spake2_%s_kconf.key"
)

// Defaults for DirConfig.
const (
	defaultPollInterval = 250 * time.Millisecond
	defaultTimeout      = 2 * time.Minute
)

// DirConfig configures a shared-directory endpoint.
type DirConfig struct {
	// Dir is the shared directory both parties operate in.
	Dir string

	// LocalRole and PeerRole name the two sides, conventionally
	// "client" and "server". They select the file names written and
	// polled for.
	LocalRole string
	PeerRole  string

	// PollInterval is the delay between polls for the peer's file.
	// Zero means 250ms.
	PollInterval time.Duration

	// Timeout bounds a single Receive call. Zero means 2 minutes.
	Timeout time.Duration

	// LoggerFactory is the factory for creating loggers. If nil,
	// logging is disabled.
	LoggerFactory logging.LoggerFactory
}

// Dir is a Endpoint implementation exchanging messages through files in a
// shared directory. The first message of each direction travels in the
// public key file, the second in the confirmation key file.
type Dir struct {
	dir          string
	localRole    string
	peerRole     string
	pollInterval time.Duration
	timeout      time.Duration
	log          logging.LeveledLogger

	sent     int
	received int
}

// NewDir creates a shared-directory endpoint.
func NewDir(config DirConfig) (*Dir, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("exchange: directory must not be empty")
	}
	if config.LocalRole == "" || config.PeerRole == "" {
		return nil, fmt.Errorf("exchange: both roles must be set")
	}

	pollInterval := config.PollInterval
	if pollInterval == 0 {
		pollInterval = defaultPollInterval
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	var log logging.LeveledLogger = &nopLogger{}
	if config.LoggerFactory != nil {
		log = config.LoggerFactory.NewLogger("exchange")
	}

	return &Dir{
		dir:          config.Dir,
		localRole:    config.LocalRole,
		peerRole:     config.PeerRole,
		pollInterval: pollInterval,
		timeout:      timeout,
		log:          log,
	}, nil
}

// Send writes the message to this party's next file in the shared
// directory.
func (d *Dir) Send(message Message) error {
	name := d.fileName(d.localRole, d.sent)
	path := filepath.Join(d.dir, name)

	if err := os.WriteFile(path, []byte(message.Encode()), 0o600); err != nil {
		return fmt.Errorf("writing [%s] failed: [%v]", name, err)
	}

	d.sent++
	d.log.Debugf("wrote %s", name)
	return nil
}

// Receive polls for the peer's next file in the shared directory and
// returns the message it carries. It gives up after the configured
// timeout.
func (d *Dir) Receive() (Message, error) {
	name := d.fileName(d.peerRole, d.received)
	path := filepath.Join(d.dir, name)

	d.log.Debugf("waiting for %s", name)

	deadline := time.Now().Add(d.timeout)
	for {
		content, err := os.ReadFile(path)
		if err == nil {
			message, err := DecodeMessage(string(content))
			if err != nil {
				return Message{}, fmt.Errorf("reading [%s] failed: [%v]", name, err)
			}
			d.received++
			return message, nil
		}
		if !os.IsNotExist(err) {
			return Message{}, fmt.Errorf("reading [%s] failed: [%v]", name, err)
		}

		if time.Now().After(deadline) {
			return Message{}, fmt.Errorf("timed out waiting for [%s]", name)
		}
		time.Sleep(d.pollInterval)
	}
}

// RemoveFiles deletes this party's files from the shared directory. Called
// on teardown so a finished run does not confuse the next one.
func (d *Dir) RemoveFiles() {
	for i := 0; i < d.sent; i++ {
		path := filepath.Join(d.dir, d.fileName(d.localRole, i))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			d.log.Warnf("removing %s failed: %v", path, err)
		}
	}
}

func (d *Dir) fileName(role string, sequence int) string {
	if sequence == 0 {
		return fmt.Sprintf(publicKeyFilePattern, role)
	}
	return fmt.Sprintf(confirmationFilePattern, role)
}

// nopLogger discards all messages.
type nopLogger struct{}

func (l *nopLogger) Trace(string)                  {}
func (l *nopLogger) Tracef(string, ...interface{}) {}
func (l *nopLogger) Debug(string)                  {}
func (l *nopLogger) Debugf(string, ...interface{}) {}
func (l *nopLogger) Info(string)                   {}
func (l *nopLogger) Infof(string, ...interface{})  {}
func (l *nopLogger) Warn(string)                   {}
func (l *nopLogger) Warnf(string, ...interface{})  {}
func (l *nopLogger) Error(string)                  {}
func (l *nopLogger) Errorf(string, ...interface{}) {}
