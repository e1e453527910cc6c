// Package spake2 implements the SPAKE2 Password Authenticated Key Exchange
// protocol.
//
// SPAKE2 is a symmetric PAKE: two parties holding a shared low-entropy
// password derive a high-entropy shared secret over an untrusted channel. A
// passive observer learns nothing about the password and an active attacker
// gets at most one online password guess per protocol run.
//
// Two sessions are required to fully exercise the protocol, one in client
// mode and one in server mode. Each session operates in three phases:
//
//   - SetupPhase derives the public key to be transmitted to the peer.
//   - KeyDerivationPhase consumes the peer's public key and derives the
//     shared group element, the transcript, the symmetric secrets, and the
//     confirmation keys.
//   - CheckProtocolComplete compares the peer's confirmation key against
//     the expected one and reports whether the protocol validated.
//
// Peer messages are delivered through PutPeerPublicKey and
// PutPeerConfirmationKey; the delivery channel itself is a caller concern
// (see the exchange package for a file-based and an in-process channel).
//
// The only ciphersuite currently defined is SPAKE2-P256-SHA256-HKDF-HMAC.
//
// [SPAKE2]
//
//	Ladd, W. and B. Kaduk, "SPAKE2, a Password-Authenticated Key Exchange",
//	RFC 9382, DOI 10.17487/RFC9382, September 2023,
//	<https://www.rfc-editor.org/rfc/rfc9382.html>.
//
// [RFC5869]
//
//	Krawczyk, H. and P. Eronen, "HMAC-based Extract-and-Expand Key
//	Derivation Function (HKDF)", RFC 5869, DOI 10.17487/RFC5869, May 2010,
//	<https://www.rfc-editor.org/rfc/rfc5869>.
//
// [RFC2104]
//
//	Krawczyk, H., Bellare, M., and R. Canetti, "HMAC: Keyed-Hashing for
//	Message Authentication", RFC 2104, DOI 10.17487/RFC2104, February 1997,
//	<https://www.rfc-editor.org/rfc/rfc2104>.
package spake2

import (
	"crypto/hmac"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"pake.network/spake2/curve"
)

// confirmationKeysInfo is the fixed prefix of the KDF info parameter used
// when deriving the confirmation MAC keys, as defined in [SPAKE2] section 4.
const confirmationKeysInfo = "ConfirmationKeys"

// Protocol errors.
var (
	// ErrEmptyPassword is returned by NewSession when no password was
	// provided.
	ErrEmptyPassword = errors.New("spake2: password must not be empty")

	// ErrInvalidState is returned when a protocol phase is invoked out of
	// order.
	ErrInvalidState = errors.New("spake2: invalid protocol state for this operation")

	// ErrNoPeerPublicKey is returned by KeyDerivationPhase when the
	// peer's public key has not been delivered yet.
	ErrNoPeerPublicKey = errors.New("spake2: peer public key not delivered")

	// ErrNoPeerConfirmation is returned by CheckProtocolComplete when the
	// peer's confirmation key has not been delivered yet.
	ErrNoPeerConfirmation = errors.New("spake2: peer confirmation key not delivered")

	// ErrInvalidPeerKey is returned when the delivered peer public key is
	// not a valid non-identity point on the ciphersuite curve.
	ErrInvalidPeerKey = errors.New("spake2: peer public key is not a valid point on the curve")

	// ErrPeerIdentityMismatch is returned when the identity on a peer
	// message does not match the identity the peer introduced itself
	// with.
	ErrPeerIdentityMismatch = errors.New("spake2: peer identity mismatch")
)

// Mode determines which side of the protocol a session runs: the client
// blinds its public key with M, the server with N.
type Mode int

const (
	// ModeClient is the A side of the protocol.
	ModeClient Mode = iota

	// ModeServer is the B side of the protocol.
	ModeServer
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	if m == ModeServer {
		return "server"
	}
	return "client"
}

// Peer returns the mode the other party is assumed to run in.
func (m Mode) Peer() Mode {
	if m == ModeServer {
		return ModeClient
	}
	return ModeServer
}

// state tracks the per-session protocol phase. Transitions may not be
// skipped.
type state int

const (
	stateFresh state = iota
	stateSetupDone
	stateKeyDerivationDone
	stateVerified
	stateFailed
)

// SymmetricSecrets are the shared symmetric secrets, expressed as
// Ke || Ka = Hash(TT). Each is a "0x"-prefixed hex string of half the hash
// output, at least 128 bits.
type SymmetricSecrets struct {
	Ke string
	Ka string
}

// MacKeys are the confirmation MAC keys, expressed as
// KcA || KcB = KDF(Ka, "ConfirmationKeys" || AAD). Each is a "0x"-prefixed
// hex string of 128 bits.
type MacKeys struct {
	KcA string
	KcB string
}

// Config holds the inputs of a SPAKE2 session.
type Config struct {
	// Identity of this party, e.g. "server", "client", "alice". May be
	// empty.
	Identity string

	// Password shared between both parties. It is passed through the
	// ciphersuite memory-hard function to compute w and MUST be
	// identical on both sides for the protocol to validate.
	Password string

	// AAD is additional authenticated data mixed into the confirmation
	// key derivation. Both parties must supply identical AAD to agree.
	// May be empty.
	AAD string

	// Mode selects the client or the server side of the protocol.
	Mode Mode

	// Suite is the ciphersuite to run with. If nil, the
	// SPAKE2-P256-SHA256-HKDF-HMAC suite is used.
	Suite Ciphersuite

	// Rand is the entropy source for the private scalar. If nil, the
	// system cryptographic source is used.
	Rand io.Reader
}

// Session is the per-party SPAKE2 state machine. A Session is exclusively
// owned by its holder; no operation may be called concurrently on the same
// session.
type Session struct {
	suite    Ciphersuite
	mode     Mode
	identity string
	password string
	aad      string
	rand     io.Reader

	// w is the shared integer derived from the password, in [0, p).
	w *big.Int

	// kPri is the private scalar, drawn uniformly from [0, p).
	kPri *big.Int

	// kPub is the blinded public key, pA or pB.
	kPub *curve.Point

	peerIdentity         string
	peerKPub             *curve.Point
	peerConfirmation     string
	havePeerKey          bool
	havePeerConfirmation bool

	// groupElement is the shared group element K.
	groupElement *curve.Point

	transcript      string
	transcriptHash  string
	secrets         SymmetricSecrets
	macKeys         MacKeys
	confirmationKey string
	expectedKey     string

	state state
}

// NewSession creates a new SPAKE2 session in a state ready for SetupPhase.
func NewSession(config Config) (*Session, error) {
	if config.Password == "" {
		return nil, ErrEmptyPassword
	}

	suite := config.Suite
	if suite == nil {
		suite = NewP256Ciphersuite()
	}

	reader := config.Rand
	if reader == nil {
		reader = rand.Reader
	}

	return &Session{
		suite:    suite,
		mode:     config.Mode,
		identity: config.Identity,
		password: config.Password,
		aad:      config.AAD,
		rand:     reader,
		state:    stateFresh,
	}, nil
}

// SetupPhase executes the first step of the protocol: it derives the shared
// integer w from the password, draws the private scalar, and computes the
// blinded public key to be transmitted to the peer:
//
//	pA = X + w*M  (client)
//	pB = Y + w*N  (server)
//
// where X (resp. Y) is the private scalar times the curve generator.
func (s *Session) SetupPhase() error {
	if s.state != stateFresh {
		return ErrInvalidState
	}

	c := s.suite.Curve()

	if s.w == nil {
		// The memory-hard function output is 8 bytes longer than the
		// field size so that the reduction modulo p is close to
		// uniform.
		pw := s.suite.MHF(s.password, curve.ByteLength(c.P)+8)
		w := new(big.Int).SetBytes(pw)
		s.w = w.Mod(w, c.P)
	}

	if s.kPri == nil {
		kPri, err := curve.UniformRandom(s.rand, c.P)
		if err != nil {
			return fmt.Errorf("private scalar generation failed: [%v]", err)
		}
		s.kPri = kPri
	}

	blinding := c.EcMul(s.blindingBase(), s.w)
	s.kPub = c.EcAdd(c.EcBaseMul(s.kPri), blinding)

	s.state = stateSetupDone
	return nil
}

// PutPeerPublicKey delivers the peer's public key and the identity the peer
// introduced itself with. It must be called after SetupPhase and before
// KeyDerivationPhase. The key must be a valid non-identity point on the
// ciphersuite curve.
func (s *Session) PutPeerPublicKey(identity string, kPub *curve.Point) error {
	if kPub == nil || kPub.Infinity || !s.suite.Curve().IsOnCurve(kPub) {
		return ErrInvalidPeerKey
	}

	s.peerIdentity = identity
	s.peerKPub = kPub.Copy()
	s.havePeerKey = true
	return nil
}

// PutPeerPublicKeyHex delivers the peer's public key from its uncompressed
// hex encoding, as carried by the setup transport message.
func (s *Session) PutPeerPublicKeyHex(identity, uncompressed string) error {
	point, err := curve.ParseUncompressedHex(
		uncompressed,
		s.suite.Curve().FieldSizeBytes,
	)
	if err != nil {
		return fmt.Errorf("malformed peer public key: [%v]", err)
	}
	return s.PutPeerPublicKey(identity, point)
}

// PutPeerConfirmationKey delivers the peer's confirmation key. The identity
// must equal the one delivered with the peer's public key; a mismatch is
// fatal to the session.
func (s *Session) PutPeerConfirmationKey(identity, confirmationKey string) error {
	if identity != s.peerIdentity {
		s.state = stateFailed
		return fmt.Errorf(
			"%w: got [%q], expected [%q]",
			ErrPeerIdentityMismatch,
			identity,
			s.peerIdentity,
		)
	}

	s.peerConfirmation = confirmationKey
	s.havePeerConfirmation = true
	return nil
}

// KeyDerivationPhase executes the second step of the protocol. Using the
// peer's public key it computes the shared group element
//
//	K = h*kPri * (peerKPub - w*B)
//
// where B is the OTHER party's blinding base, then assembles the protocol
// transcript, hashes it into the symmetric secrets Ke and Ka, derives the
// confirmation MAC keys KcA and KcB from Ka, and computes both confirmation
// tags.
func (s *Session) KeyDerivationPhase() error {
	if s.state != stateSetupDone {
		return ErrInvalidState
	}
	if !s.havePeerKey {
		return ErrNoPeerPublicKey
	}

	c := s.suite.Curve()

	// T = peerKPub - w*B, removing the peer's password blinding.
	blinding := c.EcMul(s.peerBlindingBase(), s.w)
	t := c.EcAdd(s.peerKPub, c.Negate(blinding))

	// K = (h * kPri) * T. Multiplying by the cofactor maps the result
	// into the prime-order subgroup.
	hkPri := new(big.Int).Mul(c.H, s.kPri)
	s.groupElement = c.EcMul(t, hkPri)

	s.transcript = s.buildTranscript()

	transcriptBytes, err := hexToBin(s.transcript)
	if err != nil {
		return fmt.Errorf("malformed transcript: [%v]", err)
	}

	hash := s.suite.Hash(transcriptBytes)
	s.transcriptHash = binToHex(hash, true)

	// Ke || Ka = Hash(TT), |Ke| = |Ka|.
	ke, ka, err := splitHexInHalf(s.transcriptHash)
	if err != nil {
		return fmt.Errorf("transcript hash split failed: [%v]", err)
	}
	s.secrets = SymmetricSecrets{Ke: ke, Ka: ka}

	if err := s.deriveMacKeys(ka, len(hash)); err != nil {
		return err
	}

	aConf, bConf, err := s.confirmationTags(transcriptBytes)
	if err != nil {
		return err
	}

	// Each party transmits its own tag and expects the opposite one.
	if s.mode == ModeClient {
		s.confirmationKey, s.expectedKey = aConf, bConf
	} else {
		s.confirmationKey, s.expectedKey = bConf, aConf
	}

	s.state = stateKeyDerivationDone
	return nil
}

// deriveMacKeys derives KcA || KcB = KDF(Ka, "ConfirmationKeys" || AAD) with
// an empty salt. Each key is half of the KDF output.
func (s *Session) deriveMacKeys(ka string, length int) error {
	kaBytes, err := hexToBin(ka)
	if err != nil {
		return fmt.Errorf("malformed Ka: [%v]", err)
	}

	okm, err := s.suite.KDF(kaBytes, []byte(confirmationKeysInfo+s.aad), length)
	if err != nil {
		return fmt.Errorf("confirmation key derivation failed: [%v]", err)
	}

	kcA, kcB, err := splitHexInHalf(binToHex(okm, true))
	if err != nil {
		return fmt.Errorf("confirmation key split failed: [%v]", err)
	}

	s.macKeys = MacKeys{KcA: kcA, KcB: kcB}
	return nil
}

// confirmationTags computes both parties' key confirmation tags,
// A_conf = MAC(KcA, TT) and B_conf = MAC(KcB, TT).
func (s *Session) confirmationTags(transcriptBytes []byte) (string, string, error) {
	kcABytes, err := hexToBin(s.macKeys.KcA)
	if err != nil {
		return "", "", fmt.Errorf("malformed KcA: [%v]", err)
	}
	kcBBytes, err := hexToBin(s.macKeys.KcB)
	if err != nil {
		return "", "", fmt.Errorf("malformed KcB: [%v]", err)
	}

	aConf := binToHex(s.suite.MAC(kcABytes, transcriptBytes), true)
	bConf := binToHex(s.suite.MAC(kcBBytes, transcriptBytes), true)

	return aConf, bConf, nil
}

// CheckProtocolComplete validates the peer's confirmation key against the
// expected one. This is the final stage of the protocol. The comparison is
// constant-time. The result is false when the keys do not match, which is
// the outcome of a password or AAD mismatch; no information about the cause
// is exposed.
func (s *Session) CheckProtocolComplete() (bool, error) {
	switch s.state {
	case stateVerified:
		return true, nil
	case stateFailed:
		return false, nil
	case stateKeyDerivationDone:
		// proceed
	default:
		return false, ErrInvalidState
	}
	if !s.havePeerConfirmation {
		return false, ErrNoPeerConfirmation
	}

	if s.verifyPeerConfirmation() {
		s.state = stateVerified
		return true, nil
	}

	s.state = stateFailed
	return false, nil
}

func (s *Session) verifyPeerConfirmation() bool {
	if s.expectedKey == "" {
		return false
	}

	expected, err := hexToBin(s.expectedKey)
	if err != nil {
		return false
	}
	actual, err := hexToBin(s.peerConfirmation)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, actual)
}

// buildTranscript assembles the protocol transcript
//
//	TT = len(A)  || A
//	  || len(B)  || B
//	  || len(pA) || pA
//	  || len(pB) || pB
//	  || len(K)  || K
//	  || len(w)  || w
//
// where A and pA are always the client's identity and public key and B and
// pB the server's, every length is an 8-byte little-endian byte count, the
// points are in uncompressed form, and w uses exactly its own byte length.
// The transcript is rendered as a "0x"-prefixed hex string. Both parties
// compute exactly the same transcript.
func (s *Session) buildTranscript() string {
	c := s.suite.Curve()

	clientIdentity, clientKey := s.identity, s.kPub
	serverIdentity, serverKey := s.peerIdentity, s.peerKPub
	if s.mode == ModeServer {
		clientIdentity, clientKey = s.peerIdentity, s.peerKPub
		serverIdentity, serverKey = s.identity, s.kPub
	}

	pointLen := uint64(clientKey.UncompressedByteCount(c.FieldSizeBytes))
	wLen := curve.ByteLength(s.w)

	var builder strings.Builder
	builder.WriteString(hexPrefixLowercase)

	builder.WriteString(littleEndianHex(uint64(len(clientIdentity)), 8))
	builder.WriteString(asciiToHex(clientIdentity, false))

	builder.WriteString(littleEndianHex(uint64(len(serverIdentity)), 8))
	builder.WriteString(asciiToHex(serverIdentity, false))

	builder.WriteString(littleEndianHex(pointLen, 8))
	builder.WriteString(clientKey.UncompressedHex(c.FieldSizeBytes, false))

	builder.WriteString(littleEndianHex(pointLen, 8))
	builder.WriteString(serverKey.UncompressedHex(c.FieldSizeBytes, false))

	builder.WriteString(littleEndianHex(pointLen, 8))
	builder.WriteString(s.groupElement.UncompressedHex(c.FieldSizeBytes, false))

	builder.WriteString(littleEndianHex(uint64(wLen), 8))
	builder.WriteString(curve.PadHex(s.w, 2*wLen))

	return builder.String()
}

// blindingBase returns this party's blinding base: M for the client, N for
// the server.
func (s *Session) blindingBase() *curve.Point {
	if s.mode == ModeServer {
		return s.suite.N()
	}
	return s.suite.M()
}

// peerBlindingBase returns the other party's blinding base.
func (s *Session) peerBlindingBase() *curve.Point {
	if s.mode == ModeServer {
		return s.suite.M()
	}
	return s.suite.N()
}

// Identity returns this session's identity.
func (s *Session) Identity() string {
	return s.identity
}

// Mode returns this session's mode of operation.
func (s *Session) Mode() Mode {
	return s.mode
}

// PublicKey returns the blinded public key computed in SetupPhase, or nil
// before SetupPhase.
func (s *Session) PublicKey() *curve.Point {
	return s.kPub
}

// UncompressedPublicKey returns the public key in the "0x04"-prefixed
// uncompressed hex form transmitted to the peer.
func (s *Session) UncompressedPublicKey() string {
	return s.kPub.UncompressedHex(s.suite.Curve().FieldSizeBytes, true)
}

// UncompressedGroupElement returns the shared group element K in
// uncompressed hex form. Valid after KeyDerivationPhase.
func (s *Session) UncompressedGroupElement() string {
	return s.groupElement.UncompressedHex(s.suite.Curve().FieldSizeBytes, true)
}

// Transcript returns the protocol transcript TT as a "0x"-prefixed hex
// string. Valid after KeyDerivationPhase.
func (s *Session) Transcript() string {
	return s.transcript
}

// TranscriptHash returns Hash(TT) as a "0x"-prefixed hex string. Valid
// after KeyDerivationPhase.
func (s *Session) TranscriptHash() string {
	return s.transcriptHash
}

// SharedSymmetricSecrets returns the shared symmetric secrets Ke and Ka.
// Valid after KeyDerivationPhase.
func (s *Session) SharedSymmetricSecrets() SymmetricSecrets {
	return s.secrets
}

// MacKeys returns the confirmation MAC keys KcA and KcB. Valid after
// KeyDerivationPhase.
func (s *Session) MacKeys() MacKeys {
	return s.macKeys
}

// ConfirmationKey returns the confirmation tag this party transmits to the
// peer: A_conf for the client, B_conf for the server. Valid after
// KeyDerivationPhase.
func (s *Session) ConfirmationKey() string {
	return s.confirmationKey
}

// Close wipes the secret-bearing material held by the session: the shared
// integer w and the private scalar. The session must not be used after
// Close.
func (s *Session) Close() {
	wipeInt(s.w)
	wipeInt(s.kPri)
	s.w = nil
	s.kPri = nil
	s.password = ""
	s.secrets = SymmetricSecrets{}
	s.macKeys = MacKeys{}
	s.state = stateFailed
}

// wipeInt zeroes the limbs backing the big integer and sets its value to
// zero.
func wipeInt(n *big.Int) {
	if n == nil {
		return
	}
	bits := n.Bits()
	for i := range bits {
		bits[i] = 0
	}
	n.SetInt64(0)
}
