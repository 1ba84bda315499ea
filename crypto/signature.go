/*
Package crypto is the signature boundary of the wallet engine.

The engine consumes it as a black box: RecoverAddress maps a message
digest and a signature to the identity that produced it, or fails when
the signature is malformed. Nothing in here keeps state.
*/
package crypto

import (
	"github.com/btcsuite/btcd/btcec"
	"golang.org/x/crypto/sha3"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// Signature error codes reserved for this package: 1010-1019.
var (
	// ErrInvalidSignature is returned for any signature that cannot be
	// parsed or recovered.
	ErrInvalidSignature = errors.Register(1010, "invalid signature")

	// ErrInvalidPrivateKey is returned when key material cannot be used.
	ErrInvalidPrivateKey = errors.Register(1011, "invalid private key")
)

// SignatureLength is the wire size of a signature: 32 bytes R, 32
// bytes S and one recovery byte V.
const SignatureLength = 65

// Signature is a recoverable secp256k1 signature over a 32 byte
// digest. V is normalized to the {27, 28} range.
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// ParseSignature decodes the 65 byte wire form r||s||v. A V value of
// {0, 1} is normalized to {27, 28}; anything else outside that range is
// rejected.
func ParseSignature(raw []byte) (Signature, error) {
	var sig Signature
	if len(raw) != SignatureLength {
		return sig, errors.Wrapf(ErrInvalidSignature, "length %d", len(raw))
	}
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	v := raw[64]
	if v == 0 || v == 1 {
		v += 27
	}
	if v != 27 && v != 28 {
		return sig, errors.Wrapf(ErrInvalidSignature, "recovery byte %d", raw[64])
	}
	sig.V = v
	return sig, nil
}

// Bytes returns the 65 byte wire form r||s||v.
func (s Signature) Bytes() []byte {
	raw := make([]byte, SignatureLength)
	copy(raw[:32], s.R[:])
	copy(raw[32:64], s.S[:])
	raw[64] = s.V
	return raw
}

// Validate returns an error unless V is already normalized.
func (s Signature) Validate() error {
	if s.V != 27 && s.V != 28 {
		return errors.Wrapf(ErrInvalidSignature, "recovery byte %d", s.V)
	}
	return nil
}

// RecoverAddress returns the identity that signed the given 32 byte
// digest. A malformed signature is a fatal error, never silently
// mapped to some caller identity.
func RecoverAddress(digest []byte, sig Signature) (multisig.Address, error) {
	if len(digest) != 32 {
		return nil, errors.Wrapf(ErrInvalidSignature, "digest length %d", len(digest))
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	// btcec compact form puts the recovery byte first.
	compact := make([]byte, SignatureLength)
	compact[0] = sig.V
	copy(compact[1:33], sig.R[:])
	copy(compact[33:], sig.S[:])

	pub, _, err := btcec.RecoverCompact(btcec.S256(), compact, digest)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return pubKeyAddress(pub), nil
}

// pubKeyAddress derives the 20 byte identity from a public key: the
// last 20 bytes of the keccak256 hash of the uncompressed point.
func pubKeyAddress(pub *btcec.PublicKey) multisig.Address {
	raw := pub.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(raw[1:]) // strip the 0x04 point prefix
	sum := h.Sum(nil)
	return multisig.Address(sum[len(sum)-multisig.AddressLength:])
}

// Keccak256 hashes data with the legacy keccak variant used for
// transaction digests.
func Keccak256(chunks ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	return h.Sum(nil)
}
