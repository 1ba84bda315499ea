package crypto

import (
	"github.com/btcsuite/btcd/btcec"

	"github.com/iov-one/multisig"
	"github.com/iov-one/multisig/errors"
)

// Signer is the functionality we use from a private key. No
// serialization requirement, to support hardware devices as well.
type Signer interface {
	Sign(digest []byte) (Signature, error)
	Address() multisig.Address
}

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	priv *btcec.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivateKey creates a new random key.
func GenPrivateKey() (*PrivateKey, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	return &PrivateKey{priv: priv}, nil
}

// PrivateKeyFromBytes restores a key from its 32 byte serialized form.
func PrivateKeyFromBytes(raw []byte) (*PrivateKey, error) {
	if len(raw) != 32 {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "length %d", len(raw))
	}
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), raw)
	return &PrivateKey{priv: priv}, nil
}

// Bytes returns the 32 byte serialized form.
func (k *PrivateKey) Bytes() []byte {
	return k.priv.Serialize()
}

// Address returns the identity derived from the public key.
func (k *PrivateKey) Address() multisig.Address {
	return pubKeyAddress(k.priv.PubKey())
}

// Sign produces a recoverable signature over a 32 byte digest, with V
// normalized to the {27, 28} range.
func (k *PrivateKey) Sign(digest []byte) (Signature, error) {
	var sig Signature
	if len(digest) != 32 {
		return sig, errors.Wrapf(ErrInvalidSignature, "digest length %d", len(digest))
	}
	// Uncompressed form so the recovery byte lands on 27/28 directly.
	compact, err := btcec.SignCompact(btcec.S256(), k.priv, digest, false)
	if err != nil {
		return sig, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	sig.V = compact[0]
	copy(sig.R[:], compact[1:33])
	copy(sig.S[:], compact[33:])
	return sig, nil
}
