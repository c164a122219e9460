// Package keys wraps github.com/kaspanet/go-secp256k1 key material behind a
// single Keypair type. A client-side SDK needs raw signing keys rather than
// an HD wallet, so there is no mnemonic or derivation layer here, only the
// leaf keypair.
package keys

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// Keypair is a secp256k1 signing key usable under either the Schnorr or the
// ECDSA signature scheme. A Keypair produced by
// GenerateSchnorrKeypair can only sign/verify as Schnorr; likewise for
// GenerateECDSAKeypair.
type Keypair struct {
	ecdsa          bool
	schnorrKeyPair *secp256k1.SchnorrKeyPair
	ecdsaKeyPair   *secp256k1.ECDSAPrivateKey
}

// GenerateSchnorrKeypair creates a new random Schnorr keypair.
func GenerateSchnorrKeypair() (*Keypair, error) {
	kp, err := secp256k1.GenerateSchnorrKeyPair()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate schnorr keypair")
	}
	return &Keypair{schnorrKeyPair: kp}, nil
}

// GenerateECDSAKeypair creates a new random ECDSA keypair.
func GenerateECDSAKeypair() (*Keypair, error) {
	kp, err := secp256k1.GenerateECDSAPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate ECDSA keypair")
	}
	return &Keypair{ecdsa: true, ecdsaKeyPair: kp}, nil
}

// DeserializeSchnorrKeypair parses a 32-byte private key as a Schnorr
// keypair.
func DeserializeSchnorrKeypair(privateKeyBytes []byte) (*Keypair, error) {
	kp, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(privateKeyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to deserialize schnorr private key")
	}
	return &Keypair{schnorrKeyPair: kp}, nil
}

// DeserializeECDSAKeypair parses a 32-byte private key as an ECDSA keypair.
func DeserializeECDSAKeypair(privateKeyBytes []byte) (*Keypair, error) {
	kp, err := secp256k1.DeserializeECDSAPrivateKeyFromSlice(privateKeyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to deserialize ECDSA private key")
	}
	return &Keypair{ecdsa: true, ecdsaKeyPair: kp}, nil
}

// IsECDSA reports whether this keypair signs under the ECDSA scheme rather
// than Schnorr.
func (k *Keypair) IsECDSA() bool {
	return k.ecdsa
}

// PublicKeyBytes returns the public key in the form the matching
// pay-to-pubkey script template expects: a 32-byte x-only coordinate for
// Schnorr, a 33-byte compressed point for ECDSA.
func (k *Keypair) PublicKeyBytes() ([]byte, error) {
	if k.ecdsa {
		pubKey, err := k.ecdsaKeyPair.ECDSAPublicKey()
		if err != nil {
			return nil, errors.Wrap(err, "failed to derive ECDSA public key")
		}
		serialized, err := pubKey.Serialize()
		if err != nil {
			return nil, errors.Wrap(err, "failed to serialize ECDSA public key")
		}
		return serialized[:], nil
	}

	pubKey, err := k.schnorrKeyPair.SchnorrPublicKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive schnorr public key")
	}
	serialized, err := pubKey.Serialize()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize schnorr public key")
	}
	return serialized[:], nil
}

// Sign produces the 64-byte signature (with no trailing sighash-type byte)
// over the given 32-byte signing hash, tagged with whichever scheme this
// keypair was created for.
func (k *Keypair) Sign(hash *externalapi.DomainHash) (externalapi.Signature, error) {
	var out [externalapi.SignatureSize]byte
	secpHash := secp256k1.Hash(*hash)

	if k.ecdsa {
		sig, err := k.ecdsaKeyPair.ECDSASign(&secpHash)
		if err != nil {
			return externalapi.Signature{}, errors.Wrap(err, "failed to create ECDSA signature")
		}
		serialized := sig.Serialize()
		copy(out[:], serialized[:])
		return externalapi.NewECDSASignature(out), nil
	}

	sig, err := k.schnorrKeyPair.SchnorrSign(&secpHash)
	if err != nil {
		return externalapi.Signature{}, errors.Wrap(err, "failed to create schnorr signature")
	}
	serialized := sig.Serialize()
	copy(out[:], serialized[:])
	return externalapi.NewSchnorrSignature(out), nil
}
