package txscript

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
)

// schnorrVerify checks a 64-byte Schnorr signature over hash under the
// 32-byte x-only public key pubKeyBytes.
func schnorrVerify(pubKeyBytes []byte, hash *externalapi.DomainHash, sigBytes []byte) bool {
	if len(sigBytes) != externalapi.SignatureSize {
		return false
	}
	pubKey, err := secp256k1.DeserializeSchnorrPubKey(pubKeyBytes)
	if err != nil {
		return false
	}
	signature, err := secp256k1.DeserializeSchnorrSignatureFromSlice(sigBytes)
	if err != nil {
		return false
	}
	secpHash := secp256k1.Hash(*hash)
	return pubKey.SchnorrVerify(&secpHash, signature)
}

// ecdsaVerify checks a 64-byte compact ECDSA signature over the ECDSA
// signing hash under the 33-byte compressed public key pubKeyBytes.
func ecdsaVerify(pubKeyBytes []byte, hash *externalapi.DomainHash, sigBytes []byte) bool {
	if len(sigBytes) != externalapi.SignatureSize {
		return false
	}
	pubKey, err := secp256k1.DeserializeECDSAPubKey(pubKeyBytes)
	if err != nil {
		return false
	}
	signature, err := secp256k1.DeserializeECDSASignatureFromSlice(sigBytes)
	if err != nil {
		return false
	}
	secpHash := secp256k1.Hash(*hash)
	return pubKey.ECDSAVerify(&secpHash, signature)
}
