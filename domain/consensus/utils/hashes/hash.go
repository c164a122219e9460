package hashes

import (
	"crypto/sha256"

	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"golang.org/x/crypto/blake2b"
)

// Blake2b256 hashes data with the plain, unkeyed BLAKE2b-256 function. This is
// what the script engine's OP_BLAKE2B opcode computes; unlike the keyed
// transaction-hashing writers, opcode-level hashing carries no domain
// separation key, since it operates on caller-supplied script data rather than
// a fixed transaction encoding.
func Blake2b256(data []byte) externalapi.DomainHash {
	return blake2b.Sum256(data)
}

// ECDSAMessageHashFromSigningHash wraps a BLAKE2b signing hash in an outer SHA-256,
// producing the 32-byte digest secp256k1's ECDSA verifier expects. Schnorr
// signatures are produced directly over the BLAKE2b digest and never pass through
// this wrapper.
func ECDSAMessageHashFromSigningHash(signingHash externalapi.DomainHash) externalapi.DomainHash {
	return sha256.Sum256(signingHash[:])
}
