package hashes

import (
	"hash"

	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// The following keys are used as BLAKE2b personalization keys, domain-separating
// every hash this package produces from every other. Each is padded to 32 bytes,
// the maximum BLAKE2b key size, with its ASCII bytes left-justified.
var (
	transactionHashKey             = padKey("TransactionHash")
	transactionIDKey               = padKey("TransactionID")
	transactionSigningHashKey      = padKey("TransactionSigningHash")
	transactionSigningHashECDSAKey = padKey("TransactionSigningHashECDSA")
	personalMessageSigningHashKey  = padKey("PersonalMessageSigningHash")
)

func padKey(s string) []byte {
	key := make([]byte, 32)
	copy(key, s)
	return key
}

// HashWriter is a Writer that also supports finalizing into a DomainHash.
// It is never exposed to the outside, since hashes.NewXXXWriter is the only way
// one should be constructed -- this is to ensure that hashing something is always
// explicit, and always uses the correct domain separation key.
type HashWriter struct {
	hash.Hash
}

// InfallibleWrite is Write without the possibility to return an error, since our
// hash implementation never returns an error on Write.
func (h HashWriter) InfallibleWrite(p []byte) {
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "hash.Hash should never return an error"))
	}
}

// Finalize returns the resulting hash.
func (h HashWriter) Finalize() externalapi.DomainHash {
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func newBlake2bWriter(key []byte) HashWriter {
	blake2bHash, err := blake2b.New256(key)
	if err != nil {
		// the only way this can fail is if the key is too long,
		// and all our keys are exactly 32 bytes.
		panic(err)
	}
	return HashWriter{blake2bHash}
}

// NewTransactionHashWriter Creates a writer that can be used to hash a transaction
// (including the payload and the signature scripts).
func NewTransactionHashWriter() HashWriter {
	return newBlake2bWriter(transactionHashKey)
}

// NewTransactionIDWriter Creates a writer that can be used to hash a transaction
// in order to generate its ID (excluding every signature script, and the
// payload on native-subnetwork transactions).
func NewTransactionIDWriter() HashWriter {
	return newBlake2bWriter(transactionIDKey)
}

// NewTransactionSigningHashWriter Creates a writer that can be used to hash a
// transaction's Schnorr signing hash.
func NewTransactionSigningHashWriter() HashWriter {
	return newBlake2bWriter(transactionSigningHashKey)
}

// NewTransactionSigningHashECDSAWriter Creates a writer that can be used to hash
// a transaction's ECDSA signing hash. The BLAKE2b digest this produces is not the
// final signing hash for ECDSA: it must still be wrapped in an outer SHA-256
// (see CalculateSignatureHashECDSA in consensushashing), because secp256k1 ECDSA
// verification in this ecosystem expects a SHA-256-sized message digest.
func NewTransactionSigningHashECDSAWriter() HashWriter {
	return newBlake2bWriter(transactionSigningHashECDSAKey)
}

// NewPersonalMessageSigningHashWriter Creates a writer that can be used to hash
// an off-chain personal message, domain-separated from every transaction hash.
func NewPersonalMessageSigningHashWriter() HashWriter {
	return newBlake2bWriter(personalMessageSigningHashKey)
}
