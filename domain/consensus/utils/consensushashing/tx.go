package consensushashing

import (
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/hashes"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/subnetworks"
	"github.com/kaspanet/kaspa-tx-sdk/logger"
)

var log = logger.HASH

// TransactionHash returns the full body hash of tx: every field including
// each input's SignatureScript and the payload. Two distinct
// transactions that differ only in signature scripts have distinct
// TransactionHash values but, per TransactionID below, the same id.
func TransactionHash(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	writer := hashes.NewTransactionHashWriter()
	serializeTransaction(writer, tx, true, true)
	hash := writer.Finalize()
	return &hash
}

// TransactionID returns tx's canonical id: the body hash with every
// SignatureScript cleared, and the payload included only when the
// transaction does not belong to the native subnetwork. This corner case must
// be preserved exactly: toggling the subnetwork id flips whether the
// payload is hashed at all, not merely whether it is zeroed.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	writer := hashes.NewTransactionIDWriter()
	includePayload := tx.SubnetworkID != subnetworks.SubnetworkIDNative
	serializeTransaction(writer, tx, false, includePayload)
	id := externalapi.DomainTransactionID(writer.Finalize())
	log.Tracef("transaction id: %s", id)
	return &id
}

// serializeTransaction writes tx's fields to w in the fixed consensus
// §4.2 specifies. includeSignatureScript selects whether each input's
// SignatureScript is hashed verbatim (true, for TransactionHash) or written
// as a zero-length string (false, for TransactionID). includePayload
// controls whether the payload's length-prefixed bytes are written at all:
// when false, the payload field is omitted from the stream entirely, not
// just zeroed, per the native-subnetwork id corner case above.
func serializeTransaction(w hashes.HashWriter, tx *externalapi.DomainTransaction, includeSignatureScript, includePayload bool) {
	writeUint16LE(w, tx.Version)

	writeUint64LE(w, uint64(len(tx.Inputs)))
	for _, input := range tx.Inputs {
		writeOutpoint(w, &input.PreviousOutpoint)
		if includeSignatureScript {
			writeVarBytes(w, input.SignatureScript)
		} else {
			writeVarBytes(w, nil)
		}
		writeUint64LE(w, input.Sequence)
		writeUint8(w, input.SigOpCount)
	}

	writeUint64LE(w, uint64(len(tx.Outputs)))
	for _, output := range tx.Outputs {
		writeOutput(w, output)
	}

	writeUint64LE(w, tx.LockTime)
	w.InfallibleWrite(tx.SubnetworkID[:])
	writeUint64LE(w, tx.Gas)

	if includePayload {
		writeVarBytes(w, tx.Payload)
	}
}
