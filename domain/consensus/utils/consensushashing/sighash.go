package consensushashing

import (
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

var zeroHash externalapi.DomainHash

// CalculateSignatureHash produces the 32-byte pre-image digest a Schnorr
// signature over input inputIndex of tx commits to, honoring hashType.
// reusedValues caches the sub-hashes that do not depend on
// inputIndex or hashType's base component; pass a fresh SighashReusedValues
// per transaction and reuse it across every input being signed.
//
// Every input's UTXOEntry must already be populated (the resolved previous
// output the generator or a verifier attached); this is a programmer error,
// not a validation error, if unmet.
func CalculateSignatureHash(tx *externalapi.DomainTransaction, inputIndex int,
	hashType externalapi.SigHashType, reusedValues *SighashReusedValues) (*externalapi.DomainHash, error) {

	if !hashType.IsStandard() {
		return nil, errors.Errorf("non-standard sighash type %02x", byte(hashType))
	}
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return nil, errors.Errorf("input index %d is out of range for a transaction with %d inputs",
			inputIndex, len(tx.Inputs))
	}
	input := tx.Inputs[inputIndex]
	if input.UTXOEntry == nil {
		return nil, errors.Errorf("input %d has no resolved UTXOEntry", inputIndex)
	}

	writer := hashes.NewTransactionSigningHashWriter()
	writeUint16LE(writer, tx.Version)

	previousOutputsHash := previousOutputsHash(tx, hashType, reusedValues)
	writer.InfallibleWrite(previousOutputsHash[:])

	sequencesHash := sequencesHash(tx, hashType, reusedValues)
	writer.InfallibleWrite(sequencesHash[:])

	sigOpCountsHash := sigOpCountsHash(tx, hashType, reusedValues)
	writer.InfallibleWrite(sigOpCountsHash[:])

	writeOutpoint(writer, &input.PreviousOutpoint)
	writeScriptPublicKey(writer, input.UTXOEntry.ScriptPublicKey)
	writeUint64LE(writer, input.UTXOEntry.Amount)
	writeUint64LE(writer, input.Sequence)
	writeUint8(writer, input.SigOpCount)

	outputsHash := outputsHash(tx, hashType, inputIndex, reusedValues)
	writer.InfallibleWrite(outputsHash[:])

	writeUint64LE(writer, tx.LockTime)
	writer.InfallibleWrite(tx.SubnetworkID[:])
	writeUint64LE(writer, tx.Gas)

	payloadHash := hashes.Blake2b256(tx.Payload)
	writer.InfallibleWrite(payloadHash[:])

	writeUint8(writer, byte(hashType))

	hash := writer.Finalize()
	return &hash, nil
}

// CalculateSignatureHashECDSA produces the digest an ECDSA signature over
// input inputIndex of tx commits to: the same pre-image as
// CalculateSignatureHash, but run through the ECDSA personalization writer
// and then wrapped in an outer SHA-256.
func CalculateSignatureHashECDSA(tx *externalapi.DomainTransaction, inputIndex int,
	hashType externalapi.SigHashType, reusedValues *SighashReusedValues) (*externalapi.DomainHash, error) {

	if !hashType.IsStandard() {
		return nil, errors.Errorf("non-standard sighash type %02x", byte(hashType))
	}
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return nil, errors.Errorf("input index %d is out of range for a transaction with %d inputs",
			inputIndex, len(tx.Inputs))
	}
	input := tx.Inputs[inputIndex]
	if input.UTXOEntry == nil {
		return nil, errors.Errorf("input %d has no resolved UTXOEntry", inputIndex)
	}

	writer := hashes.NewTransactionSigningHashECDSAWriter()
	writeUint16LE(writer, tx.Version)

	previousOutputsHash := previousOutputsHash(tx, hashType, reusedValues)
	writer.InfallibleWrite(previousOutputsHash[:])

	sequencesHash := sequencesHash(tx, hashType, reusedValues)
	writer.InfallibleWrite(sequencesHash[:])

	sigOpCountsHash := sigOpCountsHash(tx, hashType, reusedValues)
	writer.InfallibleWrite(sigOpCountsHash[:])

	writeOutpoint(writer, &input.PreviousOutpoint)
	writeScriptPublicKey(writer, input.UTXOEntry.ScriptPublicKey)
	writeUint64LE(writer, input.UTXOEntry.Amount)
	writeUint64LE(writer, input.Sequence)
	writeUint8(writer, input.SigOpCount)

	outputsHash := outputsHash(tx, hashType, inputIndex, reusedValues)
	writer.InfallibleWrite(outputsHash[:])

	writeUint64LE(writer, tx.LockTime)
	writer.InfallibleWrite(tx.SubnetworkID[:])
	writeUint64LE(writer, tx.Gas)

	payloadHash := hashes.Blake2b256(tx.Payload)
	writer.InfallibleWrite(payloadHash[:])

	writeUint8(writer, byte(hashType))

	blakeDigest := writer.Finalize()
	ecdsaHash := hashes.ECDSAMessageHashFromSigningHash(blakeDigest)
	return &ecdsaHash, nil
}

func previousOutputsHash(tx *externalapi.DomainTransaction, hashType externalapi.SigHashType,
	reusedValues *SighashReusedValues) externalapi.DomainHash {

	if hashType.IsAnyOneCanPay() {
		return zeroHash
	}
	if reusedValues.previousOutputsHash != nil {
		return *reusedValues.previousOutputsHash
	}

	writer := hashes.NewTransactionSigningHashWriter()
	for _, input := range tx.Inputs {
		writeOutpoint(writer, &input.PreviousOutpoint)
	}
	hash := writer.Finalize()
	reusedValues.previousOutputsHash = &hash
	return hash
}

func sequencesHash(tx *externalapi.DomainTransaction, hashType externalapi.SigHashType,
	reusedValues *SighashReusedValues) externalapi.DomainHash {

	if hashType.IsAnyOneCanPay() || hashType.Base() == externalapi.SigHashSingle || hashType.Base() == externalapi.SigHashNone {
		return zeroHash
	}
	if reusedValues.sequencesHash != nil {
		return *reusedValues.sequencesHash
	}

	writer := hashes.NewTransactionSigningHashWriter()
	for _, input := range tx.Inputs {
		writeUint64LE(writer, input.Sequence)
	}
	hash := writer.Finalize()
	reusedValues.sequencesHash = &hash
	return hash
}

func sigOpCountsHash(tx *externalapi.DomainTransaction, hashType externalapi.SigHashType,
	reusedValues *SighashReusedValues) externalapi.DomainHash {

	if hashType.IsAnyOneCanPay() || hashType.Base() == externalapi.SigHashSingle || hashType.Base() == externalapi.SigHashNone {
		return zeroHash
	}
	if reusedValues.sigOpCountsHash != nil {
		return *reusedValues.sigOpCountsHash
	}

	writer := hashes.NewTransactionSigningHashWriter()
	for _, input := range tx.Inputs {
		writeUint8(writer, input.SigOpCount)
	}
	hash := writer.Finalize()
	reusedValues.sigOpCountsHash = &hash
	return hash
}

func outputsHash(tx *externalapi.DomainTransaction, hashType externalapi.SigHashType, inputIndex int,
	reusedValues *SighashReusedValues) externalapi.DomainHash {

	switch hashType.Base() {
	case externalapi.SigHashNone:
		return zeroHash

	case externalapi.SigHashSingle:
		if inputIndex >= len(tx.Outputs) {
			return zeroHash
		}
		writer := hashes.NewTransactionSigningHashWriter()
		writeOutput(writer, tx.Outputs[inputIndex])
		return writer.Finalize()

	default: // SigHashAll
		if reusedValues.outputsHashAll != nil {
			return *reusedValues.outputsHashAll
		}
		writer := hashes.NewTransactionSigningHashWriter()
		for _, output := range tx.Outputs {
			writeOutput(writer, output)
		}
		hash := writer.Finalize()
		reusedValues.outputsHashAll = &hash
		return hash
	}
}
