package externalapi

import "bytes"

// DomainTransactionInput represents a Kaspa transaction input
type DomainTransactionInput struct {
	PreviousOutpoint DomainOutpoint
	SignatureScript  []byte
	Sequence         uint64
	SigOpCount       byte

	// UTXOEntry is the resolved previous output this input spends. It is
	// populated by the caller (e.g. the generator, or a verifier resolving
	// UTXOs) and is not serialized into the transaction id or hash, though
	// this input's signing hash commits to its script and amount. It
	// exists so consensushashing and txscript have the amount and script
	// to work with without a side lookup.
	UTXOEntry *UTXOEntry
}

// Clone returns a clone of DomainTransactionInput
func (input *DomainTransactionInput) Clone() *DomainTransactionInput {
	if input == nil {
		return nil
	}

	signatureScriptClone := make([]byte, len(input.SignatureScript))
	copy(signatureScriptClone, input.SignatureScript)

	return &DomainTransactionInput{
		PreviousOutpoint: *input.PreviousOutpoint.Clone(),
		SignatureScript:  signatureScriptClone,
		Sequence:         input.Sequence,
		SigOpCount:       input.SigOpCount,
		UTXOEntry:        input.UTXOEntry.Clone(),
	}
}

// Equal returns whether input equals to other
func (input *DomainTransactionInput) Equal(other *DomainTransactionInput) bool {
	if input == nil || other == nil {
		return input == other
	}

	if !input.PreviousOutpoint.Equal(&other.PreviousOutpoint) {
		return false
	}

	if !bytes.Equal(input.SignatureScript, other.SignatureScript) {
		return false
	}

	if input.Sequence != other.Sequence {
		return false
	}

	return input.SigOpCount == other.SigOpCount
}
