package externalapi

// DomainTransaction represents a Kaspa transaction
type DomainTransaction struct {
	Version      uint16
	Inputs       []*DomainTransactionInput
	Outputs      []*DomainTransactionOutput
	LockTime     uint64
	SubnetworkID DomainSubnetworkID
	Gas          uint64
	Payload      []byte

	// Fee and Mass are not part of the transaction's identity (see ID
	// below): Fee is computed by a verifier from the resolved UTXO set,
	// and Mass is either assigned by the generator or
	// populated externally by a caller that already knows it.
	Fee  uint64
	Mass uint64

	// ID caches the result of consensushashing.TransactionID. It is
	// invalidated (set back to nil) by any mutation helper on this type;
	// callers that mutate fields directly are responsible for clearing it.
	ID *DomainTransactionID
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	if tx == nil {
		return nil
	}

	inputs := make([]*DomainTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputs[i] = input.Clone()
	}

	outputs := make([]*DomainTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputs[i] = output.Clone()
	}

	payloadClone := make([]byte, len(tx.Payload))
	copy(payloadClone, tx.Payload)

	return &DomainTransaction{
		Version:      tx.Version,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     tx.LockTime,
		SubnetworkID: *tx.SubnetworkID.Clone(),
		Gas:          tx.Gas,
		Payload:      payloadClone,
		Fee:          tx.Fee,
		Mass:         tx.Mass,
		ID:           tx.ID.Clone(),
	}
}

// CloneWithoutSignatureScripts returns a clone of the transaction with every
// input's SignatureScript cleared. The id, and any signing hash computed over
// the result, is unaffected by SignatureScript contents.
func (tx *DomainTransaction) CloneWithoutSignatureScripts() *DomainTransaction {
	clone := tx.Clone()
	for _, input := range clone.Inputs {
		input.SignatureScript = nil
	}
	clone.ID = nil
	return clone
}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}

	if tx.Version != other.Version {
		return false
	}

	if len(tx.Inputs) != len(other.Inputs) {
		return false
	}
	for i, input := range tx.Inputs {
		if !input.Equal(other.Inputs[i]) {
			return false
		}
	}

	if len(tx.Outputs) != len(other.Outputs) {
		return false
	}
	for i, output := range tx.Outputs {
		if !output.Equal(other.Outputs[i]) {
			return false
		}
	}

	if tx.LockTime != other.LockTime {
		return false
	}

	if !tx.SubnetworkID.Equal(&other.SubnetworkID) {
		return false
	}

	if tx.Gas != other.Gas {
		return false
	}

	return string(tx.Payload) == string(other.Payload)
}
