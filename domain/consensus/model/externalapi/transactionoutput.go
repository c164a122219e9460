package externalapi

// DomainTransactionOutput represents a Kaspa transaction output
type DomainTransactionOutput struct {
	Value           uint64
	ScriptPublicKey *DomainScriptPublicKey
}

// NewTransactionOutput creates a new DomainTransactionOutput
func NewTransactionOutput(value uint64, scriptPublicKey *DomainScriptPublicKey) *DomainTransactionOutput {
	return &DomainTransactionOutput{
		Value:           value,
		ScriptPublicKey: scriptPublicKey,
	}
}

// Clone returns a clone of DomainTransactionOutput
func (output *DomainTransactionOutput) Clone() *DomainTransactionOutput {
	if output == nil {
		return nil
	}

	return &DomainTransactionOutput{
		Value:           output.Value,
		ScriptPublicKey: output.ScriptPublicKey.Clone(),
	}
}

// Equal returns whether output equals to other. Note that this compares the
// script public keys by value: two outputs paying to byte-identical scripts
// under the same version are equal even if they are distinct objects. An
// earlier generation of this logic had the comparison inverted; it is
// corrected here.
func (output *DomainTransactionOutput) Equal(other *DomainTransactionOutput) bool {
	if output == nil || other == nil {
		return output == other
	}

	if output.Value != other.Value {
		return false
	}

	return output.ScriptPublicKey.Equal(other.ScriptPublicKey)
}
