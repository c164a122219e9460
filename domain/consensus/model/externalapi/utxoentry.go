package externalapi

// UTXOEntry houses details about an individual unspent transaction output:
// how much it pays, the script that must be satisfied to spend it, the DAA
// score of the block that accepted it (used by the generator's
// coinbase-maturity filter), and whether it originated from a coinbase
// transaction.
type UTXOEntry struct {
	Amount          uint64
	ScriptPublicKey *DomainScriptPublicKey
	BlockDAAScore   uint64
	IsCoinbase      bool
}

// NewUTXOEntry creates a new UTXOEntry representing the given output.
func NewUTXOEntry(amount uint64, scriptPublicKey *DomainScriptPublicKey, isCoinbase bool, blockDAAScore uint64) *UTXOEntry {
	return &UTXOEntry{
		Amount:          amount,
		ScriptPublicKey: scriptPublicKey,
		BlockDAAScore:   blockDAAScore,
		IsCoinbase:      isCoinbase,
	}
}

// Clone returns a clone of UTXOEntry
func (entry *UTXOEntry) Clone() *UTXOEntry {
	if entry == nil {
		return nil
	}

	return &UTXOEntry{
		Amount:          entry.Amount,
		ScriptPublicKey: entry.ScriptPublicKey.Clone(),
		BlockDAAScore:   entry.BlockDAAScore,
		IsCoinbase:      entry.IsCoinbase,
	}
}

// Equal returns whether entry equals to other
func (entry *UTXOEntry) Equal(other *UTXOEntry) bool {
	if entry == nil || other == nil {
		return entry == other
	}

	if entry.Amount != other.Amount {
		return false
	}

	if !entry.ScriptPublicKey.Equal(other.ScriptPublicKey) {
		return false
	}

	if entry.BlockDAAScore != other.BlockDAAScore {
		return false
	}

	return entry.IsCoinbase == other.IsCoinbase
}
