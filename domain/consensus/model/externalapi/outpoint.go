package externalapi

import "fmt"

// DomainOutpoint is the domain representation of the transaction outpoint
type DomainOutpoint struct {
	TransactionID DomainTransactionID
	Index         uint32
}

// NewDomainOutpoint creates a new DomainOutpoint
func NewDomainOutpoint(txID *DomainTransactionID, index uint32) *DomainOutpoint {
	return &DomainOutpoint{
		TransactionID: *txID,
		Index:         index,
	}
}

// String stringifies an outpoint.
func (op DomainOutpoint) String() string {
	return fmt.Sprintf("(%s, %d)", op.TransactionID, op.Index)
}

// Equal returns whether op equals to other
func (op *DomainOutpoint) Equal(other *DomainOutpoint) bool {
	if op == nil || other == nil {
		return op == other
	}

	return op.TransactionID == other.TransactionID && op.Index == other.Index
}

// Clone returns a clone of DomainOutpoint
func (op *DomainOutpoint) Clone() *DomainOutpoint {
	if op == nil {
		return nil
	}

	return &DomainOutpoint{
		TransactionID: op.TransactionID,
		Index:         op.Index,
	}
}
