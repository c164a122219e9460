package externalapi

// DomainTransactionID is a transaction's identifying hash: the body hash
// with every input's signature script cleared, and (for non-native
// subnetworks only) the payload included.
type DomainTransactionID DomainHash

// String returns the transaction ID as a hexadecimal string.
func (id DomainTransactionID) String() string {
	return DomainHash(id).String()
}

// Clone clones the DomainTransactionID
func (id *DomainTransactionID) Clone() *DomainTransactionID {
	if id == nil {
		return nil
	}
	idClone := *id
	return &idClone
}

// Equal returns whether id equals to other
func (id *DomainTransactionID) Equal(other *DomainTransactionID) bool {
	if id == nil || other == nil {
		return id == other
	}

	return *id == *other
}
