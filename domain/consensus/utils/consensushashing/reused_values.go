package consensushashing

import "github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"

// SighashReusedValues memoizes the per-transaction sub-hashes the signing
// describes (previous-outputs hash, sequences hash, sig-op-counts hash, and
// the SigHashAll outputs hash): each depends only on fields shared by every
// input, so computing them once per transaction and reusing them across
// every CalculateSignatureHash call on that transaction avoids redundant
// hashing work. A zero-value SighashReusedValues is ready to use; it is
// scoped to a single transaction and must not be reused across distinct
// transactions.
type SighashReusedValues struct {
	previousOutputsHash *externalapi.DomainHash
	sequencesHash       *externalapi.DomainHash
	sigOpCountsHash     *externalapi.DomainHash
	outputsHashAll      *externalapi.DomainHash
}
