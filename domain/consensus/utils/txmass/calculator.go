// Package txmass implements the two independent mass functions consensus
// bounds transactions by: compute mass (a linear function of serialized
// size, script sizes, and sig-op counts) and storage mass (a
// harmonic-mean, anti-dust formula over output vs. input values). Both are
// pure functions of a transaction's fields; neither mutates its argument.
package txmass

import (
	"github.com/kaspanet/kaspa-tx-sdk/dagconfig"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/logger"
)

// Calculator computes compute mass and storage mass for transactions on one
// network.
type Calculator struct {
	params *dagconfig.Params
}

// NewCalculator creates a Calculator bound to params's mass coefficients.
func NewCalculator(params *dagconfig.Params) *Calculator {
	return &Calculator{params: params}
}

// transactionSerializedSizeEstimate returns an estimate, in bytes, of tx's
// wire-encoded size: the same fields consensushashing.TransactionHash
// covers, each counted at the width it is written with.
func transactionSerializedSizeEstimate(tx *externalapi.DomainTransaction) uint64 {
	size := uint64(2 + 8 + 8 + 8 + 20 + 8 + 8) // version, input count, output count, lockTime, subnetworkID, gas, payload length
	size += uint64(len(tx.Payload))
	for _, input := range tx.Inputs {
		size += 32 + 4 // previous outpoint
		size += 8      // signature script length prefix
		size += uint64(len(input.SignatureScript))
		size += 8 // sequence
		size += 1 // sig op count
	}
	for _, output := range tx.Outputs {
		size += 8 // value
		size += 2 // script public key version
		size += 8 // script length prefix
		size += uint64(len(output.ScriptPublicKey.Script))
	}
	return size
}

// ComputeMass returns tx's compute mass: a weighted linear sum of its
// serialized size, the total size of its output scripts, and its total
// sig-op count.
func (c *Calculator) ComputeMass(tx *externalapi.DomainTransaction) uint64 {
	size := transactionSerializedSizeEstimate(tx)

	var totalScriptPubKeySize uint64
	for _, output := range tx.Outputs {
		totalScriptPubKeySize += uint64(len(output.ScriptPublicKey.Script)) + 2
	}

	var totalSigOpCount uint64
	for _, input := range tx.Inputs {
		totalSigOpCount += uint64(input.SigOpCount)
	}

	mass := size*c.params.MassPerTxByte +
		totalScriptPubKeySize*c.params.MassPerScriptPubKeyByte +
		totalSigOpCount*c.params.MassPerSigOp

	logger.MASS.Tracef("compute mass for a %d-byte, %d-sigop transaction: %d", size, totalSigOpCount, mass)
	return mass
}

// StorageMass returns tx's storage mass: an anti-dust, harmonic-mean
// formula over the transaction's output values and the (separately
// supplied) values of the inputs it spends:
//
//	storage_mass = C * (Σ 1/Vᵢ - k / mean(U))
//
// clamped to zero from below, since a well-funded spend (few, large
// inputs feeding many, large outputs) can make the subtraction negative.
// inputValues must list one value per input, in the order
// consensushashing would iterate tx.Inputs; it is supplied separately
// (rather than read off tx.Inputs[i].UTXOEntry) so the generator can
// evaluate candidate buckets before UTXOEntry is attached to every input.
func (c *Calculator) StorageMass(outputValues, inputValues []uint64) uint64 {
	if len(outputValues) == 0 || len(inputValues) == 0 {
		return 0
	}

	var outputSum float64
	for _, v := range outputValues {
		if v == 0 {
			// A zero-value output has infinite storage cost; the
			// caller (the generator, or script-engine-adjacent
			// validation) is expected to reject zero-value outputs
			// before this point. Treat it as maximally punishing
			// rather than dividing by zero.
			return c.params.MaximumStandardTransactionMass
		}
		outputSum += 1 / float64(v)
	}

	var inputSum uint64
	for _, v := range inputValues {
		inputSum += v
	}
	meanInput := float64(inputSum) / float64(len(inputValues))

	harmonic := outputSum - float64(len(outputValues))/meanInput
	if harmonic < 0 {
		harmonic = 0
	}

	mass := uint64(harmonic * float64(c.params.StorageMassParameter))
	logger.MASS.Tracef("storage mass for %d outputs against %d inputs: %d", len(outputValues), len(inputValues), mass)
	return mass
}

// StorageMassForTransaction is a convenience wrapper over StorageMass that
// reads input values off tx.Inputs[i].UTXOEntry.Amount, which must already
// be populated.
func (c *Calculator) StorageMassForTransaction(tx *externalapi.DomainTransaction) uint64 {
	outputValues := make([]uint64, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputValues[i] = output.Value
	}
	inputValues := make([]uint64, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputValues[i] = input.UTXOEntry.Amount
	}
	return c.StorageMass(outputValues, inputValues)
}

// MassAndLimitCheck computes both masses for tx, returning the larger of
// the two alongside whether it fits under the network's consensus ceiling.
func (c *Calculator) MassAndLimitCheck(tx *externalapi.DomainTransaction) (mass uint64, withinLimit bool) {
	computeMass := c.ComputeMass(tx)
	storageMass := c.StorageMassForTransaction(tx)

	mass = computeMass
	if storageMass > mass {
		mass = storageMass
	}

	return mass, mass <= c.params.MaximumStandardTransactionMass
}
