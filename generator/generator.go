// Package generator turns a stream of UTXOs and a list of requested
// payments into a chain of ready-to-sign transactions, each respecting the
// network's compute-mass and storage-mass ceilings. When the inputs needed
// to cover a payment cannot fit one transaction, the generator emits
// intermediate transactions that collapse many UTXOs into a single merge
// UTXO on the change address, then spends that merge UTXO in the next
// round, until a final transaction carries the payment outputs.
package generator

import (
	"github.com/kaspanet/kaspa-tx-sdk/dagconfig"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/subnetworks"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/txmass"
	"github.com/kaspanet/kaspa-tx-sdk/logger"
	"github.com/kaspanet/kaspa-tx-sdk/util"
	"github.com/pkg/errors"
)

var log = logger.GEN

// estimatedSignatureScriptSize is the size a pay-to-pubkey signature script
// reaches once signed: one push opcode, a 64-byte signature, and the
// trailing sighash-type byte. Mass and fee estimates add this per input
// because inputs are unsigned while the generator runs.
const estimatedSignatureScriptSize = 1 + 64 + 1

// transactionVersion is stamped on every emitted transaction.
const transactionVersion = 0

// Generator emits the chained transaction sequence for one Settings value.
// It is not safe for concurrent use.
type Generator struct {
	settings       *Settings
	params         *dagconfig.Params
	massCalculator *txmass.Calculator

	changeScript   *externalapi.DomainScriptPublicKey
	paymentOutputs []*externalapi.DomainTransactionOutput
	paymentTotal   uint64

	sigOpCount              byte
	massPerInput            uint64
	finalFixedMass          uint64
	maxInputsPerTransaction int

	// mergeUTXO carries the single output of the previous intermediate
	// transaction into the next round's input set. carryoverAmount is its
	// value once consumed, so the summary's aggregate input amount counts
	// funds entering the chain once, not once per hop.
	mergeUTXO       *UTXO
	carryoverAmount uint64
	sourceExhausted bool
	finished        bool

	finalTransactionID   *externalapi.DomainTransactionID
	transactionCount     int
	aggregateInputAmount uint64
	aggregateFees        uint64
	finalOutputAmount    uint64
	finalChangeAmount    uint64
}

// Summary reports the aggregate outcome of a finished generator run.
type Summary struct {
	NetworkID             dagconfig.NetworkID
	NumberOfTransactions  int
	AggregateInputAmount  uint64
	AggregateOutputAmount uint64
	AggregateFees         uint64
	FinalChangeAmount     uint64
	FinalTransactionID    *externalapi.DomainTransactionID
}

// New validates settings and prepares a Generator. The settings value is
// not retained mutable: the generator snapshots what it needs.
func New(settings *Settings) (*Generator, error) {
	if settings.Source == nil {
		return nil, errors.New("generator settings carry no UTXO source")
	}
	if settings.ChangeAddress == nil {
		return nil, errors.New("generator settings carry no change address")
	}

	params, err := dagconfig.ParamsForNetworkID(settings.NetworkID)
	if err != nil {
		return nil, err
	}
	if string(settings.ChangeAddress.Prefix) != params.Prefix {
		return nil, errors.Errorf("change address prefix %q does not match network prefix %q",
			settings.ChangeAddress.Prefix, params.Prefix)
	}

	changeScript, err := util.PayToAddrScript(settings.ChangeAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build change script")
	}

	paymentOutputs := make([]*externalapi.DomainTransactionOutput, 0, len(settings.Payments))
	var paymentTotal uint64
	for i, payment := range settings.Payments {
		if payment.Amount == 0 {
			return nil, errors.Errorf("payment %d has a zero amount", i)
		}
		script, err := util.PayToAddrScript(payment.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build script for payment %d", i)
		}
		paymentOutputs = append(paymentOutputs, &externalapi.DomainTransactionOutput{
			Value:           payment.Amount,
			ScriptPublicKey: script,
		})
		paymentTotal += payment.Amount
	}

	sigOpCount := settings.SigOpCountPerInput
	if sigOpCount == 0 {
		sigOpCount = 1
	}

	g := &Generator{
		settings:       settings,
		params:         params,
		massCalculator: txmass.NewCalculator(params),
		changeScript:   changeScript,
		paymentOutputs: paymentOutputs,
		paymentTotal:   paymentTotal,
		sigOpCount:     sigOpCount,
	}

	inputSerializedSize := uint64(32 + 4 + 8 + estimatedSignatureScriptSize + 8 + 1)
	g.massPerInput = inputSerializedSize*params.MassPerTxByte + uint64(sigOpCount)*params.MassPerSigOp

	fixedSize := uint64(2+8+8+8+20+8+8) + uint64(len(settings.Payload))
	g.finalFixedMass = fixedSize * params.MassPerTxByte
	for _, output := range paymentOutputs {
		g.finalFixedMass += outputMass(params, output)
	}
	g.finalFixedMass += outputMass(params, &externalapi.DomainTransactionOutput{ScriptPublicKey: changeScript})

	if g.finalFixedMass+g.massPerInput > params.MaximumStandardTransactionMass {
		return nil, ruleError(ErrMassLimitExceeded,
			"a single-input transaction carrying the requested outputs and payload already exceeds the maximum transaction mass")
	}
	g.maxInputsPerTransaction = int((params.MaximumStandardTransactionMass - g.finalFixedMass) / g.massPerInput)

	if len(settings.PriorityUTXOs) >= g.maxInputsPerTransaction {
		return nil, ruleError(ErrPriorityUTXOConflict,
			"the priority UTXOs leave no room for fund-carrying inputs in the final transaction")
	}

	return g, nil
}

// outputMass is the compute-mass contribution of one output.
func outputMass(params *dagconfig.Params, output *externalapi.DomainTransactionOutput) uint64 {
	scriptSize := uint64(len(output.ScriptPublicKey.Script))
	return (8+2+8+scriptSize)*params.MassPerTxByte + (scriptSize+2)*params.MassPerScriptPubKeyByte
}

// GenerateTransaction returns the next ready-to-sign transaction in the
// chain, or nil once the sequence is complete. Intermediate transactions
// must be submitted (or at least accepted into the caller's UTXO view)
// before their merge output is spendable, but the generator itself only
// requires that each call follow the previous one.
func (g *Generator) GenerateTransaction() (*externalapi.DomainTransaction, error) {
	if g.finished {
		return nil, nil
	}

	utxos, inputValue, err := g.gatherInputs()
	if err != nil {
		return nil, err
	}

	priorityValue := uint64(0)
	for _, utxo := range g.settings.PriorityUTXOs {
		priorityValue += utxo.Entry.Amount
	}

	sweep := len(g.paymentOutputs) == 0
	isFinalCandidate := false
	if sweep {
		isFinalCandidate = g.sourceExhausted
	} else {
		fee := g.estimateFee(len(utxos)+len(g.settings.PriorityUTXOs), true)
		isFinalCandidate = inputValue+priorityValue >= g.paymentTotal+fee
		if !isFinalCandidate && g.sourceExhausted {
			// Merging first reclaims the per-input fee overhead, so the
			// run is only truly short when even a single merged input
			// cannot cover the target.
			bestCaseFee := g.estimateFee(1+len(g.settings.PriorityUTXOs), true)
			if inputValue+priorityValue < g.paymentTotal+bestCaseFee {
				return nil, ruleError(ErrInsufficientFunds,
					"insufficient funds: the UTXO source was exhausted before covering the requested payments and fees")
			}
		}
	}

	if isFinalCandidate {
		tx, retriable, err := g.buildFinalTransaction(utxos, inputValue+priorityValue)
		if err != nil {
			return nil, err
		}
		if !retriable {
			return tx, nil
		}
		// Storage mass forced a different bucketing: collapse the
		// gathered inputs first and retry with the merge UTXO.
		log.Debugf("final candidate rejected on storage mass, merging %d inputs first", len(utxos))
	}

	return g.buildMergeTransaction(utxos, inputValue)
}

// gatherInputs pulls UTXOs greedily from the merge carryover and the source
// until the target is covered or the per-transaction input bound is hit.
func (g *Generator) gatherInputs() ([]*UTXO, uint64, error) {
	var utxos []*UTXO
	var inputValue uint64

	if g.mergeUTXO != nil {
		utxos = append(utxos, g.mergeUTXO)
		inputValue += g.mergeUTXO.Entry.Amount
		g.carryoverAmount = g.mergeUTXO.Entry.Amount
		g.mergeUTXO = nil
	}

	maxGathered := g.maxInputsPerTransaction - len(g.settings.PriorityUTXOs)
	for {
		if !g.sourceExhausted && len(utxos) < maxGathered {
			if g.covered(utxos, inputValue) {
				break
			}
			utxo, ok := g.settings.Source.Next()
			if !ok {
				g.sourceExhausted = true
				break
			}
			if g.isImmatureCoinbase(utxo) {
				log.Tracef("skipping immature coinbase UTXO %s", utxo.Outpoint)
				continue
			}
			utxos = append(utxos, utxo)
			inputValue += utxo.Entry.Amount
			continue
		}
		break
	}

	if len(utxos) == 0 {
		if len(g.settings.PriorityUTXOs) == 0 || len(g.paymentOutputs) == 0 {
			return nil, 0, ruleError(ErrInsufficientFunds, "insufficient funds: the UTXO source is empty")
		}
	}
	return utxos, inputValue, nil
}

// isImmatureCoinbase reports whether utxo is a coinbase output still inside
// the network's maturity window. With no current DAA score configured the
// filter is off and every UTXO is considered spendable.
func (g *Generator) isImmatureCoinbase(utxo *UTXO) bool {
	if !utxo.Entry.IsCoinbase || g.settings.CurrentDAAScore == 0 {
		return false
	}
	return utxo.Entry.BlockDAAScore+g.params.BlockCoinbaseMaturity > g.settings.CurrentDAAScore
}

// covered reports whether the gathered input value already clears the
// payment target plus an upper-bound fee estimate. A sweep is never
// "covered": it drains the source.
func (g *Generator) covered(utxos []*UTXO, inputValue uint64) bool {
	if len(g.paymentOutputs) == 0 {
		return false
	}
	priorityValue := uint64(0)
	for _, utxo := range g.settings.PriorityUTXOs {
		priorityValue += utxo.Entry.Amount
	}
	fee := g.estimateFee(len(utxos)+len(g.settings.PriorityUTXOs), true)
	return inputValue+priorityValue >= g.paymentTotal+fee
}

// estimateFee upper-bounds the fee for a transaction with the given input
// count. final selects whether the payment outputs (and an absolute
// priority fee) are in play, or just the single merge output.
func (g *Generator) estimateFee(inputCount int, final bool) uint64 {
	var mass uint64
	if final {
		mass = g.finalFixedMass + uint64(inputCount)*g.massPerInput
	} else {
		fixedSize := uint64(2+8+8+8+20+8+8) + uint64(len(g.settings.Payload))
		mass = fixedSize*g.params.MassPerTxByte +
			outputMass(g.params, &externalapi.DomainTransactionOutput{ScriptPublicKey: g.changeScript}) +
			uint64(inputCount)*g.massPerInput
	}
	return g.relayFee(mass) + g.priorityFee(mass, final)
}

// relayFee is the mass-driven minimum fee, in the same per-kilogram shape
// relay policy computes it.
func (g *Generator) relayFee(mass uint64) uint64 {
	fee := mass * g.params.MinimumRelayTransactionFee / 1000
	if fee == 0 {
		fee = g.params.MinimumRelayTransactionFee
	}
	return fee
}

// priorityFee is the caller's additional fee for the given mass. An
// absolute fee lands entirely on the final transaction; a rate-based fee is
// paid by every transaction in the chain.
func (g *Generator) priorityFee(mass uint64, final bool) uint64 {
	switch policy := g.settings.PriorityFee.(type) {
	case SenderPaysFee:
		if final {
			return policy.Fee
		}
		return 0
	case FeeRate:
		return uint64(policy.SompiPerGram * float64(mass))
	default:
		return 0
	}
}

// newInput builds the unsigned input spending utxo, with the resolved entry
// attached so signing-hash construction can run without a side lookup.
func (g *Generator) newInput(utxo *UTXO) *externalapi.DomainTransactionInput {
	return &externalapi.DomainTransactionInput{
		PreviousOutpoint: *utxo.Outpoint,
		Sequence:         0,
		SigOpCount:       g.sigOpCount,
		UTXOEntry:        utxo.Entry,
	}
}

func (g *Generator) newTransaction(inputs []*externalapi.DomainTransactionInput,
	outputs []*externalapi.DomainTransactionOutput) *externalapi.DomainTransaction {

	payload := make([]byte, len(g.settings.Payload))
	copy(payload, g.settings.Payload)

	return &externalapi.DomainTransaction{
		Version:      transactionVersion,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     0,
		SubnetworkID: subnetworks.SubnetworkIDNative,
		Gas:          0,
		Payload:      payload,
	}
}

// estimatedComputeMass is the compute mass tx will have once signed,
// assuming one standard signature script per input.
func (g *Generator) estimatedComputeMass(tx *externalapi.DomainTransaction) uint64 {
	return g.massCalculator.ComputeMass(tx) +
		uint64(len(tx.Inputs))*estimatedSignatureScriptSize*g.params.MassPerTxByte
}

// buildFinalTransaction assembles the transaction carrying the payment
// outputs (or the sweep output) from the gathered UTXOs plus the pinned
// priority UTXOs. retriable is true when storage mass rejected this
// bucketing but collapsing the gathered inputs first may still succeed.
func (g *Generator) buildFinalTransaction(utxos []*UTXO, inputValue uint64) (
	tx *externalapi.DomainTransaction, retriable bool, err error) {

	allUTXOs := make([]*UTXO, 0, len(utxos)+len(g.settings.PriorityUTXOs))
	allUTXOs = append(allUTXOs, utxos...)
	allUTXOs = append(allUTXOs, g.settings.PriorityUTXOs...)

	inputs := make([]*externalapi.DomainTransactionInput, len(allUTXOs))
	inputValues := make([]uint64, len(allUTXOs))
	for i, utxo := range allUTXOs {
		inputs[i] = g.newInput(utxo)
		inputValues[i] = utxo.Entry.Amount
	}

	sweep := len(g.paymentOutputs) == 0

	// First candidate: payments plus a change output (or, for a sweep,
	// the change output alone carrying everything).
	outputs := make([]*externalapi.DomainTransactionOutput, 0, len(g.paymentOutputs)+1)
	for _, payment := range g.paymentOutputs {
		outputs = append(outputs, &externalapi.DomainTransactionOutput{
			Value:           payment.Value,
			ScriptPublicKey: payment.ScriptPublicKey,
		})
	}
	changeOutput := &externalapi.DomainTransactionOutput{ScriptPublicKey: g.changeScript}
	outputs = append(outputs, changeOutput)

	candidate := g.newTransaction(inputs, outputs)
	computeMass := g.estimatedComputeMass(candidate)
	if computeMass > g.params.MaximumStandardTransactionMass {
		if len(utxos) > 1 {
			return nil, true, nil
		}
		return nil, false, ruleError(ErrMassLimitExceeded,
			"the final transaction exceeds the maximum transaction mass even with a single gathered input")
	}

	fee := g.relayFee(computeMass) + g.priorityFee(computeMass, true)
	if inputValue < g.paymentTotal+fee {
		return nil, false, ruleError(ErrInsufficientFunds,
			"insufficient funds: the gathered inputs no longer cover the payments once the final fee is known")
	}
	change := inputValue - g.paymentTotal - fee

	if sweep {
		// Everything net of fees is the sweep's single output.
		changeOutput.Value = change
		return g.finishFinal(candidate, inputValue, fee, change, change)
	}

	changeOutput.Value = change
	absorbChange := change < g.params.MinimumRelayTransactionFee
	if !absorbChange {
		storageMass := g.massCalculator.StorageMass(outputValues(outputs), inputValues)
		if maxMass(computeMass, storageMass) <= g.params.MaximumStandardTransactionMass {
			return g.finishFinal(candidate, inputValue, fee, g.paymentTotal, change)
		}

		// Storage mass rejected the change-carrying shape. Absorbing the
		// change into fees is only reasonable when the change is smaller
		// than the fee increment the storage mass would drive anyway.
		storageFeeIncrement := g.relayFee(storageMass) - g.relayFee(computeMass)
		absorbChange = change < storageFeeIncrement
		if !absorbChange {
			if len(utxos) > 1 {
				return nil, true, nil
			}
			return nil, false, ruleError(ErrStorageMassExceedsMaximum,
				"Storage mass exceeds maximum: no input grouping can carry the requested outputs under the storage-mass ceiling")
		}
	}

	// Change absorbed into fees: the payments stand alone.
	candidate.Outputs = candidate.Outputs[:len(candidate.Outputs)-1]
	computeMass = g.estimatedComputeMass(candidate)
	storageMass := g.massCalculator.StorageMass(outputValues(candidate.Outputs), inputValues)
	if maxMass(computeMass, storageMass) > g.params.MaximumStandardTransactionMass {
		return nil, false, ruleError(ErrStorageMassExceedsMaximum,
			"Storage mass exceeds maximum: no input grouping can carry the requested outputs under the storage-mass ceiling")
	}
	fee += change
	return g.finishFinal(candidate, inputValue, fee, g.paymentTotal, 0)
}

// finishFinal stamps mass, fee, and identity on the final transaction and
// folds its numbers into the summary accumulators.
func (g *Generator) finishFinal(tx *externalapi.DomainTransaction,
	inputValue, fee, outputAmount, change uint64) (*externalapi.DomainTransaction, bool, error) {

	computeMass := g.estimatedComputeMass(tx)
	storageMass := g.massCalculator.StorageMassForTransaction(tx)
	tx.Mass = maxMass(computeMass, storageMass)
	tx.Fee = fee

	g.finalTransactionID = consensushashing.TransactionID(tx)
	tx.ID = g.finalTransactionID

	g.transactionCount++
	g.aggregateInputAmount += inputValue - g.carryoverAmount
	g.carryoverAmount = 0
	g.aggregateFees += fee
	g.finalOutputAmount = outputAmount
	g.finalChangeAmount = change
	g.finished = true

	log.Debugf("final transaction %s: %d inputs, %d outputs, fee %d, mass %d",
		g.finalTransactionID, len(tx.Inputs), len(tx.Outputs), fee, tx.Mass)
	return tx, false, nil
}

// buildMergeTransaction collapses the gathered UTXOs into one output on the
// change address and queues that output as the next round's first input.
// Priority UTXOs never participate: they are reserved for the final
// transaction.
func (g *Generator) buildMergeTransaction(utxos []*UTXO, inputValue uint64) (*externalapi.DomainTransaction, error) {
	if len(utxos) < 2 {
		return nil, ruleError(ErrInsufficientFunds,
			"insufficient funds: cannot make progress by merging fewer than two inputs")
	}

	inputs := make([]*externalapi.DomainTransactionInput, len(utxos))
	for i, utxo := range utxos {
		inputs[i] = g.newInput(utxo)
	}

	mergeOutput := &externalapi.DomainTransactionOutput{ScriptPublicKey: g.changeScript}
	tx := g.newTransaction(inputs, []*externalapi.DomainTransactionOutput{mergeOutput})

	computeMass := g.estimatedComputeMass(tx)
	if computeMass > g.params.MaximumStandardTransactionMass {
		return nil, ruleError(ErrMassLimitExceeded, "a merge transaction exceeds the maximum transaction mass")
	}
	fee := g.relayFee(computeMass) + g.priorityFee(computeMass, false)
	if inputValue <= fee {
		return nil, ruleError(ErrInsufficientFunds,
			"insufficient funds: the gathered inputs cannot cover the merge transaction's own fee")
	}
	mergeOutput.Value = inputValue - fee
	tx.Mass = computeMass
	tx.Fee = fee

	txID := consensushashing.TransactionID(tx)
	tx.ID = txID
	g.mergeUTXO = &UTXO{
		Outpoint: externalapi.NewDomainOutpoint(txID, 0),
		Entry:    externalapi.NewUTXOEntry(mergeOutput.Value, g.changeScript, false, 0),
	}

	g.transactionCount++
	g.aggregateInputAmount += inputValue - g.carryoverAmount
	g.carryoverAmount = 0
	g.aggregateFees += fee

	log.Debugf("merge transaction %s: %d inputs collapsed into %d sompi, fee %d",
		txID, len(tx.Inputs), mergeOutput.Value, fee)
	return tx, nil
}

// Summary reports the run's aggregates. It is meaningful once
// GenerateTransaction has returned its terminal nil, and reflects progress
// so far before that.
func (g *Generator) Summary() *Summary {
	return &Summary{
		NetworkID:             g.settings.NetworkID,
		NumberOfTransactions:  g.transactionCount,
		AggregateInputAmount:  g.aggregateInputAmount,
		AggregateOutputAmount: g.finalOutputAmount,
		AggregateFees:         g.aggregateFees,
		FinalChangeAmount:     g.finalChangeAmount,
		FinalTransactionID:    g.finalTransactionID,
	}
}

func outputValues(outputs []*externalapi.DomainTransactionOutput) []uint64 {
	values := make([]uint64, len(outputs))
	for i, output := range outputs {
		values[i] = output.Value
	}
	return values
}

func maxMass(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
