// Package rpcmodel declares the JSON shapes exchanged with a node's RPC
// interface: the submitted-transaction body, the UTXO listing used to fund
// a generator run, and the fee-estimate response. Only the shapes live
// here; the transport that carries them belongs to the embedding
// application.
package rpcmodel

import (
	"encoding/hex"

	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// RPCOutpoint is the wire form of a transaction outpoint.
type RPCOutpoint struct {
	TransactionID string `json:"transactionId"`
	Index         uint32 `json:"index"`
}

// RPCTransactionInput is the wire form of a transaction input.
type RPCTransactionInput struct {
	PreviousOutpoint RPCOutpoint `json:"previousOutpoint"`
	SignatureScript  string      `json:"signatureScript"`
	Sequence         uint64      `json:"sequence"`
	SigOpCount       byte        `json:"sigOpCount"`
}

// RPCScriptPublicKey is the wire form of a script public key.
type RPCScriptPublicKey struct {
	Version uint16 `json:"version"`
	Script  string `json:"script"`
}

// RPCTransactionOutput is the wire form of a transaction output.
type RPCTransactionOutput struct {
	Value           uint64             `json:"value"`
	ScriptPublicKey RPCScriptPublicKey `json:"scriptPublicKey"`
}

// RPCTransaction is the wire form of a full transaction, as carried by a
// transaction-submission request. Binary fields are hex-encoded.
type RPCTransaction struct {
	Version      uint16                  `json:"version"`
	Inputs       []*RPCTransactionInput  `json:"inputs"`
	Outputs      []*RPCTransactionOutput `json:"outputs"`
	LockTime     uint64                  `json:"lockTime"`
	SubnetworkID string                  `json:"subnetworkId"`
	Gas          uint64                  `json:"gas"`
	Payload      string                  `json:"payload"`
	Mass         uint64                  `json:"mass"`
}

// FromDomainTransaction converts a domain transaction into its wire form.
func FromDomainTransaction(tx *externalapi.DomainTransaction) *RPCTransaction {
	inputs := make([]*RPCTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputs[i] = &RPCTransactionInput{
			PreviousOutpoint: RPCOutpoint{
				TransactionID: input.PreviousOutpoint.TransactionID.String(),
				Index:         input.PreviousOutpoint.Index,
			},
			SignatureScript: hex.EncodeToString(input.SignatureScript),
			Sequence:        input.Sequence,
			SigOpCount:      input.SigOpCount,
		}
	}
	outputs := make([]*RPCTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputs[i] = &RPCTransactionOutput{
			Value: output.Value,
			ScriptPublicKey: RPCScriptPublicKey{
				Version: output.ScriptPublicKey.Version,
				Script:  hex.EncodeToString(output.ScriptPublicKey.Script),
			},
		}
	}
	return &RPCTransaction{
		Version:      tx.Version,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     tx.LockTime,
		SubnetworkID: tx.SubnetworkID.String(),
		Gas:          tx.Gas,
		Payload:      hex.EncodeToString(tx.Payload),
		Mass:         tx.Mass,
	}
}

// ToDomainTransaction converts a wire-form transaction back into a domain
// transaction. Resolved UTXO entries are not part of the wire form, so the
// result is suitable for hashing and submission but not for signing or
// verification until entries are re-attached.
func (tx *RPCTransaction) ToDomainTransaction() (*externalapi.DomainTransaction, error) {
	inputs := make([]*externalapi.DomainTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		transactionIDBytes, err := hex.DecodeString(input.PreviousOutpoint.TransactionID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid transaction id on input %d", i)
		}
		if len(transactionIDBytes) != externalapi.DomainHashSize {
			return nil, errors.Errorf("transaction id on input %d is %d bytes, want %d",
				i, len(transactionIDBytes), externalapi.DomainHashSize)
		}
		var transactionID externalapi.DomainTransactionID
		copy(transactionID[:], transactionIDBytes)

		signatureScript, err := hex.DecodeString(input.SignatureScript)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid signature script on input %d", i)
		}
		inputs[i] = &externalapi.DomainTransactionInput{
			PreviousOutpoint: *externalapi.NewDomainOutpoint(&transactionID, input.PreviousOutpoint.Index),
			SignatureScript:  signatureScript,
			Sequence:         input.Sequence,
			SigOpCount:       input.SigOpCount,
		}
	}

	outputs := make([]*externalapi.DomainTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		script, err := hex.DecodeString(output.ScriptPublicKey.Script)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid script on output %d", i)
		}
		outputs[i] = &externalapi.DomainTransactionOutput{
			Value: output.Value,
			ScriptPublicKey: &externalapi.DomainScriptPublicKey{
				Version: output.ScriptPublicKey.Version,
				Script:  script,
			},
		}
	}

	subnetworkIDBytes, err := hex.DecodeString(tx.SubnetworkID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subnetwork id")
	}
	if len(subnetworkIDBytes) != externalapi.DomainSubnetworkIDSize {
		return nil, errors.Errorf("subnetwork id is %d bytes, want %d",
			len(subnetworkIDBytes), externalapi.DomainSubnetworkIDSize)
	}
	var subnetworkID externalapi.DomainSubnetworkID
	copy(subnetworkID[:], subnetworkIDBytes)

	payload, err := hex.DecodeString(tx.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "invalid payload")
	}

	return &externalapi.DomainTransaction{
		Version:      tx.Version,
		Inputs:       inputs,
		Outputs:      outputs,
		LockTime:     tx.LockTime,
		SubnetworkID: subnetworkID,
		Gas:          tx.Gas,
		Payload:      payload,
		Mass:         tx.Mass,
	}, nil
}
