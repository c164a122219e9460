package rpcmodel

// SubmitTransactionRequest asks a node to accept a signed transaction into
// its mempool.
type SubmitTransactionRequest struct {
	Transaction *RPCTransaction `json:"transaction"`
	AllowOrphan bool            `json:"allowOrphan"`
}

// SubmitTransactionResponse acknowledges an accepted transaction.
type SubmitTransactionResponse struct {
	TransactionID string `json:"transactionId"`
}

// RPCUTXOEntry is one spendable output as reported by a node's UTXO index.
type RPCUTXOEntry struct {
	Amount          uint64             `json:"amount"`
	ScriptPublicKey RPCScriptPublicKey `json:"scriptPublicKey"`
	BlockDAAScore   uint64             `json:"blockDaaScore"`
	IsCoinbase      bool               `json:"isCoinbase"`
}

// RPCUTXOsByAddressesEntry pairs an address with one of its spendable
// outputs.
type RPCUTXOsByAddressesEntry struct {
	Address   string       `json:"address"`
	Outpoint  RPCOutpoint  `json:"outpoint"`
	UTXOEntry RPCUTXOEntry `json:"utxoEntry"`
}

// GetUTXOsByAddressesRequest asks a node for every spendable output held by
// the given addresses.
type GetUTXOsByAddressesRequest struct {
	Addresses []string `json:"addresses"`
}

// GetUTXOsByAddressesResponse lists the requested outputs.
type GetUTXOsByAddressesResponse struct {
	Entries []*RPCUTXOsByAddressesEntry `json:"entries"`
}

// RPCFeeRateBucket is one fee-rate recommendation alongside its expected
// confirmation latency.
type RPCFeeRateBucket struct {
	Feerate          float64 `json:"feerate"`
	EstimatedSeconds float64 `json:"estimatedSeconds"`
}

// RPCFeeEstimate groups the node's fee-rate recommendations by urgency.
type RPCFeeEstimate struct {
	PriorityBucket RPCFeeRateBucket   `json:"priorityBucket"`
	NormalBuckets  []RPCFeeRateBucket `json:"normalBuckets"`
	LowBuckets     []RPCFeeRateBucket `json:"lowBuckets"`
}

// GetFeeEstimateResponse carries the node's current fee estimate.
type GetFeeEstimateResponse struct {
	Estimate RPCFeeEstimate `json:"estimate"`
}
