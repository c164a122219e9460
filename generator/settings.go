package generator

import (
	"github.com/kaspanet/kaspa-tx-sdk/dagconfig"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/util"
)

// UTXO pairs an outpoint with its resolved entry, the unit the generator
// consumes from its source and pins through priority lists.
type UTXO struct {
	Outpoint *externalapi.DomainOutpoint
	Entry    *externalapi.UTXOEntry
}

// UTXOSource supplies UTXOs to a Generator one at a time. Sources may be
// backed by very long sequences (a node RPC cursor, a large wallet dump);
// the generator pulls lazily and never rewinds.
type UTXOSource interface {
	// Next returns the next UTXO, or false when the source is exhausted.
	Next() (*UTXO, bool)
}

type sliceSource struct {
	utxos []*UTXO
	next  int
}

// NewSliceSource adapts an in-memory UTXO slice into a UTXOSource.
func NewSliceSource(utxos []*UTXO) UTXOSource {
	return &sliceSource{utxos: utxos}
}

func (s *sliceSource) Next() (*UTXO, bool) {
	if s.next >= len(s.utxos) {
		return nil, false
	}
	utxo := s.utxos[s.next]
	s.next++
	return utxo, true
}

// PaymentOutput is one requested payment: an amount in sompi destined for
// an address.
type PaymentOutput struct {
	Address *util.Address
	Amount  uint64
}

// FeePolicy selects how the caller's priority fee is applied on top of the
// mass-driven relay fee. A nil FeePolicy means no priority fee.
type FeePolicy interface {
	isFeePolicy()
}

// SenderPaysFee is an absolute priority fee, in sompi, added to the final
// transaction's fee.
type SenderPaysFee struct {
	Fee uint64
}

func (SenderPaysFee) isFeePolicy() {}

// FeeRate is a per-unit-mass priority fee, applied to every emitted
// transaction in proportion to its mass.
type FeeRate struct {
	SompiPerGram float64
}

func (FeeRate) isFeePolicy() {}

// Settings configures one Generator run.
type Settings struct {
	// NetworkID selects the mass coefficients, dust constants, and the
	// address prefix change outputs are validated against.
	NetworkID dagconfig.NetworkID

	// Source is the stream of spendable UTXOs, consumed lazily and in
	// order.
	Source UTXOSource

	// PriorityUTXOs, when non-empty, are pinned to the final transaction.
	// Commit/reveal flows use this to guarantee the revealed P2SH output
	// is spent by the transaction that carries the payment, never by an
	// intermediate merge.
	PriorityUTXOs []*UTXO

	// ChangeAddress receives residual value, and the single output of
	// every intermediate merge transaction.
	ChangeAddress *util.Address

	// Payments lists the requested outputs. An empty list means sweep:
	// consolidate every source UTXO into ChangeAddress.
	Payments []*PaymentOutput

	// PriorityFee, when non-nil, is added on top of the mass-driven fee.
	PriorityFee FeePolicy

	// Payload is carried verbatim on every emitted transaction.
	Payload []byte

	// CurrentDAAScore, when non-zero, enables the coinbase-maturity
	// filter: coinbase UTXOs younger than the network's maturity window
	// are skipped rather than spent.
	CurrentDAAScore uint64

	// SigOpCountPerInput is stamped on every generated input. Zero means
	// one, the cost of the single CheckSig a pay-to-pubkey spend runs.
	SigOpCountPerInput byte
}
