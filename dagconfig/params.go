// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dagconfig carries the per-network constants the rest of the
// module consults: mass-calculator coefficients, the dust threshold, and
// the address prefix. Proof-of-work limits, checkpoints, DNS seeds, and
// genesis blocks belong to a full node, not a transaction SDK, and are
// deliberately absent.
package dagconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NetworkType identifies one of the four networks this module knows how to
// target.
type NetworkType int

// The supported network types.
const (
	Mainnet NetworkType = iota
	Testnet
	Simnet
	Devnet
)

func (n NetworkType) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Simnet:
		return "simnet"
	case Devnet:
		return "devnet"
	default:
		return "unknown"
	}
}

// NetworkID identifies a network plus an optional numeric suffix, e.g.
// "testnet-10". Two NetworkIDs are equal when both their NetworkType and
// Suffix match.
type NetworkID struct {
	NetworkType NetworkType
	Suffix      *uint32
}

// NewMainnetNetworkID, NewTestnetNetworkID, NewSimnetNetworkID, and
// NewDevnetNetworkID construct a NetworkID for the respective network. Only
// Testnet currently carries a meaningful suffix in the wild (e.g.
// testnet-10), but the suffix is accepted on every type for uniformity.
func NewMainnetNetworkID() NetworkID { return NetworkID{NetworkType: Mainnet} }

// NewTestnetNetworkID constructs a Testnet NetworkID with the given suffix.
func NewTestnetNetworkID(suffix uint32) NetworkID {
	return NetworkID{NetworkType: Testnet, Suffix: &suffix}
}

// NewSimnetNetworkID constructs a Simnet NetworkID.
func NewSimnetNetworkID() NetworkID { return NetworkID{NetworkType: Simnet} }

// NewDevnetNetworkID constructs a Devnet NetworkID.
func NewDevnetNetworkID() NetworkID { return NetworkID{NetworkType: Devnet} }

// String returns "name", or "name-suffix" when a suffix is set.
func (n NetworkID) String() string {
	if n.Suffix == nil {
		return n.NetworkType.String()
	}
	return fmt.Sprintf("%s-%d", n.NetworkType, *n.Suffix)
}

// ParseNetworkID parses the String() form back into a NetworkID.
func ParseNetworkID(s string) (NetworkID, error) {
	parts := strings.SplitN(s, "-", 2)
	var netType NetworkType
	switch parts[0] {
	case "mainnet":
		netType = Mainnet
	case "testnet":
		netType = Testnet
	case "simnet":
		netType = Simnet
	case "devnet":
		netType = Devnet
	default:
		return NetworkID{}, errors.Errorf("unknown network %q", parts[0])
	}
	if len(parts) == 1 {
		return NetworkID{NetworkType: netType}, nil
	}
	suffix, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return NetworkID{}, errors.Wrapf(err, "invalid network suffix %q", parts[1])
	}
	suffix32 := uint32(suffix)
	return NetworkID{NetworkType: netType, Suffix: &suffix32}, nil
}

// Equal reports whether two NetworkIDs name the same network.
func (n NetworkID) Equal(other NetworkID) bool {
	if n.NetworkType != other.NetworkType {
		return false
	}
	if (n.Suffix == nil) != (other.Suffix == nil) {
		return false
	}
	return n.Suffix == nil || *n.Suffix == *other.Suffix
}

// Params groups every network-specific constant the core consults: the
// address prefix, the mass calculator's linear coefficients
// and storage-mass constant, and the consensus mass ceiling
// a transaction may not exceed.
type Params struct {
	Name   string
	Net    NetworkType
	Prefix string

	// MassPerTxByte, MassPerScriptPubKeyByte, and MassPerSigOp are the
	// compute-mass linear coefficients.
	MassPerTxByte           uint64
	MassPerScriptPubKeyByte uint64
	MassPerSigOp            uint64

	// StorageMassParameter is the C coefficient of the storage-mass
	// harmonic-mean formula.
	StorageMassParameter uint64

	// MaximumStandardTransactionMass is the consensus ceiling either mass
	// function may not exceed.
	MaximumStandardTransactionMass uint64

	// MinimumRelayTransactionFee is the dust threshold: outputs whose
	// value cannot clear the fee required to spend them are rejected
	// or absorbed into fees by the generator.
	MinimumRelayTransactionFee uint64

	// BlockCoinbaseMaturity is the number of DAA score units a coinbase
	// output must age before it may be spent.
	BlockCoinbaseMaturity uint64
}

// Values mirror the mainnet-equivalent constants used across the rusty-kaspa
// and kaspad implementations this module's consensus layer targets.
const (
	defaultMassPerTxByte           = 1
	defaultMassPerScriptPubKeyByte = 10
	defaultMassPerSigOp            = 1000
	defaultStorageMassParameter    = 10_000_000_000_000 // 1e13, in sompi^2
	defaultMaximumStandardTxMass   = 100_000
	defaultMinimumRelayFee         = 1000 // sompi
	defaultBlockCoinbaseMaturity   = 100
)

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:                           "mainnet",
	Net:                            Mainnet,
	Prefix:                         "kaspa",
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	StorageMassParameter:           defaultStorageMassParameter,
	MaximumStandardTransactionMass: defaultMaximumStandardTxMass,
	MinimumRelayTransactionFee:     defaultMinimumRelayFee,
	BlockCoinbaseMaturity:          defaultBlockCoinbaseMaturity,
}

// TestnetParams defines the network parameters for the test network.
var TestnetParams = Params{
	Name:                           "testnet",
	Net:                            Testnet,
	Prefix:                         "kaspatest",
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	StorageMassParameter:           defaultStorageMassParameter,
	MaximumStandardTransactionMass: defaultMaximumStandardTxMass,
	MinimumRelayTransactionFee:     defaultMinimumRelayFee,
	BlockCoinbaseMaturity:          defaultBlockCoinbaseMaturity,
}

// SimnetParams defines the network parameters for the simulation network.
var SimnetParams = Params{
	Name:                           "simnet",
	Net:                            Simnet,
	Prefix:                         "kaspasim",
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	StorageMassParameter:           defaultStorageMassParameter,
	MaximumStandardTransactionMass: defaultMaximumStandardTxMass,
	MinimumRelayTransactionFee:     defaultMinimumRelayFee,
	BlockCoinbaseMaturity:          defaultBlockCoinbaseMaturity,
}

// DevnetParams defines the network parameters for the development network.
var DevnetParams = Params{
	Name:                           "devnet",
	Net:                            Devnet,
	Prefix:                         "kaspadev",
	MassPerTxByte:                  defaultMassPerTxByte,
	MassPerScriptPubKeyByte:        defaultMassPerScriptPubKeyByte,
	MassPerSigOp:                   defaultMassPerSigOp,
	StorageMassParameter:           defaultStorageMassParameter,
	MaximumStandardTransactionMass: defaultMaximumStandardTxMass,
	MinimumRelayTransactionFee:     defaultMinimumRelayFee,
	BlockCoinbaseMaturity:          defaultBlockCoinbaseMaturity,
}

// ParamsForNetworkID returns the Params registered for the network portion
// of id (the suffix does not affect which Params is returned: every
// testnet-N shares TestnetParams).
func ParamsForNetworkID(id NetworkID) (*Params, error) {
	switch id.NetworkType {
	case Mainnet:
		return &MainnetParams, nil
	case Testnet:
		return &TestnetParams, nil
	case Simnet:
		return &SimnetParams, nil
	case Devnet:
		return &DevnetParams, nil
	default:
		return nil, errors.Errorf("unknown network type %v", id.NetworkType)
	}
}
