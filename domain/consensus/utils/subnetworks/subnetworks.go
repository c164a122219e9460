package subnetworks

import "github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"

// SubnetworkIDSize is the size, in bytes, of every subnetwork ID.
const SubnetworkIDSize = externalapi.DomainSubnetworkIDSize

var (
	// SubnetworkIDNative is the default subnetwork ID which is used for transactions
	// that have no related payload.
	SubnetworkIDNative = externalapi.DomainSubnetworkID{}

	// SubnetworkIDRegistry is the subnetwork ID which is used for the Registry
	// subnetwork.
	SubnetworkIDRegistry = externalapi.DomainSubnetworkID{1}

	// SubnetworkIDCoinbase is the subnetwork ID which is used for the coinbase
	// transaction.
	SubnetworkIDCoinbase = externalapi.DomainSubnetworkID{2}
)

// builtIn holds the set of subnetwork IDs that are built into the protocol
// rather than dynamically registered.
var builtIn = map[externalapi.DomainSubnetworkID]struct{}{
	SubnetworkIDRegistry: {},
	SubnetworkIDCoinbase: {},
}

// IsBuiltIn returns whether subnetworkID is one of the built-in subnetworks.
func IsBuiltIn(subnetworkID externalapi.DomainSubnetworkID) bool {
	_, ok := builtIn[subnetworkID]
	return ok
}

// IsBuiltInOrNative returns whether subnetworkID is either native or one of
// the built-in subnetworks.
func IsBuiltInOrNative(subnetworkID externalapi.DomainSubnetworkID) bool {
	return subnetworkID == SubnetworkIDNative || IsBuiltIn(subnetworkID)
}
