package address

import (
	"github.com/pkg/errors"

	"github.com/MeshJS/mesh-wallet-2/wallet"
)

const (
	// NetMainnet is the constant for the mainnet network
	NetMainnet = "mainnet"

	// NetPreprod is the constant for the preprod testnet
	NetPreprod = "preprod"

	// NetPreview is the constant for the preview testnet
	NetPreview = "preview"
)

// CheckNetwork validates that the network is valid
func CheckNetwork(network string) (string, error) {
	switch network {
	case NetMainnet, NetPreprod, NetPreview:
		return network, nil
	default:
		return "", errors.New("Network is invalid")
	}
}

// Network captures the per-network inputs of address
// encoding: the network id stamped into the header byte and
// the bech32 prefixes for payment and reward addresses.
type Network struct {

	// ID is the network id carried in address headers
	ID wallet.NetworkID

	// AddressHRP is the bech32 prefix for base and
	// enterprise addresses
	AddressHRP string

	// StakeHRP is the bech32 prefix for reward addresses
	StakeHRP string
}

var (
	// MainnetNetwork defines the address format on mainnet
	MainnetNetwork = &Network{
		ID:         wallet.MainnetID,
		AddressHRP: "addr",
		StakeHRP:   "stake",
	}

	// PreprodNetwork defines the address format on the
	// preprod testnet
	PreprodNetwork = &Network{
		ID:         wallet.TestnetID,
		AddressHRP: "addr_test",
		StakeHRP:   "stake_test",
	}

	// PreviewNetwork defines the address format on the
	// preview testnet
	PreviewNetwork = &Network{
		ID:         wallet.TestnetID,
		AddressHRP: "addr_test",
		StakeHRP:   "stake_test",
	}
)

// GetNetworkParams takes a network string shortcode
// and returns the *Network params
func GetNetworkParams(network string) (*Network, error) {
	switch network {
	case NetMainnet:
		return MainnetNetwork, nil
	case NetPreprod:
		return PreprodNetwork, nil
	case NetPreview:
		return PreviewNetwork, nil
	}

	return nil, errors.New("Invalid network")
}

// NetworkForID maps a bare network id to its address format.
// All testnets share one format, so the preprod entry stands
// in for every id other than mainnet.
func NetworkForID(id wallet.NetworkID) *Network {
	if id == wallet.MainnetID {
		return MainnetNetwork
	}
	return PreprodNetwork
}
