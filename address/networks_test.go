package address

import (
	"fmt"
	"testing"

	_assert "github.com/stretchr/testify/require"

	"github.com/MeshJS/mesh-wallet-2/wallet"
)

func TestNetworks(t *testing.T) {
	_assert.Equal(t, "mainnet", NetMainnet)
	_assert.Equal(t, "preprod", NetPreprod)
	_assert.Equal(t, "preview", NetPreview)
}

func TestCheckNetwork(t *testing.T) {
	validNetworks := []string{
		NetMainnet,
		NetPreprod,
		NetPreview,
	}

	for i := 0; i < len(validNetworks); i++ {
		network := validNetworks[i]
		t.Run(fmt.Sprintf("accepts %s", network), func(t *testing.T) {
			net, err := CheckNetwork(network)
			_assert.NoError(t, err)
			_assert.Equal(t, network, net)
		})
	}

	t.Run("rejects unknowns", func(t *testing.T) {
		_, err := CheckNetwork("unknown")
		_assert.Error(t, err)
		_assert.EqualError(t, err, "Network is invalid")
	})
}

func TestGetNetworkParams(t *testing.T) {
	fixtures := []struct {
		net    string
		params *Network
	}{
		{NetMainnet, MainnetNetwork},
		{NetPreprod, PreprodNetwork},
		{NetPreview, PreviewNetwork},
	}

	for i := 0; i < len(fixtures); i++ {
		t.Run(fixtures[i].net, func(t *testing.T) {
			net, err := GetNetworkParams(fixtures[i].net)
			_assert.NoError(t, err)
			_assert.Equal(t, fixtures[i].params, net)
		})
	}

	t.Run("rejects unknown networks", func(t *testing.T) {
		nn, err := GetNetworkParams("unknown")
		_assert.Nil(t, nn)
		_assert.Error(t, err)
		_assert.EqualError(t, err, "Invalid network")
	})
}

func TestNetworkForID(t *testing.T) {
	_assert.Equal(t, MainnetNetwork, NetworkForID(wallet.MainnetID))
	_assert.Equal(t, PreprodNetwork, NetworkForID(wallet.TestnetID))
}
