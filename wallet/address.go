package wallet

// NetworkID identifies the target network inside an address
// header: 0 for the testnets, 1 for mainnet.
type NetworkID uint8

const (
	// TestnetID is the network id shared by all testnets
	TestnetID NetworkID = 0

	// MainnetID is the mainnet network id
	MainnetID NetworkID = 1
)

// AddressType selects the shape of a requested address.
type AddressType uint8

const (
	// Base addresses combine the payment and stake credentials
	Base AddressType = iota

	// Enterprise addresses carry only the payment credential
	Enterprise

	// Reward addresses carry only the stake credential
	Reward
)

// String returns the address type name.
func (t AddressType) String() string {
	switch t {
	case Base:
		return "base"
	case Enterprise:
		return "enterprise"
	case Reward:
		return "reward"
	}
	return "unknown"
}

// AddressRequest is the construction request handed to an
// address encoder: the requested shape, the network, and the
// credentials that shape requires. Payment is absent on Reward
// requests, Stake is absent on Enterprise requests.
type AddressRequest struct {
	Type      AddressType
	NetworkID NetworkID
	Payment   *Credential
	Stake     *Credential
}

// Era names the ledger era a transaction encoder should
// target. It is carried here as explicit configuration so no
// component has to consult global state to learn it.
type Era uint8

const (
	// EraConway is the governance era, and the default for
	// newly constructed managers.
	EraConway Era = iota

	// EraBabbage targets the pre-governance ledger rules.
	EraBabbage
)

// String returns the era name.
func (e Era) String() string {
	switch e {
	case EraConway:
		return "conway"
	case EraBabbage:
		return "babbage"
	}
	return "unknown"
}

// Config carries the construction-time settings of an
// AddressManager.
type Config struct {
	// NetworkID is stamped into every address request.
	NetworkID NetworkID

	// Era is held for downstream transaction encoders. The
	// zero value is EraConway.
	Era Era
}
