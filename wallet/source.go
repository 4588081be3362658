package wallet

// AddressSource configures where the manager's credentials
// come from. It is a closed union: SecretManagerSource derives
// all three roles deterministically, ExplicitSource supplies
// them per role. New variants require a new case in
// NewAddressManager.
type AddressSource interface {
	addressSource()
}

// SecretManagerSource derives payment, stake and drep
// credentials from fixed single-index paths in a deterministic
// key tree.
type SecretManagerSource struct {
	SecretManager SecretManager
}

func (SecretManagerSource) addressSource() {}

// ExplicitSource supplies each role credential directly.
// Payment is mandatory and must be signer-backed; stake and
// drep are optional and stay absent when nil — omitting a role
// never falls back to derivation.
type ExplicitSource struct {
	Payment CredentialSource
	Stake   *CredentialSource
	Drep    *CredentialSource
}

func (ExplicitSource) addressSource() {}
