package wallet

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/MeshJS/mesh-wallet-2/derivation"
)

var (
	// ErrScriptHashPayment is the configuration error for a
	// script-backed payment source. The payment role must be
	// able to sign, so it can never be a script hash. Raised
	// before any signer or secret-manager call is made.
	ErrScriptHashPayment = errors.New("Payment credential source cannot be a script hash")

	// ErrMissingSigner is returned when a signer-backed
	// credential source carries no signer.
	ErrMissingSigner = errors.New("Credential source carries neither a signer nor a script hash")

	// ErrNoStakeCredential is returned by operations that need
	// a stake credential from a manager configured without one.
	ErrNoStakeCredential = errors.New("No stake credential is configured")

	// ErrUnknownAddressType is returned for address types the
	// manager cannot build.
	ErrUnknownAddressType = errors.New("Unknown address type")

	// ErrDRepIDUnsupported is returned by DRepID. Deriving the
	// public governance identifier from the drep credential is
	// not implemented yet.
	ErrDRepIDUnsupported = errors.New("DRep ID derivation is not supported yet")
)

// AddressManager owns a resolved credential triple and the
// signers backing it. Construction happens once through
// NewAddressManager; afterwards the manager is immutable and
// safe for unlimited concurrent reads. The payment credential
// is always key-backed, and a role holds a signer exactly when
// its credential is key-backed.
type AddressManager struct {
	networkID NetworkID
	era       Era

	payment       Credential
	stake         *Credential
	drep          *Credential
	paymentSigner Signer
	stakeSigner   Signer
	drepSigner    Signer
}

// NewAddressManager resolves the given source into a manager.
// The three role resolutions run concurrently; the first
// failure aborts construction and no manager is returned.
// Configuration defects are rejected synchronously, before any
// signer or secret-manager call.
func NewAddressManager(source AddressSource, cfg Config) (*AddressManager, error) {
	switch s := source.(type) {
	case SecretManagerSource:
		return newFromSecretManager(s.SecretManager, cfg)
	case ExplicitSource:
		return newFromExplicit(s, cfg)
	default:
		return nil, errors.Errorf("Unsupported address source %T", source)
	}
}

// newFromSecretManager derives all three role credentials from
// their fixed single-index paths.
func newFromSecretManager(sm SecretManager, cfg Config) (*AddressManager, error) {
	m := &AddressManager{networkID: cfg.NetworkID, era: cfg.Era}

	deriveRole := func(role derivation.Role) (Credential, Signer, error) {
		path := derivation.NewRolePath(role)
		signer, err := sm.GetSigner(path)
		if err != nil {
			return Credential{}, nil, errors.Wrapf(err, "failed to derive %s signer at %s", role, path)
		}

		hash, err := signer.PubKeyHash()
		if err != nil {
			return Credential{}, nil, errors.Wrapf(err, "failed to resolve %s key hash", role)
		}

		log.Debugf("derived %s credential %s at %s", role, hash, path)
		return NewKeyHashCredential(hash), signer, nil
	}

	var g errgroup.Group
	g.Go(func() error {
		cred, signer, err := deriveRole(derivation.RolePayment)
		if err != nil {
			return err
		}
		m.payment, m.paymentSigner = cred, signer
		return nil
	})
	g.Go(func() error {
		cred, signer, err := deriveRole(derivation.RoleStake)
		if err != nil {
			return err
		}
		m.stake, m.stakeSigner = &cred, signer
		return nil
	})
	g.Go(func() error {
		cred, signer, err := deriveRole(derivation.RoleDRep)
		if err != nil {
			return err
		}
		m.drep, m.drepSigner = &cred, signer
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return m, nil
}

// newFromExplicit resolves per-role credential sources. Roles
// omitted from the source stay absent; there is no fallback
// derivation.
func newFromExplicit(source ExplicitSource, cfg Config) (*AddressManager, error) {
	// Validate the configuration before touching any
	// capability, so a defective source never triggers a
	// signer call.
	if source.Payment.isScript() {
		return nil, ErrScriptHashPayment
	}
	if source.Payment.signer == nil {
		return nil, errors.Wrap(ErrMissingSigner, "payment role")
	}
	for _, role := range []struct {
		name string
		src  *CredentialSource
	}{{"stake", source.Stake}, {"drep", source.Drep}} {
		if role.src != nil && !role.src.isScript() && role.src.signer == nil {
			return nil, errors.Wrap(ErrMissingSigner, role.name+" role")
		}
	}

	m := &AddressManager{networkID: cfg.NetworkID, era: cfg.Era}

	resolveOptional := func(src *CredentialSource, role string) (*Credential, Signer, error) {
		if src == nil {
			return nil, nil, nil
		}

		if src.isScript() {
			cred := NewScriptHashCredential(*src.scriptHash)
			return &cred, nil, nil
		}

		hash, err := src.signer.PubKeyHash()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to resolve %s key hash", role)
		}

		cred := NewKeyHashCredential(hash)
		return &cred, src.signer, nil
	}

	var g errgroup.Group
	g.Go(func() error {
		hash, err := source.Payment.signer.PubKeyHash()
		if err != nil {
			return errors.Wrap(err, "failed to resolve payment key hash")
		}
		m.payment = NewKeyHashCredential(hash)
		m.paymentSigner = source.Payment.signer
		return nil
	})
	g.Go(func() error {
		cred, signer, err := resolveOptional(source.Stake, "stake")
		if err != nil {
			return err
		}
		m.stake, m.stakeSigner = cred, signer
		return nil
	})
	g.Go(func() error {
		cred, signer, err := resolveOptional(source.Drep, "drep")
		if err != nil {
			return err
		}
		m.drep, m.drepSigner = cred, signer
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return m, nil
}

// NetworkID returns the configured network id.
func (m *AddressManager) NetworkID() NetworkID {
	return m.networkID
}

// Era returns the ledger era transaction encoders should
// target for this wallet.
func (m *AddressManager) Era() Era {
	return m.era
}

// PaymentCredential returns the payment credential, which is
// always key-backed.
func (m *AddressManager) PaymentCredential() Credential {
	return m.payment
}

// StakeCredential returns the stake credential if one is
// configured.
func (m *AddressManager) StakeCredential() (Credential, bool) {
	if m.stake == nil {
		return Credential{}, false
	}
	return *m.stake, true
}

// DrepCredential returns the drep credential if one is
// configured.
func (m *AddressManager) DrepCredential() (Credential, bool) {
	if m.drep == nil {
		return Credential{}, false
	}
	return *m.drep, true
}

// NextAddress returns the address-construction request for the
// requested type. The wallet holds exactly one key per role,
// so repeated calls return the same request. Base requests
// fail with ErrNoStakeCredential when no stake credential is
// configured.
func (m *AddressManager) NextAddress(typ AddressType) (AddressRequest, error) {
	switch typ {
	case Enterprise:
		payment := m.payment
		return AddressRequest{
			Type:      Enterprise,
			NetworkID: m.networkID,
			Payment:   &payment,
		}, nil
	case Base:
		if m.stake == nil {
			return AddressRequest{}, ErrNoStakeCredential
		}
		payment, stake := m.payment, *m.stake
		return AddressRequest{
			Type:      Base,
			NetworkID: m.networkID,
			Payment:   &payment,
			Stake:     &stake,
		}, nil
	case Reward:
		return m.RewardAccount()
	default:
		return AddressRequest{}, ErrUnknownAddressType
	}
}

// ChangeAddress returns the change address request for the
// requested type. With a single derived key per role there is
// no separate change chain, so this matches NextAddress.
func (m *AddressManager) ChangeAddress(typ AddressType) (AddressRequest, error) {
	return m.NextAddress(typ)
}

// RewardAccount returns the reward-account request built from
// the stake credential alone, or ErrNoStakeCredential when no
// stake credential is configured.
func (m *AddressManager) RewardAccount() (AddressRequest, error) {
	if m.stake == nil {
		return AddressRequest{}, ErrNoStakeCredential
	}

	stake := *m.stake
	return AddressRequest{
		Type:      Reward,
		NetworkID: m.networkID,
		Stake:     &stake,
	}, nil
}

// UsedAddresses returns the base and enterprise requests for
// the wallet's credential pair. This is a heuristic standing
// in for on-chain usage history, which the wallet does not
// track: the addresses may never have appeared on chain. With
// no stake credential only the enterprise request is returned.
func (m *AddressManager) UsedAddresses() []AddressRequest {
	enterprise, _ := m.NextAddress(Enterprise)
	if m.stake == nil {
		return []AddressRequest{enterprise}
	}

	base, _ := m.NextAddress(Base)
	return []AddressRequest{base, enterprise}
}

// SignersFor maps each required hash to the held signer whose
// key-backed credential matches it. Hashes the wallet cannot
// satisfy are silently omitted, including every script-backed
// role, which holds no signer by construction. Callers must
// treat a missing entry as "cannot sign", not as an error.
func (m *AddressManager) SignersFor(required []Hash) map[Hash]Signer {
	found := make(map[Hash]Signer, len(required))
	for _, hash := range required {
		if signer, ok := m.signerForHash(hash); ok {
			found[hash] = signer
		}
	}
	return found
}

// signerForHash checks the hash against each key-backed role.
func (m *AddressManager) signerForHash(hash Hash) (Signer, bool) {
	if m.payment.Hash() == hash {
		return m.paymentSigner, true
	}
	if m.stake != nil && m.stake.IsKeyHash() && m.stakeSigner != nil && m.stake.Hash() == hash {
		return m.stakeSigner, true
	}
	if m.drep != nil && m.drep.IsKeyHash() && m.drepSigner != nil && m.drep.Hash() == hash {
		return m.drepSigner, true
	}
	return nil, false
}

// DRepID derives the public governance identifier from the
// drep credential. Not yet available; callers get
// ErrDRepIDUnsupported until the encoding is implemented.
func (m *AddressManager) DRepID() (string, error) {
	return "", ErrDRepIDUnsupported
}
