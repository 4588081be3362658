package wallet

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	_assert "github.com/stretchr/testify/require"

	"github.com/MeshJS/mesh-wallet-2/derivation"
)

// testHash builds a credential hash filled with the given byte
func testHash(fill byte) Hash {
	var h Hash
	for i := range h {
		h[i] = fill
	}
	return h
}

// dummySigner implements Signer with a fixed hash
type dummySigner struct {
	hash  Hash
	err   error
	calls int
}

func (s *dummySigner) PubKeyHash() (Hash, error) {
	s.calls++
	if s.err != nil {
		return Hash{}, s.err
	}
	return s.hash, nil
}

func (s *dummySigner) Sign(digest []byte) ([]byte, error) {
	return append([]byte{}, s.hash[:]...), nil
}

// dummySecretManager implements SecretManager over a fixed
// path-to-signer table, recording every requested path.
type dummySecretManager struct {
	mu      sync.Mutex
	signers map[string]*dummySigner
	err     error
	paths   []string
}

// newDummySecretManager seeds signers for the three fixed
// role paths, with distinct hashes per role.
func newDummySecretManager() *dummySecretManager {
	return &dummySecretManager{
		signers: map[string]*dummySigner{
			derivation.NewRolePath(derivation.RolePayment).String(): {hash: testHash(0x01)},
			derivation.NewRolePath(derivation.RoleStake).String():   {hash: testHash(0x02)},
			derivation.NewRolePath(derivation.RoleDRep).String():    {hash: testHash(0x03)},
		},
	}
}

func (m *dummySecretManager) GetSigner(path derivation.Path) (Signer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paths = append(m.paths, path.String())
	if m.err != nil {
		return nil, m.err
	}

	signer, ok := m.signers[path.String()]
	if !ok {
		return nil, errors.Errorf("no signer at %s", path)
	}
	return signer, nil
}

func TestNewAddressManagerFromSecretManager(t *testing.T) {
	sm := newDummySecretManager()

	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: sm},
		Config{NetworkID: TestnetID},
	)
	_assert.NoError(t, err)
	_assert.NotNil(t, manager)

	_assert.Equal(t, TestnetID, manager.NetworkID())
	_assert.Equal(t, EraConway, manager.Era())

	payment := manager.PaymentCredential()
	_assert.True(t, payment.IsKeyHash())
	_assert.Equal(t, testHash(0x01), payment.Hash())

	stake, ok := manager.StakeCredential()
	_assert.True(t, ok)
	_assert.True(t, stake.IsKeyHash())
	_assert.Equal(t, testHash(0x02), stake.Hash())

	drep, ok := manager.DrepCredential()
	_assert.True(t, ok)
	_assert.True(t, drep.IsKeyHash())
	_assert.Equal(t, testHash(0x03), drep.Hash())

	// exactly the three fixed single-index paths are derived
	_assert.Len(t, sm.paths, 3)
	_assert.ElementsMatch(t, []string{
		"m/1852'/1815'/0'/0/0",
		"m/1852'/1815'/0'/2/0",
		"m/1852'/1815'/0'/3/0",
	}, sm.paths)
}

func TestNewAddressManagerFailsWhenRoleFails(t *testing.T) {
	sm := newDummySecretManager()
	sm.signers[derivation.NewRolePath(derivation.RoleStake).String()].err = errors.New("hardware wallet unplugged")

	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: sm},
		Config{NetworkID: TestnetID},
	)
	_assert.Error(t, err)
	_assert.Nil(t, manager)
	_assert.Contains(t, err.Error(), "hardware wallet unplugged")
}

func TestExplicitScriptHashPaymentRejected(t *testing.T) {
	stakeSigner := &dummySigner{hash: testHash(0x22)}
	stake := SignerSource(stakeSigner)

	manager, err := NewAddressManager(
		ExplicitSource{
			Payment: ScriptHashSource(testHash(0xab)),
			Stake:   &stake,
		},
		Config{NetworkID: MainnetID},
	)
	_assert.Error(t, err)
	_assert.Nil(t, manager)
	_assert.Equal(t, ErrScriptHashPayment, err)

	// rejected before any capability call
	_assert.Equal(t, 0, stakeSigner.calls)
}

func TestExplicitEmptyPaymentSourceRejected(t *testing.T) {
	manager, err := NewAddressManager(
		ExplicitSource{Payment: CredentialSource{}},
		Config{NetworkID: MainnetID},
	)
	_assert.Error(t, err)
	_assert.Nil(t, manager)
	_assert.Equal(t, ErrMissingSigner, errors.Cause(err))
}

func TestExplicitScriptStake(t *testing.T) {
	scriptHash := testHash(0xcd)
	stake := ScriptHashSource(scriptHash)

	manager, err := NewAddressManager(
		ExplicitSource{
			Payment: SignerSource(&dummySigner{hash: testHash(0x11)}),
			Stake:   &stake,
		},
		Config{NetworkID: MainnetID},
	)
	_assert.NoError(t, err)

	cred, ok := manager.StakeCredential()
	_assert.True(t, ok)
	_assert.False(t, cred.IsKeyHash())
	_assert.Equal(t, scriptHash, cred.Hash())

	// a script-backed role never resolves a signer
	found := manager.SignersFor([]Hash{scriptHash})
	_assert.Empty(t, found)
}

func TestExplicitOmittedStake(t *testing.T) {
	manager, err := NewAddressManager(
		ExplicitSource{
			Payment: SignerSource(&dummySigner{hash: testHash(0x11)}),
		},
		Config{NetworkID: MainnetID},
	)
	_assert.NoError(t, err)

	// no fallback derivation happens for omitted roles
	_, ok := manager.StakeCredential()
	_assert.False(t, ok)
	_, ok = manager.DrepCredential()
	_assert.False(t, ok)

	_, err = manager.RewardAccount()
	_assert.Equal(t, ErrNoStakeCredential, err)

	_, err = manager.NextAddress(Base)
	_assert.Equal(t, ErrNoStakeCredential, err)

	used := manager.UsedAddresses()
	_assert.Len(t, used, 1)
	_assert.Equal(t, Enterprise, used[0].Type)
}

func TestExplicitStakeSignerFailurePropagates(t *testing.T) {
	cause := errors.New("device rejected request")
	stake := SignerSource(&dummySigner{err: cause})

	manager, err := NewAddressManager(
		ExplicitSource{
			Payment: SignerSource(&dummySigner{hash: testHash(0x11)}),
			Stake:   &stake,
		},
		Config{NetworkID: MainnetID},
	)
	_assert.Error(t, err)
	_assert.Nil(t, manager)
	_assert.Equal(t, cause, errors.Cause(err))
}

func TestNextAddressShapes(t *testing.T) {
	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: newDummySecretManager()},
		Config{NetworkID: MainnetID},
	)
	_assert.NoError(t, err)

	base, err := manager.NextAddress(Base)
	_assert.NoError(t, err)
	enterprise, err := manager.NextAddress(Enterprise)
	_assert.NoError(t, err)

	// identical payment credential, stake only on base
	_assert.Equal(t, base.Payment, enterprise.Payment)
	_assert.NotNil(t, base.Stake)
	_assert.Nil(t, enterprise.Stake)
	_assert.Equal(t, MainnetID, base.NetworkID)
	_assert.Equal(t, MainnetID, enterprise.NetworkID)

	_, err = manager.NextAddress(AddressType(42))
	_assert.Equal(t, ErrUnknownAddressType, err)
}

func TestChangeAddressMatchesNextAddress(t *testing.T) {
	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: newDummySecretManager()},
		Config{NetworkID: MainnetID},
	)
	_assert.NoError(t, err)

	for _, typ := range []AddressType{Base, Enterprise, Reward} {
		next, err := manager.NextAddress(typ)
		_assert.NoError(t, err)
		change, err := manager.ChangeAddress(typ)
		_assert.NoError(t, err)
		_assert.Equal(t, next, change)
	}
}

func TestRewardAccountRepeatable(t *testing.T) {
	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: newDummySecretManager()},
		Config{NetworkID: TestnetID},
	)
	_assert.NoError(t, err)

	first, err := manager.RewardAccount()
	_assert.NoError(t, err)
	second, err := manager.RewardAccount()
	_assert.NoError(t, err)
	_assert.Equal(t, first, second)

	_assert.Equal(t, Reward, first.Type)
	_assert.Nil(t, first.Payment)
	_assert.NotNil(t, first.Stake)
	_assert.Equal(t, testHash(0x02), first.Stake.Hash())
}

func TestUsedAddresses(t *testing.T) {
	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: newDummySecretManager()},
		Config{NetworkID: MainnetID},
	)
	_assert.NoError(t, err)

	used := manager.UsedAddresses()
	_assert.Len(t, used, 2)
	_assert.Equal(t, Base, used[0].Type)
	_assert.Equal(t, Enterprise, used[1].Type)
	_assert.Equal(t, used[0].Payment, used[1].Payment)
}

func TestSignersFor(t *testing.T) {
	sm := newDummySecretManager()
	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: sm},
		Config{NetworkID: TestnetID},
	)
	_assert.NoError(t, err)

	paymentHash := testHash(0x01)
	stakeHash := testHash(0x02)
	unknown := testHash(0xff)

	found := manager.SignersFor([]Hash{paymentHash, stakeHash, unknown})
	_assert.Len(t, found, 2)
	_assert.Equal(t, sm.signers["m/1852'/1815'/0'/0/0"], found[paymentHash])
	_assert.Equal(t, sm.signers["m/1852'/1815'/0'/2/0"], found[stakeHash])
	_assert.NotContains(t, found, unknown)

	// pure and idempotent
	again := manager.SignersFor([]Hash{paymentHash, stakeHash, unknown})
	_assert.Equal(t, found, again)

	// exactly the payment signer for the payment hash alone
	only := manager.SignersFor([]Hash{paymentHash})
	_assert.Len(t, only, 1)
	_assert.Equal(t, sm.signers["m/1852'/1815'/0'/0/0"], only[paymentHash])

	// unsatisfiable sets resolve to an empty map, not an error
	_assert.Empty(t, manager.SignersFor([]Hash{unknown}))
	_assert.Empty(t, manager.SignersFor(nil))
}

func TestDRepIDUnsupported(t *testing.T) {
	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: newDummySecretManager()},
		Config{NetworkID: TestnetID},
	)
	_assert.NoError(t, err)

	id, err := manager.DRepID()
	_assert.Equal(t, "", id)
	_assert.Equal(t, ErrDRepIDUnsupported, err)
}

func TestConfigEra(t *testing.T) {
	manager, err := NewAddressManager(
		SecretManagerSource{SecretManager: newDummySecretManager()},
		Config{NetworkID: MainnetID, Era: EraBabbage},
	)
	_assert.NoError(t, err)
	_assert.Equal(t, EraBabbage, manager.Era())
}
