package derivation

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrPathAlreadyMaxDepth is returned when a path has
	// reached the theoretical maximum depth of 255, since
	// additional derivations cannot safely be serialized
	// in a uint8
	ErrPathAlreadyMaxDepth = errors.New("Cannot create child path, currently at max depth")
)

const (
	pathPrefix     = "m"
	hardenedSymbol = "'"
	maxPathDepth   = math.MaxUint8

	// HardenedOffset is added to a sequence number to
	// mark the derivation as hardened.
	HardenedOffset uint32 = 0x80000000

	// Purpose is the CIP-1852 purpose field, always
	// derived hardened.
	Purpose uint32 = 1852

	// CoinType is the SLIP-0044 coin type for ada,
	// always derived hardened.
	CoinType uint32 = 1815
)

// Role selects the key chain below the account level
// of a CIP-1852 path. Payment and stake roles come from
// CIP-1852 itself, the drep role from CIP-0105.
type Role uint32

const (
	// RolePayment is the external chain holding spending keys
	RolePayment Role = 0

	// RoleStake is the chain holding stake/reward-account keys
	RoleStake Role = 2

	// RoleDRep is the chain holding governance delegation keys
	RoleDRep Role = 3
)

// String returns the role name for logging purposes.
func (r Role) String() string {
	switch r {
	case RolePayment:
		return "payment"
	case RoleStake:
		return "stake"
	case RoleDRep:
		return "drep"
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// Path defines an absolute derivation path as the ordered
// list of sequence numbers below the master key. Hardened
// derivations carry the HardenedOffset in their sequence.
type Path struct {
	Indices []uint32
}

// Harden returns the sequence number with the hardened
// bit set.
func Harden(sequence uint32) uint32 {
	return sequence | HardenedOffset
}

// NewRolePath builds the fixed single-index path for a role,
// m/1852'/1815'/0'/role/0. The account is always hardened
// zero and the address index always zero; the wallet never
// rotates either.
func NewRolePath(role Role) Path {
	return Path{
		Indices: []uint32{
			Harden(Purpose),
			Harden(CoinType),
			Harden(0),
			uint32(role),
			0,
		},
	}
}

// NewPathFromString parses the m/1852'/1815'/0'/0/0 notation
// into a Path, or returns an error describing the defect.
func NewPathFromString(path string) (Path, error) {
	if len(path) == 0 {
		return Path{}, errors.New("Path cannot be empty string")
	}

	if !strings.HasPrefix(path, pathPrefix) {
		return Path{}, errors.New("Absolute derivation path is required")
	}

	pieces := strings.Split(path, "/")
	_, pieces = pieces[0], pieces[1:]

	depth := len(pieces)
	if depth > maxPathDepth {
		return Path{}, errors.Errorf("The provided path exceeds the maximum number of allowed derivations: %d", maxPathDepth)
	}

	indices := make([]uint32, depth)
	for i := 0; i < depth; i++ {
		segment := pieces[i]
		numHardened := strings.Count(segment, hardenedSymbol)

		var hardened bool
		if numHardened > 1 {
			return Path{}, errors.Errorf("Improperly formatted derivation path (cannot contain multiple ' characters)")
		} else if numHardened > 0 {
			hardened = true
			segment = strings.Replace(segment, hardenedSymbol, "", 1)
		}

		sequence, err := strconv.ParseUint(segment, 10, 31)
		if err != nil {
			return Path{}, err
		}

		if hardened {
			sequence = sequence + uint64(HardenedOffset)
		}

		indices[i] = uint32(sequence)
	}

	return Path{Indices: indices}, nil
}

// Child appends another sequence number to the path,
// returning a new structure.
func (p Path) Child(sequence uint32) (Path, error) {
	if p.Depth()+1 > maxPathDepth {
		return Path{}, ErrPathAlreadyMaxDepth
	}

	indices := make([]uint32, p.Depth(), p.Depth()+1)
	copy(indices, p.Indices)
	indices = append(indices, sequence)

	return Path{Indices: indices}, nil
}

// Depth returns the current depth of the path
func (p Path) Depth() int {
	return len(p.Indices)
}

// isSequenceHardened returns whether the provided
// sequence has the leftmost bit set.
func isSequenceHardened(sequence uint32) bool {
	return sequence&HardenedOffset != 0
}

// segmentFromSequence serializes a sequence number into
// its path segment, appending the hardened symbol if the
// sequence is hardened.
func segmentFromSequence(sequence uint32) string {
	if isSequenceHardened(sequence) {
		return strconv.Itoa(int(sequence-HardenedOffset)) + hardenedSymbol
	}
	return strconv.Itoa(int(sequence))
}

// String encodes the Path structure into a string that
// is human readable, eg, m/1852'/1815'/0'/0/0
func (p Path) String() string {
	steps := make([]string, 1+p.Depth())
	steps[0] = pathPrefix

	for i := 0; i < p.Depth(); i++ {
		steps[1+i] = segmentFromSequence(p.Indices[i])
	}

	return strings.Join(steps, "/")
}
