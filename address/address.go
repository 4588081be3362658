// Package address encodes wallet address-construction
// requests into their CIP-19 bech32 form, and decodes them
// back for inspection.
package address

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"

	"github.com/MeshJS/mesh-wallet-2/wallet"
)

var (
	// ErrMissingPayment is returned when a request shape
	// requires a payment credential but carries none.
	ErrMissingPayment = errors.New("Address request is missing its payment credential")

	// ErrMissingStake is returned when a request shape
	// requires a stake credential but carries none.
	ErrMissingStake = errors.New("Address request is missing its stake credential")
)

// CIP-19 header types. The header byte is the type in the
// high nibble and the network id in the low nibble.
const (
	hdrBaseKeyKey       = 0x00
	hdrBaseScriptKey    = 0x01
	hdrBaseKeyScript    = 0x02
	hdrBaseScriptScript = 0x03
	hdrEnterpriseKey    = 0x06
	hdrEnterpriseScript = 0x07
	hdrRewardKey        = 0x0e
	hdrRewardScript     = 0x0f
)

// Encode turns an address-construction request into its
// bech32 string form.
func Encode(req wallet.AddressRequest) (string, error) {
	network := NetworkForID(req.NetworkID)

	switch req.Type {
	case wallet.Base:
		if req.Payment == nil {
			return "", ErrMissingPayment
		}
		if req.Stake == nil {
			return "", ErrMissingStake
		}

		header := baseHeader(*req.Payment, *req.Stake)
		payload := make([]byte, 0, 1+2*wallet.HashSize)
		payload = append(payload, headerByte(header, req.NetworkID))
		payment := req.Payment.Hash()
		stake := req.Stake.Hash()
		payload = append(payload, payment[:]...)
		payload = append(payload, stake[:]...)
		return encodeBech32(network.AddressHRP, payload)

	case wallet.Enterprise:
		if req.Payment == nil {
			return "", ErrMissingPayment
		}

		header := byte(hdrEnterpriseKey)
		if !req.Payment.IsKeyHash() {
			header = hdrEnterpriseScript
		}
		payload := make([]byte, 0, 1+wallet.HashSize)
		payload = append(payload, headerByte(header, req.NetworkID))
		payment := req.Payment.Hash()
		payload = append(payload, payment[:]...)
		return encodeBech32(network.AddressHRP, payload)

	case wallet.Reward:
		if req.Stake == nil {
			return "", ErrMissingStake
		}

		header := byte(hdrRewardKey)
		if !req.Stake.IsKeyHash() {
			header = hdrRewardScript
		}
		payload := make([]byte, 0, 1+wallet.HashSize)
		payload = append(payload, headerByte(header, req.NetworkID))
		stake := req.Stake.Hash()
		payload = append(payload, stake[:]...)
		return encodeBech32(network.StakeHRP, payload)
	}

	return "", errors.Errorf("Unsupported address type %s", req.Type)
}

// Decode parses a bech32 address back into the request that
// would produce it. Pointer and Byron addresses are not
// supported.
func Decode(addr string) (wallet.AddressRequest, error) {
	_, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return wallet.AddressRequest{}, errors.Wrap(err, "failed to decode bech32 address")
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return wallet.AddressRequest{}, errors.Wrap(err, "failed to regroup address payload")
	}

	if len(payload) < 1 {
		return wallet.AddressRequest{}, errors.New("Address payload is empty")
	}

	header := payload[0] >> 4
	req := wallet.AddressRequest{NetworkID: wallet.NetworkID(payload[0] & 0x0f)}
	body := payload[1:]

	switch header {
	case hdrBaseKeyKey, hdrBaseScriptKey, hdrBaseKeyScript, hdrBaseScriptScript:
		if len(body) != 2*wallet.HashSize {
			return wallet.AddressRequest{}, errors.Errorf("Base address payload must be %d bytes, got %d", 2*wallet.HashSize, len(body))
		}

		payment, err := credentialFromBytes(body[:wallet.HashSize], header&0x01 != 0)
		if err != nil {
			return wallet.AddressRequest{}, err
		}
		stake, err := credentialFromBytes(body[wallet.HashSize:], header&0x02 != 0)
		if err != nil {
			return wallet.AddressRequest{}, err
		}

		req.Type = wallet.Base
		req.Payment = payment
		req.Stake = stake
		return req, nil

	case hdrEnterpriseKey, hdrEnterpriseScript:
		payment, err := credentialFromBytes(body, header == hdrEnterpriseScript)
		if err != nil {
			return wallet.AddressRequest{}, err
		}

		req.Type = wallet.Enterprise
		req.Payment = payment
		return req, nil

	case hdrRewardKey, hdrRewardScript:
		stake, err := credentialFromBytes(body, header == hdrRewardScript)
		if err != nil {
			return wallet.AddressRequest{}, err
		}

		req.Type = wallet.Reward
		req.Stake = stake
		return req, nil
	}

	return wallet.AddressRequest{}, errors.Errorf("Unsupported address header type %d", header)
}

// baseHeader picks the base address header for the credential
// pair. The script bits follow CIP-19: bit 0 for a script
// payment part, bit 1 for a script delegation part.
func baseHeader(payment, stake wallet.Credential) byte {
	header := byte(hdrBaseKeyKey)
	if !payment.IsKeyHash() {
		header |= 0x01
	}
	if !stake.IsKeyHash() {
		header |= 0x02
	}
	return header
}

// headerByte combines the header type and network id.
func headerByte(header byte, id wallet.NetworkID) byte {
	return header<<4 | byte(id)&0x0f
}

// credentialFromBytes rebuilds a credential from its hash
// bytes and script flag.
func credentialFromBytes(b []byte, isScript bool) (*wallet.Credential, error) {
	hash, err := wallet.HashFromBytes(b)
	if err != nil {
		return nil, err
	}

	var cred wallet.Credential
	if isScript {
		cred = wallet.NewScriptHashCredential(hash)
	} else {
		cred = wallet.NewKeyHashCredential(hash)
	}
	return &cred, nil
}

// encodeBech32 regroups the payload into 5-bit words and
// encodes it. Addresses exceed the 90 character bech32 limit,
// which only applies on decode.
func encodeBech32(hrp string, payload []byte) (string, error) {
	words, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "failed to regroup address payload")
	}

	encoded, err := bech32.Encode(hrp, words)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode address")
	}

	return encoded, nil
}
