// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"strings"

	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/hashes"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/txscript"
	"github.com/kaspanet/kaspa-tx-sdk/util/base58"
	"github.com/pkg/errors"
)

const (
	// AddressVersionSchnorr tags a 32-byte x-only Schnorr public key payload.
	AddressVersionSchnorr byte = 0
	// AddressVersionECDSA tags a 33-byte compressed ECDSA public key payload.
	AddressVersionECDSA byte = 1
	// AddressVersionScriptHash tags a 32-byte BLAKE2b script-hash payload.
	AddressVersionScriptHash byte = 8
)

// Prefix is the human-readable network prefix carried by a Kaspa address.
type Prefix string

// The network prefixes, one per network type.
const (
	PrefixMainnet Prefix = "kaspa"
	PrefixTestnet Prefix = "kaspatest"
	PrefixSimnet  Prefix = "kaspasim"
	PrefixDevnet  Prefix = "kaspadev"
)

var validPrefixes = map[Prefix]bool{
	PrefixMainnet: true,
	PrefixTestnet: true,
	PrefixSimnet:  true,
	PrefixDevnet:  true,
}

// ErrUnknownAddressType describes an error where an address's version byte
// does not match any of the known payload shapes.
var ErrUnknownAddressType = errors.New("unknown address type")

// Address is a {prefix, version, payload} triple decoded from or destined
// for a human-readable Kaspa address string.
type Address struct {
	Prefix  Prefix
	Version byte
	Payload []byte
}

// NewAddressSchnorr builds an Address wrapping a 32-byte x-only Schnorr
// public key.
func NewAddressSchnorr(prefix Prefix, schnorrPubKey []byte) (*Address, error) {
	if len(schnorrPubKey) != 32 {
		return nil, errors.Errorf("schnorr public key must be 32 bytes, got %d", len(schnorrPubKey))
	}
	return &Address{Prefix: prefix, Version: AddressVersionSchnorr, Payload: schnorrPubKey}, nil
}

// NewAddressECDSA builds an Address wrapping a 33-byte compressed ECDSA
// public key.
func NewAddressECDSA(prefix Prefix, ecdsaPubKey []byte) (*Address, error) {
	if len(ecdsaPubKey) != 33 {
		return nil, errors.Errorf("ECDSA public key must be 33 bytes, got %d", len(ecdsaPubKey))
	}
	return &Address{Prefix: prefix, Version: AddressVersionECDSA, Payload: ecdsaPubKey}, nil
}

// NewAddressScriptHash builds an Address wrapping the BLAKE2b hash of
// redeemScript.
func NewAddressScriptHash(prefix Prefix, redeemScript []byte) (*Address, error) {
	hash := hashes.Blake2b256(redeemScript)
	return &Address{Prefix: prefix, Version: AddressVersionScriptHash, Payload: hash[:]}, nil
}

// String encodes the address as a human-readable string of the form
// "<prefix>:<base58check-encoded version+payload>".
func (a *Address) String() string {
	return string(a.Prefix) + ":" + base58.CheckEncode(a.Payload, a.Version)
}

// DecodeAddress parses a human-readable address string produced by
// (*Address).String.
func DecodeAddress(s string) (*Address, error) {
	sepIdx := strings.LastIndex(s, ":")
	if sepIdx < 0 {
		return nil, errors.New("address is missing its prefix separator")
	}
	prefix := Prefix(s[:sepIdx])
	if !validPrefixes[prefix] {
		return nil, errors.Errorf("unrecognized address prefix %q", prefix)
	}

	payload, version, err := base58.CheckDecode(s[sepIdx+1:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode address payload")
	}

	switch version {
	case AddressVersionSchnorr:
		if len(payload) != 32 {
			return nil, ErrUnknownAddressType
		}
	case AddressVersionECDSA:
		if len(payload) != 33 {
			return nil, ErrUnknownAddressType
		}
	case AddressVersionScriptHash:
		if len(payload) != 32 {
			return nil, ErrUnknownAddressType
		}
	default:
		return nil, ErrUnknownAddressType
	}

	return &Address{Prefix: prefix, Version: version, Payload: payload}, nil
}

// PayToAddrScript builds the script-public-key that pays to addr, selecting
// the script template matching the address's version byte.
func PayToAddrScript(addr *Address) (*externalapi.DomainScriptPublicKey, error) {
	switch addr.Version {
	case AddressVersionSchnorr:
		return txscript.PayToPubKeyScript(addr.Payload)
	case AddressVersionECDSA:
		return txscript.PayToPubKeyScriptECDSA(addr.Payload)
	case AddressVersionScriptHash:
		return txscript.PayToScriptHashScriptFromHash(addr.Payload)
	default:
		return nil, ErrUnknownAddressType
	}
}

// AddressForScriptPublicKey reverses PayToAddrScript for the standard
// script templates, recovering the address a script-public-key pays to.
func AddressForScriptPublicKey(prefix Prefix, spk *externalapi.DomainScriptPublicKey) (*Address, error) {
	if spk.Version != 0 {
		return nil, ErrUnknownAddressType
	}
	switch txscript.ClassifyScript(spk.Script) {
	case txscript.PubKeyTy:
		return NewAddressSchnorr(prefix, spk.Script[1:1+externalapi.SchnorrPublicKeySize])
	case txscript.PubKeyECDSATy:
		return NewAddressECDSA(prefix, spk.Script[1:1+externalapi.ECDSAPublicKeySize])
	case txscript.ScriptHashTy:
		scriptHash, ok := txscript.ExtractScriptHash(spk.Script)
		if !ok {
			return nil, ErrUnknownAddressType
		}
		return &Address{Prefix: prefix, Version: AddressVersionScriptHash, Payload: scriptHash}, nil
	default:
		return nil, ErrUnknownAddressType
	}
}
