package txscript

import (
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// ScriptClass identifies the standard script templates a script-public-key
// can take. NonStandardTy covers anything else: the script
// may still be perfectly spendable, it is just not one this package knows
// how to construct a matching signature script for automatically.
type ScriptClass int

const (
	NonStandardTy ScriptClass = iota
	PubKeyTy
	PubKeyECDSATy
	ScriptHashTy
)

// String implements fmt.Stringer.
func (c ScriptClass) String() string {
	switch c {
	case PubKeyTy:
		return "pubkey"
	case PubKeyECDSATy:
		return "pubkeyecdsa"
	case ScriptHashTy:
		return "scripthash"
	default:
		return "nonstandard"
	}
}

// PayToPubKeyScript builds the version-0 script-public-key that locks an
// output to the owner of a 32-byte x-only Schnorr public key: `<pubkey>
// OP_CHECKSIG`.
func PayToPubKeyScript(schnorrPubKey []byte) (*externalapi.DomainScriptPublicKey, error) {
	script, err := NewScriptBuilder().AddData(schnorrPubKey).AddOp(OpCheckSig).Script()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build pay-to-pubkey script")
	}
	return externalapi.NewScriptPublicKey(script), nil
}

// PayToPubKeyScriptECDSA builds the version-0 script-public-key that locks
// an output to the owner of a 33-byte compressed ECDSA public key:
// `<pubkey> OP_CHECKSIG_ECDSA`.
func PayToPubKeyScriptECDSA(ecdsaPubKey []byte) (*externalapi.DomainScriptPublicKey, error) {
	script, err := NewScriptBuilder().AddData(ecdsaPubKey).AddOp(OpCheckSigECDSA).Script()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build pay-to-pubkey-ECDSA script")
	}
	return externalapi.NewScriptPublicKey(script), nil
}

// PayToScriptHashScript builds the version-0 script-public-key for a
// pay-to-script-hash output locking redeemScript: `OP_BLAKE2B
// <32-byte hash of redeemScript> OP_EQUAL`.
func PayToScriptHashScript(redeemScript []byte) (*externalapi.DomainScriptPublicKey, error) {
	scriptHash := hashes.Blake2b256(redeemScript)
	return PayToScriptHashScriptFromHash(scriptHash[:])
}

// PayToScriptHashScriptFromHash builds the same script as
// PayToScriptHashScript, given an already-computed 32-byte script hash
// (e.g. one decoded out of a script-hash address, where the redeem script
// itself is unknown to the caller).
func PayToScriptHashScriptFromHash(scriptHash []byte) (*externalapi.DomainScriptPublicKey, error) {
	if len(scriptHash) != 32 {
		return nil, errors.Errorf("script hash must be 32 bytes, got %d", len(scriptHash))
	}
	script, err := NewScriptBuilder().
		AddOp(OpBlake2b).
		AddData(scriptHash).
		AddOp(OpEqual).
		Script()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build pay-to-script-hash script")
	}
	return externalapi.NewScriptPublicKey(script), nil
}

// MultiSigRedeemScript builds the `OP_m <pubkey1> ... <pubkeyN> OP_n
// OP_CHECKMULTISIG[_ECDSA]` redeem script for an n-of-m-capable multisig
// lock with minimumSignatures required out of the given public keys.
// Public keys are expected already
// ordered the way the caller wants them checked against; callers
// constructing addresses from an unordered key set should sort first for
// a deterministic script.
func MultiSigRedeemScript(pubKeys [][]byte, minimumSignatures int, ecdsa bool) ([]byte, error) {
	if minimumSignatures < 1 || minimumSignatures > len(pubKeys) {
		return nil, errors.Errorf("invalid minimum signature count %d for %d public keys", minimumSignatures, len(pubKeys))
	}
	if len(pubKeys) > MaxPubKeysPerMultiSig {
		return nil, errors.Errorf("too many public keys for a multisig script: %d", len(pubKeys))
	}

	builder := NewScriptBuilder().AddInt64(int64(minimumSignatures))
	for _, pubKey := range pubKeys {
		builder.AddData(pubKey)
	}
	builder.AddInt64(int64(len(pubKeys)))

	checkMultiSigOp := byte(OpCheckMultiSig)
	if ecdsa {
		checkMultiSigOp = OpCheckMultiSigECDSA
	}
	builder.AddOp(checkMultiSigOp)

	return builder.Script()
}

// ExtractScriptHash returns the hash locked by script if it is a
// pay-to-script-hash script.
func ExtractScriptHash(script []byte) ([]byte, bool) {
	return extractScriptHash(script)
}

// ClassifyScript reports which standard template, if any, script matches.
func ClassifyScript(script []byte) ScriptClass {
	if isScriptHash(script) {
		return ScriptHashTy
	}

	pops, err := parseScript(script)
	if err != nil {
		return NonStandardTy
	}

	if len(pops) == 2 &&
		pops[0].opcode >= OpData1 && pops[0].opcode <= OpData75 &&
		len(pops[0].data) == externalapi.SchnorrPublicKeySize &&
		pops[1].opcode == OpCheckSig {
		return PubKeyTy
	}

	if len(pops) == 2 &&
		pops[0].opcode >= OpData1 && pops[0].opcode <= OpData75 &&
		len(pops[0].data) == externalapi.ECDSAPublicKeySize &&
		pops[1].opcode == OpCheckSigECDSA {
		return PubKeyECDSATy
	}

	return NonStandardTy
}
