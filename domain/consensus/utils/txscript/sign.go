package txscript

import (
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/kaspa-tx-sdk/util/keys"
	"github.com/pkg/errors"
)

// RawTxInSignature returns the raw signature (with hashType appended as the
// trailing byte) for input idx of tx as it should commit against the given
// previous output script, using keypair's scheme.
// Every input's UTXOEntry must already be populated; see
// consensushashing.CalculateSignatureHash.
func RawTxInSignature(tx *externalapi.DomainTransaction, idx int, hashType externalapi.SigHashType,
	keypair *keys.Keypair, reusedValues *consensushashing.SighashReusedValues) ([]byte, error) {

	var hash *externalapi.DomainHash
	var err error
	if keypair.IsECDSA() {
		hash, err = consensushashing.CalculateSignatureHashECDSA(tx, idx, hashType, reusedValues)
	} else {
		hash, err = consensushashing.CalculateSignatureHash(tx, idx, hashType, reusedValues)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to calculate signature hash")
	}

	sig, err := keypair.Sign(hash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction input")
	}
	sigBytes := sig.Bytes()
	return append(sigBytes[:], byte(hashType)), nil
}

// SignatureScriptForPubKey builds the signature script that spends a
// pay-to-pubkey or pay-to-pubkey-ECDSA output: the signature script for
// these templates is just the signature, since the public key is already
// baked into the locking script.
func SignatureScriptForPubKey(tx *externalapi.DomainTransaction, idx int, hashType externalapi.SigHashType,
	keypair *keys.Keypair, reusedValues *consensushashing.SighashReusedValues) ([]byte, error) {

	sig, err := RawTxInSignature(tx, idx, hashType, keypair, reusedValues)
	if err != nil {
		return nil, err
	}
	return NewScriptBuilder().AddData(sig).Script()
}

// MultiSigSignature is one signature contributed toward a multisig
// redeem-script spend, tagged with the index of the public key it
// corresponds to within the redeem script's key list so partial signature
// sets from independent signers can be merged deterministically.
type MultiSigSignature struct {
	PubKeyIndex int
	Signature   []byte
}

// SignMultiSig produces one MultiSigSignature for input idx of tx against
// redeemScript, contributed by keypair, which must correspond to
// pubKeys[pubKeyIndex] in the same order MultiSigRedeemScript received them.
func SignMultiSig(tx *externalapi.DomainTransaction, idx int, hashType externalapi.SigHashType,
	keypair *keys.Keypair, pubKeyIndex int, reusedValues *consensushashing.SighashReusedValues) (*MultiSigSignature, error) {

	sig, err := RawTxInSignature(tx, idx, hashType, keypair, reusedValues)
	if err != nil {
		return nil, err
	}
	return &MultiSigSignature{PubKeyIndex: pubKeyIndex, Signature: sig}, nil
}

// AssembleMultiSigSignatureScript builds the full signature script for a
// pay-to-script-hash multisig spend out of however many MultiSigSignature
// values have been collected so far: `<sig1> <sig2> ... <redeemScript>`.
// Signatures are pushed in pubKeyIndex order, which is also the order
// OP_CHECKMULTISIG's greedy matching expects.
func AssembleMultiSigSignatureScript(signatures []*MultiSigSignature, redeemScript []byte) ([]byte, error) {
	sorted := make([]*MultiSigSignature, len(signatures))
	copy(sorted, signatures)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].PubKeyIndex > sorted[j].PubKeyIndex; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	builder := NewScriptBuilder()
	for _, sig := range sorted {
		builder.AddData(sig.Signature)
	}
	builder.AddData(redeemScript)
	return builder.Script()
}

// CountMultiSigSignatures reports how many signatures a pay-to-script-hash
// multisig signature script currently carries, and the minimum the redeem
// script requires, so a caller can decide whether a spend is fully signed.
func CountMultiSigSignatures(sigScript []byte) (present, required int, err error) {
	pops, err := parseScript(sigScript)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to parse signature script")
	}
	if len(pops) < 1 {
		return 0, 0, errors.New("empty signature script")
	}

	redeemScript := pops[len(pops)-1].data
	redeemPops, err := parseScript(redeemScript)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to parse redeem script")
	}
	if len(redeemPops) < 1 {
		return 0, 0, errors.New("empty redeem script")
	}

	requiredNum, err := makeScriptNum(redeemPops[0].data, false, 5)
	if redeemPops[0].opcode >= Op1 && redeemPops[0].opcode <= Op16 {
		requiredNum = scriptNum(redeemPops[0].opcode - (Op1 - 1))
		err = nil
	}
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to parse required signature count")
	}

	return len(pops) - 1, int(requiredNum), nil
}
