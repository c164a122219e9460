// Package consensushashing computes transaction body hashes, transaction
// ids, and the per-input signing hashes signatures commit to. Field
// ordering in every serialization here is consensus: changing it produces
// digests the network will not recognize.
package consensushashing

import (
	"encoding/binary"

	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/hashes"
)

func writeUint8(w hashes.HashWriter, v uint8) {
	w.InfallibleWrite([]byte{v})
}

func writeUint16LE(w hashes.HashWriter, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.InfallibleWrite(buf[:])
}

func writeUint32LE(w hashes.HashWriter, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.InfallibleWrite(buf[:])
}

func writeUint64LE(w hashes.HashWriter, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.InfallibleWrite(buf[:])
}

func writeVarBytes(w hashes.HashWriter, data []byte) {
	writeUint64LE(w, uint64(len(data)))
	w.InfallibleWrite(data)
}

func writeOutpoint(w hashes.HashWriter, outpoint *externalapi.DomainOutpoint) {
	w.InfallibleWrite(outpoint.TransactionID[:])
	writeUint32LE(w, outpoint.Index)
}

func writeScriptPublicKey(w hashes.HashWriter, spk *externalapi.DomainScriptPublicKey) {
	writeUint16LE(w, spk.Version)
	writeVarBytes(w, spk.Script)
}

func writeOutput(w hashes.HashWriter, output *externalapi.DomainTransactionOutput) {
	writeUint64LE(w, output.Value)
	writeScriptPublicKey(w, output.ScriptPublicKey)
}
