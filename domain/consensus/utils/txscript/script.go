// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "encoding/binary"

// MaxScriptSize is the maximum allowed length of a raw script.
const MaxScriptSize = 10000

// MaxScriptElementSize is the maximum allowed size, in bytes, of an element
// pushed onto the data or alt stack.
const MaxScriptElementSize = 520

// MaxOpsPerScript is the maximum number of non-push opcodes a single script
// may execute.
const MaxOpsPerScript = 201

// MaxPubKeysPerMultiSig is the upper bound on the public-key count a
// multisig script may declare.
const MaxPubKeysPerMultiSig = 20

// MaxStackSize is the maximum combined entry count of the data stack and
// the alt stack.
const MaxStackSize = 244

// parsedOpcode represents an opcode that has been parsed and includes any
// potential data associated with it.
type parsedOpcode struct {
	opcode byte
	data   []byte
}

func (pop *parsedOpcode) isDisabled() bool {
	return disabledOpcodes[pop.opcode]
}

func (pop *parsedOpcode) alwaysIllegal() bool {
	return alwaysIllegalOpcodes[pop.opcode]
}

func (pop *parsedOpcode) isConditional() bool {
	switch pop.opcode {
	case OpIf, OpNotIf, OpElse, OpEndIf:
		return true
	}
	return false
}

// bytes returns any data associated with the opcode encoded as it would be
// in a script, including the opcode byte itself and any length-prefix
// bytes.
func (pop *parsedOpcode) bytes() []byte {
	var retbytes []byte
	if pop.opcode <= OpData75 && pop.opcode >= OpData1 {
		retbytes = make([]byte, 1, len(pop.data)+1)
		retbytes[0] = pop.opcode
	} else {
		switch pop.opcode {
		case OpPushData1:
			retbytes = make([]byte, 2, len(pop.data)+2)
			retbytes[0] = pop.opcode
			retbytes[1] = byte(len(pop.data))
		case OpPushData2:
			retbytes = make([]byte, 3, len(pop.data)+3)
			retbytes[0] = pop.opcode
			binary.LittleEndian.PutUint16(retbytes[1:], uint16(len(pop.data)))
		case OpPushData4:
			retbytes = make([]byte, 5, len(pop.data)+5)
			retbytes[0] = pop.opcode
			binary.LittleEndian.PutUint32(retbytes[1:], uint32(len(pop.data)))
		default:
			return []byte{pop.opcode}
		}
	}
	retbytes = append(retbytes, pop.data...)
	return retbytes
}

// parseScript preprocesses the raw bytes of a script into a list of parsed
// opcodes while potentially also checking for errors. No interpretation of
// the opcodes or their arguments happens here.
func parseScript(script []byte) ([]parsedOpcode, error) {
	if len(script) > MaxScriptSize {
		return nil, scriptError(ErrScriptTooBig, "script is too big")
	}

	var parsedOpcodes []parsedOpcode
	for i := 0; i < len(script); {
		value := script[i]
		pop := parsedOpcode{opcode: value}

		switch {
		case value >= OpData1 && value <= OpData75:
			length := int(value)
			if i+1+length > len(script) {
				return nil, scriptError(ErrMalformedPush, "opcode data push exceeds script length")
			}
			pop.data = script[i+1 : i+1+length]
			i += 1 + length

		case value == OpPushData1:
			if i+2 > len(script) {
				return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA1 missing length byte")
			}
			length := int(script[i+1])
			if i+2+length > len(script) {
				return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA1 data push exceeds script length")
			}
			pop.data = script[i+2 : i+2+length]
			i += 2 + length

		case value == OpPushData2:
			if i+3 > len(script) {
				return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA2 missing length bytes")
			}
			length := int(binary.LittleEndian.Uint16(script[i+1 : i+3]))
			if i+3+length > len(script) {
				return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA2 data push exceeds script length")
			}
			pop.data = script[i+3 : i+3+length]
			i += 3 + length

		case value == OpPushData4:
			if i+5 > len(script) {
				return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA4 missing length bytes")
			}
			length := int(binary.LittleEndian.Uint32(script[i+1 : i+5]))
			if i+5+length > len(script) {
				return nil, scriptError(ErrMalformedPush, "OP_PUSHDATA4 data push exceeds script length")
			}
			pop.data = script[i+5 : i+5+length]
			i += 5 + length

		default:
			i++
		}

		if len(pop.data) > MaxScriptElementSize {
			return nil, scriptError(ErrElementTooBig, "element size exceeds max allowed size")
		}

		parsedOpcodes = append(parsedOpcodes, pop)
	}

	return parsedOpcodes, nil
}

// isPushOnlyOpcode returns whether an opcode value always solely pushes
// data onto the stack.
func isPushOnlyOpcode(value byte) bool {
	return value <= Op16
}

// isPushOnly returns whether the parsed opcode sequence is made up
// exclusively of push operations, as required of every signature script.
func isPushOnly(pops []parsedOpcode) bool {
	for _, pop := range pops {
		if !isPushOnlyOpcode(pop.opcode) {
			return false
		}
	}
	return true
}

// containsDisabledOpcode scans every opcode in a parsed script (regardless
// of whether it would ever execute) and reports whether any disabled
// opcode is present.
func containsDisabledOpcode(pops []parsedOpcode) bool {
	for _, pop := range pops {
		if pop.isDisabled() {
			return true
		}
	}
	return false
}

// extractScriptHash returns the 32-byte hash inside a P2SH script
// (OP_BLAKE2B <32-byte hash> OP_EQUAL), and whether script matched that
// exact template.
func extractScriptHash(script []byte) ([]byte, bool) {
	if len(script) == 35 && script[0] == OpBlake2b && script[1] == 0x20 && script[34] == OpEqual {
		return script[2:34], true
	}
	return nil, false
}

// isScriptHash returns whether script is a P2SH script.
func isScriptHash(script []byte) bool {
	_, ok := extractScriptHash(script)
	return ok
}
