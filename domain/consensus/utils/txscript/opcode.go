// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// This file enumerates every opcode position 0x00-0xff and classifies
// each: a push opcode, a disabled opcode (bitwise/multiplication/shift/
// substring positions that must abort execution even inside an unexecuted
// branch), a reserved/always-illegal opcode, or an implemented operation.
// Dispatch itself is the flat switch in executeOpcode; a straight-line
// switch consistently benchmarks better than a virtual-method table for
// an opcode interpreter.

const (
	OpData1  = 0x01
	OpData75 = 0x4b

	Op0         = 0x00
	OpFalse     = Op0
	OpPushData1 = 0x4c
	OpPushData2 = 0x4d
	OpPushData4 = 0x4e
	Op1Negate   = 0x4f
	OpReserved  = 0x50
	Op1         = 0x51
	OpTrue      = Op1
	Op2         = 0x52
	Op3         = 0x53
	Op4         = 0x54
	Op5         = 0x55
	Op6         = 0x56
	Op7         = 0x57
	Op8         = 0x58
	Op9         = 0x59
	Op10        = 0x5a
	Op11        = 0x5b
	Op12        = 0x5c
	Op13        = 0x5d
	Op14        = 0x5e
	Op15        = 0x5f
	Op16        = 0x60

	OpNop      = 0x61
	OpVer      = 0x62
	OpIf       = 0x63
	OpNotIf    = 0x64
	OpVerIf    = 0x65
	OpVerNotIf = 0x66
	OpElse     = 0x67
	OpEndIf    = 0x68
	OpVerify   = 0x69
	OpReturn   = 0x6a

	OpToAltStack   = 0x6b
	OpFromAltStack = 0x6c
	Op2Drop        = 0x6d
	Op2Dup         = 0x6e
	Op3Dup         = 0x6f
	Op2Over        = 0x70
	Op2Rot         = 0x71
	Op2Swap        = 0x72
	OpIfDup        = 0x73
	OpDepth        = 0x74
	OpDrop         = 0x75
	OpDup          = 0x76
	OpNip          = 0x77
	OpOver         = 0x78
	OpPick         = 0x79
	OpRoll         = 0x7a
	OpRot          = 0x7b
	OpSwap         = 0x7c
	OpTuck         = 0x7d

	OpCat    = 0x7e // disabled
	OpSubstr = 0x7f // disabled
	OpLeft   = 0x80 // disabled
	OpRight  = 0x81 // disabled
	OpSize   = 0x82
	OpInvert = 0x83 // disabled
	OpAnd    = 0x84 // disabled
	OpOr     = 0x85 // disabled
	OpXor    = 0x86 // disabled

	OpEqual       = 0x87
	OpEqualVerify = 0x88
	OpReserved1   = 0x89
	OpReserved2   = 0x8a

	Op1Add               = 0x8b
	Op1Sub               = 0x8c
	Op2Mul               = 0x8d // disabled
	Op2Div               = 0x8e // disabled
	OpNegate             = 0x8f
	OpAbs                = 0x90
	OpNot                = 0x91
	Op0NotEqual          = 0x92
	OpAddOpcode          = 0x93
	OpSubOpcode          = 0x94
	OpMul                = 0x95 // disabled
	OpDiv                = 0x96 // disabled
	OpMod                = 0x97 // disabled
	OpLShift             = 0x98 // disabled
	OpRShift             = 0x99 // disabled
	OpBoolAnd            = 0x9a
	OpBoolOr             = 0x9b
	OpNumEqual           = 0x9c
	OpNumEqualVerify     = 0x9d
	OpNumNotEqual        = 0x9e
	OpLessThan           = 0x9f
	OpGreaterThan        = 0xa0
	OpLessThanOrEqual    = 0xa1
	OpGreaterThanOrEqual = 0xa2
	OpMin                = 0xa3
	OpMax                = 0xa4
	OpWithin             = 0xa5

	OpUnknown166 = 0xa6
	OpUnknown167 = 0xa7
	OpSha256     = 0xa8
	OpBlake2b    = 0xa9
	OpUnknown170 = 0xaa
	OpUnknown171 = 0xab

	OpCheckSig            = 0xac
	OpCheckSigVerify      = 0xad
	OpCheckMultiSig       = 0xae
	OpCheckMultiSigVerify = 0xaf

	OpCheckLockTimeVerify = 0xb0
	OpCheckSequenceVerify = 0xb1

	OpCheckSigECDSA            = 0xb2
	OpCheckSigVerifyECDSA      = 0xb3
	OpCheckMultiSigECDSA       = 0xb4
	OpCheckMultiSigVerifyECDSA = 0xb5

	OpTxInputCount   = 0xb6
	OpTxOutputCount  = 0xb7
	OpTxInputIndex   = 0xb8
	OpTxInputSpk     = 0xb9
	OpTxInputAmount  = 0xba
	OpTxOutputSpk    = 0xbb
	OpTxOutputAmount = 0xbc

	OpSmallInteger  = 0xfa
	OpPubKeys       = 0xfb
	OpPubKeyHash    = 0xfd
	OpPubKey        = 0xfe
	OpInvalidOpCode = 0xff
)

type opcode struct {
	value  byte
	name   string
	length int // number of bytes including the opcode itself; -1/-2/-4 mean a length-prefixed push of 1/2/4 bytes
}

// disabledOpcodes is the set of opcode positions that must abort script
// execution whenever they are *present* in a script, whether or not the
// branch containing them ever executes.
var disabledOpcodes = map[byte]bool{
	OpCat:    true,
	OpSubstr: true,
	OpLeft:   true,
	OpRight:  true,
	OpInvert: true,
	OpAnd:    true,
	OpOr:     true,
	OpXor:    true,
	Op2Mul:   true,
	Op2Div:   true,
	OpMul:    true,
	OpDiv:    true,
	OpMod:    true,
	OpLShift: true,
	OpRShift: true,
}

// alwaysIllegalOpcodes abort execution when actually executed, but (unlike
// disabledOpcodes) may appear inside a never-taken branch without
// consequence.
var alwaysIllegalOpcodes = map[byte]bool{
	OpReserved:  true,
	OpVer:       true,
	OpVerIf:     true,
	OpVerNotIf:  true,
	OpReserved1: true,
	OpReserved2: true,
}

func isUnassigned(value byte) bool {
	if value >= 0xbd && value <= 0xf9 {
		return true
	}
	switch value {
	case OpUnknown166, OpUnknown167, OpUnknown170, OpUnknown171:
		return true
	}
	return false
}

func opcodeName(value byte) string {
	if name, ok := opcodeNames[value]; ok {
		return name
	}
	return "OP_UNKNOWN"
}

var opcodeNames = map[byte]string{
	Op0: "OP_0", Op1Negate: "OP_1NEGATE", OpReserved: "OP_RESERVED",
	Op1: "OP_1", Op2: "OP_2", Op3: "OP_3", Op4: "OP_4", Op5: "OP_5", Op6: "OP_6",
	Op7: "OP_7", Op8: "OP_8", Op9: "OP_9", Op10: "OP_10", Op11: "OP_11", Op12: "OP_12",
	Op13: "OP_13", Op14: "OP_14", Op15: "OP_15", Op16: "OP_16",
	OpNop: "OP_NOP", OpVer: "OP_VER", OpIf: "OP_IF", OpNotIf: "OP_NOTIF",
	OpVerIf: "OP_VERIF", OpVerNotIf: "OP_VERNOTIF", OpElse: "OP_ELSE", OpEndIf: "OP_ENDIF",
	OpVerify: "OP_VERIFY", OpReturn: "OP_RETURN",
	OpToAltStack: "OP_TOALTSTACK", OpFromAltStack: "OP_FROMALTSTACK",
	Op2Drop: "OP_2DROP", Op2Dup: "OP_2DUP", Op3Dup: "OP_3DUP", Op2Over: "OP_2OVER",
	Op2Rot: "OP_2ROT", Op2Swap: "OP_2SWAP", OpIfDup: "OP_IFDUP", OpDepth: "OP_DEPTH",
	OpDrop: "OP_DROP", OpDup: "OP_DUP", OpNip: "OP_NIP", OpOver: "OP_OVER",
	OpPick: "OP_PICK", OpRoll: "OP_ROLL", OpRot: "OP_ROT", OpSwap: "OP_SWAP", OpTuck: "OP_TUCK",
	OpCat: "OP_CAT", OpSubstr: "OP_SUBSTR", OpLeft: "OP_LEFT", OpRight: "OP_RIGHT",
	OpSize: "OP_SIZE", OpInvert: "OP_INVERT", OpAnd: "OP_AND", OpOr: "OP_OR", OpXor: "OP_XOR",
	OpEqual: "OP_EQUAL", OpEqualVerify: "OP_EQUALVERIFY",
	OpReserved1: "OP_RESERVED1", OpReserved2: "OP_RESERVED2",
	Op1Add: "OP_1ADD", Op1Sub: "OP_1SUB", Op2Mul: "OP_2MUL", Op2Div: "OP_2DIV",
	OpNegate: "OP_NEGATE", OpAbs: "OP_ABS", OpNot: "OP_NOT", Op0NotEqual: "OP_0NOTEQUAL",
	OpAddOpcode: "OP_ADD", OpSubOpcode: "OP_SUB", OpMul: "OP_MUL", OpDiv: "OP_DIV", OpMod: "OP_MOD",
	OpLShift: "OP_LSHIFT", OpRShift: "OP_RSHIFT", OpBoolAnd: "OP_BOOLAND", OpBoolOr: "OP_BOOLOR",
	OpNumEqual: "OP_NUMEQUAL", OpNumEqualVerify: "OP_NUMEQUALVERIFY", OpNumNotEqual: "OP_NUMNOTEQUAL",
	OpLessThan: "OP_LESSTHAN", OpGreaterThan: "OP_GREATERTHAN",
	OpLessThanOrEqual: "OP_LESSTHANOREQUAL", OpGreaterThanOrEqual: "OP_GREATERTHANOREQUAL",
	OpMin: "OP_MIN", OpMax: "OP_MAX", OpWithin: "OP_WITHIN",
	OpSha256: "OP_SHA256", OpBlake2b: "OP_BLAKE2B",
	OpCheckSig: "OP_CHECKSIG", OpCheckSigVerify: "OP_CHECKSIGVERIFY",
	OpCheckMultiSig: "OP_CHECKMULTISIG", OpCheckMultiSigVerify: "OP_CHECKMULTISIGVERIFY",
	OpCheckLockTimeVerify: "OP_CHECKLOCKTIMEVERIFY", OpCheckSequenceVerify: "OP_CHECKSEQUENCEVERIFY",
	OpCheckSigECDSA: "OP_CHECKSIG_ECDSA", OpCheckSigVerifyECDSA: "OP_CHECKSIGVERIFY_ECDSA",
	OpCheckMultiSigECDSA: "OP_CHECKMULTISIG_ECDSA", OpCheckMultiSigVerifyECDSA: "OP_CHECKMULTISIGVERIFY_ECDSA",
	OpTxInputCount: "OP_TXINPUTCOUNT", OpTxOutputCount: "OP_TXOUTPUTCOUNT",
	OpTxInputIndex: "OP_TXINPUTINDEX", OpTxInputSpk: "OP_TXINPUTSPK",
	OpTxInputAmount: "OP_TXINPUTAMOUNT", OpTxOutputSpk: "OP_TXOUTPUTSPK",
	OpTxOutputAmount: "OP_TXOUTPUTAMOUNT",
	OpPushData1: "OP_PUSHDATA1", OpPushData2: "OP_PUSHDATA2", OpPushData4: "OP_PUSHDATA4",
}
