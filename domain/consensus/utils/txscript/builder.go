package txscript

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrScriptNotCanonical identifies a Script method call that would have
// produced a non-canonical encoding.
var ErrScriptNotCanonical = errors.New("script is not canonical")

// ScriptBuilder provides a facility for building custom scripts. It allows
// the scripts to be constructed opcode by opcode while respecting the
// canonical push rules: pushing zero emits OP_0, pushing small integers
// emits OP_1..OP_16 or OP_1NEGATE, and pushing data chooses the smallest
// form among OP_DATA_1..75, OP_PUSHDATA1, OP_PUSHDATA2, and OP_PUSHDATA4.
type ScriptBuilder struct {
	script []byte
	err    error
}

// NewScriptBuilder returns a new instance of a script builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{script: make([]byte, 0, 500)}
}

// AddOp pushes the passed opcode to the end of the script. The script will
// not be modified if pushing the opcode would cause the script to exceed
// MaxScriptSize.
func (b *ScriptBuilder) AddOp(opcode byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if len(b.script)+1 > MaxScriptSize {
		b.err = fmt.Errorf("adding an opcode would exceed the maximum allowed script length of %d", MaxScriptSize)
		return b
	}
	b.script = append(b.script, opcode)
	return b
}

// AddOps pushes the passed opcodes to the end of the script.
func (b *ScriptBuilder) AddOps(opcodes []byte) *ScriptBuilder {
	for _, op := range opcodes {
		b.AddOp(op)
		if b.err != nil {
			break
		}
	}
	return b
}

// AddInt64 pushes the passed int64 to the stack using the minimal number of
// bytes required, following the same canonical rules OP_IF/arithmetic
// opcodes require: zero becomes OP_0, -1..16 becomes OP_1NEGATE/OP_1..OP_16,
// anything else becomes its minimally encoded scriptNum push.
func (b *ScriptBuilder) AddInt64(val int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	switch {
	case val == 0:
		b.script = append(b.script, Op0)
		return b
	case val == -1 || (val >= 1 && val <= 16):
		b.script = append(b.script, byte((Op1-1)+val))
		return b
	}

	return b.AddData(scriptNum(val).Bytes())
}

// AddData pushes the passed byte slice to the script, choosing the
// shortest canonical encoding for its length.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	dataLen := len(data)
	if len(b.script)+dataLen+5 > MaxScriptSize {
		b.err = fmt.Errorf("adding %d bytes of data would exceed the maximum allowed script length of %d", dataLen, MaxScriptSize)
		return b
	}

	b.addDataInternal(data)
	return b
}

func (b *ScriptBuilder) addDataInternal(data []byte) {
	dataLen := len(data)
	switch {
	case dataLen == 0 || (dataLen == 1 && data[0] == 0):
		b.script = append(b.script, Op0)
	case dataLen == 1 && data[0] <= 16:
		b.script = append(b.script, byte((Op1-1)+data[0]))
	case dataLen == 1 && data[0] == 0x81:
		b.script = append(b.script, Op1Negate)
	case dataLen <= 75:
		b.script = append(b.script, byte(dataLen))
		b.script = append(b.script, data...)
	case dataLen <= 0xff:
		b.script = append(b.script, OpPushData1, byte(dataLen))
		b.script = append(b.script, data...)
	case dataLen <= 0xffff:
		buf := make([]byte, 2)
		buf[0] = byte(dataLen)
		buf[1] = byte(dataLen >> 8)
		b.script = append(b.script, OpPushData2)
		b.script = append(b.script, buf...)
		b.script = append(b.script, data...)
	default:
		buf := make([]byte, 4)
		buf[0] = byte(dataLen)
		buf[1] = byte(dataLen >> 8)
		buf[2] = byte(dataLen >> 16)
		buf[3] = byte(dataLen >> 24)
		b.script = append(b.script, OpPushData4)
		b.script = append(b.script, buf...)
		b.script = append(b.script, data...)
	}
}

// Reset resets the script so it has no content.
func (b *ScriptBuilder) Reset() *ScriptBuilder {
	b.script = b.script[0:0]
	b.err = nil
	return b
}

// Script returns a copy of the currently built script. If an error occurred
// while building the script (e.g. a script that would have exceeded the
// maximum allowed script size), that error is returned with a nil script.
func (b *ScriptBuilder) Script() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	script := make([]byte, len(b.script))
	copy(script, b.script)
	return script, nil
}
