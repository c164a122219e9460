// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "fmt"

// defaultScriptNumLen is the default number of bytes arithmetic opcodes
// accept for their operands.
const defaultScriptNumLen = 4

// scriptNum represents a numeric value used in the scripting engine with
// special handling to deal with the subtle semantics required by
// consensus. All numbers are stored on the data and alt stacks as
// little-endian signed-magnitude values limited to a maximum of 8 bytes.
type scriptNum int64

// minimallyEncode returns the minimally encoded form of the given byte
// representation of a script number, or the value unchanged if it was
// already canonical.
func minimallyEncode(data []byte) []byte {
	if len(data) == 0 {
		return data
	}

	if data[len(data)-1]&0x7f != 0 {
		return data
	}

	if len(data) == 1 {
		return nil
	}

	if data[len(data)-2]&0x80 != 0 {
		return data
	}

	for i := len(data) - 1; i > 0; i-- {
		if data[i-1]&0x7f != 0 {
			if data[i-1]&0x80 != 0 {
				equivalent := make([]byte, i+1)
				copy(equivalent, data[:i])
				equivalent[i] = data[len(data)-1]
				return equivalent
			}
			equivalent := make([]byte, i)
			copy(equivalent, data[:i])
			equivalent[i-1] |= data[len(data)-1]
			return equivalent
		}
	}
	return nil
}

// checkMinimalDataEncoding returns whether or not the passed byte array
// adheres to the minimal encoding requirements.
func checkMinimalDataEncoding(v []byte) error {
	if len(v) == 0 {
		return nil
	}

	if v[len(v)-1]&0x7f == 0 {
		if len(v) == 1 || v[len(v)-2]&0x80 == 0 {
			return scriptError(ErrMinimalData, "numeric value encoded with trailing zero byte(s)")
		}
	}
	return nil
}

// makeScriptNum interprets the passed serialized bytes as an encoded
// script number and returns the result as a scriptNum. The maximum allowed
// width is maxNumLen bytes (4 by default, 5 for CLTV/CSV, 8 for the KIP-10
// introspection opcodes). If requireMinimal is true, the
// function returns an error if the encoded value is not minimally encoded.
func makeScriptNum(v []byte, requireMinimal bool, maxNumLen int) (scriptNum, error) {
	if len(v) > maxNumLen {
		return 0, scriptError(ErrNumberTooBig, fmt.Sprintf("numeric value encoded as %d bytes exceeds max allowed %d bytes", len(v), maxNumLen))
	}

	if requireMinimal {
		if err := checkMinimalDataEncoding(v); err != nil {
			return 0, err
		}
	}

	if len(v) == 0 {
		return 0, nil
	}

	var result int64
	for i, b := range v {
		result |= int64(b) << uint8(8*i)
	}

	if v[len(v)-1]&0x80 != 0 {
		result &= ^(int64(0x80) << uint8(8*(len(v)-1)))
		return scriptNum(-result), nil
	}

	return scriptNum(result), nil
}

// Bytes returns the script number encoded as a little-endian
// signed-magnitude integer, the same encoding the script builder's
// AddInt64 and the VM's data stack use.
func (n scriptNum) Bytes() []byte {
	if n == 0 {
		return nil
	}

	isNegative := n < 0
	m := int64(n)
	if isNegative {
		m = -m
	}

	var result []byte
	for m > 0 {
		result = append(result, byte(m&0xff))
		m >>= 8
	}

	if result[len(result)-1]&0x80 != 0 {
		extraByte := byte(0x00)
		if isNegative {
			extraByte = 0x80
		}
		result = append(result, extraByte)
	} else if isNegative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// Int32 returns the script number clamped to fit within a int32. Note that
// this is not needed for most of this VM's opcodes, but some scripts depend
// on the signed-overflow-clamping behaviour of reference implementations
// when the 4-byte arithmetic window is in play.
func (n scriptNum) Int32() int32 {
	v := int64(n)
	if v > int64(1<<31-1) {
		return 1<<31 - 1
	}
	if v < int64(-(1 << 31)) {
		return -(1 << 31)
	}
	return int32(v)
}

// Int64 returns the script number as an int64.
func (n scriptNum) Int64() int64 {
	return int64(n)
}
