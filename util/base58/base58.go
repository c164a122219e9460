package base58

import (
	"math/big"
)

// alphabet is the modified base58 alphabet used by kaspa: it omits 0, O, I,
// and l, which look alike in many fonts.
const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var alphabetIndex [256]int8

func init() {
	for i := range alphabetIndex {
		alphabetIndex[i] = -1
	}
	for i, c := range alphabet {
		alphabetIndex[c] = int8(i)
	}
}

var bigRadix = big.NewInt(58)
var bigZero = big.NewInt(0)

// Encode encodes a byte slice into a modified base58 string.
func Encode(b []byte) string {
	x := new(big.Int)
	x.SetBytes(b)

	answer := make([]byte, 0, len(b)*136/100+1)
	mod := new(big.Int)
	for x.Cmp(bigZero) > 0 {
		x.DivMod(x, bigRadix, mod)
		answer = append(answer, alphabet[mod.Int64()])
	}

	for _, i := range b {
		if i != 0 {
			break
		}
		answer = append(answer, alphabet[0])
	}

	for i, j := 0, len(answer)-1; i < j; i, j = i+1, j-1 {
		answer[i], answer[j] = answer[j], answer[i]
	}

	return string(answer)
}

// Decode decodes a modified base58 string into a byte slice. It returns nil
// if s contains a character outside the alphabet.
func Decode(s string) []byte {
	answer := big.NewInt(0)
	scratch := new(big.Int)
	for _, c := range s {
		if c > 255 || alphabetIndex[byte(c)] == -1 {
			return nil
		}
		answer.Mul(answer, bigRadix)
		scratch.SetInt64(int64(alphabetIndex[byte(c)]))
		answer.Add(answer, scratch)
	}

	decodedBytes := answer.Bytes()
	numZeros := 0
	for numZeros < len(s) && s[numZeros] == alphabet[0] {
		numZeros++
	}

	decoded := make([]byte, numZeros+len(decodedBytes))
	copy(decoded[numZeros:], decodedBytes)
	return decoded
}
