// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// SompiPerKaspa is the number of sompi in one kaspa.
const SompiPerKaspa = 100_000_000

// kaspaDecimalPlaces is the number of decimal places a kaspa amount string
// may carry.
const kaspaDecimalPlaces = 8

// KaspaToSompi parses a decimal kaspa amount string ("12.34567890") into
// sompi. Parsing is exact: the string form avoids the rounding a float64
// intermediate would introduce, and more than eight decimal places is an
// error rather than a silent truncation.
func KaspaToSompi(amount string) (uint64, error) {
	if amount == "" {
		return 0, errors.New("amount string is empty")
	}

	integerPart := amount
	fractionPart := ""
	if dot := strings.IndexByte(amount, '.'); dot >= 0 {
		integerPart = amount[:dot]
		fractionPart = amount[dot+1:]
	}
	if integerPart == "" {
		integerPart = "0"
	}
	if len(fractionPart) > kaspaDecimalPlaces {
		return 0, errors.Errorf("amount %q has more than %d decimal places", amount, kaspaDecimalPlaces)
	}

	for _, part := range []string{integerPart, fractionPart} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return 0, errors.Errorf("amount %q is not a decimal number", amount)
			}
		}
	}

	whole, ok := new(big.Int).SetString(integerPart, 10)
	if !ok {
		return 0, errors.Errorf("amount %q is not a decimal number", amount)
	}
	whole.Mul(whole, big.NewInt(SompiPerKaspa))

	if fractionPart != "" {
		padded := fractionPart + strings.Repeat("0", kaspaDecimalPlaces-len(fractionPart))
		fraction, ok := new(big.Int).SetString(padded, 10)
		if !ok {
			return 0, errors.Errorf("amount %q is not a decimal number", amount)
		}
		whole.Add(whole, fraction)
	}

	if !whole.IsUint64() {
		return 0, errors.Errorf("amount %q overflows the sompi range", amount)
	}
	return whole.Uint64(), nil
}

// SompiToKaspa formats a sompi amount as a kaspa decimal string, trimming
// trailing fractional zeros ("12.3456789", "7").
func SompiToKaspa(sompi uint64) string {
	whole := sompi / SompiPerKaspa
	fraction := sompi % SompiPerKaspa

	result := new(big.Int).SetUint64(whole).String()
	if fraction == 0 {
		return result
	}

	fractionString := new(big.Int).SetUint64(fraction).String()
	fractionString = strings.Repeat("0", kaspaDecimalPlaces-len(fractionString)) + fractionString
	fractionString = strings.TrimRight(fractionString, "0")
	return result + "." + fractionString
}

// MaxUint returns the largest value representable in an unsigned integer of
// the given bit width, (1 << bits) - 1.
func MaxUint(bits uint) (*big.Int, error) {
	if bits == 0 || bits > 256 || bits%8 != 0 {
		return nil, errors.Errorf("invalid bit width %d", bits)
	}
	max := new(big.Int).Lsh(big.NewInt(1), bits)
	return max.Sub(max, big.NewInt(1)), nil
}
