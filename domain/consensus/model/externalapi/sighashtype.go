package externalapi

// SigHashType represents the hash type bits at the end of a signature, which
// selects the parts of a transaction a Schnorr or ECDSA signature commits
// to.
type SigHashType uint8

// The three base hash types and the AnyOneCanPay modifier flag. Only the
// combinations SigHashAll, SigHashNone, SigHashSingle, and each OR'd with
// SigHashAnyOneCanPay are standard; anything else must be
// rejected by signing-hash construction.
const (
	SigHashAll    SigHashType = 0x01
	SigHashNone   SigHashType = 0x02
	SigHashSingle SigHashType = 0x03

	SigHashAnyOneCanPay SigHashType = 0x80

	sigHashBaseMask = 0x7f
)

// SigHashTypeFromByte converts the trailing byte of a serialized signature
// into a SigHashType.
func SigHashTypeFromByte(b byte) SigHashType {
	return SigHashType(b)
}

// IsStandard returns whether t is one of the six standard sighash
// combinations.
func (t SigHashType) IsStandard() bool {
	switch t.Base() {
	case SigHashAll, SigHashNone, SigHashSingle:
		return true
	default:
		return false
	}
}

// Base returns t with the AnyOneCanPay flag stripped.
func (t SigHashType) Base() SigHashType {
	return t & sigHashBaseMask
}

// IsAnyOneCanPay returns whether the AnyOneCanPay flag is set on t.
func (t SigHashType) IsAnyOneCanPay() bool {
	return t&SigHashAnyOneCanPay != 0
}

// String implements fmt.Stringer.
func (t SigHashType) String() string {
	var base string
	switch t.Base() {
	case SigHashAll:
		base = "SigHashAll"
	case SigHashNone:
		base = "SigHashNone"
	case SigHashSingle:
		base = "SigHashSingle"
	default:
		base = "SigHashUnknown"
	}
	if t.IsAnyOneCanPay() {
		return base + "|AnyOneCanPay"
	}
	return base
}
