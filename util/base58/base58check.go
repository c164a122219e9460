package base58

import (
	"crypto/sha256"

	"github.com/pkg/errors"
)

// ErrChecksum indicates that the checksum of a check-encoded string does not
// verify against the checksum.
var ErrChecksum = errors.New("checksum error")

// ErrInvalidFormat indicates that the check-encoded string has an invalid
// format.
var ErrInvalidFormat = errors.New("invalid format: version and/or checksum bytes missing")

// checksum returns the first four bytes of sha256(sha256(input)).
func checksum(input []byte) (cksum [4]byte) {
	h := sha256.Sum256(input)
	h2 := sha256.Sum256(h[:])
	copy(cksum[:], h2[:4])
	return
}

// CheckEncode prepends a version byte to b, appends a four-byte checksum,
// and base58-encodes the result.
func CheckEncode(b []byte, version byte) string {
	payload := make([]byte, 0, 1+len(b)+4)
	payload = append(payload, version)
	payload = append(payload, b...)
	cksum := checksum(payload)
	payload = append(payload, cksum[:]...)
	return Encode(payload)
}

// CheckDecode decodes a modified base58 string produced by CheckEncode and
// verifies its checksum, returning the payload and the version byte.
func CheckDecode(s string) (b []byte, version byte, err error) {
	decoded := Decode(s)
	if decoded == nil {
		return nil, 0, ErrInvalidFormat
	}
	if len(decoded) < 5 {
		return nil, 0, ErrInvalidFormat
	}

	version = decoded[0]
	payload := decoded[:len(decoded)-4]
	cksum := decoded[len(decoded)-4:]
	expected := checksum(payload)
	for i := 0; i < 4; i++ {
		if cksum[i] != expected[i] {
			return nil, 0, ErrChecksum
		}
	}
	return payload[1:], version, nil
}
