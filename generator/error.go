package generator

import "fmt"

// ErrorCode identifies a category of generator failure. It is a closed set;
// callers match on it with errors.As instead of parsing error strings.
type ErrorCode int

// The generator error categories.
const (
	// ErrInsufficientFunds means the UTXO source was exhausted before the
	// accumulated input value covered the requested payments plus fees.
	ErrInsufficientFunds ErrorCode = iota

	// ErrStorageMassExceedsMaximum means no grouping of the available
	// inputs can carry the requested outputs under the storage-mass
	// ceiling. Typical for tiny payments funded by much larger UTXOs.
	ErrStorageMassExceedsMaximum

	// ErrMassLimitExceeded means a single unavoidable input/output group
	// (e.g. one input plus the payment outputs and payload) already
	// exceeds the consensus mass ceiling.
	ErrMassLimitExceeded

	// ErrPriorityUTXOConflict means the pinned priority UTXOs cannot fit
	// the final transaction alongside at least one fund-carrying input.
	ErrPriorityUTXOConflict
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInsufficientFunds:         "ErrInsufficientFunds",
	ErrStorageMassExceedsMaximum: "ErrStorageMassExceedsMaximum",
	ErrMassLimitExceeded:         "ErrMassLimitExceeded",
	ErrPriorityUTXOConflict:      "ErrPriorityUTXOConflict",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// RuleError identifies a rule the candidate transaction set cannot satisfy.
// The caller must adjust its inputs (more UTXOs, a larger payment, a lower
// fee) and start a new Generator; a RuleError is never retried internally.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
