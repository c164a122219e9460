// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "fmt"

// ErrorCode identifies a category of script failure. It is a closed set
//: callers match on it with errors.As instead of parsing
// error strings.
type ErrorCode int

// The script-execution error categories.
const (
	ErrInternal ErrorCode = iota
	ErrScriptTooBig
	ErrElementTooBig
	ErrTooManyOperations
	ErrStackOverflow
	ErrInvalidStackOperation
	ErrEmptyStack
	ErrDisabledOpcode
	ErrReservedOpcode
	ErrInvalidOpcode
	ErrMalformedPush
	ErrUnbalancedConditional
	ErrMinimalData
	ErrInvalidSigHashType
	ErrNullFail
	ErrSigNullDummy
	ErrPubKeyFormat
	ErrNegativeLockTime
	ErrLockTimeTooBig
	ErrUnsatisfiedLockTime
	ErrVerify
	ErrEqualVerify
	ErrNumEqualVerify
	ErrCheckSigVerify
	ErrCheckMultiSigVerify
	ErrEvalFalse
	ErrEarlyReturn
	ErrCleanStack
	ErrNumberTooBig
	ErrTooManySigOps
	ErrScriptSigNotPushOnly
	ErrNotMultisigScript
	ErrTooManyPubKeys
	ErrInvalidSignatureCount
	ErrWitnessProgramEmpty
	ErrInvalidIndex
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:               "ErrInternal",
	ErrScriptTooBig:           "ErrScriptTooBig",
	ErrElementTooBig:          "ErrElementTooBig",
	ErrTooManyOperations:      "ErrTooManyOperations",
	ErrStackOverflow:          "ErrStackOverflow",
	ErrInvalidStackOperation:  "ErrInvalidStackOperation",
	ErrEmptyStack:             "ErrEmptyStack",
	ErrDisabledOpcode:         "ErrDisabledOpcode",
	ErrReservedOpcode:         "ErrReservedOpcode",
	ErrInvalidOpcode:          "ErrInvalidOpcode",
	ErrMalformedPush:          "ErrMalformedPush",
	ErrUnbalancedConditional:  "ErrUnbalancedConditional",
	ErrMinimalData:            "ErrMinimalData",
	ErrInvalidSigHashType:     "ErrInvalidSigHashType",
	ErrNullFail:               "ErrNullFail",
	ErrSigNullDummy:           "ErrSigNullDummy",
	ErrPubKeyFormat:           "ErrPubKeyFormat",
	ErrNegativeLockTime:       "ErrNegativeLockTime",
	ErrLockTimeTooBig:         "ErrLockTimeTooBig",
	ErrUnsatisfiedLockTime:    "ErrUnsatisfiedLockTime",
	ErrVerify:                 "ErrVerify",
	ErrEqualVerify:            "ErrEqualVerify",
	ErrNumEqualVerify:         "ErrNumEqualVerify",
	ErrCheckSigVerify:         "ErrCheckSigVerify",
	ErrCheckMultiSigVerify:    "ErrCheckMultiSigVerify",
	ErrEvalFalse:              "ErrEvalFalse",
	ErrEarlyReturn:            "ErrEarlyReturn",
	ErrCleanStack:             "ErrCleanStack",
	ErrNumberTooBig:           "ErrNumberTooBig",
	ErrTooManySigOps:          "ErrTooManySigOps",
	ErrScriptSigNotPushOnly:   "ErrScriptSigNotPushOnly",
	ErrNotMultisigScript:      "ErrNotMultisigScript",
	ErrTooManyPubKeys:         "ErrTooManyPubKeys",
	ErrInvalidSignatureCount:  "ErrInvalidSignatureCount",
	ErrWitnessProgramEmpty:    "ErrWitnessProgramEmpty",
	ErrInvalidIndex:           "ErrInvalidIndex",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// Error identifies an error related to script processing (i.e. parsing
// or executing). It is used to indicate three categories of errors: those
// due to malformed scripts, those due to violating a mandatory consensus
// rule, and those generated by the script engine itself.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}
