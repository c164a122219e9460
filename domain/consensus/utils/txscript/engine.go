// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/utils/consensushashing"
)

// condState is the state of a conditional execution branch on the
// condition stack.
type condState int

const (
	condTrue condState = iota
	condFalse
	condSkip // inside a branch that is not taken because an enclosing branch is false
)

// Engine is the virtual machine that executes a signature script against a
// script-public-key for one transaction input.
//
// An Engine is not safe for concurrent use; a fresh Engine must be created
// per (transaction, input index) pair.
type Engine struct {
	scripts [][]parsedOpcode

	dstack stack
	astack stack

	condStack []condState

	numOps int
	sigOps int

	tx           *externalapi.DomainTransaction
	txInputIndex int

	sigCache     *SigCache
	reusedValues *consensushashing.SighashReusedValues

	isP2SH          bool
	savedFirstStack [][]byte
}

// NewEngine returns a new script engine for the idx'th input of tx, which is
// being validated against the given previous output's script-public-key.
func NewEngine(scriptPublicKey *externalapi.DomainScriptPublicKey, tx *externalapi.DomainTransaction,
	idx int, sigCache *SigCache) (*Engine, error) {

	if idx < 0 || idx >= len(tx.Inputs) {
		return nil, scriptError(ErrInvalidIndex, "transaction input index out of range")
	}
	input := tx.Inputs[idx]

	sigScript := input.SignatureScript
	if len(sigScript) > MaxScriptSize {
		return nil, scriptError(ErrScriptTooBig, "signature script is too big")
	}
	if len(scriptPublicKey.Script) > MaxScriptSize {
		return nil, scriptError(ErrScriptTooBig, "script public key is too big")
	}

	sigPops, err := parseScript(sigScript)
	if err != nil {
		return nil, err
	}
	if !isPushOnly(sigPops) {
		return nil, scriptError(ErrScriptSigNotPushOnly, "signature script is not push only")
	}

	spkPops, err := parseScript(scriptPublicKey.Script)
	if err != nil {
		return nil, err
	}

	if containsDisabledOpcode(sigPops) || containsDisabledOpcode(spkPops) {
		return nil, scriptError(ErrDisabledOpcode, "script contains a disabled opcode")
	}

	vm := &Engine{
		scripts:      [][]parsedOpcode{sigPops, spkPops},
		tx:           tx,
		txInputIndex: idx,
		sigCache:     sigCache,
		reusedValues: &consensushashing.SighashReusedValues{},
		isP2SH:       isScriptHash(scriptPublicKey.Script),
	}
	return vm, nil
}

// Execute runs the full signature-script / script-public-key / (P2SH)
// redeem-script sequence and returns nil only if the script runs to
// completion and leaves a single truthy entry on a clean stack.
func (vm *Engine) Execute() error {
	log.Tracef("executing scripts for input %d (P2SH: %t)", vm.txInputIndex, vm.isP2SH)
	if err := vm.executeScript(vm.scripts[0]); err != nil {
		return err
	}
	if vm.isP2SH {
		vm.savedFirstStack = make([][]byte, len(vm.dstack.items))
		copy(vm.savedFirstStack, vm.dstack.items)
	}

	if err := vm.executeScript(vm.scripts[1]); err != nil {
		return err
	}

	if vm.isP2SH {
		success, err := vm.isStackSuccess()
		if err != nil || !success {
			return scriptError(ErrEvalFalse, "P2SH scriptPubKey evaluated to false")
		}
		if len(vm.savedFirstStack) == 0 {
			return scriptError(ErrEvalFalse, "P2SH signature script pushed no redeem script")
		}

		redeemScript := vm.savedFirstStack[len(vm.savedFirstStack)-1]
		redeemPops, err := parseScript(redeemScript)
		if err != nil {
			return err
		}
		if containsDisabledOpcode(redeemPops) {
			return scriptError(ErrDisabledOpcode, "redeem script contains a disabled opcode")
		}

		vm.dstack.items = make([][]byte, len(vm.savedFirstStack)-1)
		copy(vm.dstack.items, vm.savedFirstStack[:len(vm.savedFirstStack)-1])

		if err := vm.executeScript(redeemPops); err != nil {
			return err
		}
	}

	success, err := vm.isStackSuccess()
	if err != nil {
		return err
	}
	if !success {
		return scriptError(ErrEvalFalse, "false stack entry at end of script execution")
	}
	if vm.dstack.Depth()+vm.astack.Depth() != 1 {
		return scriptError(ErrCleanStack, "stack contains extra entries at end of script execution")
	}
	return nil
}

// isStackSuccess reports whether the data stack is non-empty and its top
// element is truthy.
func (vm *Engine) isStackSuccess() (bool, error) {
	if vm.dstack.Depth() < 1 {
		return false, nil
	}
	v, err := vm.dstack.PeekBool(0)
	if err != nil {
		return false, err
	}
	return v, nil
}

// executeScript runs pops to completion against the engine's current data
// and alt stacks.
func (vm *Engine) executeScript(pops []parsedOpcode) error {
	vm.condStack = nil
	vm.numOps = 0
	for i := range pops {
		if err := vm.step(&pops[i]); err != nil {
			return err
		}
	}
	if len(vm.condStack) != 0 {
		return scriptError(ErrUnbalancedConditional, "unbalanced conditional in script")
	}
	return nil
}

// useSigOps charges n signature operations against the budget declared by
// the input's sig-op count field.
func (vm *Engine) useSigOps(n int) error {
	vm.sigOps += n
	if vm.sigOps > int(vm.tx.Inputs[vm.txInputIndex].SigOpCount) {
		return scriptError(ErrTooManySigOps, "script exceeds the input's declared sig-op count")
	}
	return nil
}

func (vm *Engine) executing() bool {
	for _, c := range vm.condStack {
		if c != condTrue {
			return false
		}
	}
	return true
}

// step executes a single parsed opcode, honoring the disabled /
// always-illegal / branch-skipping rules.
func (vm *Engine) step(pop *parsedOpcode) error {
	if pop.isDisabled() {
		return scriptError(ErrDisabledOpcode, "attempt to execute disabled opcode "+opcodeName(pop.opcode))
	}

	if len(pop.data) > MaxScriptElementSize {
		return scriptError(ErrElementTooBig, "element size exceeds max allowed size")
	}

	// Push opcodes never count toward the op-count limit; anything else
	// does, whether or not its branch is taken.
	if pop.opcode > Op16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			return scriptError(ErrTooManyOperations, "exceeded max operation limit")
		}
	}

	// A non-conditional opcode inside a branch that is not taken is
	// skipped. Reserved opcodes are therefore harmless there; when
	// actually executed they abort below.
	if !vm.executing() && !pop.isConditional() {
		return nil
	}
	if pop.alwaysIllegal() {
		return scriptError(ErrReservedOpcode, "attempt to execute reserved opcode "+opcodeName(pop.opcode))
	}

	if err := vm.executeOpcode(pop); err != nil {
		return err
	}

	if combined := vm.dstack.Depth() + vm.astack.Depth(); combined > MaxStackSize {
		return scriptError(ErrStackOverflow, "combined stack size exceeds max allowed size")
	}
	return nil
}
