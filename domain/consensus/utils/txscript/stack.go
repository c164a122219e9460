// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "fmt"

// stack represents a stack of immutable byte slices, used both for the
// data stack and the alt stack.
type stack struct {
	items [][]byte
}

func (s *stack) Depth() int {
	return len(s.items)
}

func (s *stack) PushByteArray(data []byte) {
	s.items = append(s.items, data)
}

func (s *stack) PushInt(n scriptNum) {
	s.PushByteArray(n.Bytes())
}

func (s *stack) PushBool(val bool) {
	if val {
		s.PushByteArray([]byte{1})
	} else {
		s.PushByteArray(nil)
	}
}

func (s *stack) PopByteArray() ([]byte, error) {
	return s.nipN(0)
}

func (s *stack) PopInt(maxNumLen int) (scriptNum, error) {
	bytes, err := s.PopByteArray()
	if err != nil {
		return 0, err
	}
	return makeScriptNum(bytes, true, maxNumLen)
}

func (s *stack) PopBool() (bool, error) {
	bytes, err := s.PopByteArray()
	if err != nil {
		return false, err
	}
	return asBool(bytes), nil
}

func asBool(t []byte) bool {
	for i := range t {
		if t[i] != 0 {
			// Negative zero (the last byte carrying only the
			// sign bit) is still falsy.
			if i == len(t)-1 && t[i] == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}

func (s *stack) PeekByteArray(idx int) ([]byte, error) {
	sz := len(s.items)
	if idx < 0 || idx >= sz {
		return nil, scriptError(ErrInvalidStackOperation, "stack index out of range")
	}
	return s.items[sz-idx-1], nil
}

func (s *stack) PeekInt(idx int, maxNumLen int) (scriptNum, error) {
	bytes, err := s.PeekByteArray(idx)
	if err != nil {
		return 0, err
	}
	return makeScriptNum(bytes, true, maxNumLen)
}

func (s *stack) PeekBool(idx int) (bool, error) {
	bytes, err := s.PeekByteArray(idx)
	if err != nil {
		return false, err
	}
	return asBool(bytes), nil
}

// nipN removes the item idx items back from the top of the stack and
// returns it, removing it from the stack. nipN(0) is the familiar Pop.
func (s *stack) nipN(idx int) ([]byte, error) {
	sz := len(s.items)
	if idx < 0 || idx >= sz {
		return nil, scriptError(ErrInvalidStackOperation, fmt.Sprintf("index %d is invalid for stack size %d", idx, sz))
	}
	item := s.items[sz-idx-1]
	s.items = append(s.items[:sz-idx-1], s.items[sz-idx:]...)
	return item, nil
}

func (s *stack) NipN(idx int) error {
	_, err := s.nipN(idx)
	return err
}

// Tuck inserts a copy of the top stack item before the second-to-top item.
func (s *stack) Tuck() error {
	item2, err := s.PopByteArray()
	if err != nil {
		return err
	}
	item1, err := s.PopByteArray()
	if err != nil {
		return err
	}
	s.PushByteArray(item2)
	s.PushByteArray(item1)
	s.PushByteArray(item2)
	return nil
}

// DropN removes the top n items from the stack.
func (s *stack) DropN(n int) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "attempt to drop a negative number of items")
	}
	for ; n > 0; n-- {
		if _, err := s.PopByteArray(); err != nil {
			return err
		}
	}
	return nil
}

// DupN duplicates the top n items on the stack.
func (s *stack) DupN(n int) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "attempt to dup a non-positive number of items")
	}
	for i := n; i > 0; i-- {
		value, err := s.PeekByteArray(n - 1)
		if err != nil {
			return err
		}
		s.PushByteArray(value)
	}
	return nil
}

// RotN rotates the top 3n items on the stack to the left n times.
func (s *stack) RotN(n int) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "attempt to rotate a non-positive number of items")
	}
	entry := 3*n - 1
	for i := n; i > 0; i-- {
		value, err := s.nipN(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(value)
	}
	return nil
}

// SwapN swaps the top n items on the stack with those below them.
func (s *stack) SwapN(n int) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "attempt to swap a non-positive number of items")
	}
	entry := 2*n - 1
	for i := n; i > 0; i-- {
		value, err := s.nipN(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(value)
	}
	return nil
}

// OverN copies n items n items back to the top of the stack.
func (s *stack) OverN(n int) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "attempt to perform OverN on a non-positive number of items")
	}
	entry := 2*n - 1
	for ; n > 0; n-- {
		value, err := s.PeekByteArray(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(value)
	}
	return nil
}

// PickN copies the item idx items back to the top of the stack.
func (s *stack) PickN(idx int) error {
	value, err := s.PeekByteArray(idx)
	if err != nil {
		return err
	}
	s.PushByteArray(value)
	return nil
}

// RollN moves the item idx items back to the top of the stack.
func (s *stack) RollN(idx int) error {
	value, err := s.nipN(idx)
	if err != nil {
		return err
	}
	s.PushByteArray(value)
	return nil
}
