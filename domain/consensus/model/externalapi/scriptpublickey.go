package externalapi

import "bytes"

// DomainScriptPublicKey represents a transaction output's script and the
// version of the script engine it must be interpreted under. Version 0 is
// the only version with standard, classifiable script forms today; unknown
// versions are always non-standard but must still be accepted as spendable
// if their script validates.
type DomainScriptPublicKey struct {
	Version uint16
	Script  []byte
}

// NewScriptPublicKey creates a new DomainScriptPublicKey of version 0.
func NewScriptPublicKey(script []byte) *DomainScriptPublicKey {
	return &DomainScriptPublicKey{Version: 0, Script: script}
}

// Clone returns a clone of DomainScriptPublicKey
func (spk *DomainScriptPublicKey) Clone() *DomainScriptPublicKey {
	if spk == nil {
		return nil
	}

	scriptClone := make([]byte, len(spk.Script))
	copy(scriptClone, spk.Script)

	return &DomainScriptPublicKey{
		Version: spk.Version,
		Script:  scriptClone,
	}
}

// Equal returns whether spk equals to other
func (spk *DomainScriptPublicKey) Equal(other *DomainScriptPublicKey) bool {
	if spk == nil || other == nil {
		return spk == other
	}

	if spk.Version != other.Version {
		return false
	}

	return bytes.Equal(spk.Script, other.Script)
}
