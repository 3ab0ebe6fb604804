// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Constant is a tagged constant-pool entry. The set of implementations
// below is closed and exhaustive; a type switch over Constant is expected
// to cover all of them plus a default case for forward-compatibility.
type Constant interface {
	isConstant()
}

// RefInfo is the common shape of field/method/interface-method references.
type RefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

// MethodRef is constant tag 10.
type MethodRef struct{ RefInfo }

// FieldRef is constant tag 9.
type FieldRef struct{ RefInfo }

// InterfaceMethodRef is constant tag 11.
type InterfaceMethodRef struct{ RefInfo }

// ClassRef is constant tag 7: a class or interface reference.
type ClassRef struct {
	NameIndex uint16
}

// NameAndType is constant tag 12.
type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

// Utf8 is constant tag 1: a modified-UTF-8 string, decoded lossily.
type Utf8 string

// StringConstant is constant tag 8.
type StringConstant struct {
	StringIndex uint16
}

// InvokeDynamic is constant tag 18.
type InvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

// Integer is constant tag 3.
type Integer int32

// Long is constant tag 5. It occupies two consecutive constant-pool slots;
// the second is reserved as Unusable.
type Long int64

// MethodHandle is constant tag 15.
type MethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

// MethodType is constant tag 16.
type MethodType struct {
	DescriptorIndex uint16
}

// Unusable marks index 0 and the second slot of every Long entry.
type Unusable struct{}

func (MethodRef) isConstant()          {}
func (FieldRef) isConstant()           {}
func (InterfaceMethodRef) isConstant() {}
func (ClassRef) isConstant()           {}
func (NameAndType) isConstant()        {}
func (Utf8) isConstant()               {}
func (StringConstant) isConstant()     {}
func (InvokeDynamic) isConstant()      {}
func (Integer) isConstant()            {}
func (Long) isConstant()               {}
func (MethodHandle) isConstant()       {}
func (MethodType) isConstant()         {}
func (Unusable) isConstant()           {}

// ConstantPool is an ordered sequence of Constant, indexed starting at 1.
// Index 0 is reserved and carries Unusable; it is never dereferenced.
type ConstantPool struct {
	entries []Constant
}

// NewConstantPool wraps an already-parsed slice of constants, index 0
// included.
func NewConstantPool(entries []Constant) *ConstantPool {
	return &ConstantPool{entries: entries}
}

// Len returns the number of slots, including the index-0 sentinel.
func (p *ConstantPool) Len() int {
	return len(p.entries)
}

// Contains reports whether the pool holds an entry equal to c (e.g. to
// check that specific Utf8 constants were parsed).
func (p *ConstantPool) Contains(c Constant) bool {
	for _, e := range p.entries {
		if e == c {
			return true
		}
	}
	return false
}

// Get returns a view over the constant at index, or ConstantNotFound if
// index is out of bounds.
func (p *ConstantPool) Get(index uint16) (ConstantRef, error) {
	if int(index) >= len(p.entries) {
		return ConstantRef{}, ConstantNotFound(index)
	}
	return ConstantRef{pool: p, constant: p.entries[index]}, nil
}

// ConstantRef is a constant paired with the pool it came from, so typed
// accessors can resolve one further level of indirection (e.g. Class ->
// Utf8).
type ConstantRef struct {
	pool     *ConstantPool
	constant Constant
}

// Constant returns the underlying tagged value.
func (r ConstantRef) Constant() Constant {
	return r.constant
}

// Utf8 returns the underlying string, or UnexpectedConstant if this entry
// is not a Utf8 constant.
func (r ConstantRef) Utf8() (string, error) {
	switch c := r.constant.(type) {
	case Utf8:
		return string(c), nil
	default:
		return "", &UnexpectedConstant{Expected: "Utf8", Found: r.constant}
	}
}

// ClassName resolves a ClassRef's name_index to its Utf8 string, performing
// the one level of indirection the format requires.
func (r ConstantRef) ClassName() (string, error) {
	c, ok := r.constant.(ClassRef)
	if !ok {
		return "", &UnexpectedConstant{Expected: "ClassRef", Found: r.constant}
	}
	nameRef, err := r.pool.Get(c.NameIndex)
	if err != nil {
		return "", err
	}
	return nameRef.Utf8()
}
