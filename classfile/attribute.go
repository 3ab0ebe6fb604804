// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// Attribute is an opaque, named, length-prefixed payload. Its meaning is
// determined by resolving NameIndex against the owning classfile's constant
// pool; only the code that needs a particular attribute (e.g. "Code")
// decodes its Info bytes further.
type Attribute struct {
	NameIndex uint16
	Info      []byte
}

// GoString renders Attribute without dumping its raw bytes, matching the
// teacher's habit of keeping Debug/GoString output terse for byte blobs.
func (a Attribute) GoString() string {
	return fmt.Sprintf("Attribute{NameIndex: %d, Info: (%d bytes)}", a.NameIndex, len(a.Info))
}

// Attributes is a sequence of Attribute with name-based lookup.
type Attributes []Attribute

// FindByName returns the first attribute whose name resolves (via pool) to
// name, or AttributeNotFound.
func (as Attributes) FindByName(name string, pool *ConstantPool) (*Attribute, error) {
	for i := range as {
		ref, err := pool.Get(as[i].NameIndex)
		if err != nil {
			continue
		}
		n, err := ref.Utf8()
		if err != nil {
			continue
		}
		if n == name {
			return &as[i], nil
		}
	}
	return nil, AttributeNotFound(name)
}

// ExceptionTableEntry is one row of a Code attribute's exception table.
type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// CodeAttribute is the decoded form of an attribute named "Code". The
// classfile parser stores Code attributes as raw bytes (see Attribute);
// ParseCodeAttribute decodes them on demand.
type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     Attributes
}

// Code resolves and decodes this method/field's "Code" attribute, if any.
// A missing Code attribute is not an error here; callers (the loader)
// decide whether that is acceptable (e.g. because the method is native).
func (as Attributes) Code(pool *ConstantPool) (*CodeAttribute, error) {
	attr, err := as.FindByName("Code", pool)
	if err != nil {
		return nil, nil
	}
	code, err := ParseCodeAttribute(attr.Info)
	if err != nil {
		return nil, err
	}
	return code, nil
}
