// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package classfile decodes the platform-standard classfile binary format
// (magic 0xCAFEBABE, big-endian wire layout) into an in-memory model, and
// lazily decodes embedded "Code" attributes on demand.
package classfile

import "io"

// FieldInfo describes one field declaration.
type FieldInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      Attributes
}

// Name resolves this field's name against pool.
func (f FieldInfo) Name(pool *ConstantPool) (string, error) {
	ref, err := pool.Get(f.NameIndex)
	if err != nil {
		return "", err
	}
	return ref.Utf8()
}

// MethodInfo describes one method declaration.
type MethodInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      Attributes
}

// Name resolves this method's name against pool.
func (m MethodInfo) Name(pool *ConstantPool) (string, error) {
	ref, err := pool.Get(m.NameIndex)
	if err != nil {
		return "", err
	}
	return ref.Utf8()
}

// ClassFile is the fully parsed, in-memory form of one classfile.
type ClassFile struct {
	ConstantPool *ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   Attributes
}

// Parse reads a full classfile from r, which must support seeking so that
// structural errors can report the byte offset they were detected at.
func Parse(r io.ReadSeeker) (*ClassFile, error) {
	return newParser(r).parse()
}

// ClassName resolves ThisClass to its dotted-free, slash-form name (e.g.
// "com/example/Main").
func (c *ClassFile) ClassName() (string, error) {
	ref, err := c.ConstantPool.Get(c.ThisClass)
	if err != nil {
		return "", err
	}
	return ref.ClassName()
}

// SuperClassName resolves SuperClass, returning ("", nil) for the root
// class (super_class == 0, per the format's only legal use of index 0).
func (c *ClassFile) SuperClassName() (string, error) {
	if c.SuperClass == 0 {
		return "", nil
	}
	ref, err := c.ConstantPool.Get(c.SuperClass)
	if err != nil {
		return "", err
	}
	return ref.ClassName()
}
