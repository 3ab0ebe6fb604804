// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package vm

import "github.com/saferwall/minirt/classfile"

// Handle is a stable identifier for a loaded class within one Runtime's
// registry. Handles are never reused and never invalidated by further
// registry growth.
type Handle int

// MethodBody is a closed sum type over how a method may be executed: the
// set is fixed, so a type switch at call sites is expected to be
// exhaustive.
type MethodBody interface {
	isMethodBody()
}

// NativeBody marks a method implemented outside the classfile (no Code
// attribute). Invoking one fails with ErrNativeUnimplemented at this
// version.
type NativeBody struct{}

// CodeBody carries a method's decoded Code attribute.
type CodeBody struct {
	Attr *classfile.CodeAttribute
}

func (NativeBody) isMethodBody() {}
func (CodeBody) isMethodBody()   {}

// Method is one loaded class's method: a name and its body.
type Method struct {
	Name string
	Body MethodBody
}

// Class is the runtime form of a loaded classfile: constant pool,
// methods, and a pointer to its superclass's handle (none for the root
// class). initialized flips exactly once, guarding against a repeated
// <clinit> run.
type Class struct {
	Name         string
	SuperClass   *Handle
	ConstantPool *classfile.ConstantPool
	Methods      []Method
	initialized  bool
}

// FindMethod does a linear scan by name; parameter-type filtering is not
// implemented at this version (see DESIGN.md's open-question decision).
func (c *Class) FindMethod(name string) (Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// MethodHandle pairs a method with the class that owns it, the unit
// Invoke operates on.
type MethodHandle struct {
	Class  *Class
	Method Method
}
