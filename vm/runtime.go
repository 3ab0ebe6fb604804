// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package vm implements the runtime loader and bytecode dispatch loop: a
// classpath-backed class loader (Resolve -> Define -> Initialize), method
// lookup, and a decode-and-trace loop over a loaded method's Code
// attribute. It does not execute bytecode: invoking a method produces a
// linear trace of decoded instructions, not a computed result.
package vm

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/saferwall/minirt/bytecode"
	"github.com/saferwall/minirt/classfile"
	"github.com/saferwall/minirt/classpath"
	"github.com/saferwall/minirt/rtlog"
)

// Runtime owns a classpath and an append-only registry of loaded classes.
// It is single-threaded: no method here is safe for concurrent use.
type Runtime struct {
	classPath classpath.ClassPath
	classes   []*Class
	logger    *log.Helper
}

// New builds a Runtime over the given classpath. If logger is nil, trace
// output goes to an error-filtered stdout logger.
func New(cp classpath.ClassPath, logger log.Logger) *Runtime {
	return &Runtime{
		classPath: cp,
		logger:    rtlog.New(logger),
	}
}

// Class returns the class registered at handle.
func (r *Runtime) Class(h Handle) *Class {
	return r.classes[h]
}

// RunMain loads mainClassName and invokes its "main" method, tracing the
// decoded instruction stream.
func (r *Runtime) RunMain(mainClassName string) error {
	handle, err := r.LoadClass(mainClassName)
	if err != nil {
		return err
	}
	class := r.classes[handle]
	method, ok := class.FindMethod("main")
	if !ok {
		return wrap("no-such-method", NoSuchMethod("main"))
	}
	return r.Invoke(MethodHandle{Class: class, Method: method})
}

// LoadClass runs the Resolve -> Define -> Initialize state machine for
// dottedName, returning the handle of the newly registered class. Each
// call re-reads and re-defines the class; the loader is not
// memoized (see DESIGN.md's open-question decision).
func (r *Runtime) LoadClass(dottedName string) (Handle, error) {
	r.logger.Debugf("loading class %s", dottedName)

	class, err := r.defineClass(dottedName)
	if err != nil {
		return 0, err
	}
	handle := Handle(len(r.classes))
	r.classes = append(r.classes, class)

	if err := r.initializeClass(handle); err != nil {
		return 0, err
	}
	return handle, nil
}

// resolveClass translates dottedName to its resource name and asks the
// classpath for it.
func (r *Runtime) resolveClass(dottedName string) (io.ReadSeeker, error) {
	resourceName := strings.ReplaceAll(dottedName, ".", "/") + ".class"
	src, ok := r.classPath.FindResource(resourceName)
	if !ok {
		return nil, wrap("not-found", NotFound(resourceName))
	}
	return src, nil
}

func (r *Runtime) defineClass(dottedName string) (*Class, error) {
	r.logger.Debugf("defining class %s", dottedName)

	src, err := r.resolveClass(dottedName)
	if err != nil {
		return nil, err
	}
	cf, err := classfile.Parse(src)
	if err != nil {
		return nil, wrap("classfile", err)
	}

	name, err := cf.ClassName()
	if err != nil {
		return nil, wrap("classfile", err)
	}

	var superHandle *Handle
	superName, err := cf.SuperClassName()
	if err != nil {
		return nil, wrap("classfile", err)
	}
	if superName != "" {
		h, err := r.LoadClass(strings.ReplaceAll(superName, "/", "."))
		if err != nil {
			return nil, err
		}
		superHandle = &h
	}

	methods := make([]Method, 0, len(cf.Methods))
	for _, m := range cf.Methods {
		methodName, err := m.Name(cf.ConstantPool)
		if err != nil {
			return nil, wrap("classfile", err)
		}
		code, err := m.Attributes.Code(cf.ConstantPool)
		if err != nil {
			return nil, wrap("classfile", err)
		}

		var body MethodBody
		switch {
		case code != nil:
			body = CodeBody{Attr: code}
		case m.AccessFlags.Has(classfile.ACCNative):
			body = NativeBody{}
		default:
			return nil, wrap("class-load", ClassLoadError(
				fmt.Sprintf("no method body found for %s", methodName)))
		}

		methods = append(methods, Method{Name: methodName, Body: body})
	}

	return &Class{
		Name:         name,
		SuperClass:   superHandle,
		ConstantPool: cf.ConstantPool,
		Methods:      methods,
	}, nil
}

// initializeClass runs superclass initialization first, then this
// class's <clinit> exactly once.
func (r *Runtime) initializeClass(handle Handle) error {
	class := r.classes[handle]

	if class.SuperClass != nil {
		if err := r.initializeClass(*class.SuperClass); err != nil {
			return err
		}
	}

	if class.initialized {
		return nil
	}

	r.logger.Debugf("initializing class %s", class.Name)

	if clinit, ok := class.FindMethod("<clinit>"); ok {
		if err := r.Invoke(MethodHandle{Class: class, Method: clinit}); err != nil {
			return err
		}
	}

	class.initialized = true
	return nil
}

// Invoke dispatches on method's body: Code is decoded and traced
// instruction by instruction; Native is not implemented at this version.
func (r *Runtime) Invoke(method MethodHandle) error {
	r.logger.Debugf("invoking method %s", method.Method.Name)

	switch body := method.Method.Body.(type) {
	case NativeBody:
		return ErrNativeUnimplemented
	case CodeBody:
		frame := &Frame{class: method.Class, code: body.Attr.Code}
		for {
			pc := frame.pc
			insn, err := bytecode.Decode(frame)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return wrap("bytecode", err)
			}
			r.logger.Infof("%4d: %s", pc, insn.String())
		}
	default:
		return fmt.Errorf("unhandled method body %T", body)
	}
}

// Frame is the decode cursor for one method invocation: the class it
// belongs to (for future constant-pool-relative operand resolution) and
// its raw Code bytes.
type Frame struct {
	pc    int
	class *Class
	code  []byte
}

// ReadU8 implements bytecode.ByteReader, returning io.EOF once pc has
// walked past the end of code.
func (f *Frame) ReadU8() (byte, error) {
	if f.pc >= len(f.code) {
		return 0, io.EOF
	}
	b := f.code[f.pc]
	f.pc++
	return b, nil
}
