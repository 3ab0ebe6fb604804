// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package vm

import "fmt"

// Error is the runtime's aggregated error type: every subsystem error
// that crosses into vm is wrapped here, labeled by the kind that produced
// it, so callers can match on Kind without importing every subsystem's
// error package.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// NotFound reports that a classpath lookup found no resource by that name.
type NotFound string

func (e NotFound) Error() string {
	return fmt.Sprintf("not found: %s", string(e))
}

// ClassLoadError reports a structural problem defining a class that is not
// itself a classfile-parse error (e.g. a method with neither a Code
// attribute nor the NATIVE flag).
type ClassLoadError string

func (e ClassLoadError) Error() string {
	return fmt.Sprintf("class load error: %s", string(e))
}

// NoSuchMethod reports that FindMethod found no matching method.
type NoSuchMethod string

func (e NoSuchMethod) Error() string {
	return fmt.Sprintf("no such method: %s", string(e))
}

// ErrNativeUnimplemented is returned by Invoke when asked to invoke a
// Native method body; native method invocation is not implemented at this
// version (see DESIGN.md's open-question decision).
var ErrNativeUnimplemented = fmt.Errorf("native method invocation is not implemented")
