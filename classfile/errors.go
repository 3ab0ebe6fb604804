// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// ReadError reports a structural failure while parsing a classfile, with
// the byte offset at which it was detected.
type ReadError struct {
	Context  string
	Position int64
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Context, e.Position)
}

// UnexpectedConstant reports that a constant-pool dereference found a
// constant of the wrong variant.
type UnexpectedConstant struct {
	Expected string
	Found    Constant
}

func (e *UnexpectedConstant) Error() string {
	return fmt.Sprintf("expected %s, found %#v", e.Expected, e.Found)
}

// ConstantNotFound reports that a constant-pool index was out of bounds.
type ConstantNotFound uint16

func (e ConstantNotFound) Error() string {
	return fmt.Sprintf("constant not found: %d", uint16(e))
}

// AttributeNotFound reports that a named attribute was required but absent.
type AttributeNotFound string

func (e AttributeNotFound) Error() string {
	return fmt.Sprintf("attribute not found: %s", string(e))
}
