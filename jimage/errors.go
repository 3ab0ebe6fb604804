// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jimage

import "fmt"

// ReadError reports a structural failure while parsing an archive's header,
// index, or attribute stream, with the byte offset it was detected at.
type ReadError struct {
	Context  string
	Position int64
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Context, e.Position)
}

// ErrCompressedUnsupported is returned by Resource.Bytes when the resource
// carries a non-zero Compressed attribute; this archive reader does not
// implement the platform's resource compression scheme.
type ErrCompressedUnsupported uint64

func (e ErrCompressedUnsupported) Error() string {
	return fmt.Sprintf("resource has unsupported Compressed attribute: %d", uint64(e))
}
