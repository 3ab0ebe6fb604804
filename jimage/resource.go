// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jimage

import "strings"

// Resource describes one modular resource's location and identity:
// module/parent/base/extension name fragments plus its byte offset and
// size within the archive's payload area.
type Resource struct {
	archive *Archive
	attrs   [attributeKindTotal]uint64
}

// Module is the owning module name, e.g. "java.base".
func (r Resource) Module() string { return r.stringAt(AttributeModule) }

// Package is the resource's parent path fragment, e.g. "java/lang".
func (r Resource) Package() string { return r.stringAt(AttributeParent) }

// Base is the resource's basename, without extension.
func (r Resource) Base() string { return r.stringAt(AttributeBase) }

// Extension is the resource's extension, without the leading dot.
func (r Resource) Extension() string { return r.stringAt(AttributeExtension) }

// Offset is the resource's byte offset into the archive's payload area.
func (r Resource) Offset() uint64 { return r.attrs[AttributeOffset] }

// Compressed is the raw Compressed attribute value. A non-zero value means
// Bytes cannot decode this resource: this reader does not implement the
// platform's compression scheme.
func (r Resource) Compressed() uint64 { return r.attrs[AttributeCompressed] }

// Uncompressed is the resource's decompressed byte size.
func (r Resource) Uncompressed() uint64 { return r.attrs[AttributeUncompressed] }

// Bytes returns the resource's payload, sliced directly from the
// archive's buffer. It fails with ErrCompressedUnsupported if Compressed
// is non-zero.
func (r Resource) Bytes() ([]byte, error) {
	if c := r.Compressed(); c != 0 {
		return nil, ErrCompressedUnsupported(c)
	}
	start := r.archive.resourceDataStart + int(r.Offset())
	end := start + int(r.Uncompressed())
	if start < 0 || end > len(r.archive.buf) || start > end {
		return nil, &ReadError{Context: "resource bytes out of range", Position: int64(start)}
	}
	return r.archive.buf[start:end], nil
}

// Path renders the resource's canonical "<module>/<parent>/<base>.<ext>"
// display form, omitting any empty segment (and the dot if extension is
// empty). This is slash-free at the front, matching the platform's own
// jimage listing output; it is not the lookup key ByName expects (which is
// rooted at "/").
func (r Resource) Path() string {
	var b strings.Builder
	if m := r.Module(); m != "" {
		b.WriteString(m)
		b.WriteByte('/')
	}
	if p := r.Package(); p != "" {
		b.WriteString(p)
		b.WriteByte('/')
	}
	b.WriteString(r.Base())
	if e := r.Extension(); e != "" {
		b.WriteByte('.')
		b.WriteString(e)
	}
	return b.String()
}

func (r Resource) stringAt(kind AttributeKind) string {
	off := r.attrs[kind]
	if off >= uint64(len(r.archive.index.StringsData)) {
		return ""
	}
	rest := r.archive.index.StringsData[off:]
	if i := indexByte(rest, 0); i >= 0 {
		return string(rest[:i])
	}
	return string(rest)
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// Resources iterates every slot of an archive's redirect table in order,
// yielding each slot's attributes regardless of hash reachability.
type Resources struct {
	archive *Archive
	slot    int
}

// Next advances the iterator, reporting false once every slot has been
// visited or when the current slot's attribute stream cannot be decoded.
func (it *Resources) Next() (Resource, bool) {
	if it.slot >= len(it.archive.index.AttributeOffsets) {
		return Resource{}, false
	}
	res, err := it.archive.resourceAt(it.slot)
	it.slot++
	if err != nil {
		return Resource{}, false
	}
	return res, true
}
