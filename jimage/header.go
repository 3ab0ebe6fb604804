// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jimage

import "fmt"

// Header is the fixed-size header record that opens every archive, laid
// out in the platform's native byte order (the archive is produced by the
// local toolchain and is not portable across machines).
type Header struct {
	MajorVersion   uint16
	MinorVersion   uint16
	Flags          uint32
	ResourceCount  uint32
	TableLength    uint32
	AttributesSize uint32
	StringsSize    uint32
}

// RedirectTableSize is the byte size of the header's redirect_table section.
func (h Header) RedirectTableSize() int {
	return int(h.TableLength) * 4 // []int32
}

// AttributeOffsetsSize is the byte size of the header's attribute_offsets
// section.
func (h Header) AttributeOffsetsSize() int {
	return int(h.TableLength) * 4 // []uint32
}

// IndexSize is the total byte size of magic + header + every index
// section; the resource payload area begins immediately after it.
func (h Header) IndexSize() int {
	return 4 + headerSize + h.RedirectTableSize() + h.AttributeOffsetsSize() +
		int(h.AttributesSize) + int(h.StringsSize)
}

// headerSize is the on-disk size of Header's seven fixed-width fields.
const headerSize = 2 + 2 + 4 + 4 + 4 + 4 + 4

func (h Header) String() string {
	return fmt.Sprintf(
		" Major Version:  %d\n"+
			" Minor Version:  %d\n"+
			" Flags:          %d\n"+
			" Resource Count: %d\n"+
			" Table Length:   %d\n"+
			" Offsets Size:   %d\n"+
			" Redirects Size: %d\n"+
			" Locations Size: %d\n"+
			" Strings Size:   %d\n"+
			" Index Size:     %d\n",
		h.MajorVersion, h.MinorVersion, h.Flags, h.ResourceCount, h.TableLength,
		h.AttributeOffsetsSize(), h.RedirectTableSize(), h.AttributesSize,
		h.StringsSize, h.IndexSize(),
	)
}

// Index holds the four index sections that follow Header in the mapped
// buffer.
type Index struct {
	RedirectTable    []int32
	AttributeOffsets []uint32
	AttributeData    []byte
	StringsData      []byte
}
