// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jimage

import "fmt"

// AttributeKind tags one slot of a Resource's fixed attribute array.
type AttributeKind int

// Attribute kinds, in the order the wire tag's high bits select them.
const (
	AttributeModule AttributeKind = iota + 1
	AttributeParent
	AttributeBase
	AttributeExtension
	AttributeOffset
	AttributeCompressed
	AttributeUncompressed

	attributeKindTotal
)

// parseAttributeStream decodes the tag-encoded attribute stream beginning
// at data[0], stopping at a zero tag byte or end of data. Each tag byte's
// low 3 bits hold length-1 (1..8 payload bytes follow), its high 5 bits
// select the AttributeKind; the payload is read big-endian into a uint64.
func parseAttributeStream(data []byte) ([attributeKindTotal]uint64, error) {
	var attrs [attributeKindTotal]uint64
	pos := 0
	for pos < len(data) {
		tag := data[pos]
		if tag == 0 {
			break
		}
		pos++

		length := int(tag&0x7) + 1
		kind := AttributeKind(tag >> 3)
		if kind <= 0 || kind >= attributeKindTotal {
			return attrs, &ReadError{
				Context:  fmt.Sprintf("Invalid attribute kind: %d", kind),
				Position: int64(pos - 1),
			}
		}
		if pos+length > len(data) {
			return attrs, &ReadError{
				Context:  "attribute stream truncated",
				Position: int64(pos),
			}
		}

		var value uint64
		for i := 0; i < length; i++ {
			value = value<<8 | uint64(data[pos+i])
		}
		attrs[kind] = value
		pos += length
	}
	return attrs, nil
}
