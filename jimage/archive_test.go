// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jimage

import (
	"encoding/binary"
	"strings"
	"testing"
)

// fixture builds a tiny, well-formed archive with a single resource at
// path "/java.base/java/lang/Object.class" in native byte order.
type fixture struct {
	buf []byte
}

func putU16(b []byte, v uint16)       { binary.NativeEndian.PutUint16(b, v) }
func putU32(b []byte, v uint32)       { binary.NativeEndian.PutUint32(b, v) }
func appendU32(dst []byte, v uint32) []byte {
	var tmp [4]byte
	putU32(tmp[:], v)
	return append(dst, tmp[:]...)
}
func appendU16(dst []byte, v uint16) []byte {
	var tmp [2]byte
	putU16(tmp[:], v)
	return append(dst, tmp[:]...)
}

// attributeTag builds one tag byte: kind in the high 5 bits, length-1 in
// the low 3 bits.
func attributeTag(kind AttributeKind, length int) byte {
	return byte(kind)<<3 | byte(length-1)
}

// appendAttrValue appends length big-endian bytes for v.
func appendAttrValue(dst []byte, v uint64, length int) []byte {
	for i := length - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

func buildSingleResourceArchive(t *testing.T) ([]byte, string) {
	t.Helper()

	module := "java.base"
	parent := "java/lang"
	base := "Object"
	ext := "class"
	path := "/java.base/java/lang/Object.class"
	payload := []byte("classfile bytes go here")

	strings := []byte{}
	moduleOff := len(strings)
	strings = append(strings, module...)
	strings = append(strings, 0)
	parentOff := len(strings)
	strings = append(strings, parent...)
	strings = append(strings, 0)
	baseOff := len(strings)
	strings = append(strings, base...)
	strings = append(strings, 0)
	extOff := len(strings)
	strings = append(strings, ext...)
	strings = append(strings, 0)

	var attrData []byte
	attrData = append(attrData, attributeTag(AttributeModule, 1))
	attrData = appendAttrValue(attrData, uint64(moduleOff), 1)
	attrData = append(attrData, attributeTag(AttributeParent, 1))
	attrData = appendAttrValue(attrData, uint64(parentOff), 1)
	attrData = append(attrData, attributeTag(AttributeBase, 1))
	attrData = appendAttrValue(attrData, uint64(baseOff), 1)
	attrData = append(attrData, attributeTag(AttributeExtension, 1))
	attrData = appendAttrValue(attrData, uint64(extOff), 1)
	attrData = append(attrData, attributeTag(AttributeOffset, 1))
	attrData = appendAttrValue(attrData, 0, 1)
	attrData = append(attrData, attributeTag(AttributeUncompressed, 1))
	attrData = appendAttrValue(attrData, uint64(len(payload)), 1)
	attrData = append(attrData, 0) // end of stream

	const tableLength = 1
	h0 := hash(path, hashMultiplier)
	i0 := mod(h0, tableLength)
	_ = i0 // table has one slot, i0 must be 0

	var buf []byte
	buf = appendU32(buf, 0xCAFEDADA) // magic
	buf = appendU16(buf, 1)          // major
	buf = appendU16(buf, 0)          // minor
	buf = appendU32(buf, 0)          // flags
	buf = appendU32(buf, 1)          // resource_count
	buf = appendU32(buf, tableLength)
	buf = appendU32(buf, uint32(len(attrData)))
	buf = appendU32(buf, uint32(len(strings)))

	buf = appendU32(buf, int32ToRedirect(1)) // redirect_table[0]: positive -> slot = hash(path, v) mod table_length
	buf = appendU32(buf, 0)                  // attribute_offsets[0]
	buf = append(buf, attrData...)
	buf = append(buf, strings...)
	buf = append(buf, payload...)

	return buf, path
}

// int32ToRedirect packs a positive int32 into the wire's native-endian u32
// slot (same bit pattern, just named for readability at call sites).
func int32ToRedirect(v int32) uint32 { return uint32(v) }

func TestArchiveByNameRoundTrip(t *testing.T) {
	buf, path := buildSingleResourceArchive(t)

	archive, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	res, ok := archive.ByName(path)
	if !ok {
		t.Fatalf("ByName(%q) not found", path)
	}
	wantPath := strings.TrimPrefix(path, "/")
	if got := res.Path(); got != wantPath {
		t.Errorf("resolved resource Path() = %q, want %q", got, wantPath)
	}

	data, err := res.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if string(data) != "classfile bytes go here" {
		t.Errorf("Bytes() = %q", data)
	}
}

func TestArchiveByNameRejectsMismatch(t *testing.T) {
	buf, _ := buildSingleResourceArchive(t)
	archive, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := archive.ByName("/java.base/java/lang/String.class"); ok {
		t.Error("ByName matched a path with a different basename, want not-found")
	}
}

func TestResourcesIteratesAllSlots(t *testing.T) {
	buf, _ := buildSingleResourceArchive(t)
	archive, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	it := archive.Resources()
	count := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 1 {
		t.Errorf("Resources() yielded %d items, want 1", count)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	a := hash("/java.base/java/lang/Object.class", hashMultiplier)
	b := hash("/java.base/java/lang/Object.class", hashMultiplier)
	if a != b {
		t.Errorf("hash is not deterministic: %d != %d", a, b)
	}
	if a < 0 {
		t.Errorf("hash result %d has sign bit set, want masked to 31 bits", a)
	}
}
