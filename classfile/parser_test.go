// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// builder accumulates big-endian classfile bytes for test fixtures.
type builder struct {
	buf bytes.Buffer
}

func (b *builder) u8(v uint8) *builder  { b.buf.WriteByte(v); return b }
func (b *builder) u16(v uint16) *builder {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}
func (b *builder) u32(v uint32) *builder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}
func (b *builder) bytes(v []byte) *builder { b.buf.Write(v); return b }
func (b *builder) utf8(s string) *builder {
	b.u8(1).u16(uint16(len(s))).bytes([]byte(s))
	return b
}

// minimalClassFile builds the smallest legal classfile: magic, version,
// a constant pool containing one Utf8 ("Main") and one ClassRef pointing
// at it (used as this_class), no interfaces/fields/methods/attributes,
// super_class 0 (root class).
func minimalClassFile() []byte {
	b := &builder{}
	b.u32(magic)
	b.u16(0)  // minor
	b.u16(52) // major
	b.u16(3)  // constant_pool_count (1 sentinel + 2 real entries)
	b.utf8("Main")
	b.u8(7).u16(1)  // tag 7 ClassRef -> name_index 1
	b.u16(0)        // access_flags
	b.u16(2)        // this_class -> ClassRef at index 2
	b.u16(0)        // super_class
	b.u16(0)        // interfaces_count
	b.u16(0)        // fields_count
	b.u16(0)        // methods_count
	b.u16(0)        // attributes_count
	return b.buf.Bytes()
}

func TestParseMinimalClassFile(t *testing.T) {
	cf, err := Parse(bytes.NewReader(minimalClassFile()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	name, err := cf.ClassName()
	if err != nil {
		t.Fatalf("ClassName failed: %v", err)
	}
	if name != "Main" {
		t.Errorf("ClassName = %q, want Main", name)
	}

	super, err := cf.SuperClassName()
	if err != nil {
		t.Fatalf("SuperClassName failed: %v", err)
	}
	if super != "" {
		t.Errorf("SuperClassName = %q, want empty (root class)", super)
	}
}

func TestParseInvalidMagic(t *testing.T) {
	b := &builder{}
	b.u32(0xDEADBEEF)
	_, err := Parse(bytes.NewReader(b.buf.Bytes()))
	if err == nil {
		t.Fatal("Parse succeeded on bad magic, want error")
	}
	re, ok := err.(*ReadError)
	if !ok {
		t.Fatalf("error type = %T, want *ReadError", err)
	}
	if re.Position != 4 {
		t.Errorf("Position = %d, want 4", re.Position)
	}
}

func TestParseUnknownConstantTag(t *testing.T) {
	b := &builder{}
	b.u32(magic)
	b.u16(0)
	b.u16(52)
	b.u16(2) // 1 sentinel + 1 real entry
	b.u8(99) // unknown tag
	_, err := Parse(bytes.NewReader(b.buf.Bytes()))
	if err == nil {
		t.Fatal("Parse succeeded on unknown constant tag, want error")
	}
	if _, ok := err.(*ReadError); !ok {
		t.Fatalf("error type = %T, want *ReadError", err)
	}
}

func TestParseLongOccupiesTwoSlots(t *testing.T) {
	b := &builder{}
	b.u32(magic)
	b.u16(0)
	b.u16(52)
	b.u16(3) // sentinel + Long (2 slots)
	b.u8(5).u32(0).u32(42)
	b.u16(0) // access_flags
	b.u16(0) // this_class (unused by this test)
	b.u16(0) // super_class
	b.u16(0)
	b.u16(0)
	b.u16(0)
	b.u16(0)
	cf, err := Parse(bytes.NewReader(b.buf.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cf.ConstantPool.Len() != 3 {
		t.Fatalf("pool len = %d, want 3 (sentinel, Long, Unusable)", cf.ConstantPool.Len())
	}
	ref, err := cf.ConstantPool.Get(1)
	if err != nil {
		t.Fatalf("Get(1) failed: %v", err)
	}
	long, ok := ref.Constant().(Long)
	if !ok || long != 42 {
		t.Errorf("entry 1 = %#v, want Long(42)", ref.Constant())
	}
	ref2, err := cf.ConstantPool.Get(2)
	if err != nil {
		t.Fatalf("Get(2) failed: %v", err)
	}
	if _, ok := ref2.Constant().(Unusable); !ok {
		t.Errorf("entry 2 = %#v, want Unusable", ref2.Constant())
	}
}

func TestParseCodeAttribute(t *testing.T) {
	b := &builder{}
	b.u16(4)                      // max_stack
	b.u16(1)                      // max_locals
	b.u32(2)                      // code_length
	b.bytes([]byte{0xB1, 0x00})   // code bytes (opaque here)
	b.u16(0)                      // exception_table_length
	b.u16(0)                      // attributes_count
	code, err := ParseCodeAttribute(b.buf.Bytes())
	if err != nil {
		t.Fatalf("ParseCodeAttribute failed: %v", err)
	}
	if code.MaxStack != 4 || code.MaxLocals != 1 {
		t.Errorf("MaxStack/MaxLocals = %d/%d, want 4/1", code.MaxStack, code.MaxLocals)
	}
	if len(code.Code) != 2 {
		t.Errorf("len(Code) = %d, want 2", len(code.Code))
	}
}

func TestAccessFlagsTruncatesUnknownBits(t *testing.T) {
	f := accessFlagsFromBits(0xFFFF)
	if f != knownAccessFlags {
		t.Errorf("accessFlagsFromBits(0xFFFF) = %#x, want %#x", f, knownAccessFlags)
	}
	if !f.Has(ACCPublic) {
		t.Error("expected ACCPublic to be set")
	}
}

func TestConstantPoolGetOutOfBounds(t *testing.T) {
	pool := NewConstantPool([]Constant{Unusable{}})
	_, err := pool.Get(5)
	if err == nil {
		t.Fatal("Get(5) succeeded, want ConstantNotFound")
	}
	if _, ok := err.(ConstantNotFound); !ok {
		t.Fatalf("error type = %T, want ConstantNotFound", err)
	}
}
