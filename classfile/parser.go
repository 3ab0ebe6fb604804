// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const magic = 0xCAFEBABE

// parser walks a classfile byte stream front to back. It only seeks to
// report the current offset in error messages; parsing itself is a single
// forward pass, matching the source format's one-shot layout.
type parser struct {
	r io.ReadSeeker
}

func newParser(r io.ReadSeeker) *parser {
	return &parser{r: r}
}

func (p *parser) pos() int64 {
	off, err := p.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return off
}

func (p *parser) readFull(buf []byte) error {
	_, err := io.ReadFull(p.r, buf)
	return err
}

func (p *parser) u8() (uint8, error) {
	var b [1]byte
	if err := p.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *parser) u16() (uint16, error) {
	var b [2]byte
	if err := p.readFull(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (p *parser) u32() (uint32, error) {
	var b [4]byte
	if err := p.readFull(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (p *parser) i32() (int32, error) {
	u, err := p.u32()
	return int32(u), err
}

func (p *parser) bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := p.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *parser) parse() (*ClassFile, error) {
	if err := p.parseMagic(); err != nil {
		return nil, err
	}
	if _, _, err := p.parseVersion(); err != nil {
		return nil, err
	}

	pool, err := p.parseConstantPool()
	if err != nil {
		return nil, err
	}

	accessBits, err := p.u16()
	if err != nil {
		return nil, err
	}
	thisClass, err := p.u16()
	if err != nil {
		return nil, err
	}
	superClass, err := p.u16()
	if err != nil {
		return nil, err
	}

	interfacesCount, err := p.u16()
	if err != nil {
		return nil, err
	}
	interfaces := make([]uint16, interfacesCount)
	for i := range interfaces {
		interfaces[i], err = p.u16()
		if err != nil {
			return nil, err
		}
	}

	fieldsCount, err := p.u16()
	if err != nil {
		return nil, err
	}
	fields := make([]FieldInfo, fieldsCount)
	for i := range fields {
		fields[i], err = p.parseFieldInfo()
		if err != nil {
			return nil, err
		}
	}

	methodsCount, err := p.u16()
	if err != nil {
		return nil, err
	}
	methods := make([]MethodInfo, methodsCount)
	for i := range methods {
		methods[i], err = p.parseMethodInfo()
		if err != nil {
			return nil, err
		}
	}

	attributesCount, err := p.u16()
	if err != nil {
		return nil, err
	}
	attributes, err := p.parseAttributes(attributesCount)
	if err != nil {
		return nil, err
	}

	return &ClassFile{
		ConstantPool: pool,
		AccessFlags:  accessFlagsFromBits(accessBits),
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   attributes,
	}, nil
}

func (p *parser) parseMagic() error {
	m, err := p.u32()
	if err != nil {
		return err
	}
	if m != magic {
		return &ReadError{
			Context:  fmt.Sprintf("Invalid magic identifier: 0x%X", m),
			Position: p.pos(),
		}
	}
	return nil
}

func (p *parser) parseVersion() (major, minor uint16, err error) {
	minor, err = p.u16()
	if err != nil {
		return 0, 0, err
	}
	major, err = p.u16()
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

func (p *parser) parseFieldInfo() (FieldInfo, error) {
	accessBits, err := p.u16()
	if err != nil {
		return FieldInfo{}, err
	}
	nameIndex, err := p.u16()
	if err != nil {
		return FieldInfo{}, err
	}
	descIndex, err := p.u16()
	if err != nil {
		return FieldInfo{}, err
	}
	attrCount, err := p.u16()
	if err != nil {
		return FieldInfo{}, err
	}
	attrs, err := p.parseAttributes(attrCount)
	if err != nil {
		return FieldInfo{}, err
	}
	return FieldInfo{
		AccessFlags:     accessFlagsFromBits(accessBits),
		NameIndex:       nameIndex,
		DescriptorIndex: descIndex,
		Attributes:      attrs,
	}, nil
}

func (p *parser) parseMethodInfo() (MethodInfo, error) {
	accessBits, err := p.u16()
	if err != nil {
		return MethodInfo{}, err
	}
	nameIndex, err := p.u16()
	if err != nil {
		return MethodInfo{}, err
	}
	descIndex, err := p.u16()
	if err != nil {
		return MethodInfo{}, err
	}
	attrCount, err := p.u16()
	if err != nil {
		return MethodInfo{}, err
	}
	attrs, err := p.parseAttributes(attrCount)
	if err != nil {
		return MethodInfo{}, err
	}
	return MethodInfo{
		AccessFlags:     accessFlagsFromBits(accessBits),
		NameIndex:       nameIndex,
		DescriptorIndex: descIndex,
		Attributes:      attrs,
	}, nil
}

// parseConstantPool reads constant_pool_count and then entries until
// count-1 slots are filled (a Long entry fills two slots). Index 0 is
// reserved and holds Unusable.
func (p *parser) parseConstantPool() (*ConstantPool, error) {
	count, err := p.u16()
	if err != nil {
		return nil, err
	}

	remaining := int(count) - 1
	entries := make([]Constant, 0, count)
	entries = append(entries, Unusable{})

	for remaining > 0 {
		c, slots, err := p.parseCpInfo()
		if err != nil {
			return nil, err
		}
		entries = append(entries, c)
		for i := 1; i < slots; i++ {
			entries = append(entries, Unusable{})
		}
		remaining -= slots
	}

	return NewConstantPool(entries), nil
}

func (p *parser) parseCpInfo() (Constant, int, error) {
	tag, err := p.u8()
	if err != nil {
		return nil, 0, err
	}

	switch tag {
	case 1:
		c, err := p.parseUtf8()
		return c, 1, err
	case 3:
		v, err := p.i32()
		return Integer(v), 1, err
	case 5:
		hi, err := p.u32()
		if err != nil {
			return nil, 0, err
		}
		lo, err := p.u32()
		if err != nil {
			return nil, 0, err
		}
		return Long(int64(hi)<<32 | int64(lo)), 2, nil
	case 7:
		nameIndex, err := p.u16()
		return ClassRef{NameIndex: nameIndex}, 1, err
	case 8:
		stringIndex, err := p.u16()
		return StringConstant{StringIndex: stringIndex}, 1, err
	case 9:
		ref, err := p.parseRefInfo()
		return FieldRef{ref}, 1, err
	case 10:
		ref, err := p.parseRefInfo()
		return MethodRef{ref}, 1, err
	case 11:
		ref, err := p.parseRefInfo()
		return InterfaceMethodRef{ref}, 1, err
	case 12:
		nameIndex, err := p.u16()
		if err != nil {
			return nil, 0, err
		}
		descIndex, err := p.u16()
		return NameAndType{NameIndex: nameIndex, DescriptorIndex: descIndex}, 1, err
	case 15:
		kind, err := p.u8()
		if err != nil {
			return nil, 0, err
		}
		refIndex, err := p.u16()
		return MethodHandle{ReferenceKind: kind, ReferenceIndex: refIndex}, 1, err
	case 16:
		descIndex, err := p.u16()
		return MethodType{DescriptorIndex: descIndex}, 1, err
	case 18:
		bootstrapIndex, err := p.u16()
		if err != nil {
			return nil, 0, err
		}
		natIndex, err := p.u16()
		return InvokeDynamic{BootstrapMethodAttrIndex: bootstrapIndex, NameAndTypeIndex: natIndex}, 1, err
	default:
		return nil, 0, &ReadError{
			Context:  fmt.Sprintf("Invalid cp info tag: %d", tag),
			Position: p.pos() - 1,
		}
	}
}

func (p *parser) parseUtf8() (Constant, error) {
	length, err := p.u16()
	if err != nil {
		return nil, err
	}
	b, err := p.bytes(int(length))
	if err != nil {
		return nil, err
	}
	return Utf8(bytes.ToValidUTF8(b, []byte("�"))), nil
}

func (p *parser) parseRefInfo() (RefInfo, error) {
	classIndex, err := p.u16()
	if err != nil {
		return RefInfo{}, err
	}
	natIndex, err := p.u16()
	if err != nil {
		return RefInfo{}, err
	}
	return RefInfo{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, nil
}

func (p *parser) parseAttribute() (Attribute, error) {
	nameIndex, err := p.u16()
	if err != nil {
		return Attribute{}, err
	}
	length, err := p.u32()
	if err != nil {
		return Attribute{}, err
	}
	info, err := p.bytes(int(length))
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{NameIndex: nameIndex, Info: info}, nil
}

func (p *parser) parseAttributes(count uint16) (Attributes, error) {
	attrs := make(Attributes, count)
	for i := range attrs {
		a, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		attrs[i] = a
	}
	return attrs, nil
}

// ParseCodeAttribute decodes the raw Info bytes of an attribute previously
// resolved (by name, against the owning constant pool) to be a "Code"
// attribute. It is reentrant: each call parses a fresh byte slice with its
// own cursor.
func ParseCodeAttribute(info []byte) (*CodeAttribute, error) {
	p := newParser(bytes.NewReader(info))

	maxStack, err := p.u16()
	if err != nil {
		return nil, err
	}
	maxLocals, err := p.u16()
	if err != nil {
		return nil, err
	}
	codeLength, err := p.u32()
	if err != nil {
		return nil, err
	}
	code, err := p.bytes(int(codeLength))
	if err != nil {
		return nil, err
	}

	exceptionTableLength, err := p.u16()
	if err != nil {
		return nil, err
	}
	exceptionTable := make([]ExceptionTableEntry, exceptionTableLength)
	for i := range exceptionTable {
		exceptionTable[i], err = p.parseExceptionTableEntry()
		if err != nil {
			return nil, err
		}
	}

	attributesCount, err := p.u16()
	if err != nil {
		return nil, err
	}
	attributes, err := p.parseAttributes(attributesCount)
	if err != nil {
		return nil, err
	}

	return &CodeAttribute{
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Code:           code,
		ExceptionTable: exceptionTable,
		Attributes:     attributes,
	}, nil
}

func (p *parser) parseExceptionTableEntry() (ExceptionTableEntry, error) {
	startPC, err := p.u16()
	if err != nil {
		return ExceptionTableEntry{}, err
	}
	endPC, err := p.u16()
	if err != nil {
		return ExceptionTableEntry{}, err
	}
	handlerPC, err := p.u16()
	if err != nil {
		return ExceptionTableEntry{}, err
	}
	catchType, err := p.u16()
	if err != nil {
		return ExceptionTableEntry{}, err
	}
	return ExceptionTableEntry{
		StartPC:   startPC,
		EndPC:     endPC,
		HandlerPC: handlerPC,
		CatchType: catchType,
	}, nil
}
