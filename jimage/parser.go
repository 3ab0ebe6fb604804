// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jimage

import "encoding/binary"

// archiveParser decodes an archive's magic, header, and index sections
// from an in-memory buffer. Unlike the classfile parser, it never needs to
// report a seek position against a stream: the whole archive is already
// resident, so offsets are plain slice indices.
type archiveParser struct {
	buf []byte
	pos int
}

func newArchiveParser(buf []byte) *archiveParser {
	return &archiveParser{buf: buf}
}

func (p *archiveParser) remaining() int { return len(p.buf) - p.pos }

func (p *archiveParser) u16() (uint16, error) {
	if p.remaining() < 2 {
		return 0, &ReadError{Context: "unexpected end of archive", Position: int64(p.pos)}
	}
	v := binary.NativeEndian.Uint16(p.buf[p.pos:])
	p.pos += 2
	return v, nil
}

func (p *archiveParser) u32() (uint32, error) {
	if p.remaining() < 4 {
		return 0, &ReadError{Context: "unexpected end of archive", Position: int64(p.pos)}
	}
	v := binary.NativeEndian.Uint32(p.buf[p.pos:])
	p.pos += 4
	return v, nil
}

func (p *archiveParser) i32() (int32, error) {
	u, err := p.u32()
	return int32(u), err
}

func (p *archiveParser) bytes(n int) ([]byte, error) {
	if p.remaining() < n {
		return nil, &ReadError{Context: "unexpected end of archive", Position: int64(p.pos)}
	}
	b := p.buf[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

func (p *archiveParser) parse() (*Archive, error) {
	if _, err := p.u32(); err != nil { // magic identifier, not validated against a fixed value
		return nil, err
	}

	header, err := p.parseHeader()
	if err != nil {
		return nil, err
	}

	redirectTable := make([]int32, header.TableLength)
	for i := range redirectTable {
		redirectTable[i], err = p.i32()
		if err != nil {
			return nil, err
		}
	}

	attributeOffsets := make([]uint32, header.TableLength)
	for i := range attributeOffsets {
		attributeOffsets[i], err = p.u32()
		if err != nil {
			return nil, err
		}
	}

	attributeData, err := p.bytes(int(header.AttributesSize))
	if err != nil {
		return nil, err
	}
	stringsData, err := p.bytes(int(header.StringsSize))
	if err != nil {
		return nil, err
	}

	index := Index{
		RedirectTable:    redirectTable,
		AttributeOffsets: attributeOffsets,
		AttributeData:    attributeData,
		StringsData:      stringsData,
	}

	return &Archive{
		buf:               p.buf,
		header:            header,
		index:             index,
		resourceDataStart: header.IndexSize(),
	}, nil
}

func (p *archiveParser) parseHeader() (Header, error) {
	major, err := p.u16()
	if err != nil {
		return Header{}, err
	}
	minor, err := p.u16()
	if err != nil {
		return Header{}, err
	}
	flags, err := p.u32()
	if err != nil {
		return Header{}, err
	}
	resourceCount, err := p.u32()
	if err != nil {
		return Header{}, err
	}
	tableLength, err := p.u32()
	if err != nil {
		return Header{}, err
	}
	attributesSize, err := p.u32()
	if err != nil {
		return Header{}, err
	}
	stringsSize, err := p.u32()
	if err != nil {
		return Header{}, err
	}
	return Header{
		MajorVersion:   major,
		MinorVersion:   minor,
		Flags:          flags,
		ResourceCount:  resourceCount,
		TableLength:    tableLength,
		AttributesSize: attributesSize,
		StringsSize:    stringsSize,
	}, nil
}
