// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bytecode

import (
	"errors"
	"io"
	"testing"
)

// sliceReader adapts a byte slice to ByteReader, the shape the decoder
// is specified against.
type sliceReader struct {
	data []byte
	pos  int
}

func (s *sliceReader) ReadU8() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		in       []byte
		mnemonic string
		hasIndex bool
		index    uint16
	}{
		{"aconst_null", []byte{0x01}, "aconst_null", false, 0},
		{"ldc", []byte{0x12, 0x07}, "ldc", true, 7},
		{"aload", []byte{0x19, 0x02}, "aload", true, 2},
		{"getstatic", []byte{0xB2, 0x00, 0x10}, "getstatic", true, 16},
		{"anewarray", []byte{0xBD, 0x01, 0x02}, "anewarray", true, 0x0102},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := Decode(&sliceReader{data: tt.in})
			if err != nil {
				t.Fatalf("Decode(%v) failed: %v", tt.in, err)
			}
			if inst.Mnemonic != tt.mnemonic || inst.HasIndex != tt.hasIndex || inst.Index != tt.index {
				t.Errorf("Decode(%v) = %+v, want mnemonic=%s hasIndex=%v index=%d",
					tt.in, inst, tt.mnemonic, tt.hasIndex, tt.index)
			}
		})
	}
}

func TestDecodeUnknownBytecode(t *testing.T) {
	_, err := Decode(&sliceReader{data: []byte{0xFF}})
	var unk ErrUnknownBytecode
	if !errors.As(err, &unk) {
		t.Fatalf("Decode(0xFF) err = %v, want ErrUnknownBytecode", err)
	}
	if unk != 0xFF {
		t.Errorf("ErrUnknownBytecode = %#x, want 0xff", byte(unk))
	}
}

func TestInstructionsStopsCleanlyAtEOF(t *testing.T) {
	r := &sliceReader{data: []byte{0x01, 0x12, 0x07}}
	var got []string
	err := Instructions(r, func(i Instruction) error {
		got = append(got, i.Mnemonic)
		return nil
	})
	if err != nil {
		t.Fatalf("Instructions() failed: %v", err)
	}
	if len(got) != 2 || got[0] != "aconst_null" || got[1] != "ldc" {
		t.Errorf("Instructions() yielded %v", got)
	}
}

func TestInstructionsPropagatesDecodeError(t *testing.T) {
	r := &sliceReader{data: []byte{0x01, 0xFF}}
	err := Instructions(r, func(Instruction) error { return nil })
	var unk ErrUnknownBytecode
	if !errors.As(err, &unk) {
		t.Fatalf("Instructions() err = %v, want ErrUnknownBytecode", err)
	}
}

func TestInstructionString(t *testing.T) {
	i := Instruction{Mnemonic: "ldc", HasIndex: true, Index: 7}
	if got, want := i.String(), "ldc          #7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
