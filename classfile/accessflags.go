// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// AccessFlags is a bitset over the access/modifier flags a class, field, or
// method declares. Unknown bits are dropped on construction (from_bits_truncate
// semantics) rather than rejected.
type AccessFlags uint16

// Known access-flag bits. Several bit positions are overloaded depending on
// whether they decorate a class, field, or method (e.g. 0x0020 is SUPER on
// a class but SYNCHRONIZED on a method) — callers interpret bits in context,
// the way the format itself does.
const (
	ACCPublic       AccessFlags = 0x0001
	ACCPrivate      AccessFlags = 0x0002
	ACCProtected    AccessFlags = 0x0004
	ACCStatic       AccessFlags = 0x0008
	ACCFinal        AccessFlags = 0x0010
	ACCSuper        AccessFlags = 0x0020 // class
	ACCSynchronized AccessFlags = 0x0020 // method
	ACCVolatile     AccessFlags = 0x0040 // field
	ACCBridge       AccessFlags = 0x0040 // method
	ACCTransient    AccessFlags = 0x0080 // field
	ACCVarargs      AccessFlags = 0x0080 // method
	ACCNative       AccessFlags = 0x0100
	ACCInterface    AccessFlags = 0x0200
	ACCAbstract     AccessFlags = 0x0400
	ACCStrict       AccessFlags = 0x0800
	ACCSynthetic    AccessFlags = 0x1000
	ACCAnnotation   AccessFlags = 0x2000
	ACCEnum         AccessFlags = 0x4000
	ACCModule       AccessFlags = 0x8000

	knownAccessFlags = ACCPublic | ACCPrivate | ACCProtected | ACCStatic |
		ACCFinal | ACCSuper | ACCVolatile | ACCTransient | ACCNative |
		ACCInterface | ACCAbstract | ACCStrict | ACCSynthetic |
		ACCAnnotation | ACCEnum | ACCModule
)

func accessFlagsFromBits(bits uint16) AccessFlags {
	return AccessFlags(bits) & knownAccessFlags
}

// Has reports whether every bit in flag is set.
func (f AccessFlags) Has(flag AccessFlags) bool {
	return f&flag == flag
}
