// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jimage

const hashMultiplier = int32(0x01000193)

// Archive is a parsed, in-memory view over a packed module archive's
// header and index. The resource payload is never copied; Resource.Bytes
// slices directly into the buffer Parse was given.
type Archive struct {
	buf               []byte
	header            Header
	index             Index
	resourceDataStart int
}

// Parse reads the magic, header, and index sections of buf — typically a
// memory-mapped file — in the platform's native byte order. buf must stay
// alive and unmodified for as long as any Resource obtained from the
// returned Archive is in use.
func Parse(buf []byte) (*Archive, error) {
	return newArchiveParser(buf).parse()
}

// Header returns the archive's fixed-size header record.
func (a *Archive) Header() Header { return a.header }

// Index returns the archive's parsed index sections.
func (a *Archive) Index() Index { return a.index }

// Resources returns an iterator over every slot of the redirect table, in
// slot order, regardless of whether that slot is reachable via ByName.
// Stale slots may carry bogus offsets; this is best-effort and meant for
// diagnostic tooling, not for resolving a specific resource.
func (a *Archive) Resources() *Resources {
	return &Resources{archive: a}
}

// ByName resolves path via the archive's two-level perfect-hash index and
// verifies the result by exact path reconstruction. It reports false if
// path is not present in the archive.
func (a *Archive) ByName(path string) (Resource, bool) {
	tableLen := int32(len(a.index.RedirectTable))
	if tableLen == 0 {
		return Resource{}, false
	}

	h0 := hash(path, hashMultiplier)
	i0 := mod(h0, tableLen)
	v := a.index.RedirectTable[i0]
	if v == 0 {
		return Resource{}, false
	}

	var slot int32
	if v > 0 {
		slot = mod(hash(path, v), tableLen)
	} else {
		slot = -1 - v
	}

	res, err := a.resourceAt(int(slot))
	if err != nil {
		return Resource{}, false
	}
	if !verify(res, path) {
		return Resource{}, false
	}
	return res, true
}

func (a *Archive) resourceAt(slot int) (Resource, error) {
	if slot < 0 || slot >= len(a.index.AttributeOffsets) {
		return Resource{}, &ReadError{Context: "attribute slot out of range", Position: int64(slot)}
	}
	offset := a.index.AttributeOffsets[slot]
	if int(offset) > len(a.index.AttributeData) {
		return Resource{}, &ReadError{Context: "attribute offset out of range", Position: int64(offset)}
	}
	attrs, err := parseAttributeStream(a.index.AttributeData[offset:])
	if err != nil {
		return Resource{}, err
	}
	return Resource{archive: a, attrs: attrs}, nil
}

// hash folds the bytes of data starting from seed, matching the archive's
// custom two-level hashing scheme: each byte multiplies the running value
// by hashMultiplier and XORs it in, with the final result masked to 31
// bits before being reinterpreted as signed.
func hash(data string, seed int32) int32 {
	useed := uint32(seed)
	for i := 0; i < len(data); i++ {
		useed = (useed * uint32(hashMultiplier)) ^ uint32(data[i])
	}
	return int32(useed & 0x7fffffff)
}

func mod(h, m int32) int32 {
	r := h % m
	if r < 0 {
		r += m
	}
	return r
}

// verify reconstructs "/<module>/<parent>/<base>.<extension>" (a segment
// omitted entirely if empty) and requires path to match it exactly,
// rejecting the non-perfect hash's false positives.
func verify(r Resource, path string) bool {
	if module := r.Module(); module != "" {
		if len(path) == 0 || path[0] != '/' {
			return false
		}
		rest := path[1:]
		if len(rest) < len(module) || rest[:len(module)] != module {
			return false
		}
		rest = rest[len(module):]
		if len(rest) == 0 || rest[0] != '/' {
			return false
		}
		path = rest[1:]
	}

	if pkg := r.Package(); pkg != "" {
		if len(path) < len(pkg) || path[:len(pkg)] != pkg {
			return false
		}
		rest := path[len(pkg):]
		if len(rest) == 0 || rest[0] != '/' {
			return false
		}
		path = rest[1:]
	}

	base := r.Base()
	if len(path) < len(base) || path[:len(base)] != base {
		return false
	}
	path = path[len(base):]

	if ext := r.Extension(); ext != "" {
		if len(path) == 0 || path[0] != '.' {
			return false
		}
		rest := path[1:]
		if len(rest) < len(ext) || rest[:len(ext)] != ext {
			return false
		}
		path = rest[len(ext):]
	}

	return len(path) == 0
}
