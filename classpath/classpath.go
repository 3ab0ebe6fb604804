// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package classpath unifies directory and jimage-archive resource
// backends behind a single lookup, and composes multiple backends with
// first-match semantics.
package classpath

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/saferwall/minirt/jimage"
)

// ClassPath resolves a slash-form resource name (e.g. "java/lang/Object.class")
// to a readable, seekable byte source. A missing resource is reported by
// returning ok == false, never by an error: callers (the loader) treat
// "not found here" and "not found anywhere" identically until every
// backend has been tried.
type ClassPath interface {
	FindResource(name string) (io.ReadSeeker, bool)
}

// Directory resolves name against files under a filesystem directory.
type Directory string

// FindResource opens <dir>/<name>. A missing file is not an error: any
// os.Open failure collapses to ok == false.
func (d Directory) FindResource(name string) (io.ReadSeeker, bool) {
	f, err := os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
	if err != nil {
		return nil, false
	}
	return f, true
}

// Archive resolves name against a parsed jimage module archive, always
// looking it up under the "java.base" module.
type Archive struct {
	archive *jimage.Archive
}

// NewArchive wraps a parsed archive as a ClassPath backend.
func NewArchive(a *jimage.Archive) Archive {
	return Archive{archive: a}
}

// FindResource looks up "/java.base/" + name in the archive's index.
func (a Archive) FindResource(name string) (io.ReadSeeker, bool) {
	res, ok := a.archive.ByName("/java.base/" + name)
	if !ok {
		return nil, false
	}
	data, err := res.Bytes()
	if err != nil {
		return nil, false
	}
	return bytes.NewReader(data), true
}

// Composite tries each backend in order and returns the first match.
type Composite []ClassPath

// FindResource returns the first backend's resource, or (nil, false) if
// every backend misses.
func (c Composite) FindResource(name string) (io.ReadSeeker, bool) {
	for _, backend := range c {
		if r, ok := backend.FindResource(name); ok {
			return r, true
		}
	}
	return nil, false
}
