// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

// DocumentSet is a list of documents to obtain configuration from in
// descending order of precedence.
type DocumentSet []*Document

// LoadFiles loads the files at the given paths and returns a DocumentSet.
// If the returned error is nil, the returned set's length will be the same
// as the number of arguments. LoadFiles will stop on the first error, but
// ignores missing file errors, instead filling the corresponding element of
// the set with a nil *Document.
func LoadFiles(ctx context.Context, opts *ParseOptions, paths ...string) (DocumentSet, error) {
	dset := make(DocumentSet, 0, len(paths))
	for _, p := range paths {
		d, err := Load(ctx, p, opts)
		if errors.Is(err, fs.ErrNotExist) {
			dset = append(dset, nil)
			continue
		}
		if err != nil {
			return dset, fmt.Errorf("load ini files: %w", err)
		}
		dset = append(dset, d)
	}
	return dset, nil
}

// Value returns the first value associated with the given key in the given
// section of the first document that has one.
func (dset DocumentSet) Value(section, key string) (string, bool) {
	for _, d := range dset {
		if v, ok := d.Value(section, key); ok {
			return v, true
		}
	}
	return "", false
}

// Get is like Value, but returns the empty string if no document has the key.
func (dset DocumentSet) Get(section, key string) string {
	v, _ := dset.Value(section, key)
	return v
}

// Values returns all the values associated with the given key in the given
// section across all documents, starting with the lowest precedence
// document.
func (dset DocumentSet) Values(section, key string) []string {
	var values []string
	for i := len(dset) - 1; i >= 0; i-- {
		v, _ := dset[i].Values(section, key)
		values = append(values, v...)
	}
	return values
}

// HasKey reports whether any document has the key in the given section.
func (dset DocumentSet) HasKey(section, key string) bool {
	for _, d := range dset {
		if d.HasKey(section, key) {
			return true
		}
	}
	return false
}

// Sections returns the sorted union of section names in all documents.
func (dset DocumentSet) Sections() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, d := range dset {
		for _, name := range d.Sections() {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Set sets the property on the first document and deletes the property in
// all subsequent documents. Set will panic if len(dset) == 0.
//
// If dset[0] == nil, Set allocates a new Document. Any other nil documents
// in the set will be ignored.
func (dset DocumentSet) Set(section, key, value, comment string) {
	if dset[0] == nil {
		dset[0] = New()
	}
	dset[0].Set(section, key, value, comment)
	dset[1:].Delete(section, key)
}

// Delete deletes every property with the given key in the named section of
// each document. Nil elements of the set are ignored.
func (dset DocumentSet) Delete(section, key string) {
	for _, d := range dset {
		for d.HasKey(section, key) {
			d.Delete(section, key)
		}
	}
}
