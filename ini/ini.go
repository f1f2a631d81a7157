// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
)

// A Document is a parsed INI file: a set of uniquely named sections, each
// holding an ordered list of items. The zero value is an empty document with
// only the default section and the default comment flags.
//
// A Document may be read by multiple goroutines concurrently, but mutations
// must be synchronized by the caller.
type Document struct {
	sections map[string]*section
	flags    []string // nil means defaultCommentFlags
	trailing string
	path     string
	enc      encoding.Encoding
}

type section struct {
	name    string
	comment string
	items   []Item
}

// An Item is a single key=value entry. Comment holds the comment lines that
// preceded the entry in the source, joined by "\n", including their comment
// flags.
type Item struct {
	Key     string
	Value   string
	Comment string
}

// New returns an empty document with the default comment flags.
func New() *Document {
	d := new(Document)
	d.init()
	return d
}

func (d *Document) init() {
	if d.sections == nil {
		// The global section always exists.
		d.sections = map[string]*section{"": {}}
	}
}

func (d *Document) reset() {
	d.sections = nil
	d.trailing = ""
	d.init()
}

// section returns the named section or nil. It must not be used to mutate
// the document, since the default section of a zero Document is synthesized.
func (d *Document) section(name string) *section {
	if d == nil {
		return nil
	}
	if s := d.sections[name]; s != nil {
		return s
	}
	if name == "" && d.sections == nil {
		return new(section)
	}
	return nil
}

func (s *section) index(key string) int {
	if s == nil {
		return -1
	}
	for i := range s.items {
		if s.items[i].Key == key {
			return i
		}
	}
	return -1
}

func (d *Document) commentFlags() []string {
	if d == nil || d.flags == nil {
		return defaultCommentFlags
	}
	return d.flags
}

// Path returns the name of the file the document was last loaded from.
// Save writes to this path.
func (d *Document) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Sections returns the names of all sections in the order they are
// serialized: sorted by name, so the global section ("") is always first.
func (d *Document) Sections() []string {
	if d == nil {
		return nil
	}
	if d.sections == nil {
		return []string{""}
	}
	names := make([]string, 0, len(d.sections))
	for name := range d.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Items returns a copy of the items in the named section, or nil if the
// section does not exist.
func (d *Document) Items(sectionName string) []Item {
	s := d.section(sectionName)
	if s == nil || len(s.items) == 0 {
		return nil
	}
	return append([]Item(nil), s.items...)
}

// HasSection reports whether a section with the given name exists.
// The global section ("") always exists.
func (d *Document) HasSection(sectionName string) bool {
	return d.section(sectionName) != nil
}

// HasKey reports whether the named section has at least one item with the
// given key.
func (d *Document) HasKey(sectionName, key string) bool {
	return d.section(sectionName).index(key) >= 0
}

// Get returns the first value associated with the given key in the given
// section. If there are no values associated with the key, Get returns the
// empty string.
func (d *Document) Get(sectionName, key string) string {
	v, _ := d.Value(sectionName, key)
	return v
}

// Value returns the first value associated with the given key in the given
// section and reports whether one was found.
func (d *Document) Value(sectionName, key string) (string, bool) {
	v, _, ok := d.ValueComment(sectionName, key)
	return v, ok
}

// ValueComment is like Value, but also returns the item's comment.
func (d *Document) ValueComment(sectionName, key string) (value, comment string, ok bool) {
	s := d.section(sectionName)
	i := s.index(key)
	if i == -1 {
		return "", "", false
	}
	return s.items[i].Value, s.items[i].Comment, true
}

// Values returns all the values associated with the given key in the given
// section, in file order. ok is false if there are none.
func (d *Document) Values(sectionName, key string) (_ []string, ok bool) {
	values, _, ok := d.ValuesComments(sectionName, key)
	return values, ok
}

// ValuesComments is like Values, but also returns each item's comment.
// The two slices have the same length.
func (d *Document) ValuesComments(sectionName, key string) (values, comments []string, ok bool) {
	s := d.section(sectionName)
	if s == nil {
		return nil, nil, false
	}
	for _, item := range s.items {
		if item.Key == key {
			values = append(values, item.Value)
			comments = append(comments, item.Comment)
		}
	}
	return values, comments, len(values) > 0
}

// Int returns the first value for the key converted with the rules of C's
// atoi: leading whitespace is skipped and the longest integer prefix is
// used, 0 if there is none. ok reports whether the key was found, not
// whether the value was a well-formed number.
func (d *Document) Int(sectionName, key string) (_ int, ok bool) {
	v, ok := d.Value(sectionName, key)
	return parseIntPrefix(v), ok
}

// Float is like Int, but converts the value with the rules of C's atof.
// Unlike atof, hexadecimal floating-point values such as "0x1p3" are not
// recognized and yield 0.
func (d *Document) Float(sectionName, key string) (_ float64, ok bool) {
	v, ok := d.Value(sectionName, key)
	return parseFloatPrefix(v), ok
}

// Set sets the first property with the given key in the named section,
// keeping its position, or appends a new property if none exists. The
// section is created if necessary.
//
// A non-empty comment replaces the property's comment. Each of its lines is
// prefixed with the document's first comment flag. An empty comment clears
// the property's comment.
func (d *Document) Set(sectionName, key, value, comment string) {
	d.init()
	s := d.sections[sectionName]
	if s == nil {
		s = &section{name: sectionName}
		d.sections[sectionName] = s
	}
	comment = d.formatComment(comment)
	if i := s.index(key); i >= 0 {
		s.items[i].Value = value
		s.items[i].Comment = comment
		return
	}
	s.items = append(s.items, Item{
		Key:     key,
		Value:   value,
		Comment: comment,
	})
}

func (d *Document) formatComment(comment string) string {
	flags := d.commentFlags()
	if comment == "" || len(flags) == 0 {
		return comment
	}
	lines := strings.Split(comment, "\n")
	for i := range lines {
		lines[i] = flags[0] + lines[i]
	}
	return strings.Join(lines, "\n")
}

// Delete removes the first property with the given key from the named
// section. Later properties with the same key are kept.
func (d *Document) Delete(sectionName, key string) {
	if d == nil || d.sections == nil {
		return
	}
	s := d.sections[sectionName]
	i := s.index(key)
	if i == -1 {
		return
	}
	copy(s.items[i:], s.items[i+1:])
	// Zero out truncated element for garbage collection.
	s.items[len(s.items)-1] = Item{}
	s.items = s.items[:len(s.items)-1]
}

// DeleteSection removes the named section and all of its properties.
// Deleting the global section empties it instead, since it always exists.
func (d *Document) DeleteSection(sectionName string) {
	if d == nil || d.sections == nil {
		return
	}
	if sectionName == "" {
		d.sections[""] = &section{}
		return
	}
	delete(d.sections, sectionName)
}

// SectionComment returns the comment preceding the named section's header.
func (d *Document) SectionComment(sectionName string) (_ string, ok bool) {
	s := d.section(sectionName)
	if s == nil {
		return "", false
	}
	return s.comment, true
}

// SetSectionComment replaces the comment preceding the named section's
// header. The comment is stored verbatim, so each line should start with a
// comment flag. It returns an error wrapping ErrNotFound if the section does
// not exist.
func (d *Document) SetSectionComment(sectionName, comment string) error {
	d.init()
	s := d.sections[sectionName]
	if s == nil {
		return fmt.Errorf("set comment for section %q: %w", sectionName, ErrNotFound)
	}
	s.comment = comment
	return nil
}

// TrailingComment returns the comment lines that followed the last property
// in the source. They are written after all sections.
func (d *Document) TrailingComment() string {
	if d == nil {
		return ""
	}
	return d.trailing
}

// SetTrailingComment replaces the comment written at the end of the document.
// The comment is stored verbatim.
func (d *Document) SetTrailingComment(comment string) {
	d.trailing = comment
}

// Encoding returns the encoding Save writes the document in, or nil if the
// text is written unchanged.
func (d *Document) Encoding() encoding.Encoding {
	if d == nil {
		return nil
	}
	return d.enc
}

// SetEncoding changes the encoding used by Save and SaveAs. A nil encoding
// writes the text unchanged.
func (d *Document) SetEncoding(enc encoding.Encoding) {
	d.enc = enc
}

// CommentFlags returns a copy of the prefixes that mark a comment line,
// in order of priority.
func (d *Document) CommentFlags() []string {
	return append([]string{}, d.commentFlags()...)
}

// SetCommentFlags replaces the comment prefixes used by Load and Set.
// The first flag is used to format comments passed to Set. An empty list
// disables comment recognition entirely.
func (d *Document) SetCommentFlags(flags []string) {
	d.flags = append([]string{}, flags...)
}
