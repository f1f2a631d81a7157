// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"zombiezen.com/go/log"
)

// ParseOptions holds optional parameters for Parse.
type ParseOptions struct {
	// CommentFlags lists the prefixes that start a comment. If nil, the
	// default flags "#" and ";" are used. A non-nil empty slice disables
	// comments: every line is then a header or a property.
	CommentFlags []string

	// ChunkSize is the number of bytes read from the source at a time.
	// Lines may be longer than ChunkSize. If zero, DefaultChunkSize is used.
	ChunkSize int

	// Lenient demotes malformed and duplicate section headers to warnings.
	// A malformed header is skipped and properties after it stay in the
	// preceding section. A duplicate header continues the existing section.
	Lenient bool

	// Encoding is the character encoding of the source. If nil, the source
	// bytes are used unchanged. A UTF-8 or UTF-16 byte order mark always takes
	// precedence and replaces Encoding. The resulting Document re-encodes with
	// the encoding in effect on save.
	Encoding encoding.Encoding

	// NormalizeSection is called on each section name to apply text transformations.
	// This can be used to make keys case-insensitive, for instance.
	// If nil, no transformations are made.
	NormalizeSection func(name string) string

	// NormalizeKey is called on each key to apply text transformations.
	// This can be used to make keys case-insensitive, for instance.
	// If nil, no transformations are made.
	NormalizeKey func(section, key string) string
}

// Parse parses an INI file. Nil options are treated identically as passing the
// zero value. Lines that are not comments, section headers, or properties are
// logged to ctx's logger and skipped.
//
// See the Syntax section in the package documentation for the format recognized
// by Parse.
func Parse(ctx context.Context, r io.Reader, opts *ParseOptions) (*Document, error) {
	d := newFromOptions(opts)
	if err := d.parse(ctx, r, opts); err != nil {
		return nil, err
	}
	return d, nil
}

func newFromOptions(opts *ParseOptions) *Document {
	d := New()
	if opts != nil {
		if opts.CommentFlags != nil {
			d.SetCommentFlags(opts.CommentFlags)
		}
		d.enc = opts.Encoding
	}
	return d
}

// parse reads r into d, which must be empty.
func (d *Document) parse(ctx context.Context, r io.Reader, opts *ParseOptions) error {
	if opts == nil {
		opts = new(ParseOptions)
	}
	flags := d.commentFlags()
	lr := newLineReader(d.decodeReader(r), opts.ChunkSize)
	curr := d.sections[""]
	var comment string
	for lineno := 1; ; lineno++ {
		line, err := lr.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &ParseError{Line: lineno, Err: err}
		}
		line = trimLine(line)
		if !isComment(line, flags) {
			code, inline := stripInlineComment(line, flags)
			comment = joinComment(comment, inline)
			line = strings.Trim(code, asciiSpace)
		}
		if line == "" {
			continue
		}

		switch {
		case line[0] == '[':
			name, err := parseSectionHeader(line)
			if err == nil && opts.NormalizeSection != nil {
				name = opts.NormalizeSection(name)
			}
			if err == nil && d.sections[name] != nil {
				err = fmt.Errorf("%w: %s", ErrDuplicateSection, name)
			}
			if err != nil {
				perr := &ParseError{Line: lineno, Err: err}
				if !opts.Lenient {
					return perr
				}
				log.Warnf(ctx, "%v (skipped)", perr)
				if errors.Is(err, ErrDuplicateSection) {
					curr = d.sections[name]
				}
				continue
			}
			curr = &section{
				name:    name,
				comment: comment,
			}
			d.sections[name] = curr
			comment = ""
		case isComment(line, flags):
			comment = joinComment(comment, line)
		default:
			key, value, ok := splitKeyValue(line)
			if !ok {
				log.Warnf(ctx, "%v (skipped)", &ParseError{
					Line: lineno,
					Err:  fmt.Errorf("%w in %q", ErrMalformedEntry, line),
				})
				comment = ""
				continue
			}
			if opts.NormalizeKey != nil {
				key = opts.NormalizeKey(curr.name, key)
			}
			curr.items = append(curr.items, Item{
				Key:     key,
				Value:   value,
				Comment: comment,
			})
			comment = ""
		}
	}
	d.trailing = comment
	return nil
}

func joinComment(comment, line string) string {
	switch {
	case line == "":
		return comment
	case comment == "":
		return line
	default:
		return comment + "\n" + line
	}
}

// decodeReader converts r to UTF-8. A byte order mark at the start of r
// selects the document's encoding. Without either, bytes pass through
// unchanged.
func (d *Document) decodeReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if enc := sniffBOM(br); enc != nil {
		d.enc = enc
	}
	if d.enc == nil {
		return br
	}
	return transform.NewReader(br, d.enc.NewDecoder())
}

// sniffBOM returns the encoding announced by a byte order mark at the start
// of br, or nil if there is none. The mark is not consumed.
func sniffBOM(br *bufio.Reader) encoding.Encoding {
	head, _ := br.Peek(3)
	switch {
	case bytes.HasPrefix(head, []byte("\xef\xbb\xbf")):
		return unicode.UTF8BOM
	case bytes.HasPrefix(head, []byte("\xff\xfe")):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(head, []byte("\xfe\xff")):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		return nil
	}
}

// UnmarshalText parses UTF-8 INI data, as produced by MarshalText, with the
// document's comment flags, replacing any sections in d. The document keeps
// its path and its encoding for Save.
func (d *Document) UnmarshalText(data []byte) error {
	parsed, err := Parse(context.Background(), bytes.NewReader(data), &ParseOptions{
		CommentFlags: d.flags,
	})
	if err != nil {
		return err
	}
	parsed.path = d.path
	if d.enc != nil {
		parsed.enc = d.enc
	}
	*d = *parsed
	return nil
}
