// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import "io"

// MarshalText serializes the document in INI format, including comments from
// the original file. Sections are written in name order, each comment
// precedes the header or property it was attached to, and every line ends
// with "\n". The global section never gets a header.
func (d *Document) MarshalText() ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	var buf []byte
	for _, name := range d.Sections() {
		s := d.section(name)
		buf = appendComment(buf, s.comment)
		if name != "" {
			buf = append(buf, '[')
			buf = append(buf, name...)
			buf = append(buf, "]\n"...)
		}
		for _, item := range s.items {
			buf = appendComment(buf, item.Comment)
			buf = append(buf, item.Key...)
			buf = append(buf, '=')
			buf = append(buf, item.Value...)
			buf = append(buf, '\n')
		}
	}
	buf = appendComment(buf, d.trailing)
	return buf, nil
}

func appendComment(dst []byte, comment string) []byte {
	if comment == "" {
		return dst
	}
	dst = append(dst, comment...)
	return append(dst, '\n')
}

// WriteTo writes the serialized document to w as UTF-8, regardless of the
// document's encoding.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	text, err := d.MarshalText()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(text)
	return int64(n), err
}
