// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini provides a parser and serializer for the INI file format.
See https://en.wikipedia.org/wiki/INI_file.

This package is specifically designed for read-modify-write scenarios: it
preserves comments and edits existing values in-place.

Syntax

An INI file is text read line by line; lines end in "\n" or "\r\n" and may be
of any length. Space, tab and the other ASCII whitespace characters are
removed from both ends of every line.

A line starting with one of the document's comment flags (by default '#' and
';') is a comment. A comment flag appearing later in any other line starts an
inline comment, which runs to the end of the line:

	; full-line comment
	timeout=30 # inline comment

Comments are attached to the header or property that follows them. Inline
comments are moved in front of their line, so the second line above is
written back as:

	# inline comment
	timeout=30

A section is started by writing its name in square brackets ('[' and ']') and
ends at the next section header or the end of file:

	[section]
	key1=value1
	key2=value2

The name is everything between the opening bracket and the first closing
bracket. It must not be empty and must not repeat the name of an earlier
section; either mistake aborts parsing unless ParseOptions.Lenient is set.

A property is a key and value separated by the first equals sign ('=') on the
line. Neither side is trimmed beyond the line itself, so "a = b" has the key
"a " and the value " b". Lines that are not comments, headers or properties
are logged and skipped.

Properties encountered before a section name are permitted. They are considered
part of the global section, identified by the empty string (""). The global
section always exists.

Repeated keys

Multiple properties in the same section may have the same key. Single-value
accessors like Document.Value use the first one; Document.Values returns all
of them in file order.

Output

Document.MarshalText writes sections sorted by name rather than in file
order, and ends every line with "\n".
*/
package ini
