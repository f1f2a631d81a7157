// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"fmt"
	"strings"
)

// asciiSpace is the set of characters trimmed from both ends of every line.
const asciiSpace = " \t\n\v\f\r"

// defaultCommentFlags is the comment prefix list of a new Document.
var defaultCommentFlags = []string{"#", ";"}

func trimLine(line string) string {
	line = strings.TrimRight(line, "\n")
	line = strings.TrimRight(line, "\r")
	return strings.Trim(line, asciiSpace)
}

// isComment reports whether line begins with any of the comment flags.
func isComment(line string, flags []string) bool {
	for _, flag := range flags {
		if strings.HasPrefix(line, flag) {
			return true
		}
	}
	return false
}

// stripInlineComment cuts line at the earliest occurrence of any comment flag.
// The returned comment starts with the flag that was found. If no flag occurs,
// comment is empty and code is line.
func stripInlineComment(line string, flags []string) (code, comment string) {
	cut := -1
	for _, flag := range flags {
		if i := strings.Index(line, flag); i >= 0 && (cut == -1 || i < cut) {
			cut = i
		}
	}
	if cut == -1 {
		return line, ""
	}
	return line[:cut], line[cut:]
}

// splitKeyValue splits line at its first equals sign.
func splitKeyValue(line string) (key, value string, ok bool) {
	return strings.Cut(line, "=")
}

// parseSectionHeader extracts the name from a line starting with '['.
// Anything after the first ']' is ignored.
func parseSectionHeader(line string) (string, error) {
	end := strings.IndexByte(line, ']')
	if end == -1 {
		return "", fmt.Errorf("%w: missing closing bracket", ErrMalformedSectionHeader)
	}
	name := line[1:end]
	if name == "" {
		return "", fmt.Errorf("%w: section name missing", ErrMalformedSectionHeader)
	}
	return name, nil
}
