// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"errors"
	"io"
)

// DefaultChunkSize is the number of bytes the line reader requests from its
// source at a time. Lines longer than this are still read in full.
const DefaultChunkSize = 2048

// lineReader splits a byte stream into lines of unbounded length.
type lineReader struct {
	r   *bufio.Reader
	buf []byte
}

func newLineReader(r io.Reader, chunkSize int) *lineReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &lineReader{r: bufio.NewReaderSize(r, chunkSize)}
}

// readLine returns the next line including its '\n' terminator, if any. The
// final line of a stream may lack a terminator. At the end of the stream,
// readLine returns io.EOF.
func (lr *lineReader) readLine() (string, error) {
	lr.buf = lr.buf[:0]
	for {
		frag, err := lr.r.ReadSlice('\n')
		lr.buf = append(lr.buf, frag...)
		switch {
		case err == nil:
			return string(lr.buf), nil
		case errors.Is(err, bufio.ErrBufferFull):
			// Chunk exhausted mid-line: keep appending.
			continue
		case err == io.EOF:
			if len(lr.buf) == 0 {
				return "", io.EOF
			}
			return string(lr.buf), nil
		default:
			return "", err
		}
	}
}
