// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/text/transform"
)

// Load parses the INI file at the given path. The returned document
// remembers the path for Save.
//
// If the file cannot be opened, Load returns an error that wraps the
// *os.PathError, so errors.Is(err, fs.ErrNotExist) detects a missing file.
// Parse errors wrap a *ParseError.
func Load(ctx context.Context, path string, opts *ParseOptions) (*Document, error) {
	d := newFromOptions(opts)
	if err := d.load(ctx, path, opts); err != nil {
		return nil, err
	}
	return d, nil
}

// Load replaces the contents of d with the INI file at the given path,
// parsed with d's comment flags and encoding. Load records the path even
// if it fails, so that a document can be populated and saved to a file that
// does not exist yet. On error, d is left empty.
func (d *Document) Load(ctx context.Context, path string) error {
	d.reset()
	return d.load(ctx, path, &ParseOptions{Encoding: d.enc})
}

func (d *Document) load(ctx context.Context, path string, opts *ParseOptions) error {
	d.path = path
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load ini file: %w", err)
	}
	defer f.Close() // Close errors irrelevant for reads.
	if err := d.parse(ctx, f, opts); err != nil {
		d.reset()
		return fmt.Errorf("load ini file: %s: %w", path, err)
	}
	return nil
}

// Save writes the document to the file it was loaded from.
func (d *Document) Save() error {
	if d.Path() == "" {
		return errors.New("save ini file: document has no file name")
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the document to the given path, creating or truncating the
// file. It does not change the path used by Save. If the document was parsed
// with an Encoding, the file is written in that encoding.
//
// A failed write may leave a partially written file.
func (d *Document) SaveAs(path string) error {
	text, err := d.MarshalText()
	if err != nil {
		return fmt.Errorf("save ini file: %s: %w", path, err)
	}
	if d != nil && d.enc != nil {
		text, _, err = transform.Bytes(d.enc.NewEncoder(), text)
		if err != nil {
			return fmt.Errorf("save ini file: %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save ini file: %w", err)
	}
	_, err = f.Write(text)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("save ini file: %w", err)
	}
	return nil
}
