// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"zombiezen.com/go/log/testlog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestLoadSave(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	dir := t.TempDir()
	path := filepath.Join(dir, "app.ini")
	writeFile(t, path, "; global\nname=app\r\n\r\n[db]\nhost=localhost\n#comment\nport=5432\n")

	d, err := Load(ctx, path, nil)
	if err != nil {
		t.Fatal("Load:", err)
	}
	if got := d.Path(); got != path {
		t.Errorf("d.Path() = %q; want %q", got, path)
	}
	d.Set("db", "port", "6543", "")
	if err := d.Save(); err != nil {
		t.Fatal("Save:", err)
	}
	want := "; global\nname=app\n[db]\nhost=localhost\nport=6543\n"
	if diff := cmp.Diff(want, readFile(t, path)); diff != "" {
		t.Errorf("saved file (-want +got):\n%s", diff)
	}
}

func TestSaveAs(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	dir := t.TempDir()
	path := filepath.Join(dir, "app.ini")
	copyPath := filepath.Join(dir, "copy.ini")
	writeFile(t, path, "[a]\nk=v\n")

	d, err := Load(ctx, path, nil)
	if err != nil {
		t.Fatal("Load:", err)
	}
	d.Set("a", "k", "changed", "")
	if err := d.SaveAs(copyPath); err != nil {
		t.Fatal("SaveAs:", err)
	}
	if got := d.Path(); got != path {
		t.Errorf("d.Path() after SaveAs = %q; want %q", got, path)
	}
	if got, want := readFile(t, copyPath), "[a]\nk=changed\n"; got != want {
		t.Errorf("copy = %q; want %q", got, want)
	}
	if got, want := readFile(t, path), "[a]\nk=v\n"; got != want {
		t.Errorf("original = %q; want %q", got, want)
	}

	if err := d.SaveAs(filepath.Join(dir, "missing", "x.ini")); err == nil {
		t.Error("SaveAs into missing directory did not return error")
	}
}

func TestSaveNoPath(t *testing.T) {
	d := New()
	d.Set("", "k", "v", "")
	if err := d.Save(); err == nil {
		t.Error("Save() on a document that was never loaded did not return error")
	}
}

func TestLoadMissing(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	path := filepath.Join(t.TempDir(), "nope.ini")
	d, err := Load(ctx, path, nil)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v; want %v", err, fs.ErrNotExist)
	}
	if d != nil {
		t.Error("Load(missing) returned a document")
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		t.Error("Load(missing) returned a *ParseError")
	}
}

func TestDocumentLoad(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ini")
	bad := filepath.Join(dir, "bad.ini")
	writeFile(t, good, "// c\n[s]\nk=v # not a comment\n")
	writeFile(t, bad, "[s]\nk=v\n[s]\n")

	d := New()
	d.SetCommentFlags([]string{"//"})
	d.Set("stale", "k", "v", "")
	if err := d.Load(ctx, good); err != nil {
		t.Fatal("Load(good):", err)
	}
	if d.HasSection("stale") {
		t.Error("Load did not reset the document")
	}
	if got, comment, _ := d.ValueComment("s", "k"); got != "v # not a comment" {
		t.Errorf("d.Get(\"s\", \"k\") = %q; want \"v # not a comment\"", got)
	} else if comment != "" {
		t.Errorf("item comment = %q; want empty", comment)
	}
	if got, _ := d.SectionComment("s"); got != "// c" {
		t.Errorf("d.SectionComment(\"s\") = %q; want \"// c\"", got)
	}

	err := d.Load(ctx, bad)
	if !errors.Is(err, ErrDuplicateSection) {
		t.Errorf("Load(bad) error = %v; want %v", err, ErrDuplicateSection)
	}
	if diff := cmp.Diff([]string{""}, d.Sections()); diff != "" {
		t.Errorf("Sections() after failed Load (-want +got):\n%s", diff)
	}

	// A missing file still becomes the save target.
	created := filepath.Join(dir, "new.ini")
	if err := d.Load(ctx, created); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load(missing) error = %v; want %v", err, fs.ErrNotExist)
	}
	d.Set("", "k", "v", "")
	if err := d.Save(); err != nil {
		t.Fatal("Save:", err)
	}
	if got, want := readFile(t, created), "k=v\n"; got != want {
		t.Errorf("created file = %q; want %q", got, want)
	}
}

func TestEncoding(t *testing.T) {
	t.Run("Latin1", func(t *testing.T) {
		ctx := testlog.WithTB(context.Background(), t)
		dir := t.TempDir()
		path := filepath.Join(dir, "latin1.ini")
		writeFile(t, path, "[caf\xe9]\nname=Jos\xe9\n")
		d, err := Load(ctx, path, &ParseOptions{Encoding: charmap.ISO8859_1})
		if err != nil {
			t.Fatal("Load:", err)
		}
		if got := d.Get("café", "name"); got != "José" {
			t.Errorf("d.Get(\"café\", \"name\") = %q; want \"José\"", got)
		}
		d.Set("café", "name", "Zoë", "")
		if err := d.Save(); err != nil {
			t.Fatal("Save:", err)
		}
		if got, want := readFile(t, path), "[caf\xe9]\nname=Zo\xeb\n"; got != want {
			t.Errorf("saved file = %q; want %q", got, want)
		}

		d.Set("café", "name", "日本", "")
		if err := d.Save(); err == nil {
			t.Error("Save with unencodable characters did not return error")
		}
	})
	t.Run("UTF8BOM", func(t *testing.T) {
		ctx := testlog.WithTB(context.Background(), t)
		path := filepath.Join(t.TempDir(), "bom.ini")
		writeFile(t, path, "\xef\xbb\xbfk=v\n")
		d, err := Load(ctx, path, nil)
		if err != nil {
			t.Fatal("Load:", err)
		}
		if got := d.Get("", "k"); got != "v" {
			t.Errorf("d.Get(\"\", \"k\") = %q; want \"v\"", got)
		}
		d.Set("", "k", "w", "")
		if err := d.Save(); err != nil {
			t.Fatal("Save:", err)
		}
		if got, want := readFile(t, path), "\xef\xbb\xbfk=w\n"; got != want {
			t.Errorf("saved file = %q; want %q", got, want)
		}
	})
	t.Run("UTF16BOM", func(t *testing.T) {
		tests := []struct {
			name  string
			order unicode.Endianness
		}{
			{"LittleEndian", unicode.LittleEndian},
			{"BigEndian", unicode.BigEndian},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				ctx := testlog.WithTB(context.Background(), t)
				utf16 := unicode.UTF16(test.order, unicode.UseBOM)
				data, err := utf16.NewEncoder().String("[s]\r\nk=värde\r\n")
				if err != nil {
					t.Fatal(err)
				}
				path := filepath.Join(t.TempDir(), "utf16.ini")
				writeFile(t, path, data)
				d, err := Load(ctx, path, &ParseOptions{Encoding: charmap.ISO8859_1})
				if err != nil {
					t.Fatal("Load:", err)
				}
				if got := d.Get("s", "k"); got != "värde" {
					t.Errorf("d.Get(\"s\", \"k\") = %q; want \"värde\"", got)
				}
				d.Set("s", "k", "ny", "")
				if err := d.Save(); err != nil {
					t.Fatal("Save:", err)
				}
				want, err := utf16.NewEncoder().String("[s]\nk=ny\n")
				if err != nil {
					t.Fatal(err)
				}
				if got := readFile(t, path); got != want {
					t.Errorf("saved file = %q; want %q", got, want)
				}
			})
		}
	})
	t.Run("RawBytes", func(t *testing.T) {
		ctx := testlog.WithTB(context.Background(), t)
		d, err := Parse(ctx, bytes.NewReader([]byte("k=\xff\xfe\n")), nil)
		if err != nil {
			t.Fatal("Parse:", err)
		}
		if got := d.Get("", "k"); got != "\xff\xfe" {
			t.Errorf("d.Get(\"\", \"k\") = %q; want \"\\xff\\xfe\"", got)
		}
	})
}

func TestUnmarshalTextKeepsEncoding(t *testing.T) {
	ctx := testlog.WithTB(context.Background(), t)
	d, err := Parse(ctx, bytes.NewReader([]byte("name=Jos\xe9\n")), &ParseOptions{Encoding: charmap.ISO8859_1})
	if err != nil {
		t.Fatal("Parse:", err)
	}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatal("MarshalText:", err)
	}
	if err := d.UnmarshalText(text); err != nil {
		t.Fatal("UnmarshalText:", err)
	}
	if got := d.Get("", "name"); got != "José" {
		t.Errorf("d.Get(\"\", \"name\") = %q; want \"José\"", got)
	}
	if d.Encoding() != charmap.ISO8859_1 {
		t.Errorf("d.Encoding() = %v; want ISO-8859-1", d.Encoding())
	}
	path := filepath.Join(t.TempDir(), "latin1.ini")
	if err := d.SaveAs(path); err != nil {
		t.Fatal("SaveAs:", err)
	}
	if got, want := readFile(t, path), "name=Jos\xe9\n"; got != want {
		t.Errorf("saved file = %q; want %q", got, want)
	}
}
