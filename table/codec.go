package table

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/susu753/apexub/errors"
)

// Format selects the on-disk encoding of a Document.
type Format int

const (
	// FormatJSON is a single object with metadata and an "entries" array.
	FormatJSON Format = iota
	// FormatJSONL is one record object per line. The first line may be
	// {"meta": {...}} instead of a record.
	FormatJSONL
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat accepts "json", "jsonl" and "ndjson".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	}
	return 0, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("unknown format %q", s))
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".jsonl", ".ndjson":
		return FormatJSONL, true
	}
	return FormatJSON, false
}

type jsonlLine struct {
	Meta *Meta `json:"meta,omitempty"`
	Record
}

// Decode reads a Document. Unknown fields are rejected.
func Decode(r io.Reader, f Format) (Document, error) {
	switch f {
	case FormatJSON:
		var doc Document
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, errors.ParseFailed("json document", err)
		}
		return doc, nil
	case FormatJSONL:
		return decodeJSONL(r)
	}
	return Document{}, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("unsupported format %s", f))
}

func decodeJSONL(r io.Reader) (Document, error) {
	var doc Document
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 || b[0] == '#' {
			continue
		}
		var l jsonlLine
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&l); err != nil {
			return Document{}, errors.ParseFailed(fmt.Sprintf("jsonl line %d", line), err)
		}
		if l.Meta != nil {
			if len(doc.Entries) > 0 {
				return Document{}, errors.New(errors.PhaseParse, errors.KindInvalidData).
					Detail("jsonl line %d: meta must precede records", line).
					Build()
			}
			doc.Meta = *l.Meta
			continue
		}
		doc.Entries = append(doc.Entries, l.Record)
	}
	if err := sc.Err(); err != nil {
		return Document{}, errors.ParseFailed("jsonl stream", err)
	}
	return doc, nil
}

// Encode writes a Document.
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatJSONL:
		enc := json.NewEncoder(w)
		if doc.Source != "" || !doc.GameVersion.IsZero() || !doc.Updated.IsZero() {
			meta := struct {
				Meta *Meta `json:"meta"`
			}{&doc.Meta}
			if err := enc.Encode(meta); err != nil {
				return err
			}
		}
		for _, rec := range doc.Entries {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("unsupported format %s", f))
}

// Load decodes r and builds a Table.
func Load(r io.Reader, f Format) (*Table, error) {
	doc, err := Decode(r, f)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// LoadFile loads a table from path, choosing the format by extension
// (JSON when the extension is not recognized).
func LoadFile(path string) (*Table, error) {
	Logger().Debug("loading table", zap.String("path", path))
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Load("open table", err)
	}
	defer fh.Close()
	return loadNamed(fh, path)
}

// LoadFS loads a table from a file system, typically an embed.FS.
func LoadFS(fsys fs.FS, name string) (*Table, error) {
	Logger().Debug("loading table", zap.String("name", name))
	fh, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Load("open table", err)
	}
	defer fh.Close()
	return loadNamed(fh, name)
}

func loadNamed(r io.Reader, name string) (*Table, error) {
	f, _ := FormatFromPath(name)
	doc, err := Decode(r, f)
	if err != nil {
		return nil, err
	}
	if doc.Source == "" {
		doc.Source = filepath.Base(name)
	}
	return Build(doc)
}
