package table

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/susu753/apexub/errors"
	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/version"
)

// Table is an immutable, ordered collection of offset entries.
// Insertion order is the order records appeared in the source.
// A Table is safe for concurrent use.
type Table struct {
	byKey    map[Key][]int
	bySymbol map[string][]int
	meta     Meta
	entries  []Entry
	keys     []Key
	recNo    []int
}

// Build validates records and constructs a Table.
// Every problem in the input is reported; on any error no Table is returned.
func Build(doc Document) (*Table, error) {
	t := &Table{
		meta:     doc.Meta,
		entries:  make([]Entry, 0, len(doc.Entries)),
		byKey:    make(map[Key][]int),
		bySymbol: make(map[string][]int),
	}

	var errs error
	for i, rec := range doc.Entries {
		e, err := newEntry(i+1, rec)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := t.checkDuplicate(i+1, e); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		t.add(i+1, e)
	}

	errs = multierr.Append(errs, t.checkComposites())
	if errs != nil {
		Logger().Debug("table rejected",
			zap.String("source", doc.Source),
			zap.Int("problems", len(multierr.Errors(errs))))
		return nil, errs
	}

	Logger().Debug("table built",
		zap.String("source", doc.Source),
		zap.Int("entries", len(t.entries)),
		zap.Int("keys", len(t.keys)))
	return t, nil
}

// FromRecords builds a Table without file metadata.
func FromRecords(records ...Record) (*Table, error) {
	return Build(Document{Entries: records})
}

func newEntry(n int, rec Record) (Entry, error) {
	symbol := strings.TrimSpace(rec.Symbol)
	malformed := func(detail string, cause error) error {
		return errors.New(errors.PhaseValidate, errors.KindMalformedEntry).
			Record(n).
			Symbol(rec.Group, symbol).
			Version(rec.GameVersion).
			Cause(cause).
			Detail("%s", detail).
			Build()
	}

	if symbol == "" {
		return Entry{}, malformed("missing symbol", nil)
	}
	switch {
	case rec.Value == nil && rec.Composite == nil:
		return Entry{}, malformed("missing value", nil)
	case rec.Value != nil && rec.Composite != nil:
		return Entry{}, malformed("value and composite are mutually exclusive", nil)
	}

	gv, err := version.Parse(rec.GameVersion)
	if err != nil {
		return Entry{}, malformed("bad game_version", err)
	}
	updated, err := version.ParseDate(rec.LastUpdated)
	if err != nil {
		return Entry{}, malformed("bad last_updated", err)
	}
	conf, err := ParseConfidence(rec.Confidence)
	if err != nil {
		return Entry{}, malformed("bad confidence", err)
	}

	e := Entry{
		Symbol:      symbol,
		Group:       strings.TrimSpace(rec.Group),
		GameVersion: gv,
		LastUpdated: updated,
		Confidence:  conf,
		Field:       rec.Field,
		Source:      rec.Source,
		Expr:        rec.Expr,
		Note:        rec.Note,
	}
	if rec.Absolute {
		e.Kind = Absolute
	}

	if c := rec.Composite; c != nil {
		if rec.Absolute {
			return Entry{}, malformed("composite entries take their kind from the base", nil)
		}
		if strings.TrimSpace(c.BaseSymbol) == "" {
			return Entry{}, malformed("composite without base_symbol", nil)
		}
		if c.Stride == nil || c.Stride.N == 0 {
			return Entry{}, malformed("composite stride must be non-zero", nil)
		}
		comp := &Composite{
			BaseSymbol: strings.TrimSpace(c.BaseSymbol),
			BaseGroup:  strings.TrimSpace(c.BaseGroup),
			Stride:     c.Stride.N,
		}
		if c.FieldOffset != nil {
			comp.FieldOffset = c.FieldOffset.N
		}
		e.Composite = comp
		return e, nil
	}

	e.Value = rec.Value.N
	if e.Expr == "" && rec.Value.Src != "" && literal.IsExpr(rec.Value.Src) {
		e.Expr = rec.Value.Src
	}
	return e, nil
}

func (t *Table) checkDuplicate(n int, e Entry) error {
	for _, idx := range t.byKey[e.Key()] {
		prev := t.entries[idx]
		if prev.GameVersion.Equal(e.GameVersion) {
			return errors.DuplicateVersion(n, t.recNo[idx], e.Group, e.Symbol, e.GameVersion.String())
		}
	}
	return nil
}

func (t *Table) add(n int, e Entry) {
	e.Seq = len(t.entries)
	k := e.Key()
	if _, ok := t.byKey[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.byKey[k] = append(t.byKey[k], e.Seq)
	t.bySymbol[e.Symbol] = append(t.bySymbol[e.Symbol], e.Seq)
	t.entries = append(t.entries, e)
	t.recNo = append(t.recNo, n)
}

// checkComposites verifies every composite base exists and is a plain
// entry, so formulas never chain.
func (t *Table) checkComposites() error {
	var errs error
	for _, e := range t.entries {
		if e.Composite == nil {
			continue
		}
		base := e.Composite.Base()
		detail := ""
		idx, ok := t.byKey[base]
		if !ok {
			detail = fmt.Sprintf("composite base %s is not in the table", base)
		}
		for _, i := range idx {
			if t.entries[i].Composite != nil {
				detail = fmt.Sprintf("composite base %s is itself composite", base)
				break
			}
		}
		if detail == "" {
			continue
		}
		errs = multierr.Append(errs, errors.New(errors.PhaseValidate, errors.KindMalformedEntry).
			Record(t.recNo[e.Seq]).
			Symbol(e.Group, e.Symbol).
			Version(e.GameVersion.String()).
			Detail("%s", detail).
			Build())
	}
	return errs
}

// Meta returns the source file metadata.
func (t *Table) Meta() Meta {
	return t.meta
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns every entry in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.clone()
	}
	return out
}

// AllEntriesFor returns the entries named symbol in any group, in insertion
// order. An unknown symbol yields an empty slice.
func (t *Table) AllEntriesFor(symbol string) []Entry {
	return t.collect(t.bySymbol[symbol])
}

// GroupEntriesFor returns the entries for symbol within group, in insertion
// order. The empty group selects process-level entries.
func (t *Table) GroupEntriesFor(group, symbol string) []Entry {
	return t.collect(t.byKey[Key{Group: group, Symbol: symbol}])
}

func (t *Table) collect(idx []int) []Entry {
	out := make([]Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.entries[i].clone())
	}
	return out
}

// Has reports whether any entry exists for k.
func (t *Table) Has(k Key) bool {
	_, ok := t.byKey[k]
	return ok
}

// Keys returns every (group, symbol) pair in first-seen order.
func (t *Table) Keys() []Key {
	return append([]Key(nil), t.keys...)
}

// Groups returns the distinct named groups, sorted.
func (t *Table) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range t.keys {
		if k.Group != "" && !seen[k.Group] {
			seen[k.Group] = true
			out = append(out, k.Group)
		}
	}
	sort.Strings(out)
	return out
}

// Versions returns the distinct recorded game versions, oldest first.
func (t *Table) Versions() []version.Version {
	var out []version.Version
	for _, e := range t.entries {
		if !e.Versioned() {
			continue
		}
		dup := false
		for _, v := range out {
			if v.Equal(e.GameVersion) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e.GameVersion)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Latest returns the newest recorded game version, or the zero Version.
func (t *Table) Latest() version.Version {
	vs := t.Versions()
	if len(vs) == 0 {
		return t.meta.GameVersion
	}
	latest := vs[len(vs)-1]
	if t.meta.GameVersion.Compare(latest) > 0 {
		return t.meta.GameVersion
	}
	return latest
}

// Document converts the table back to its input form.
func (t *Table) Document() Document {
	doc := Document{Meta: t.meta, Entries: make([]Record, len(t.entries))}
	for i, e := range t.entries {
		doc.Entries[i] = e.Record()
	}
	return doc
}

func (t *Table) String() string {
	return fmt.Sprintf("table(%s: %d entries, %d keys)", t.meta.Source, len(t.entries), len(t.keys))
}
