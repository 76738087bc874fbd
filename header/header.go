package header

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/susu753/apexub/errors"
	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/table"
	"github.com/susu753/apexub/version"
)

// Options controls how a header is imported.
type Options struct {
	// Source names the document; ParseFile defaults it to the file name.
	Source string
	// Absolute lists macros (by macro name or imported symbol) whose value
	// is an address relative to the process image rather than a field offset.
	Absolute []string
}

var (
	dateLine    = regexp.MustCompile(`(?i)^//\s*date\s*[:=]?\s*(\S+)\s*$`)
	versionLine = regexp.MustCompile(`(?i)^//\s*game\s*version\s*[:=]\s*(\S+)\s*$`)
	defineLine  = regexp.MustCompile(`^#\s*define\s+([A-Za-z_]\w*)(.*)$`)
	formulaLine = regexp.MustCompile(`^//\s*([A-Za-z_]\w*)\s*:\s*([A-Za-z_]\w*)\s*\+\s*(\w+)\s*\*\s*([A-Za-z_]\w*)\s*(?:([+-])\s*(\w+))?\s*$`)

	sourceTag = regexp.MustCompile(`\[([^\]]*)\]`)
	datedNote = regexp.MustCompile(`(?i)(?:\bupdated\s*:?\s*)?(\d{1,2}/\d{1,2}/\d{4})`)
)

// define is one #define line before it becomes a record.
type define struct {
	macro string
	rec   table.Record
	date  version.Date
	line  int
}

// formula is a composite comment waiting for its base to be matched.
type formula struct {
	name   string
	base   string
	index  string
	stride int64
	field  int64
	line   int
}

type parser struct {
	opts     Options
	meta     table.Meta
	defines  []*define
	formulas []formula
	order    []int // record slot per define (>= 0) or formula (< 0)
	errs     error
}

// Parse reads a legacy offsets header.
// Every malformed line is reported; no document is returned on error.
// Record numbers in errors are line numbers.
func Parse(r io.Reader, opts Options) (*table.Document, error) {
	p := &parser{opts: opts}
	p.meta.Source = opts.Source

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		p.line(line, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.PhaseImport, errors.KindInvalidData, err, "read header")
	}

	doc := p.document()
	if p.errs != nil {
		Logger().Debug("header import failed",
			zap.String("source", opts.Source),
			zap.Int("errors", len(multierr.Errors(p.errs))))
		return nil, p.errs
	}

	Logger().Debug("header imported",
		zap.String("source", opts.Source),
		zap.String("game_version", p.meta.GameVersion.String()),
		zap.String("updated", p.meta.Updated.String()),
		zap.Int("records", len(doc.Entries)))
	return doc, nil
}

// ParseFile imports the header at path.
func ParseFile(path string, opts Options) (*table.Document, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseImport, errors.KindNotFound, err, "open header")
	}
	defer fh.Close()
	if opts.Source == "" {
		opts.Source = filepath.Base(path)
	}
	return Parse(fh, opts)
}

func (p *parser) fail(err error) {
	p.errs = multierr.Append(p.errs, err)
}

func (p *parser) malformed(line int, symbol, format string, args ...any) {
	p.fail(errors.MalformedEntry(errors.PhaseImport, line, symbol, fmt.Sprintf(format, args...)))
}

func (p *parser) line(n int, s string) {
	if s == "" {
		return
	}

	if m := dateLine.FindStringSubmatch(s); m != nil {
		d, err := version.ParseDate(m[1])
		if err != nil {
			p.fail(errors.New(errors.PhaseImport, errors.KindInvalidData).Record(n).Cause(err).Detail("header date").Build())
			return
		}
		p.meta.Updated = d
		return
	}
	if m := versionLine.FindStringSubmatch(s); m != nil {
		v, err := version.Parse(m[1])
		if err != nil {
			p.fail(errors.New(errors.PhaseImport, errors.KindInvalidData).Record(n).Cause(err).Detail("header game version").Build())
			return
		}
		p.meta.GameVersion = v
		return
	}
	if m := formulaLine.FindStringSubmatch(s); m != nil {
		p.formula(n, m)
		return
	}
	if m := defineLine.FindStringSubmatch(s); m != nil {
		p.define(n, m[1], m[2])
		return
	}
	// Other comments and preprocessor lines carry no offsets.
}

func (p *parser) define(n int, macro, rest string) {
	sym := Symbol(macro)
	expr, comment, _ := strings.Cut(rest, "//")
	expr = strings.TrimSpace(expr)
	if expr == "" {
		// Include guards and feature flags define a name without a value.
		Logger().Debug("skipping define without value", zap.String("macro", macro), zap.Int("line", n))
		return
	}
	v, err := literal.Eval(expr)
	if err != nil {
		p.fail(errors.New(errors.PhaseImport, errors.KindMalformedEntry).
			Record(n).
			Symbol("", sym).
			Cause(err).
			Detail("value of %s", macro).
			Build())
		return
	}

	d := &define{macro: macro, line: n}
	d.rec = table.Record{
		Symbol: sym,
		Value:  &table.Number{N: v, Src: expr},
	}
	if literal.IsExpr(expr) {
		d.rec.Expr = expr
	}
	if err := annotate(&d.rec, &d.date, comment); err != nil {
		p.fail(errors.New(errors.PhaseImport, errors.KindMalformedEntry).
			Record(n).
			Symbol("", sym).
			Cause(err).
			Detail("comment of %s", macro).
			Build())
		return
	}

	p.order = append(p.order, len(p.defines))
	p.defines = append(p.defines, d)
}

func (p *parser) formula(n int, m []string) {
	f := formula{name: m[1], base: m[2], index: m[4], line: n}
	var err error
	if f.stride, err = literal.Eval(m[3]); err != nil {
		p.malformed(n, Symbol(f.name), "stride %q: %v", m[3], err)
		return
	}
	if m[6] != "" {
		if f.field, err = literal.Eval(m[5] + m[6]); err != nil {
			p.malformed(n, Symbol(f.name), "field offset %q: %v", m[6], err)
			return
		}
	}
	p.order = append(p.order, -1-len(p.formulas))
	p.formulas = append(p.formulas, f)
}

// annotate fills field, source, date, confidence and note from the
// comment segments following a #define value.
func annotate(rec *table.Record, date *version.Date, comment string) error {
	guessed := false
	var notes []string
	for _, seg := range strings.Split(comment, "//") {
		if m := sourceTag.FindStringSubmatch(seg); m != nil {
			rec.Source = strings.TrimSpace(m[1])
			seg = sourceTag.ReplaceAllString(seg, "")
		}

		before, after := seg, ""
		if loc := datedNote.FindStringSubmatchIndex(seg); loc != nil {
			d, err := version.ParseDate(seg[loc[2]:loc[3]])
			if err != nil {
				return err
			}
			*date = d
			before, after = seg[:loc[0]], seg[loc[1]:]
		}

		before = strings.TrimSpace(before)
		if before != "" {
			if rec.Field == "" {
				if strings.HasSuffix(before, "?") {
					guessed = true
					before = strings.TrimSpace(strings.TrimSuffix(before, "?"))
				}
				rec.Field = before
			} else {
				notes = append(notes, before)
			}
		}
		if after = strings.TrimSpace(after); after != "" {
			notes = append(notes, after)
		}
	}

	rec.Note = strings.Join(notes, "; ")
	switch {
	case guessed:
		rec.Confidence = table.ConfidenceGuessed.String()
	case !date.IsZero():
		rec.Confidence = table.ConfidenceVerified.String()
	}
	if !date.IsZero() {
		rec.LastUpdated = date.String()
	}
	return nil
}

func (p *parser) document() *table.Document {
	absolute := make(map[string]bool, len(p.opts.Absolute))
	for _, name := range p.opts.Absolute {
		absolute[name] = false
	}

	for _, d := range p.defines {
		if _, ok := absolute[d.macro]; ok {
			d.rec.Absolute = true
			absolute[d.macro] = true
		}
		if _, ok := absolute[d.rec.Symbol]; ok {
			d.rec.Absolute = true
			absolute[d.rec.Symbol] = true
		}
		// Only entries touched on the day of the header's version bump
		// are known to hold for that build.
		if !p.meta.GameVersion.IsZero() && !d.date.IsZero() && d.date.Equal(p.meta.Updated) {
			d.rec.GameVersion = p.meta.GameVersion.String()
		}
	}
	for _, name := range p.opts.Absolute {
		if !absolute[name] {
			p.fail(errors.NotFound(errors.PhaseImport, "absolute macro", name))
		}
	}

	doc := &table.Document{Meta: p.meta}
	for _, slot := range p.order {
		if slot >= 0 {
			doc.Entries = append(doc.Entries, p.defines[slot].rec)
			continue
		}
		f := p.formulas[-1-slot]
		rec, ok := p.composite(f)
		if !ok {
			continue
		}
		doc.Entries = append(doc.Entries, rec)
	}
	return doc
}

func (p *parser) composite(f formula) (table.Record, bool) {
	base := p.lookup(f.base)
	if base == nil {
		p.malformed(f.line, Symbol(f.name), "formula base %q matches no #define", f.base)
		return table.Record{}, false
	}
	return table.Record{
		Symbol: Symbol(f.name),
		Group:  f.base,
		Composite: &table.CompositeRecord{
			BaseSymbol:  base.rec.Symbol,
			BaseGroup:   base.rec.Group,
			Stride:      table.Num(f.stride),
			FieldOffset: table.Num(f.field),
		},
		GameVersion: base.rec.GameVersion,
		LastUpdated: base.rec.LastUpdated,
		Confidence:  base.rec.Confidence,
		Note:        "index: " + f.index,
	}, true
}

// lookup finds the define a formula refers to by macro name, imported
// symbol or field annotation, in that order.
func (p *parser) lookup(name string) *define {
	for _, d := range p.defines {
		if d.macro == name {
			return d
		}
	}
	for _, d := range p.defines {
		if d.rec.Symbol == name {
			return d
		}
	}
	for _, d := range p.defines {
		if d.rec.Field == name {
			return d
		}
	}
	return nil
}
