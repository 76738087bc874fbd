package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // table construction
	PhaseParse    Phase = "parse"    // literal, version and date parsing
	PhaseValidate Phase = "validate" // record validation
	PhaseResolve  Phase = "resolve"  // offset resolution
	PhaseImport   Phase = "import"   // legacy header import
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedEntry     Kind = "malformed_entry"
	KindDuplicateVersion   Kind = "duplicate_version"
	KindUnknownSymbol      Kind = "unknown_symbol"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindMissingIndex       Kind = "missing_index"
	KindAmbiguous          Kind = "ambiguous"
	KindInvalidData        Kind = "invalid_data"
	KindInvalidInput       Kind = "invalid_input"
	KindOverflow           Kind = "overflow"
	KindNotFound           Kind = "not_found"
)

// Sentinels for errors.Is. They match any phase.
var (
	ErrMalformedEntry     = &Error{Kind: KindMalformedEntry}
	ErrDuplicateVersion   = &Error{Kind: KindDuplicateVersion}
	ErrUnknownSymbol      = &Error{Kind: KindUnknownSymbol}
	ErrUnsupportedVersion = &Error{Kind: KindUnsupportedVersion}
	ErrMissingIndex       = &Error{Kind: KindMissingIndex}
)

// Error is the structured error type used throughout the registry
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Symbol  string
	Group   string
	Version string
	Detail  string
	// Record is the 1-based input record number, zero when not applicable
	Record int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Record > 0 {
		fmt.Fprintf(&b, " in record %d", e.Record)
	}

	if e.Symbol != "" {
		b.WriteString(" at ")
		if e.Group != "" {
			b.WriteString(e.Group)
			b.WriteByte('.')
		}
		b.WriteString(e.Symbol)
		if e.Version != "" {
			b.WriteByte('@')
			b.WriteString(e.Version)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Symbol sets the symbol and group the error refers to
func (b *Builder) Symbol(group, symbol string) *Builder {
	b.err.Group = group
	b.err.Symbol = symbol
	return b
}

// Version sets the game version the error refers to
func (b *Builder) Version(v string) *Builder {
	b.err.Version = v
	return b
}

// Record sets the 1-based input record number
func (b *Builder) Record(i int) *Builder {
	b.err.Record = i
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the registry taxonomy

// MalformedEntry creates an error for an input record that cannot be ingested
func MalformedEntry(phase Phase, record int, symbol, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedEntry,
		Record: record,
		Symbol: symbol,
		Detail: detail,
	}
}

// DuplicateVersion creates an error for two records sharing symbol, group and version
func DuplicateVersion(record, first int, group, symbol, version string) *Error {
	v := version
	if v == "" {
		v = "unversioned"
	}
	return &Error{
		Phase:   PhaseLoad,
		Kind:    KindDuplicateVersion,
		Record:  record,
		Group:   group,
		Symbol:  symbol,
		Version: version,
		Detail:  fmt.Sprintf("%s already defined by record %d", v, first),
		Value:   first,
	}
}

// UnknownSymbol creates an error for a symbol absent from the table
func UnknownSymbol(group, symbol string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownSymbol,
		Group:  group,
		Symbol: symbol,
		Detail: "no entries",
	}
}

// UnsupportedVersion creates an error for a version with no applicable entry
func UnsupportedVersion(group, symbol, version, detail string) *Error {
	return &Error{
		Phase:   PhaseResolve,
		Kind:    KindUnsupportedVersion,
		Group:   group,
		Symbol:  symbol,
		Version: version,
		Detail:  detail,
	}
}

// MissingIndex creates an error for a composite entry resolved without an index
func MissingIndex(group, symbol, version string) *Error {
	return &Error{
		Phase:   PhaseResolve,
		Kind:    KindMissingIndex,
		Group:   group,
		Symbol:  symbol,
		Version: version,
		Detail:  "composite entry requires an index",
	}
}

// Ambiguous creates an error for a symbol present in several groups
func Ambiguous(symbol string, groups []string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindAmbiguous,
		Symbol: symbol,
		Detail: fmt.Sprintf("symbol defined in groups %s; a group is required", strings.Join(quoteAll(groups), ", ")),
		Value:  groups,
	}
}

// Overflow creates an arithmetic overflow error
func Overflow(phase Phase, symbol string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Symbol: symbol,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a table loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// All flattens err into the structured errors it contains.
// Aggregates built with multierr are expanded; plain errors are skipped.
func All(err error) []*Error {
	var out []*Error
	for _, e := range multierr.Errors(err) {
		var se *Error
		if stderrors.As(e, &se) {
			out = append(out, se)
		}
	}
	return out
}

// Has reports whether any error inside err has the given kind
func Has(err error, kind Kind) bool {
	for _, e := range All(err) {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		if s == "" {
			out[i] = "<process>"
			continue
		}
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
