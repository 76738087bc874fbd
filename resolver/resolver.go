package resolver

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/susu753/apexub/errors"
	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/table"
	"github.com/susu753/apexub/version"
)

// Resolver answers offset requests against one table.
//
// Resolution is a pure function of the table and the request: the resolver
// keeps no state between calls and is safe for concurrent use.
//
// Selection for a requested version V:
//  1. An entry verified against V wins outright.
//  2. Otherwise the most recently updated entry among versionless entries
//     and entries for builds before V is carried forward.
//  3. Entries for builds after V are never used.
type Resolver struct {
	table  *table.Table
	logger *zap.Logger
	strict bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrict accepts only entries verified against the requested version.
func WithStrict() Option {
	return func(r *Resolver) { r.strict = true }
}

// WithLogger overrides the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a resolver over t.
func New(t *table.Table, opts ...Option) *Resolver {
	r := &Resolver{table: t}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = Logger()
	}
	return r
}

// Strict reports whether fallback to earlier builds is disabled.
func (r *Resolver) Strict() bool {
	return r.strict
}

// Offset resolves a non-composite symbol in any group.
func (r *Resolver) Offset(symbol, gameVersion string) (Resolution, error) {
	return r.Resolve(Request{Symbol: symbol, Version: gameVersion})
}

// Indexed resolves group.symbol with a composite index.
func (r *Resolver) Indexed(group, symbol, gameVersion string, index int64) (Resolution, error) {
	return r.Resolve(Request{Symbol: symbol, Group: group, Version: gameVersion, Index: &index, Scoped: true})
}

// Resolve returns the offset for req.
// Failures never carry a usable offset: callers must not fall back to a
// default value.
func (r *Resolver) Resolve(req Request) (Resolution, error) {
	v, err := version.Parse(req.Version)
	if err != nil {
		return Resolution{}, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
			Symbol(req.Group, req.Symbol).
			Version(req.Version).
			Cause(err).
			Detail("requested version").
			Build()
	}

	res, err := r.resolve(req, v)
	if err != nil {
		r.logger.Debug("resolve failed",
			zap.String("symbol", req.Symbol),
			zap.String("group", req.Group),
			zap.String("version", req.Version),
			zap.Error(err))
		return Resolution{}, err
	}

	if res.Fallback() {
		r.logger.Warn("serving carried-forward offset",
			zap.String("key", res.Key.String()),
			zap.String("requested", v.String()),
			zap.String("entry_version", res.Provenance.GameVersion.String()),
			zap.String("last_updated", res.Provenance.LastUpdated.String()),
			zap.String("offset", literal.Hex(res.Offset)))
	}
	return res, nil
}

func (r *Resolver) resolve(req Request, v version.Version) (Resolution, error) {
	cands, err := r.candidates(req)
	if err != nil {
		return Resolution{}, err
	}

	e, exact, err := r.selectEntry(cands, v)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{
		Requested: v,
		Key:       e.Key(),
		Formula:   e.Formula(),
		Provenance: Provenance{
			GameVersion: e.GameVersion,
			LastUpdated: e.LastUpdated,
			Source:      e.Source,
			Field:       e.Field,
			Seq:         e.Seq,
			Confidence:  e.Confidence,
			Exact:       exact,
		},
		Offset: e.Value,
		Kind:   e.Kind,
	}

	if e.Composite == nil {
		return res, nil
	}
	return r.resolveComposite(res, e, req.Index)
}

func (r *Resolver) candidates(req Request) ([]table.Entry, error) {
	if req.Group != "" || req.Scoped {
		cands := r.table.GroupEntriesFor(req.Group, req.Symbol)
		if len(cands) == 0 {
			return nil, errors.UnknownSymbol(req.Group, req.Symbol)
		}
		return cands, nil
	}

	cands := r.table.AllEntriesFor(req.Symbol)
	if len(cands) == 0 {
		return nil, errors.UnknownSymbol("", req.Symbol)
	}
	var groups []string
	seen := make(map[string]bool)
	for _, c := range cands {
		if !seen[c.Group] {
			seen[c.Group] = true
			groups = append(groups, c.Group)
		}
	}
	if len(groups) > 1 {
		return nil, errors.Ambiguous(req.Symbol, groups)
	}
	return cands, nil
}

// selectEntry picks the entry for v from candidates sharing one key.
func (r *Resolver) selectEntry(cands []table.Entry, v version.Version) (table.Entry, bool, error) {
	key := cands[0].Key()

	if !v.IsZero() {
		for _, c := range cands {
			if c.Versioned() && c.GameVersion.Equal(v) {
				return c, true, nil
			}
		}
	}

	if r.strict {
		return table.Entry{}, false, errors.UnsupportedVersion(key.Group, key.Symbol, v.String(),
			"strict resolution requires an entry for exactly this version")
	}

	best := -1
	for i, c := range cands {
		if c.Versioned() && !c.GameVersion.Before(v) {
			continue
		}
		if best < 0 || preferred(c, cands[best]) {
			best = i
		}
	}
	if best < 0 {
		detail := "no versionless entry and no entry for an earlier build"
		if v.IsZero() {
			detail = "no versionless entry and no version requested"
		}
		return table.Entry{}, false, errors.New(errors.PhaseResolve, errors.KindUnsupportedVersion).
			Symbol(key.Group, key.Symbol).
			Version(v.String()).
			Value(knownVersions(cands)).
			Detail("%s (known: %s)", detail, knownVersions(cands)).
			Build()
	}
	return cands[best], false, nil
}

// preferred orders fallback candidates: latest update, then latest build,
// then latest insertion.
func preferred(a, b table.Entry) bool {
	if c := a.LastUpdated.Compare(b.LastUpdated); c != 0 {
		return c > 0
	}
	if c := a.GameVersion.Compare(b.GameVersion); c != 0 {
		return c > 0
	}
	return a.Seq > b.Seq
}

func (r *Resolver) resolveComposite(res Resolution, e table.Entry, index *int64) (Resolution, error) {
	key := e.Key()
	if index == nil {
		return Resolution{}, errors.MissingIndex(key.Group, key.Symbol, res.Requested.String())
	}
	idx := *index
	if idx < 0 {
		return Resolution{}, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
			Symbol(key.Group, key.Symbol).
			Value(idx).
			Detail("negative index %d", idx).
			Build()
	}

	c := e.Composite
	base, err := r.resolve(Request{
		Symbol:  c.BaseSymbol,
		Group:   c.BaseGroup,
		Version: res.Requested.String(),
		Scoped:  true,
	}, res.Requested)
	if err != nil {
		kind := errors.KindInvalidData
		var se *errors.Error
		if stderrors.As(err, &se) {
			kind = se.Kind
		}
		return Resolution{}, errors.New(errors.PhaseResolve, kind).
			Symbol(key.Group, key.Symbol).
			Version(res.Requested.String()).
			Cause(err).
			Detail("base %s", c.Base()).
			Build()
	}

	offset, ok := literal.Mul(c.Stride, idx)
	if ok {
		offset, ok = literal.Add(offset, c.FieldOffset)
	}
	if ok {
		offset, ok = literal.Add(base.Offset, offset)
	}
	if !ok {
		return Resolution{}, errors.Overflow(errors.PhaseResolve, key.String(),
			fmt.Sprintf("%s with index %d overflows int64", c, idx))
	}

	res.Offset = offset
	res.Kind = base.Kind
	res.Index = &idx
	res.Base = &base
	return res, nil
}

func knownVersions(cands []table.Entry) string {
	s := ""
	for i, c := range cands {
		if i > 0 {
			s += ", "
		}
		if c.Versioned() {
			s += c.GameVersion.String()
		} else {
			s += "unversioned"
		}
	}
	return s
}
