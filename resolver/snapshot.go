package resolver

import (
	"go.uber.org/zap"

	"github.com/susu753/apexub/errors"
	"github.com/susu753/apexub/table"
	"github.com/susu753/apexub/version"
)

// Failure is a key that could not be resolved in a snapshot.
type Failure struct {
	Err error
	Key table.Key
}

// Snapshot is every resolvable key of a table at one game version.
type Snapshot struct {
	Version  version.Version
	Resolved []Resolution
	// Indexed lists composite keys; they need an index per call.
	Indexed  []table.Key
	Failures []Failure
}

// Lookup returns the resolution for k, if present.
func (s *Snapshot) Lookup(k table.Key) (Resolution, bool) {
	for _, r := range s.Resolved {
		if r.Key == k {
			return r, true
		}
	}
	return Resolution{}, false
}

// Snapshot resolves every non-composite key at gameVersion, in table order.
// Keys without an applicable entry are reported as failures rather than
// aborting the snapshot.
func (r *Resolver) Snapshot(gameVersion string) (*Snapshot, error) {
	v, err := version.Parse(gameVersion)
	if err != nil {
		return nil, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
			Version(gameVersion).
			Cause(err).
			Detail("requested version").
			Build()
	}

	snap := &Snapshot{Version: v}
	for _, k := range r.table.Keys() {
		entries := r.table.GroupEntriesFor(k.Group, k.Symbol)
		if hasComposite(entries) {
			snap.Indexed = append(snap.Indexed, k)
			continue
		}
		res, err := r.resolve(Request{Symbol: k.Symbol, Group: k.Group, Version: gameVersion, Scoped: true}, v)
		if err != nil {
			snap.Failures = append(snap.Failures, Failure{Key: k, Err: err})
			continue
		}
		snap.Resolved = append(snap.Resolved, res)
	}

	r.logger.Debug("snapshot",
		zap.String("version", v.String()),
		zap.Int("resolved", len(snap.Resolved)),
		zap.Int("indexed", len(snap.Indexed)),
		zap.Int("failed", len(snap.Failures)))
	return snap, nil
}

func hasComposite(entries []table.Entry) bool {
	for _, e := range entries {
		if e.IsComposite() {
			return true
		}
	}
	return false
}
