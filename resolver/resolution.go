package resolver

import (
	"github.com/susu753/apexub/table"
	"github.com/susu753/apexub/version"
)

// Request asks for the offset of one symbol at one game version.
type Request struct {
	// Index is required for composite entries and ignored otherwise.
	Index   *int64
	Symbol  string
	Group   string
	Version string
	// Scoped restricts the lookup to Group even when Group is empty.
	// Unscoped requests with an empty Group search every group.
	Scoped bool
}

// Provenance explains which entry produced a resolution.
type Provenance struct {
	GameVersion version.Version
	LastUpdated version.Date
	Source      string
	Field       string
	Seq         int
	Confidence  table.Confidence
	// Exact is set when the entry was verified against the requested
	// version; otherwise it was carried forward from an earlier build.
	Exact bool
}

// Resolution is a resolved offset and where it came from.
type Resolution struct {
	Requested  version.Version
	Index      *int64
	Base       *Resolution
	Key        table.Key
	Formula    string
	Provenance Provenance
	Offset     int64
	Kind       table.Kind
}

// Fallback reports whether any entry used was carried forward from an
// earlier or unversioned build.
func (r Resolution) Fallback() bool {
	if !r.Provenance.Exact {
		return true
	}
	return r.Base != nil && r.Base.Fallback()
}

// Address applies the offset to the matching base: the process image base
// for absolute entries, the owning structure's base for relative ones.
func (r Resolution) Address(processBase, groupBase uint64) uint64 {
	if r.Kind == table.Absolute {
		return processBase + uint64(r.Offset)
	}
	return groupBase + uint64(r.Offset)
}
