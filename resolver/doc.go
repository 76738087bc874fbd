// Package resolver selects the offset that applies to a requested game
// version and evaluates composite entries.
//
// # Usage
//
//	r := resolver.New(tbl)
//	res, err := r.Offset("itemId", "v3.0.75.30")
//	mode, err := r.Indexed("HighlightSettings", "mode", "v3.0.75.30", 2)
//
// Every Resolution carries the Provenance of the entry actually used. When
// no entry was verified against the requested build, the most recently
// updated earlier or versionless entry is served and Fallback reports true;
// the resolver also logs a warning. Use WithStrict to refuse such values.
//
// # Errors
//
// Resolution never invents an offset. Requests fail with:
//   - errors.ErrUnknownSymbol when the table has no such symbol
//   - errors.ErrUnsupportedVersion when only later builds are known
//   - errors.ErrMissingIndex when a composite entry is used without an index
//   - errors.KindAmbiguous when an unscoped symbol exists in several groups
package resolver
