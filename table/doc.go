// Package table holds the layout table: an immutable, ordered collection of
// named offset entries with their provenance.
//
// Each Entry records one fact about one game build: a symbol, its optional
// owning group, a value that is either a relative offset or a
// process-relative absolute address, and when and against which build the
// value was verified. Composite entries hold a formula
// (base + stride*index + field offset) instead of a flat value because the
// index is only known when the caller resolves them.
//
// # Loading
//
// Tables are built once from structured source data and never change:
//
//	t, err := table.LoadFile("offsets.json")
//	entries := t.AllEntriesFor("yaw")
//
// Build validates every record and fails as a whole: a record without a
// symbol or value is a malformed entry, and two records with the same
// symbol, group and game version are a duplicate. All problems are reported
// together; use errors.All to iterate them.
//
// # Formats
//
// JSON documents carry metadata and an "entries" array. JSONL files carry
// one record per line with an optional leading {"meta": ...} line. Numeric
// fields accept JSON numbers or strings such as "0x1568" and "0x224c - 0x8".
package table
