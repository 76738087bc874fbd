// Package version parses and orders game build identifiers and normalizes
// the free-text dates attached to offset entries.
//
// Build identifiers have any number of numeric segments ("v3.0.75.30") and
// compare segment by segment. Dates accept the US spellings found in legacy
// headers ("7/29/2024") and always render as ISO "2024-07-29".
package version
