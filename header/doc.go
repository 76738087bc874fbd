// Package header imports the legacy C header that offsets were historically
// kept in.
//
// The format is a list of #define lines with free-form trailing comments:
//
//	//Date 7/29/2024
//	//GameVersion=v3.0.75.30
//	#define OFFSET_ITEM_ID 0x1568 // item id? //updated 11/1/2023 [RecvTable.DT_OverlayVars]
//	#define HIGHLIGHT_SETTINGS 0xb0cf370 // HighlightSettings // updated 7/29/2024
//	// Mode: HighlightSettings + 0x34 * Context + 0x0
//
// Comments are read as annotations. The first free text becomes the field
// name (a trailing '?' marks it guessed), "[...]" names the source of the
// value and "updated M/D/YYYY" dates it. Entries updated on the header's
// date are recorded against the header's game version; all others are
// imported versionless and are carried forward by the resolver.
//
// Formula comments become composite entries grouped under the base name.
//
// The header does not say which values are absolute addresses; list them
// in Options.Absolute.
package header
