// Package apexub is a registry of game memory-layout offsets.
//
// Offsets are stored as versioned facts: each entry says which game build it
// was verified against and when. A resolver answers "what is the offset of
// this field in this build" and reports where the answer came from, so
// callers can tell a verified value from one carried forward from an older
// build.
//
// # Packages
//
//	apexub/          Open, Load and Default entry points
//	├── table/       Entry types, validation and the JSON/JSONL codecs
//	├── resolver/    Version selection and composite evaluation
//	├── header/      Importer for the legacy #define header
//	├── builtin/     Embedded table for the current build
//	├── version/     Game build versions and update dates
//	├── errors/      Structured error types
//	└── cmd/offsets/ Command line tool
//
// # Quick Start
//
//	r, err := apexub.Default()
//	if err != nil {
//		return err
//	}
//	res, err := r.Offset("yaw", "v3.0.75.30")
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%#x from %s\n", res.Offset, res.Provenance.GameVersion)
//
// Tables kept as files are opened the same way. Legacy headers are imported
// on the fly:
//
//	r, err := apexub.Open("offsets.h", apexub.WithAbsolute("HIGHLIGHT_SETTINGS"))
//
// # Composite Entries
//
// Arrays of structures are described by a base entry, a stride and a field
// offset. They need an index:
//
//	res, err := r.Indexed("HighlightSettings", "mode", "v3.0.75.30", 2)
//
// # Errors
//
// All errors are *errors.Error values carrying a phase and kind:
//
//	var e *errors.Error
//	if stderrors.As(err, &e) {
//		fmt.Println(e.Phase, e.Kind, e.Symbol)
//	}
//
// Loading reports every malformed record at once; use errors.All to list
// them.
package apexub
