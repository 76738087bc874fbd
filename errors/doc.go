// Package errors provides structured error types for the offset registry.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the symbol, group and game version involved, the input
// record number for load failures, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindMalformedEntry).
//		Symbol("HighlightSettings", "mode").
//		Record(3).
//		Detail("composite stride must not be zero").
//		Build()
//
// Or use convenience constructors for the registry taxonomy:
//
//	err := errors.UnknownSymbol("", "itemId")
//	err := errors.MissingIndex("HighlightSettings", "mode", "v3.0.75.30")
//
// Sentinels such as ErrUnsupportedVersion match by kind in any phase:
//
//	if errors.Is(err, apexerrors.ErrUnsupportedVersion) { ... }
//
// Table construction reports every bad record at once; All flattens such an
// aggregate back into individual *Error values.
package errors
