package errors

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseResolve,
				Kind:    KindUnsupportedVersion,
				Group:   "HighlightSettings",
				Symbol:  "mode",
				Version: "v3.0.75.30",
				Detail:  "no entry at or before version",
			},
			contains: []string{"[resolve]", "unsupported_version", "HighlightSettings.mode@v3.0.75.30", "no entry"},
			excludes: []string{"record"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindDuplicateVersion,
			},
			contains: []string{"[load]", "duplicate_version"},
		},
		{
			name: "record number",
			err: &Error{
				Phase:  PhaseValidate,
				Kind:   KindMalformedEntry,
				Record: 3,
				Detail: "missing value",
			},
			contains: []string{"in record 3", "missing value"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindInvalidData,
				Detail: "parse version",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[parse]", "invalid_data", "parse version", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownSymbol,
		Symbol: "itemId",
	}

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindUnknownSymbol}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseLoad, Kind: KindUnknownSymbol}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseResolve, Kind: KindMissingIndex}) {
		t.Error("Is should not match different kind")
	}

	if !errors.Is(err, ErrUnknownSymbol) {
		t.Error("errors.Is should match the phaseless sentinel")
	}
	if errors.Is(err, ErrUnsupportedVersion) {
		t.Error("errors.Is matched the wrong sentinel")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseValidate, KindMalformedEntry).
		Symbol("HighlightSettings", "mode").
		Version("v3.0.75.30").
		Record(2).
		Value(42).
		Cause(cause).
		Detail("stride %s", "zero").
		Build()

	if err.Phase != PhaseValidate {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseValidate)
	}
	if err.Kind != KindMalformedEntry {
		t.Errorf("Kind = %v, want %v", err.Kind, KindMalformedEntry)
	}
	if err.Group != "HighlightSettings" || err.Symbol != "mode" {
		t.Errorf("Group/Symbol = %q/%q", err.Group, err.Symbol)
	}
	if err.Version != "v3.0.75.30" {
		t.Errorf("Version = %q", err.Version)
	}
	if err.Record != 2 {
		t.Errorf("Record = %d, want 2", err.Record)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "stride zero" {
		t.Errorf("Detail = %q, want 'stride zero'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("MalformedEntry", func(t *testing.T) {
		err := MalformedEntry(PhaseValidate, 1, "", "missing symbol")
		if !errors.Is(err, ErrMalformedEntry) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMalformedEntry)
		}
	})

	t.Run("DuplicateVersion", func(t *testing.T) {
		err := DuplicateVersion(4, 2, "", "yaw", "")
		if !errors.Is(err, ErrDuplicateVersion) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDuplicateVersion)
		}
		if !strings.Contains(err.Detail, "unversioned") || !strings.Contains(err.Detail, "record 2") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("UnsupportedVersion", func(t *testing.T) {
		err := UnsupportedVersion("", "yaw", "v1.0", "only later versions")
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedVersion)
		}
	})

	t.Run("MissingIndex", func(t *testing.T) {
		err := MissingIndex("HighlightSettings", "mode", "v3.0.75.30")
		if !errors.Is(err, ErrMissingIndex) {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMissingIndex)
		}
	})

	t.Run("Ambiguous", func(t *testing.T) {
		err := Ambiguous("color", []string{"", "HighlightSettings"})
		if err.Kind != KindAmbiguous {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAmbiguous)
		}
		if !strings.Contains(err.Detail, "<process>") || !strings.Contains(err.Detail, `"HighlightSettings"`) {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseLoad, "file", "offsets.json")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
	})
}

func TestAll(t *testing.T) {
	a := MalformedEntry(PhaseValidate, 1, "", "missing symbol")
	b := DuplicateVersion(3, 2, "", "yaw", "v1")
	plain := errors.New("plain")

	combined := multierr.Combine(a, plain, b)
	got := All(combined)
	if len(got) != 2 {
		t.Fatalf("All returned %d errors, want 2", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Errorf("All = %v, want [a b] in order", got)
	}

	if !Has(combined, KindDuplicateVersion) {
		t.Error("Has should find duplicate_version")
	}
	if Has(combined, KindMissingIndex) {
		t.Error("Has should not find missing_index")
	}
	if All(nil) != nil {
		t.Error("All(nil) should be nil")
	}
}
