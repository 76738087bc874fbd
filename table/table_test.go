package table

import (
	"errors"
	"strings"
	"sync"
	"testing"

	apexerrors "github.com/susu753/apexub/errors"
)

func rec(symbol string, value int64, gameVersion string) Record {
	return Record{Symbol: symbol, Value: Num(value), GameVersion: gameVersion}
}

func TestBuild(t *testing.T) {
	tbl, err := FromRecords(
		rec("itemId", 0x1568, "v3.0.75.30"),
		rec("yaw", 0x2244, ""),
		rec("yaw", 0x2244, "v3.0.75.30"),
		Record{Symbol: "customScriptInt", Value: Num(0x1568), Field: "m_customScriptInt"},
	)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}

	if tbl.Len() != 4 {
		t.Errorf("Len = %d, want 4", tbl.Len())
	}
	for i, e := range tbl.Entries() {
		if e.Seq != i {
			t.Errorf("entry %d has Seq %d", i, e.Seq)
		}
	}
	keys := tbl.Keys()
	if len(keys) != 3 || keys[0].Symbol != "itemId" || keys[1].Symbol != "yaw" {
		t.Errorf("Keys = %v", keys)
	}
}

func TestAllEntriesFor(t *testing.T) {
	tbl, err := FromRecords(
		rec("yaw", 0x2244, ""),
		rec("itemId", 0x1568, "v3.0.75.30"),
		Record{Symbol: "yaw", Group: "Camera", Value: Num(0x10)},
		rec("yaw", 0x2244, "v3.0.75.30"),
	)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("any group in insertion order", func(t *testing.T) {
		got := tbl.AllEntriesFor("yaw")
		if len(got) != 3 {
			t.Fatalf("got %d entries, want 3", len(got))
		}
		wantSeq := []int{0, 2, 3}
		for i, e := range got {
			if e.Symbol != "yaw" {
				t.Errorf("entry %d symbol = %q", i, e.Symbol)
			}
			if e.Seq != wantSeq[i] {
				t.Errorf("entry %d Seq = %d, want %d", i, e.Seq, wantSeq[i])
			}
		}
	})

	t.Run("single group", func(t *testing.T) {
		got := tbl.GroupEntriesFor("Camera", "yaw")
		if len(got) != 1 || got[0].Value != 0x10 {
			t.Errorf("GroupEntriesFor(Camera, yaw) = %v", got)
		}
		got = tbl.GroupEntriesFor("", "yaw")
		if len(got) != 2 {
			t.Errorf("GroupEntriesFor(\"\", yaw) returned %d entries, want 2", len(got))
		}
	})

	t.Run("unknown symbol is empty", func(t *testing.T) {
		got := tbl.AllEntriesFor("pitch")
		if got == nil || len(got) != 0 {
			t.Errorf("AllEntriesFor(pitch) = %#v, want empty non-nil slice", got)
		}
		if len(tbl.GroupEntriesFor("Camera", "itemId")) != 0 {
			t.Error("itemId is not in Camera")
		}
	})

	t.Run("returned entries are copies", func(t *testing.T) {
		got := tbl.AllEntriesFor("yaw")
		got[0].Value = 0
		if tbl.AllEntriesFor("yaw")[0].Value != 0x2244 {
			t.Error("mutating a returned entry changed the table")
		}
	})
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name   string
		rec    Record
		detail string
	}{
		{"missing symbol", Record{Value: Num(1)}, "missing symbol"},
		{"blank symbol", Record{Symbol: "  ", Value: Num(1)}, "missing symbol"},
		{"missing value", Record{Symbol: "yaw"}, "missing value"},
		{"value and composite", Record{
			Symbol:    "mode",
			Value:     Num(1),
			Composite: &CompositeRecord{BaseSymbol: "base", Stride: Num(4)},
		}, "mutually exclusive"},
		{"bad version", Record{Symbol: "yaw", Value: Num(1), GameVersion: "latest!"}, "game_version"},
		{"bad date", Record{Symbol: "yaw", Value: Num(1), LastUpdated: "yesterday"}, "last_updated"},
		{"bad confidence", Record{Symbol: "yaw", Value: Num(1), Confidence: "sure"}, "confidence"},
		{"zero stride", Record{
			Symbol:    "mode",
			Composite: &CompositeRecord{BaseSymbol: "base", Stride: Num(0)},
		}, "stride"},
		{"missing base", Record{
			Symbol:    "mode",
			Composite: &CompositeRecord{Stride: Num(4)},
		}, "base_symbol"},
		{"absolute composite", Record{
			Symbol:    "mode",
			Absolute:  true,
			Composite: &CompositeRecord{BaseSymbol: "base", Stride: Num(4)},
		}, "kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := FromRecords(rec("base", 0x100, ""), tt.rec)
			if err == nil {
				t.Fatal("expected error")
			}
			if tbl != nil {
				t.Error("a partial table was returned")
			}
			if !errors.Is(err, apexerrors.ErrMalformedEntry) {
				t.Fatalf("error = %v, want malformed entry", err)
			}
			var se *apexerrors.Error
			errors.As(err, &se)
			if se.Record != 2 {
				t.Errorf("Record = %d, want 2", se.Record)
			}
			if !strings.Contains(se.Detail, tt.detail) {
				t.Errorf("Detail = %q, want it to mention %q", se.Detail, tt.detail)
			}
		})
	}
}

func TestBuildDuplicateVersion(t *testing.T) {
	t.Run("same version", func(t *testing.T) {
		_, err := FromRecords(
			rec("itemId", 0x1568, "v3.0.75.30"),
			rec("itemId", 0x1570, "v3.0.75.30"),
		)
		if !errors.Is(err, apexerrors.ErrDuplicateVersion) {
			t.Fatalf("error = %v, want duplicate version", err)
		}
	})

	t.Run("equivalent spelling", func(t *testing.T) {
		_, err := FromRecords(
			rec("itemId", 0x1568, "v3.0.75.30"),
			rec("itemId", 0x1568, "3.0.75.30"),
		)
		if !errors.Is(err, apexerrors.ErrDuplicateVersion) {
			t.Fatalf("error = %v, want duplicate version", err)
		}
	})

	t.Run("two versionless", func(t *testing.T) {
		_, err := FromRecords(rec("yaw", 1, ""), rec("yaw", 2, ""))
		if !errors.Is(err, apexerrors.ErrDuplicateVersion) {
			t.Fatalf("error = %v, want duplicate version", err)
		}
	})

	t.Run("different groups coexist", func(t *testing.T) {
		_, err := FromRecords(
			Record{Symbol: "color", Group: "A", Value: Num(1), GameVersion: "v1"},
			Record{Symbol: "color", Group: "B", Value: Num(2), GameVersion: "v1"},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestBuildReportsEveryProblem(t *testing.T) {
	_, err := FromRecords(
		Record{Value: Num(1)},
		rec("yaw", 1, "v1"),
		rec("yaw", 2, "v1"),
		Record{Symbol: "pitch"},
	)
	all := apexerrors.All(err)
	if len(all) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(all), err)
	}
	if all[0].Kind != apexerrors.KindMalformedEntry || all[0].Record != 1 {
		t.Errorf("first = %v", all[0])
	}
	if all[1].Kind != apexerrors.KindDuplicateVersion || all[1].Record != 3 {
		t.Errorf("second = %v", all[1])
	}
	if !strings.Contains(all[1].Detail, "record 2") {
		t.Errorf("duplicate should point at record 2: %q", all[1].Detail)
	}
	if all[2].Kind != apexerrors.KindMalformedEntry || all[2].Record != 4 {
		t.Errorf("third = %v", all[2])
	}
}

func TestBuildComposite(t *testing.T) {
	base := Record{Symbol: "HighlightSettings", Value: Num(0xb0cf370), Absolute: true}
	mode := Record{
		Symbol:    "mode",
		Group:     "HighlightSettings",
		Composite: &CompositeRecord{BaseSymbol: "HighlightSettings", Stride: Num(0x34), FieldOffset: Num(0)},
	}

	t.Run("valid", func(t *testing.T) {
		tbl, err := FromRecords(base, mode)
		if err != nil {
			t.Fatal(err)
		}
		e := tbl.GroupEntriesFor("HighlightSettings", "mode")[0]
		if !e.IsComposite() {
			t.Fatal("mode should be composite")
		}
		if e.Composite.Stride != 0x34 || e.Composite.Base() != (Key{Symbol: "HighlightSettings"}) {
			t.Errorf("Composite = %+v", e.Composite)
		}
		if got := e.Formula(); got != "HighlightSettings + 0x34*index + 0x0" {
			t.Errorf("Formula = %q", got)
		}
	})

	t.Run("unknown base", func(t *testing.T) {
		_, err := FromRecords(mode)
		if !errors.Is(err, apexerrors.ErrMalformedEntry) {
			t.Fatalf("error = %v, want malformed entry", err)
		}
		if !strings.Contains(err.Error(), "not in the table") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("composite base", func(t *testing.T) {
		self := Record{
			Symbol:    "loop",
			Composite: &CompositeRecord{BaseSymbol: "loop", Stride: Num(1)},
		}
		_, err := FromRecords(self)
		if !errors.Is(err, apexerrors.ErrMalformedEntry) {
			t.Fatalf("error = %v, want malformed entry", err)
		}
		if !strings.Contains(err.Error(), "itself composite") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("base name kept verbatim", func(t *testing.T) {
		odd := Record{
			Symbol:    "mode",
			Composite: &CompositeRecord{BaseSymbol: "pct%d", Stride: Num(4)},
		}
		_, err := FromRecords(odd)
		var se *apexerrors.Error
		if !errors.As(err, &se) {
			t.Fatalf("error = %v, want *errors.Error", err)
		}
		if se.Detail != "composite base pct%d is not in the table" {
			t.Errorf("Detail = %q", se.Detail)
		}
	})
}

func TestExprCapturedFromValue(t *testing.T) {
	var n Number
	if err := n.UnmarshalJSON([]byte(`"0x224c - 0x8"`)); err != nil {
		t.Fatal(err)
	}
	tbl, err := FromRecords(Record{Symbol: "yaw", Value: &n})
	if err != nil {
		t.Fatal(err)
	}
	e := tbl.AllEntriesFor("yaw")[0]
	if e.Value != 0x2244 {
		t.Errorf("Value = %#x, want 0x2244", e.Value)
	}
	if e.Expr != "0x224c - 0x8" {
		t.Errorf("Expr = %q", e.Expr)
	}
}

func TestVersionsAndGroups(t *testing.T) {
	tbl, err := LoadFile("testdata/offsets.json")
	if err != nil {
		t.Fatal(err)
	}

	vs := tbl.Versions()
	if len(vs) != 1 || vs[0].String() != "v3.0.75.30" {
		t.Errorf("Versions = %v", vs)
	}
	if tbl.Latest().String() != "v3.0.75.30" {
		t.Errorf("Latest = %v", tbl.Latest())
	}
	groups := tbl.Groups()
	if len(groups) != 1 || groups[0] != "HighlightSettings" {
		t.Errorf("Groups = %v", groups)
	}
	if !tbl.Has(Key{Group: "HighlightSettings", Symbol: "color"}) {
		t.Error("HighlightSettings.color missing")
	}
}

func TestConcurrentReads(t *testing.T) {
	tbl, err := LoadFile("testdata/offsets.json")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if len(tbl.AllEntriesFor("yaw")) != 2 {
					t.Error("unexpected yaw entries")
					return
				}
			}
		}()
	}
	wg.Wait()
}
