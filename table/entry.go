package table

import (
	"fmt"

	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/version"
)

// Kind says what an entry's value is measured from.
type Kind uint8

const (
	// Relative values are byte offsets from a structure or group base.
	Relative Kind = iota
	// Absolute values are addresses relative to the process image base.
	Absolute
)

func (k Kind) String() string {
	switch k {
	case Relative:
		return "relative"
	case Absolute:
		return "absolute"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Confidence records how much a value has been checked.
type Confidence uint8

const (
	ConfidenceUnknown Confidence = iota
	ConfidenceGuessed
	ConfidenceVerified
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceUnknown:
		return "unknown"
	case ConfidenceGuessed:
		return "guessed"
	case ConfidenceVerified:
		return "verified"
	default:
		return fmt.Sprintf("confidence(%d)", uint8(c))
	}
}

// ParseConfidence accepts "", "unknown", "guessed" and "verified".
func ParseConfidence(s string) (Confidence, error) {
	switch s {
	case "", "unknown":
		return ConfidenceUnknown, nil
	case "guessed":
		return ConfidenceGuessed, nil
	case "verified":
		return ConfidenceVerified, nil
	}
	return ConfidenceUnknown, fmt.Errorf("unknown confidence %q", s)
}

// Key identifies a symbol within its owning group.
// The empty group is the process image itself.
type Key struct {
	Group  string
	Symbol string
}

func (k Key) String() string {
	if k.Group == "" {
		return k.Symbol
	}
	return k.Group + "." + k.Symbol
}

// Composite is an offset computed per call as
// base + Stride*index + FieldOffset.
type Composite struct {
	BaseSymbol  string
	BaseGroup   string
	Stride      int64
	FieldOffset int64
}

// Base returns the key of the entry the formula starts from.
func (c Composite) Base() Key {
	return Key{Group: c.BaseGroup, Symbol: c.BaseSymbol}
}

func (c Composite) String() string {
	return fmt.Sprintf("%s + %s*index + %s", c.Base(), literal.Hex(c.Stride), literal.Hex(c.FieldOffset))
}

// Entry is one memory-layout fact for one game version.
type Entry struct {
	Symbol      string
	Group       string
	GameVersion version.Version
	LastUpdated version.Date
	Composite   *Composite
	Field       string
	Source      string
	Expr        string
	Note        string
	Value       int64
	Seq         int
	Kind        Kind
	Confidence  Confidence
}

func (e Entry) Key() Key {
	return Key{Group: e.Group, Symbol: e.Symbol}
}

func (e Entry) IsComposite() bool {
	return e.Composite != nil
}

// Versioned reports whether the entry was verified against a specific build.
func (e Entry) Versioned() bool {
	return !e.GameVersion.IsZero()
}

// Formula renders the value: a hex literal or the composite formula.
func (e Entry) Formula() string {
	if e.Composite != nil {
		return e.Composite.String()
	}
	return literal.Hex(e.Value)
}

// Record converts the entry back to its input form.
func (e Entry) Record() Record {
	r := Record{
		Symbol:      e.Symbol,
		Group:       e.Group,
		Absolute:    e.Kind == Absolute,
		GameVersion: e.GameVersion.String(),
		LastUpdated: e.LastUpdated.String(),
		Field:       e.Field,
		Source:      e.Source,
		Expr:        e.Expr,
		Note:        e.Note,
	}
	if e.Confidence != ConfidenceUnknown {
		r.Confidence = e.Confidence.String()
	}
	if e.Composite != nil {
		r.Composite = &CompositeRecord{
			BaseSymbol:  e.Composite.BaseSymbol,
			BaseGroup:   e.Composite.BaseGroup,
			Stride:      Num(e.Composite.Stride),
			FieldOffset: Num(e.Composite.FieldOffset),
		}
	} else {
		r.Value = Num(e.Value)
	}
	return r
}

func (e Entry) clone() Entry {
	if e.Composite != nil {
		c := *e.Composite
		e.Composite = &c
	}
	return e
}
