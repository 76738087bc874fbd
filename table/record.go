package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/version"
)

// Number is an integer field of an input record. In JSON it may be a
// number or a string holding a literal or additive expression.
type Number struct {
	// Src is the string form the value was decoded from, if any.
	Src string
	N   int64
}

// Num returns a Number holding v.
func Num(v int64) *Number {
	return &Number{N: v}
}

// MarshalJSON writes the value as a hex string.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(literal.Hex(n.N))), nil
}

// UnmarshalJSON accepts 4648, "0x1228" and "0x224c - 0x8".
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := literal.Eval(s)
		if err != nil {
			return err
		}
		*n = Number{N: v, Src: s}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	v, err := num.Int64()
	if err != nil {
		return fmt.Errorf("value %s is not a 64-bit integer", num)
	}
	*n = Number{N: v}
	return nil
}

// CompositeRecord is the input form of Composite.
type CompositeRecord struct {
	Stride      *Number `json:"stride"`
	FieldOffset *Number `json:"field_offset,omitempty"`
	BaseSymbol  string  `json:"base_symbol"`
	BaseGroup   string  `json:"base_group,omitempty"`
}

// Record is one offset fact as written in a source file.
// Exactly one of Value and Composite must be set.
type Record struct {
	Value       *Number          `json:"value,omitempty"`
	Composite   *CompositeRecord `json:"composite,omitempty"`
	Symbol      string           `json:"symbol"`
	Group       string           `json:"group,omitempty"`
	GameVersion string           `json:"game_version,omitempty"`
	LastUpdated string           `json:"last_updated,omitempty"`
	Confidence  string           `json:"confidence,omitempty"`
	Field       string           `json:"field,omitempty"`
	Source      string           `json:"source,omitempty"`
	Expr        string           `json:"expr,omitempty"`
	Note        string           `json:"note,omitempty"`
	Absolute    bool             `json:"absolute,omitempty"`
}

// Meta describes a whole source file.
type Meta struct {
	Source      string          `json:"source,omitempty"`
	GameVersion version.Version `json:"game_version,omitzero"`
	Updated     version.Date    `json:"updated,omitzero"`
}

// Document is a parsed source file: metadata plus records in file order.
type Document struct {
	Meta
	Entries []Record `json:"entries"`
}
