package main

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/resolver"
	"github.com/susu753/apexub/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := io.WriteString(w, t.String()+"\n")
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func versionOrDash(e table.Entry) string {
	if e.Versioned() {
		return e.GameVersion.String()
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// resolutionJSON is the machine-readable form of a resolution.
type resolutionJSON struct {
	Index       *int64          `json:"index,omitempty"`
	Base        *resolutionJSON `json:"base,omitempty"`
	Key         string          `json:"key"`
	Requested   string          `json:"requested,omitempty"`
	Offset      string          `json:"offset"`
	Kind        string          `json:"kind"`
	Formula     string          `json:"formula"`
	GameVersion string          `json:"game_version,omitempty"`
	LastUpdated string          `json:"last_updated,omitempty"`
	Confidence  string          `json:"confidence"`
	Field       string          `json:"field,omitempty"`
	Source      string          `json:"source,omitempty"`
	Address     string          `json:"address,omitempty"`
	Exact       bool            `json:"exact"`
	Fallback    bool            `json:"fallback"`
}

func toJSON(r resolver.Resolution) *resolutionJSON {
	out := &resolutionJSON{
		Index:       r.Index,
		Key:         r.Key.String(),
		Requested:   r.Requested.String(),
		Offset:      literal.Hex(r.Offset),
		Kind:        r.Kind.String(),
		Formula:     r.Formula,
		GameVersion: r.Provenance.GameVersion.String(),
		LastUpdated: r.Provenance.LastUpdated.String(),
		Confidence:  r.Provenance.Confidence.String(),
		Field:       r.Provenance.Field,
		Source:      r.Provenance.Source,
		Exact:       r.Provenance.Exact,
		Fallback:    r.Fallback(),
	}
	if r.Base != nil {
		out.Base = toJSON(*r.Base)
	}
	return out
}
