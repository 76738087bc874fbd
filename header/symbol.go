package header

import (
	"strings"
	"unicode"
)

// Symbol converts a macro name to a registry symbol.
//
//	OFFSET_ITEM_ID     -> itemId
//	HIGHLIGHT_SETTINGS -> highlightSettings
//	Mode               -> mode
//	m_lastChargeLevel  -> m_lastChargeLevel
func Symbol(macro string) string {
	if !isMacroCase(macro) {
		if macro != "" && unicode.IsUpper(rune(macro[0])) && !strings.Contains(macro, "_") {
			return strings.ToLower(macro[:1]) + macro[1:]
		}
		return macro
	}

	name := strings.TrimPrefix(macro, "OFFSET_")
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if b.Len() > 0 {
			part = strings.ToUpper(part[:1]) + part[1:]
		}
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return macro
	}
	return b.String()
}

func isMacroCase(s string) bool {
	letters := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			letters = true
		case r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return letters
}
