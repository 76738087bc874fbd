// Package literal evaluates the integer literals and additive expressions
// that appear in offset definitions ("0x1568", "0x224c - 0x8", "-8").
package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Eval evaluates a sum of integer literals joined by '+' or '-'.
// Literals use Go/C syntax: decimal, 0x hex, 0o or leading-0 octal, 0b binary.
// A trailing C suffix (u, l, ul, ll, ull) is ignored.
func Eval(expr string) (int64, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return 0, fmt.Errorf("empty expression")
	}
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")

	var total int64
	sign := int64(1)
	expectTerm := true
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-':
			if !expectTerm {
				expectTerm = true
				sign = 1
			}
			if c == '-' {
				sign = -sign
			}
			i++
		case isDigit(c):
			if !expectTerm {
				return 0, fmt.Errorf("missing operator before %q in %q", s[i:], expr)
			}
			j := i
			for j < len(s) && isLiteralChar(s[j]) {
				j++
			}
			v, err := parseLiteral(s[i:j])
			if err != nil {
				return 0, fmt.Errorf("%q: %w", expr, err)
			}
			var ok bool
			if sign < 0 {
				total, ok = sub(total, v)
			} else {
				total, ok = add(total, v)
			}
			if !ok {
				return 0, fmt.Errorf("%q overflows int64", expr)
			}
			sign = 1
			expectTerm = false
			i = j
		default:
			return 0, fmt.Errorf("unexpected %q in %q", c, expr)
		}
	}
	if expectTerm {
		return 0, fmt.Errorf("incomplete expression %q", expr)
	}
	return total, nil
}

// IsExpr reports whether s holds more than a single literal.
func IsExpr(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return strings.ContainsAny(s[1:], "+-")
}

// Hex formats v as a signed hex literal ("0x1568", "-0x8").
func Hex(v int64) string {
	if v < 0 {
		if v == math.MinInt64 {
			return "-0x8000000000000000"
		}
		return "-0x" + strconv.FormatInt(-v, 16)
	}
	return "0x" + strconv.FormatInt(v, 16)
}

// Mul returns a*b and whether the product fits in int64.
func Mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return p, true
}

// Add returns a+b and whether the sum fits in int64.
func Add(a, b int64) (int64, bool) {
	return add(a, b)
}

func add(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

func sub(a, b int64) (int64, bool) {
	d := a - b
	if (b > 0 && d > a) || (b < 0 && d < a) {
		return 0, false
	}
	return d, true
}

func parseLiteral(lit string) (int64, error) {
	lit = strings.TrimRight(strings.ToLower(lit), "ul")
	if lit == "" {
		return 0, fmt.Errorf("empty literal")
	}
	// C octal: a leading zero followed by digits.
	if len(lit) > 1 && lit[0] == '0' && isDigit(lit[1]) {
		lit = "0o" + lit[1:]
	}
	u, err := strconv.ParseUint(lit, 0, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("literal %s overflows int64", lit)
	}
	return int64(u), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLiteralChar(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
