package ast

import "strings"

// RpNumber preserves a numeric literal's exact lexeme rather than
// converting it to a native float64/int64. Two numbers compare equal
// if their Normalized text matches, which strips only a leading `+`
// on the exponent sign — every other character, including leading
// zeros and the case of `e`/`E`, is significant.
type RpNumber struct {
	Negative bool
	IntPart  string
	HasFrac  bool
	FracPart string
	HasExp   bool
	ExpLetter byte // 'e' or 'E'
	ExpSign   byte // '+', '-', or 0 when absent
	ExpPart   string
}

// ParseRpNumber decomposes a lexeme produced by lexer.Next (Number
// token) into its sign/integer/fraction/exponent parts. It assumes the
// lexeme is well-formed, which the lexer already guarantees.
func ParseRpNumber(lexeme string) RpNumber {
	var n RpNumber
	i := 0

	if i < len(lexeme) && lexeme[i] == '-' {
		n.Negative = true
		i++
	}

	start := i
	for i < len(lexeme) && isDigitByte(lexeme[i]) {
		i++
	}
	n.IntPart = lexeme[start:i]

	if i < len(lexeme) && lexeme[i] == '.' {
		i++
		start = i
		for i < len(lexeme) && isDigitByte(lexeme[i]) {
			i++
		}
		n.FracPart = lexeme[start:i]
		n.HasFrac = true
	}

	if i < len(lexeme) && (lexeme[i] == 'e' || lexeme[i] == 'E') {
		n.ExpLetter = lexeme[i]
		i++
		if i < len(lexeme) && (lexeme[i] == '+' || lexeme[i] == '-') {
			n.ExpSign = lexeme[i]
			i++
		}
		start = i
		for i < len(lexeme) && isDigitByte(lexeme[i]) {
			i++
		}
		n.ExpPart = lexeme[start:i]
		n.HasExp = true
	}

	return n
}

// Normalized renders n back to text, stripping a leading `+` exponent
// sign but otherwise reproducing the original lexeme exactly.
func (n RpNumber) Normalized() string {
	var sb strings.Builder
	if n.Negative {
		sb.WriteByte('-')
	}
	sb.WriteString(n.IntPart)
	if n.HasFrac {
		sb.WriteByte('.')
		sb.WriteString(n.FracPart)
	}
	if n.HasExp {
		sb.WriteByte(n.ExpLetter)
		if n.ExpSign == '-' {
			sb.WriteByte('-')
		}
		sb.WriteString(n.ExpPart)
	}
	return sb.String()
}

func (n RpNumber) String() string {
	return n.Normalized()
}

// Equal compares two RpNumbers on their Normalized text.
func (n RpNumber) Equal(other RpNumber) bool {
	return n.Normalized() == other.Normalized()
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
