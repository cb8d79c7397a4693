package utils

import "unicode/utf8"

// Expected lengths of normalized codes
const (
	CEPLength  = 8
	CNPJLength = 14
)

// OnlyDigits removes every non-digit character from raw
func OnlyDigits(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			out = append(out, raw[i])
		}
	}
	return string(out)
}

// Kind identifies which mask applies to a field
type Kind int

const (
	KindCEP Kind = iota
	KindCNPJ
)

// Mask applies the display mask for kind
func Mask(kind Kind, raw string) string {
	if kind == KindCNPJ {
		return MaskCNPJ(raw)
	}
	return MaskCEP(raw)
}

// Length returns the normalized length expected for kind
func (k Kind) Length() int {
	if k == KindCNPJ {
		return CNPJLength
	}
	return CEPLength
}

func (k Kind) String() string {
	if k == KindCNPJ {
		return "cnpj"
	}
	return "cep"
}

// Reformat masks raw while the user is typing and moves the cursor so that it
// stays after the same number of digits it followed before masking.
// cursor is a rune offset into raw; out-of-range values are clamped.
func Reformat(kind Kind, raw string, cursor int) (string, int) {
	masked := Mask(kind, raw)

	if cursor < 0 {
		cursor = 0
	}
	if n := utf8.RuneCountInString(raw); cursor > n {
		cursor = n
	}

	digitsBefore := 0
	pos := 0
	for _, r := range raw {
		if pos >= cursor {
			break
		}
		if r >= '0' && r <= '9' {
			digitsBefore++
		}
		pos++
	}

	if digitsBefore == 0 {
		return masked, 0
	}

	seen := 0
	for i := 0; i < len(masked); i++ {
		if masked[i] >= '0' && masked[i] <= '9' {
			seen++
			if seen == digitsBefore {
				return masked, i + 1
			}
		}
	}
	// digits past the mask capacity were dropped
	return masked, len(masked)
}
