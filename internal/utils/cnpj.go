package utils

import "strconv"

// CleanCNPJ removes all non-numeric characters from CNPJ
func CleanCNPJ(cnpj string) string {
	return OnlyDigits(cnpj)
}

// MaskCNPJ formats up to 14 digits progressively towards XX.XXX.XXX/XXXX-XX.
// A partial input yields a partial mask, e.g. "12345" -> "12.345".
func MaskCNPJ(raw string) string {
	d := OnlyDigits(raw)
	if len(d) > CNPJLength {
		d = d[:CNPJLength]
	}

	switch n := len(d); {
	case n <= 2:
		return d
	case n <= 5:
		return d[:2] + "." + d[2:]
	case n <= 8:
		return d[:2] + "." + d[2:5] + "." + d[5:]
	case n <= 12:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:]
	default:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
}

// IsValidCNPJ validates CNPJ using the official check digit algorithm
func IsValidCNPJ(cnpj string) bool {
	cleaned := CleanCNPJ(cnpj)

	if len(cleaned) != CNPJLength {
		return false
	}

	if isAllSameDigit(cleaned) {
		return false
	}

	digits := make([]int, CNPJLength)
	for i, char := range cleaned {
		digit, err := strconv.Atoi(string(char))
		if err != nil {
			return false
		}
		digits[i] = digit
	}

	if calculateCheckDigit(digits[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) != digits[12] {
		return false
	}

	return calculateCheckDigit(digits[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) == digits[13]
}

// isAllSameDigit checks if all digits in the string are the same
func isAllSameDigit(s string) bool {
	if len(s) == 0 {
		return false
	}

	first := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}

// calculateCheckDigit calculates check digit using given weights
func calculateCheckDigit(digits []int, weights []int) int {
	sum := 0
	for i, digit := range digits {
		sum += digit * weights[i]
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// GetCNPJType returns the type of CNPJ (MATRIZ or FILIAL)
func GetCNPJType(cnpj string) string {
	cleaned := CleanCNPJ(cnpj)
	if len(cleaned) != CNPJLength {
		return "INVALID"
	}

	// The branch number is positions 8-11 (0-indexed)
	if cleaned[8:12] == "0001" {
		return "MATRIZ"
	}
	return "FILIAL"
}

// CNPJInfo holds information about a CNPJ
type CNPJInfo struct {
	Original  string `json:"original"`
	Cleaned   string `json:"cleaned"`
	Formatted string `json:"formatted"`
	Valid     bool   `json:"valid"`
	Type      string `json:"type"`
}

// AnalyzeCNPJ analyzes a CNPJ string and returns detailed information
func AnalyzeCNPJ(cnpj string) CNPJInfo {
	cleaned := CleanCNPJ(cnpj)

	return CNPJInfo{
		Original:  cnpj,
		Cleaned:   cleaned,
		Formatted: MaskCNPJ(cleaned),
		Valid:     IsValidCNPJ(cleaned),
		Type:      GetCNPJType(cleaned),
	}
}
