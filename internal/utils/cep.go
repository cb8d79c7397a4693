package utils

// CleanCEP removes every non-digit character from a CEP
func CleanCEP(cep string) string {
	return OnlyDigits(cep)
}

// MaskCEP formats up to 8 digits as NNNNN-NNN. Five digits or fewer are
// returned unchanged so a partially typed code stays readable.
func MaskCEP(raw string) string {
	d := OnlyDigits(raw)
	if len(d) > CEPLength {
		d = d[:CEPLength]
	}
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

