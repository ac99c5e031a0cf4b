package customer

import "strings"

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF checks length and both check digits of a CPF. Punctuation is ignored.
func ValidCPF(s string) bool {
	d := Digits(s)
	if len(d) != 11 || repeated(d) {
		return false
	}
	return checkDigit(d[:9], weights(10, 9)) == d[9] &&
		checkDigit(d[:10], weights(11, 10)) == d[10]
}

// ValidCNPJ checks length and both check digits of a CNPJ. Punctuation is ignored.
func ValidCNPJ(s string) bool {
	d := Digits(s)
	if len(d) != 14 || repeated(d) {
		return false
	}
	first := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	second := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(d[:12], first) == d[12] &&
		checkDigit(d[:13], second) == d[13]
}

// FormatDocument renders a CPF or CNPJ with its usual punctuation. Values
// of any other length are returned as given.
func FormatDocument(s string) string {
	d := Digits(s)
	switch len(d) {
	case 11:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	case 14:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
	return s
}

// FormatCEP renders 8 digits as 00000-000.
func FormatCEP(s string) string {
	d := Digits(s)
	if len(d) != 8 {
		return s
	}
	return d[:5] + "-" + d[5:]
}

func weights(start, n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = start - i
	}
	return w
}

func checkDigit(digits string, w []int) byte {
	sum := 0
	for i := range digits {
		sum += int(digits[i]-'0') * w[i]
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}

func repeated(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}
