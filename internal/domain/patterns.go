package domain

import "regexp"

var (
	// PhoneCountryCodePattern matches phone country codes such as +34 or +1.
	PhoneCountryCodePattern = regexp.MustCompile(`^\+\d{1,4}$`)
	// PhoneNumberPattern matches phone numbers of 5 to 15 digits.
	PhoneNumberPattern = regexp.MustCompile(`^\d{5,15}$`)
	// PINPattern matches 4-digit PINs.
	PINPattern = regexp.MustCompile(`^\d{4}$`)
	// DigitsPattern matches a non-empty run of digits.
	DigitsPattern = regexp.MustCompile(`^\d+$`)
	// ISINPattern finds an ISIN: 2 letters, 9 alphanumerics, 1 check digit.
	ISINPattern = regexp.MustCompile(`([A-Z]{2}[A-Z0-9]{9}\d)`)
)

// IsISIN reports whether s is exactly one ISIN.
func IsISIN(s string) bool {
	return len(s) == 12 && ISINPattern.FindString(s) == s
}

// FindISIN returns the first ISIN contained in s.
func FindISIN(s string) (string, bool) {
	isin := ISINPattern.FindString(s)
	return isin, isin != ""
}
