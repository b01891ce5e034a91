package common

// UnknownStr is rendered for enum values outside their declared range.
const UnknownStr = "unknown"

// Capitalize upper-cases the first ASCII letter of s.
func Capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}

	return string(s[0]-'a'+'A') + s[1:]
}

// Decapitalize lower-cases the first ASCII letter of s.
func Decapitalize(s string) string {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return s
	}

	return string(s[0]-'A'+'a') + s[1:]
}
