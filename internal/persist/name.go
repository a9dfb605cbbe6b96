package persist

import "strings"

// DefaultProfile is the catch-all profile name.
const DefaultProfile = "default"

// SanitizeName turns a profile name into a file stem: ASCII letters and
// digits only, lower-cased.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		}
	}
	if b.Len() == 0 {
		return DefaultProfile
	}
	return b.String()
}
