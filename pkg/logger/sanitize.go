package logger

import "strings"

// Query parameters whose presence marks the whole query string as
// unloggable. Search filters like email= are operational admin data
// and stay loggable.
var sensitiveParams = []string{"password", "token", "secret", "auth"}

// SanitizedEmail masks an email address for logging, keeping only the
// first character of the local part and the TLD: "o**@*******.com".
func SanitizedEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "[invalid-email]"
	}

	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	labels := strings.Split(domain, ".")
	if len(labels) > 1 {
		for i := range labels[:len(labels)-1] {
			labels[i] = strings.Repeat("*", len(labels[i]))
		}
		domain = strings.Join(labels, ".")
	}

	return local + "@" + domain
}

// SanitizeQueryString reports whether a raw query string carries a
// credential-bearing parameter and must be redacted wholesale.
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
