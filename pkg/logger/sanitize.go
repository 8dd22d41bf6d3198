package logger

import (
	"log/slog"
	"strings"
)

// MaskedEmail keeps the first character of the local part and the TLD ("j***@*****.com")
func MaskedEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return "[invalid-email]"
	}

	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len(labels[i]))
	}

	return local + "@" + strings.Join(labels, ".")
}

// MaskedPhone keeps only the last two digits
func MaskedPhone(phone string) string {
	if len(phone) <= 2 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}

// RedactedAttr hides value outside development environments
func RedactedAttr(key, value, env string) slog.Attr {
	if env == "development" {
		return slog.String(key, value)
	}
	return slog.String(key, "[REDACTED]")
}

var sensitiveQueryParams = []string{"phone", "email", "token", "access_token", "secret"}

// HasSensitiveQuery reports whether rawQuery carries personal data or credentials
func HasSensitiveQuery(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveQueryParams {
		if strings.Contains(query, param+"=") {
			return true
		}
	}
	return false
}
