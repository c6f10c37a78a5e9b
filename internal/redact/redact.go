// Package redact masks sensitive values before they reach the logs:
// credentials embedded in connection strings, password assignments and
// email addresses.
package redact

import (
	"net/url"
	"regexp"
	"strings"
)

// Placeholders substituted for redacted values.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

var (
	// scheme://user:password@ in URLs and URL-shaped DSNs
	dbConnRegex = regexp.MustCompile(`(?i)([a-z][a-z0-9+.-]*://)[^@/\s]+@`)

	// password=secret in key/value DSNs and driver messages
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)(\s*[=:]\s*)('[^']*'|"[^"]*"|[^\s&;]+)`)

	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String redacts credentials and email addresses from input.
func String(input string) string {
	if input == "" {
		return input
	}

	result := dbConnRegex.ReplaceAllString(input, "${1}"+RedactedCredentialPlaceholder+"@")
	result = passwordRegex.ReplaceAllString(result, "${1}${2}"+RedactedCredentialPlaceholder)
	result = emailRegex.ReplaceAllString(result, RedactedEmailPlaceholder)
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Email keeps the first character of the local part and the domain so log
// lines stay correlatable without exposing the address.
func Email(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return RedactedEmailPlaceholder
	}
	return email[:1] + "***" + email[at:]
}

// DatabaseURL masks the password of a connection URL. Inputs that do not
// parse as a URL with credentials go through String instead.
func DatabaseURL(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return String(dsn)
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
