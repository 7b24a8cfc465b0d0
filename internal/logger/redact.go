package logger

import (
	"strings"

	"go.uber.org/zap"
)

const redactedToken = "[REDACTED_TOKEN]"

// RedactEmail keeps the first two characters of the local part and the domain:
//
//	"foobar@example.com" -> "fo***@example.com"
//	"ab@ex.com"          -> "***@ex.com"
//	"no-at"              -> "***"
func RedactEmail(s string) string {
	if strings.Count(s, "@") != 1 {
		return "***"
	}

	i := strings.IndexByte(s, '@')
	local, domain := s[:i], s[i+1:]

	lr := []rune(local)
	if len(lr) > 2 {
		local = string(lr[:2]) + "***"
	} else {
		local = "***"
	}
	return local + "@" + domain
}

// Email is a zap field carrying a redacted e-mail address.
func Email(email string) zap.Field {
	return zap.String("email", RedactEmail(email))
}

// Token is a zap field that records whether a token was present, never its value.
func Token(key, token string) zap.Field {
	if token == "" {
		return zap.String(key, "")
	}
	return zap.String(key, redactedToken)
}
