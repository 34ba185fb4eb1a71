// Package sensitive flags text that solicits secrets. It is a pattern-based
// speed bump, not redaction: false negatives are expected and accepted.
package sensitive

import "regexp"

// Patterns cover one-time codes, passwords/PINs, SSNs, last-4-digit requests,
// CVV/CVC and bank routing/account numbers.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(one[\s-]?time\s+(code|password|pin)|otp)\b`),
	regexp.MustCompile(`(?i)\b(verification|security|auth(orization)?)\s+code\b`),
	regexp.MustCompile(`(?i)\bpassword\b`),
	regexp.MustCompile(`(?i)\bpin\s*(number|code)?\b`),
	regexp.MustCompile(`(?i)\b(ssn|social\s+security)\b`),
	regexp.MustCompile(`(?i)\blast\s+(4|four)\s+(digits?)\b`),
	regexp.MustCompile(`(?i)\b(cvv|cvc)\b`),
	regexp.MustCompile(`(?i)\b(card|credit\s+card|debit\s+card)\s+number\b`),
	regexp.MustCompile(`(?i)\b(routing|account)\s+number\b`),
	regexp.MustCompile(`(?i)\bfull\s+card\b`),
}

// LooksSensitive reports whether text appears to request a secret.
func LooksSensitive(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
