package auth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"multipitch-sync/internal/apperr"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72

	defaultMaxSimilarity = 0.7
)

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "letmein1": {},
	"abc12345": {}, "trustno1": {}, "superman": {}, "11111111": {}, "00000000": {},
	"passw0rd": {}, "starwars": {}, "whatever": {}, "dragon12": {}, "master12": {},
}

// PasswordPolicy rejects passwords that are too short, too long for bcrypt,
// entirely numeric, well known, or derived from the account's own attributes.
type PasswordPolicy struct {
	MinLength int
	// MaxSimilarity is the ratio at or above which a password counts as
	// derived from an attribute.
	MaxSimilarity float64
}

func DefaultPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{MinLength: minPasswordLength, MaxSimilarity: defaultMaxSimilarity}
}

// Validate returns a validation error on the "password" field listing every
// rule the password breaks. attrs are user attributes such as username and email.
func (p *PasswordPolicy) Validate(password string, attrs ...string) error {
	var problems []string

	if len([]rune(password)) < p.MinLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.MinLength))
	}
	if len(password) > maxPasswordBytes {
		problems = append(problems, "This password is too long. It must contain at most 72 bytes.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	threshold := p.MaxSimilarity
	if threshold <= 0 {
		threshold = defaultMaxSimilarity
	}
	if attr, ok := similarAttribute(password, attrs, threshold); ok {
		problems = append(problems, "The password is too similar to the "+attr+".")
	}

	if len(problems) == 0 {
		return nil
	}
	return apperr.FieldValidation("password", problems...)
}

// similarAttribute compares the password with each attribute and with the
// attribute's word parts, so "jane.doe@example.com" is also checked as "jane",
// "doe", "example" and "com".
func similarAttribute(password string, attrs []string, threshold float64) (string, bool) {
	pw := []rune(strings.ToLower(password))
	for i, attr := range attrs {
		value := strings.ToLower(attr)
		if value == "" {
			continue
		}
		parts := append([]string{value}, nonWordPattern.Split(value, -1)...)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if similarity(pw, []rune(part)) >= threshold {
				return attributeName(i), true
			}
		}
	}
	return "", false
}

// similarity is 2*LCS/(len(a)+len(b)), where LCS is the longest common
// subsequence. Identical strings score 1.
func similarity(a, b []rune) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}

	return 2 * float64(prev[len(b)]) / float64(len(a)+len(b))
}

func attributeName(i int) string {
	switch i {
	case 0:
		return "username"
	case 1:
		return "email address"
	default:
		return "account details"
	}
}
