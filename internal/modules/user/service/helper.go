package service

import (
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex    = regexp.MustCompile(`^(\+92|0)3[0-9]{9}$`)
	hasVowelRegex = regexp.MustCompile(`[aeiouAEIOU]`)

	// Password must be at least 8 characters and include a letter, a number
	// and a symbol. Go's regexp has no lookahead, so the checks are split.
	passwordLetterRegex = regexp.MustCompile(`[A-Za-z]`)
	passwordDigitRegex  = regexp.MustCompile(`\d`)
	passwordSymbolRegex = regexp.MustCompile(`[@$!%*#?&]`)
	passwordCharsRegex  = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]{8,}$`)

	addressStructureRegex = regexp.MustCompile(`(?i)(\d+|house|road|street|block|sector|phase|town|colony|apartment|village)`)

	gibberishPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(.)\1{3,}`),      // same char repeated 4+ times
		regexp.MustCompile(`(?i)^[a-z]{8,}$`), // long sequence of letters only
		regexp.MustCompile(`^[^a-zA-Z0-9]+$`), // only symbols
	}
)

func validEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func validPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func validPassword(password string) bool {
	return passwordCharsRegex.MatchString(password) &&
		passwordLetterRegex.MatchString(password) &&
		passwordDigitRegex.MatchString(password) &&
		passwordSymbolRegex.MatchString(password)
}

func isGibberish(text string) bool {
	if !hasVowelRegex.MatchString(text) {
		return true
	}
	for _, p := range gibberishPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func validAddress(address string) bool {
	address = strings.TrimSpace(address)
	if len(address) < 5 || isGibberish(address) {
		return false
	}
	return addressStructureRegex.MatchString(address)
}
