package game

import (
	"math/rand/v2"
	"strings"
)

const (
	matchPrefix = "M-"
	partyPrefix = "P-"

	codeAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength      = 4
	maxCodeAttempts = 64
)

// newCode returns a short code players can type, e.g. "M-7QZ2".
func newCode(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for range codeLength {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}

// ValidCode reports whether code looks like a match or party code.
func ValidCode(code string) bool {
	if len(code) != len(matchPrefix)+codeLength {
		return false
	}
	if !strings.HasPrefix(code, matchPrefix) && !strings.HasPrefix(code, partyPrefix) {
		return false
	}
	for _, r := range code[len(matchPrefix):] {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}
