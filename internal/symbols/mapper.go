package symbols

import "strings"

// Canonicalize converts a raw ticker symbol to the canonical form used for
// file names and snapshot keys. It uppercases the symbol, strips surrounding
// whitespace and normalizes class-share separators to a dash.
// Examples:
//
//	brk.b  -> BRK-B
//	BF.B   -> BF-B
//	AAPL   -> AAPL
//
// The function is idempotent: applying it twice yields the same result.
func Canonicalize(sym string) string {
	sym = strings.ToUpper(strings.TrimSpace(sym))
	sym = strings.ReplaceAll(sym, ".", "-")
	return sym
}

// IsValid reports whether a canonicalized symbol looks like a usable ticker.
// Empty strings and comment lines from ticker list files are rejected.
func IsValid(sym string) bool {
	if sym == "" || strings.HasPrefix(sym, "#") {
		return false
	}
	for _, r := range sym {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	return true
}
