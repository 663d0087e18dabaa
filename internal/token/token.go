// Package token holds the opaque CI provider credential.
package token

import "fmt"

// Redacted is the sentinel substituted for the real value in every
// diagnostic rendering of a Token.
const Redacted = "<redacted>"

// Token wraps a bearer credential so that it can never leak into a log
// line or an error message by accident.
type Token struct {
	value string
}

// New wraps value in a Token.
func New(value string) Token {
	return Token{value: value}
}

// String returns the underlying credential for use in an Authorization
// header. Callers must not pass this to a logger or error.
func (t Token) String() string {
	return t.value
}

// IsZero reports whether the token carries no credential.
func (t Token) IsZero() bool {
	return t.value == ""
}

// GoString implements fmt.GoStringer so that %#v never reveals the value.
func (t Token) GoString() string {
	return Redacted
}

// Format implements fmt.Formatter so every verb (%v, %s, %q, ...) redacts.
func (t Token) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(Redacted))
}
