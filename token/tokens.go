package token

import (
	"fmt"
	"strings"
)

// Ditto is the matrix-cell token that repeats the previous row's value in
// the same column.
const Ditto = "^"

// IsKeyToken reports whether s is a valid object key: [a-z_][a-z0-9_]*.
func IsKeyToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	if c != '_' && (c < 'a' || c > 'z') {
		return false
	}
	for i := 1; i < len(s); i++ {
		c = s[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// IsTypeName reports whether s is a valid type name: [A-Z][A-Za-z0-9]*.
func IsTypeName(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	if c < 'A' || c > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c = s[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// IsIDToken reports whether s is a valid row identifier:
// [a-z_][a-z0-9_-]*, ASCII only.
func IsIDToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	if c != '_' && (c < 'a' || c > 'z') {
		return false
	}
	for i := 1; i < len(s); i++ {
		c = s[i]
		if c == '_' || c == '-' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// IsAliasKey reports whether s is a valid alias key: '%' followed by a key
// token.
func IsAliasKey(s string) bool {
	return len(s) > 1 && s[0] == '%' && IsKeyToken(s[1:])
}

// ParseReference splits a reference token of the form "@id" or "@Type:id"
// into its parts. typeName is empty for unqualified references.
func ParseReference(s string) (typeName, id string, err error) {
	if len(s) < 2 || s[0] != '@' {
		return "", "", fmt.Errorf("%w: %q", ErrReference, s)
	}
	body := s[1:]
	if t, i, ok := strings.Cut(body, ":"); ok {
		if !IsTypeName(t) {
			return "", "", fmt.Errorf("%w: invalid type name in %q", ErrReference, s)
		}
		if !IsIDToken(i) {
			return "", "", fmt.Errorf("%w: invalid id in %q", ErrReference, s)
		}
		return t, i, nil
	}
	if !IsIDToken(body) {
		return "", "", fmt.Errorf("%w: invalid id in %q", ErrReference, s)
	}
	return "", body, nil
}
