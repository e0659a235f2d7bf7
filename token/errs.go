package token

import "errors"

var (
	ErrReference          = errors.New("invalid reference")
	ErrTensor             = errors.New("invalid tensor literal")
	ErrExpression         = errors.New("invalid expression")
	ErrUnclosedQuote      = errors.New("unclosed quoted string")
	ErrUnclosedExpression = errors.New("unclosed expression")
	ErrTrailingComma      = errors.New("trailing comma in row")
	ErrQuotedString       = errors.New("invalid quoted string")
	ErrRow                = errors.New("invalid row")

	// ErrLimit marks lexical resource-limit violations so callers can keep
	// oversized input distinct from malformed input.
	ErrLimit = errors.New("resource limit exceeded")
)
