package lexer

import "errors"

// ErrUnterminatedQuote is returned when a line ends while still inside
// a single- or double-quoted span. The caller prints it and executes
// nothing.
var ErrUnterminatedQuote = errors.New("syntax error: unterminated quote")
