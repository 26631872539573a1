package lexer

// Tokenize consumes a single pipeline stage's raw text left to right and
// produces its token sequence. Quoting and escaping rules:
//
//   - backslash outside single quotes escapes the next byte into the
//     current token verbatim; inside single quotes it is literal.
//   - a single quote toggles the single-quote state unless currently
//     inside double quotes; it is never itself emitted.
//   - a double quote toggles the double-quote state unless currently
//     inside single quotes; it is never itself emitted.
//   - unquoted whitespace ends the current token; zero-length tokens
//     are discarded, collapsing adjacent whitespace, except that an
//     explicitly quoted empty span (a pair of quotes with nothing
//     between them) yields an empty token.
//
// An input that ends still inside a quoted span is a parse error.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	var cur []byte
	curOrigin := Bare
	sawAny := false

	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if len(cur) > 0 || sawAny {
			tokens = append(tokens, Token{Text: string(cur), Origin: curOrigin})
		}
		cur = cur[:0]
		curOrigin = Bare
		sawAny = false
	}

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escaped {
			cur = append(cur, c)
			escaped = false
			sawAny = true
			continue
		}

		switch {
		case c == '\\' && !inSingle:
			escaped = true
			sawAny = true
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			if curOrigin == Bare {
				curOrigin = SingleQuoted
			}
			sawAny = true
		case c == '"' && !inSingle:
			inDouble = !inDouble
			if curOrigin == Bare {
				curOrigin = DoubleQuoted
			}
			sawAny = true
		case (c == ' ' || c == '\t') && !inSingle && !inDouble:
			flush()
		default:
			cur = append(cur, c)
			sawAny = true
		}
	}

	if inSingle || inDouble {
		return nil, ErrUnterminatedQuote
	}
	if escaped {
		// a trailing lone backslash is treated as a literal backslash
		cur = append(cur, '\\')
	}
	flush()

	return tokens, nil
}
