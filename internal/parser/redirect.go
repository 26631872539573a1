package parser

import (
	"fmt"
	"strings"

	"gosh/internal/ast"
	"gosh/internal/lexer"
)

// operators lists recognized redirection operators, longest first so
// that attached-prefix matching (e.g. "2>>" vs "2>") always prefers the
// longest operator that matches a token's prefix.
var operators = []string{"1>>", "2>>", "<<", ">>", "1>", "2>", "<", ">"}

// SplitRedirections extracts redirection operators and their operands
// from a tokenized command, returning the residual argv (program plus
// arguments, in order) and the resulting RedirectionSpec. Later
// occurrences for the same stream overwrite earlier ones. A
// redirection operator with no operand is a parse error.
func SplitRedirections(tokens []lexer.Token) ([]string, ast.RedirectionSpec, error) {
	var residual []string
	var spec ast.RedirectionSpec

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		op, attachedOperand, isOperator := matchOperator(tok)
		if !isOperator {
			residual = append(residual, tok.Text)
			continue
		}

		var operand string
		if attachedOperand != "" {
			operand = attachedOperand
		} else {
			i++
			if i >= len(tokens) {
				return nil, ast.RedirectionSpec{}, fmt.Errorf("syntax error near unexpected token `newline'")
			}
			operand = tokens[i].Text
		}

		switch op {
		case "<":
			spec.StdinKind = ast.StdinFile
			spec.StdinPath = operand
		case "<<":
			spec.StdinKind = ast.StdinHeredoc
			spec.Heredoc = operand // holds the delimiter until the heredoc is read
		case ">", "1>":
			spec.StdoutKind = ast.SinkFile
			spec.StdoutPath = operand
			spec.StdoutAppend = false
		case ">>", "1>>":
			spec.StdoutKind = ast.SinkFile
			spec.StdoutPath = operand
			spec.StdoutAppend = true
		case "2>":
			spec.StderrKind = ast.SinkFile
			spec.StderrPath = operand
			spec.StderrAppend = false
		case "2>>":
			spec.StderrKind = ast.SinkFile
			spec.StderrPath = operand
			spec.StderrAppend = true
		}
	}

	return residual, spec, nil
}

// matchOperator reports whether tok is a redirection operator, either
// standalone (operand comes from the next token, attachedOperand =="")
// or with an attached operand concatenated onto the operator. Only
// unquoted (Bare) tokens are recognized as operators, so a quoted ">"
// is ordinary text.
func matchOperator(tok lexer.Token) (op string, attachedOperand string, ok bool) {
	if tok.Origin != lexer.Bare {
		return "", "", false
	}
	for _, candidate := range operators {
		if tok.Text == candidate {
			return candidate, "", true
		}
		if strings.HasPrefix(tok.Text, candidate) && len(tok.Text) > len(candidate) {
			return candidate, tok.Text[len(candidate):], true
		}
	}
	return "", "", false
}
