// Package parser assembles a raw input line into an ast.Root: it runs
// command substitution, tokenization, redirection extraction, and
// heredoc capture over each pipeline stage, then builds the AST.
package parser

import (
	"gosh/internal/ast"
	"gosh/internal/lexer"
)

// ParseLine turns one line of input into an AST. runner drives
// recursive $(...) command substitution; prompter drives heredoc body
// capture. A line that is empty once parsed (e.g. all-whitespace, or a
// pipeline whose every stage is a bare redirection with no program)
// returns a nil *ast.Root and a nil error — the caller should simply
// return to the prompt.
func ParseLine(raw string, runner CommandRunner, prompter HeredocPrompter) (*ast.Root, error) {
	stageTexts, background, err := lexer.SplitStages(raw)
	if err != nil {
		return nil, err
	}

	var stages []*ast.CommandNode
	for _, stageText := range stageTexts {
		cmd, err := parseStage(stageText, runner, prompter)
		if err != nil {
			return nil, err
		}
		if cmd != nil {
			stages = append(stages, cmd)
		}
	}

	if len(stages) == 0 {
		return nil, nil
	}

	var root ast.Root
	if len(stages) == 1 {
		root.Command = stages[0]
	} else {
		root.Pipeline = &ast.PipelineNode{Stages: stages}
	}

	if background {
		inner := root
		root = ast.Root{Background: &inner}
	}

	return &root, nil
}

// parseStage parses one pipeline stage's raw text into a CommandNode,
// or nil if the stage has no program token (e.g. it was empty, or
// consisted solely of redirections).
func parseStage(stageText string, runner CommandRunner, prompter HeredocPrompter) (*ast.CommandNode, error) {
	expanded, err := ExpandSubstitutions(stageText, runner)
	if err != nil {
		return nil, err
	}

	tokens, err := lexer.Tokenize(expanded)
	if err != nil {
		return nil, err
	}

	argv, spec, err := SplitRedirections(tokens)
	if err != nil {
		return nil, err
	}

	if spec.StdinKind == ast.StdinHeredoc {
		delimiter := spec.Heredoc
		spec.Heredoc = ReadHeredoc(delimiter, prompter)
	}

	if len(argv) == 0 {
		return nil, nil
	}

	return &ast.CommandNode{
		Program: argv[0],
		Args:    argv[1:],
		Redir:   spec,
	}, nil
}
