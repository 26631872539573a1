// Package ast defines the tagged-variant tree the parser produces and
// the process orchestrator walks: a Command, a Pipeline of commands,
// or either wrapped in Background.
package ast

// StdinKind identifies how a command's stdin is sourced.
type StdinKind int

const (
	StdinNone StdinKind = iota
	StdinFile
	StdinHeredoc
)

// SinkKind identifies how the stdout or stderr stream is sunk.
type SinkKind int

const (
	SinkNone SinkKind = iota
	SinkFile
)

// RedirectionSpec holds at most one source for stdin and at most one
// sink each for stdout/stderr. Later operators on the same stream in
// the original command line overwrite earlier ones, so by the time a
// RedirectionSpec is built only the last-wins value remains.
type RedirectionSpec struct {
	StdinKind StdinKind
	StdinPath string // valid when StdinKind == StdinFile
	Heredoc   string // valid when StdinKind == StdinHeredoc; captured body, trailing newlines included

	StdoutKind   SinkKind
	StdoutPath   string
	StdoutAppend bool

	StderrKind   SinkKind
	StderrPath   string
	StderrAppend bool
}

// CommandNode is a single command: its program name, the rest of its
// argv, and any redirections attached to it.
type CommandNode struct {
	Program string
	Args    []string
	Redir   RedirectionSpec
}

// PipelineNode is a left-to-right chain of one or more stages. Stage
// i's stdout feeds stage i+1's stdin unless that stage's own explicit
// redirection overrides it.
type PipelineNode struct {
	Stages []*CommandNode
}

// Root is the sum type produced by the parser: exactly one of Command,
// Pipeline, or Background is non-nil.
type Root struct {
	Command    *CommandNode
	Pipeline   *PipelineNode
	Background *Root // wraps a Command-or-Pipeline root; never nested
}

// IsNil reports whether this root carries no node at all (an empty
// line or an all-empty pipeline parses to this).
func (r *Root) IsNil() bool {
	return r == nil || (r.Command == nil && r.Pipeline == nil && r.Background == nil)
}
