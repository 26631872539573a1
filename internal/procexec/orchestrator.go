// Package procexec is the process orchestrator: it walks the AST the
// parser builds and turns each Command or Pipeline into real
// processes, wiring redirections and pipes, assigning process groups,
// and handing the controlling terminal to and from the foreground job.
package procexec

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"gosh/internal/ast"
	"gosh/internal/builtin"
	"gosh/internal/jobctl"
	"gosh/internal/parser"
)

// Orchestrator runs AST roots against a job table, handling the
// terminal handoff and reaping an interactive shell needs.
type Orchestrator struct {
	jobs        *jobctl.Table
	reaper      *jobctl.Reaper
	interactive bool
	shellPgid   int
	ttyFd       int
	prompter    parser.HeredocPrompter
}

type noPrompter struct{}

func (noPrompter) ReadLine(prompt string) (string, bool) { return "", false }

// New creates an orchestrator. interactive controls whether terminal
// handoff happens at all: it requires a controlling terminal, which a
// non-interactive invocation (e.g. -c) doesn't have reliable ownership
// of. Forked children are put in their own process group either way.
func New(interactive bool) *Orchestrator {
	table := jobctl.NewTable()
	o := &Orchestrator{
		jobs:        table,
		reaper:      jobctl.NewReaper(table),
		interactive: interactive,
		ttyFd:       int(os.Stdin.Fd()),
		prompter:    noPrompter{},
	}
	o.shellPgid = unix.Getpgrp()
	builtin.SetJobManager(o)
	return o
}

// Reaper returns the reaper the shell's main loop should drain at
// prompt boundaries and install SIGCHLD notification for.
func (o *Orchestrator) Reaper() *jobctl.Reaper {
	return o.reaper
}

// SetPrompter installs the heredoc line source used both for the top
// level and, recursively, for command substitutions this orchestrator
// runs via RunForOutput.
func (o *Orchestrator) SetPrompter(p parser.HeredocPrompter) {
	o.prompter = p
}

// Run executes one parsed line against the real terminal's stdio. line
// is the original source text, kept only for display: a job's
// CommandText comes from line, not from any one stage's program name,
// so "jobs"/"fg"/"bg" and Stopped/Done messages show the full command
// the user typed.
func (o *Orchestrator) Run(root *ast.Root, line string) error {
	if root.IsNil() {
		return nil
	}
	return o.runRoot(root, line, false, StdIO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
}

// RunForOutput implements parser.CommandRunner: it recursively parses
// and runs command into a pipe, draining the pipe to EOF before
// reporting the captured output, so a command that writes more than
// one pipe buffer's worth of output can never deadlock against the
// shell that's waiting on it.
func (o *Orchestrator) RunForOutput(command string) (string, error) {
	root, err := parser.ParseLine(command, o, o.prompter)
	if err != nil {
		return "", err
	}
	if root.IsNil() {
		return "", nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	runErrCh := make(chan error, 1)
	go func() {
		defer w.Close()
		runErrCh <- o.runRoot(root, command, false, StdIO{Stdin: os.Stdin, Stdout: w, Stderr: os.Stderr})
	}()

	data, readErr := io.ReadAll(r)
	r.Close()
	runErr := <-runErrCh
	if runErr != nil {
		return "", runErr
	}
	if readErr != nil {
		return "", readErr
	}

	return parser.StripTrailingNewline(string(data)), nil
}

func (o *Orchestrator) runRoot(root *ast.Root, line string, background bool, std StdIO) error {
	if root.IsNil() {
		return nil
	}
	if root.Background != nil {
		// line still carries the trailing "&" the parser split on;
		// strip it here so CommandText stores the bare command and
		// callers that display it (jobs, bg) can append their own "&"
		// without doubling up.
		bare := strings.TrimSuffix(strings.TrimSpace(line), "&")
		return o.runRoot(root.Background, strings.TrimSpace(bare), true, std)
	}
	if root.Command != nil {
		return o.runCommand(root.Command, line, background, std)
	}
	return o.runPipeline(root.Pipeline, line, background, std)
}

func envMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				env[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return env
}

func reportExecError(name string, err error) {
	fmt.Fprintf(os.Stderr, "%s: exec failed: %v\n", name, err)
}
