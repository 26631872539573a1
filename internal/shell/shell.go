// Package shell wires together the parser, the process orchestrator,
// and an interactive line editor into a read-eval loop, and installs
// the signal policy an interactive job-control shell needs.
package shell

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"golang.org/x/sys/unix"

	"gosh/internal/builtin"
	"gosh/internal/parser"
	"gosh/internal/procexec"
	"gosh/internal/shellhist"
)

// Shell is one running instance: its orchestrator, its line editor,
// and its persisted history.
type Shell struct {
	orch        *procexec.Orchestrator
	rl          *readline.Instance
	history     *shellhist.History
	historyPath string
	interactive bool
	shellPgid   int
}

// New creates a shell. interactive should be true only when stdin is
// a terminal the shell can take control of; -c invocations and piped
// input pass false.
func New(interactive bool) (*Shell, error) {
	hist := shellhist.New()
	path := historyPath()
	_ = hist.Read(path)
	builtin.SetHistory(hist)

	orch := procexec.New(interactive)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          getPrompt(),
		AutoComplete:    NewCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	sh := &Shell{
		orch:        orch,
		rl:          rl,
		history:     hist,
		historyPath: path,
		interactive: interactive,
	}
	orch.SetPrompter(sh)
	return sh, nil
}

func historyPath() string {
	if p := os.Getenv("HISTFILE"); p != "" {
		return p
	}
	return shellhist.DefaultPath()
}

// ReadLine implements parser.HeredocPrompter: it re-enters the line
// editor for one more line without touching command history.
func (s *Shell) ReadLine(prompt string) (string, bool) {
	s.rl.SetPrompt(prompt)
	line, err := s.rl.Readline()
	if err != nil {
		return "", false
	}
	return line, true
}

var _ parser.HeredocPrompter = (*Shell)(nil)

// Bootstrap takes control of the controlling terminal: it puts the
// shell in its own process group and makes that group the terminal's
// foreground group, the precondition for every later tcsetpgrp call
// this shell or its jobs make. A non-interactive shell skips this
// entirely, since there may be no terminal to take.
func (s *Shell) Bootstrap() error {
	if !s.interactive {
		return nil
	}

	pid := os.Getpid()
	if err := unix.Setpgid(pid, pid); err != nil {
		return fmt.Errorf("setpgid: %w", err)
	}
	s.shellPgid = pid

	if err := unix.IoctlSetInt(int(os.Stdin.Fd()), unix.TIOCSPGRP, pid); err != nil {
		return fmt.Errorf("tcsetpgrp: %w", err)
	}

	s.installSignalPolicy()
	s.orch.Reaper().Start()
	return nil
}

// installSignalPolicy mirrors init_shell's signal table: SIGINT and
// SIGTSTP get real (mostly no-op) handlers, so execve resets them to
// default in every child; SIGQUIT, SIGTTOU, and SIGTTIN are ignored in
// the shell itself, to stop this process from stopping or dying when
// it manipulates the terminal from outside the foreground group.
func (s *Shell) installSignalPolicy() {
	signal.Ignore(syscall.SIGQUIT, syscall.SIGTTOU, syscall.SIGTTIN)

	sigint := make(chan os.Signal, 4)
	signal.Notify(sigint, syscall.SIGINT)
	go func() {
		for range sigint {
			fmt.Println()
			s.rl.Refresh()
		}
	}()

	sigtstp := make(chan os.Signal, 4)
	signal.Notify(sigtstp, syscall.SIGTSTP)
	go func() {
		for range sigtstp {
			// No-op: installing any handler (rather than SIG_IGN) is
			// enough to make execve reset SIGTSTP to its default
			// disposition in every child this shell forks.
		}
	}()
}

// Run is the read-eval loop: render a prompt, read a line, parse and
// execute it, repeat until EOF.
func (s *Shell) Run() {
	defer s.rl.Close()
	defer s.history.Write(s.historyPath)

	for {
		s.orch.Reaper().Drain()
		s.rl.SetPrompt(getPrompt())

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.history.Add(line)
		root, err := parser.ParseLine(line, s.orch, s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
			continue
		}
		if root == nil {
			continue
		}
		if err := s.orch.Run(root, line); err != nil {
			fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
		}
	}
}

// RunLine parses and runs a single line non-interactively, used by -c.
func (s *Shell) RunLine(line string) error {
	root, err := parser.ParseLine(line, s.orch, s)
	if err != nil {
		return err
	}
	if root == nil {
		return nil
	}
	return s.orch.Run(root, line)
}

func getPrompt() string {
	const (
		green = "\033[32m"
		blue  = "\033[34m"
		reset = "\033[0m"
	)

	dir, err := os.Getwd()
	if err != nil {
		return "$ "
	}
	if home := os.Getenv("HOME"); home != "" && strings.HasPrefix(dir, home) {
		dir = "~" + strings.TrimPrefix(dir, home)
	}

	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("LOGNAME")
	}
	if user == "" {
		return fmt.Sprintf("%s%s%s$ ", blue, dir, reset)
	}
	return fmt.Sprintf("%s%s%s:%s%s%s$ ", green, user, reset, blue, dir, reset)
}
