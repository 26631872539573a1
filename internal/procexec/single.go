package procexec

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"gosh/internal/ast"
	"gosh/internal/builtin"
	"gosh/pkg/pathutil"
)

func (o *Orchestrator) runCommand(cmd *ast.CommandNode, line string, background bool, std StdIO) error {
	if fn, ok := builtin.Lookup(cmd.Program); ok {
		return o.runBuiltin(fn, cmd, std)
	}
	return o.runExternalSingle(cmd, line, background, std)
}

// runBuiltin always runs in the shell's own process, even when the
// user backgrounded it: a lone builtin is never forked, matching
// execute_ast_node's COMMAND case, which only forks for external
// programs.
func (o *Orchestrator) runBuiltin(fn builtin.Func, cmd *ast.CommandNode, std StdIO) error {
	stdio, cleanup, err := openRedirections(cmd.Redir, std)
	if err != nil {
		fmt.Fprintf(std.Stderr, "%s: %v\n", cmd.Program, err)
		return nil
	}
	defer cleanup()

	savedIn, savedOut, savedErr := os.Stdin, os.Stdout, os.Stderr
	os.Stdin, os.Stdout, os.Stderr = stdio.Stdin, stdio.Stdout, stdio.Stderr
	runErr := fn(cmd.Args, envMap())
	os.Stdin, os.Stdout, os.Stderr = savedIn, savedOut, savedErr

	if runErr != nil {
		fmt.Fprintf(std.Stderr, "%s: %v\n", cmd.Program, runErr)
	}
	return nil
}

func (o *Orchestrator) runExternalSingle(cmd *ast.CommandNode, line string, background bool, std StdIO) error {
	path, err := pathutil.Resolve(cmd.Program)
	if err != nil {
		fmt.Fprintf(std.Stdout, "%s: command not found\n", cmd.Program)
		return nil
	}

	stdio, cleanup, err := openRedirections(cmd.Redir, std)
	if err != nil {
		fmt.Fprintf(std.Stderr, "%s: %v\n", cmd.Program, err)
		return nil
	}
	defer cleanup()

	c := exec.Command(path, cmd.Args...)
	c.Args[0] = cmd.Program
	c.Stdin, c.Stdout, c.Stderr = stdio.Stdin, stdio.Stdout, stdio.Stderr
	c.Env = os.Environ()
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := c.Start(); err != nil {
		reportExecError(cmd.Program, err)
		return nil
	}

	pid := c.Process.Pid
	pgid := pid
	_ = unix.Setpgid(pid, pgid)

	if o.interactive && !background {
		o.setForeground(pgid)
	}

	if background {
		job := o.jobs.Add(pgid, line, []int{pid}, true)
		fmt.Fprintf(std.Stdout, "[%d] %d\n", job.ID, pgid)
		return nil
	}

	stoppedAlive, err := o.waitForeground([]int{pid})
	if o.interactive {
		o.setForeground(o.shellPgid)
	}
	if len(stoppedAlive) > 0 {
		job := o.jobs.AddStopped(pgid, line, stoppedAlive)
		fmt.Fprintf(os.Stderr, "\n[%d]+ Stopped   %s\n", job.ID, job.CommandText)
	}
	return err
}

func (o *Orchestrator) setForeground(pgid int) {
	if !o.interactive {
		return
	}
	_ = unix.IoctlSetInt(o.ttyFd, unix.TIOCSPGRP, pgid)
}
