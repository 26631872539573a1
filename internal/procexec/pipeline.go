package procexec

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"gosh/internal/ast"
	"gosh/internal/builtin"
	"gosh/pkg/pathutil"
)

// stdioSwapMu serializes the temporary os.Stdin/Stdout/Stderr swap a
// builtin running as a pipeline stage needs; real child processes
// never touch these globals (their stdio is wired directly on the
// *exec.Cmd), so this only ever matters for a pipeline with more than
// one builtin stage.
var stdioSwapMu sync.Mutex

func (o *Orchestrator) runPipeline(p *ast.PipelineNode, line string, background bool, std StdIO) error {
	if len(p.Stages) == 1 {
		return o.runCommand(p.Stages[0], line, background, std)
	}

	n := len(p.Stages)
	var pids []int
	var pgid int
	var prevReader *os.File
	var cleanups []func()
	var builtinWaits []<-chan error

	cleanupAll := func() {
		for _, c := range cleanups {
			c()
		}
	}

	for i, node := range p.Stages {
		base := StdIO{Stderr: std.Stderr}
		oldReader := prevReader
		if i == 0 {
			base.Stdin = std.Stdin
		} else {
			base.Stdin = prevReader
		}

		var pipeWriter *os.File
		if i == n-1 {
			base.Stdout = std.Stdout
		} else {
			r, w, err := os.Pipe()
			if err != nil {
				cleanupAll()
				return err
			}
			base.Stdout = w
			pipeWriter = w
			prevReader = r
		}

		stdio, cleanup, err := openRedirections(node.Redir, base)
		if err != nil {
			fmt.Fprintf(std.Stderr, "%s: %v\n", node.Program, err)
			cleanupAll()
			return nil
		}
		cleanups = append(cleanups, cleanup)

		if fn, ok := builtin.Lookup(node.Program); ok {
			done := make(chan error, 1)
			builtinWaits = append(builtinWaits, done)
			// The goroutine, not the parent, owns closing oldReader: it
			// reads the exact same *os.File (no dup happens for a
			// goroutine stage), unlike a forked child.
			go runBuiltinStage(fn, node, stdio, pipeWriter, oldReader, done)
			continue
		}

		path, err := pathutil.Resolve(node.Program)
		if err != nil {
			fmt.Fprintf(std.Stdout, "%s: command not found\n", node.Program)
			if pipeWriter != nil {
				pipeWriter.Close()
			}
			if oldReader != nil {
				oldReader.Close()
			}
			continue
		}

		c := exec.Command(path, node.Args...)
		c.Args[0] = node.Program
		c.Stdin, c.Stdout, c.Stderr = stdio.Stdin, stdio.Stdout, stdio.Stderr
		c.Env = os.Environ()
		c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: pgid}

		if err := c.Start(); err != nil {
			reportExecError(node.Program, err)
			if pipeWriter != nil {
				pipeWriter.Close()
			}
			if oldReader != nil {
				oldReader.Close()
			}
			continue
		}
		if pipeWriter != nil {
			pipeWriter.Close()
		}
		if oldReader != nil {
			oldReader.Close()
		}
		if pgid == 0 {
			pgid = c.Process.Pid
		}
		_ = unix.Setpgid(c.Process.Pid, pgid)
		pids = append(pids, c.Process.Pid)
	}
	cleanupAll()

	if pgid == 0 && len(pids) == 0 {
		// no stage was forked (each was a builtin, or an external
		// program that was not found or failed to start): no process
		// group exists, so
		// foreground/background job semantics don't apply. Just wait.
		for _, done := range builtinWaits {
			<-done
		}
		return nil
	}

	if background {
		job := o.jobs.Add(pgid, line, pids, true)
		fmt.Printf("[%d] %d\n", job.ID, pgid)
		return nil
	}

	if o.interactive {
		o.setForeground(pgid)
	}
	stoppedAlive, err := o.waitForeground(pids)
	for _, done := range builtinWaits {
		<-done
	}
	if o.interactive {
		o.setForeground(o.shellPgid)
	}
	if len(stoppedAlive) > 0 {
		job := o.jobs.AddStopped(pgid, line, stoppedAlive)
		fmt.Fprintf(os.Stderr, "\n[%d]+ Stopped   %s\n", job.ID, job.CommandText)
	}
	return err
}

func runBuiltinStage(fn builtin.Func, node *ast.CommandNode, stdio StdIO, pipeWriter, oldReader *os.File, done chan<- error) {
	stdioSwapMu.Lock()
	savedIn, savedOut, savedErr := os.Stdin, os.Stdout, os.Stderr
	os.Stdin, os.Stdout, os.Stderr = stdio.Stdin, stdio.Stdout, stdio.Stderr
	err := fn(node.Args, envMap())
	os.Stdin, os.Stdout, os.Stderr = savedIn, savedOut, savedErr
	stdioSwapMu.Unlock()

	if pipeWriter != nil {
		pipeWriter.Close()
	}
	if oldReader != nil {
		oldReader.Close()
	}
	done <- err
}
