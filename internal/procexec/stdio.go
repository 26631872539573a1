package procexec

import (
	"os"

	"gosh/internal/ast"
)

// StdIO is the three streams a command inherits before its own
// redirections, if any, override them.
type StdIO struct {
	Stdin, Stdout, Stderr *os.File
}

// openRedirections opens the files (or heredoc pipe) named by spec,
// falling back to base for any stream spec leaves unset. The returned
// close func releases whatever this call opened; it does not touch
// base's files.
func openRedirections(spec ast.RedirectionSpec, base StdIO) (StdIO, func(), error) {
	result := base
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	switch spec.StdinKind {
	case ast.StdinFile:
		f, err := os.Open(spec.StdinPath)
		if err != nil {
			closeAll()
			return StdIO{}, nil, err
		}
		opened = append(opened, f)
		result.Stdin = f

	case ast.StdinHeredoc:
		r, w, err := os.Pipe()
		if err != nil {
			closeAll()
			return StdIO{}, nil, err
		}
		go func() {
			defer w.Close()
			w.WriteString(spec.Heredoc)
		}()
		opened = append(opened, r)
		result.Stdin = r
	}

	if spec.StdoutKind == ast.SinkFile {
		f, err := openSink(spec.StdoutPath, spec.StdoutAppend)
		if err != nil {
			closeAll()
			return StdIO{}, nil, err
		}
		opened = append(opened, f)
		result.Stdout = f
	}

	if spec.StderrKind == ast.SinkFile {
		f, err := openSink(spec.StderrPath, spec.StderrAppend)
		if err != nil {
			closeAll()
			return StdIO{}, nil, err
		}
		opened = append(opened, f)
		result.Stderr = f
	}

	return result, closeAll, nil
}

func openSink(path string, append bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(path, flags, 0o644)
}
