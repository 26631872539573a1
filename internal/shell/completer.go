package shell

import (
	"os"
	"path/filepath"
	"strings"

	"gosh/internal/builtin"
)

// Completer implements readline.AutoCompleter: the first word on the
// line completes against builtins and $PATH, everything after
// completes against file names in the current directory, or in the
// directory part of a word that contains a "/".
type Completer struct{}

// NewCompleter creates a completer with no shell-specific state: it
// reads $PATH and the filesystem directly on every call.
func NewCompleter() *Completer {
	return &Completer{}
}

// Do implements readline.AutoCompleter.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	prefix := string(line[:pos])
	parts := strings.Fields(prefix)

	isFirstWord := len(parts) == 0 || (len(parts) == 1 && !strings.HasSuffix(prefix, " "))
	var current string
	if len(parts) > 0 && !strings.HasSuffix(prefix, " ") {
		current = parts[len(parts)-1]
	}

	if isFirstWord {
		return completeCommands(current)
	}
	return completeFiles(current)
}

func completeCommands(prefix string) ([][]rune, int) {
	var matches [][]rune
	seen := make(map[string]bool)

	for _, name := range builtin.Names() {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, []rune(name[len(prefix):]))
			seen[name] = true
		}
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, prefix) || seen[name] {
				continue
			}
			seen[name] = true
			matches = append(matches, []rune(name[len(prefix):]))
		}
	}

	return matches, len(prefix)
}

func completeFiles(prefix string) ([][]rune, int) {
	dir, pattern := ".", prefix
	if strings.Contains(prefix, "/") {
		dir = filepath.Dir(prefix)
		pattern = filepath.Base(prefix)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, len(prefix)
	}

	var matches [][]rune
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, pattern) {
			continue
		}
		suffix := name[len(pattern):]
		if entry.IsDir() {
			suffix += "/"
		}
		matches = append(matches, []rune(suffix))
	}
	return matches, len(pattern)
}
