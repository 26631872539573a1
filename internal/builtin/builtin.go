// Package builtin implements the shell's built-in commands. Each
// reads and writes through the package-level os.Stdin/os.Stdout/
// os.Stderr, which the orchestrator temporarily swaps for a command's
// own redirection targets before dispatching into a builtin and
// restores immediately after, mirroring how the original shell
// dup2's the real file descriptors around execute_builtin.
package builtin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gosh/pkg/pathutil"
)

// Func is a built-in command's entry point. args is argv[1:]; env is a
// copy of the process environment made for this call, so writes to it
// are not seen by later commands (cd also calls os.Setenv for OLDPWD).
// Non-nil errors are reported to the user by the caller.
type Func func(args []string, env map[string]string) error

var registry map[string]Func

func init() {
	registry = map[string]Func{
		"exit":    exit,
		"echo":    echo,
		"type":    typeCmd,
		"pwd":     pwd,
		"cd":      cd,
		"history": history,
		"jobs":    jobs,
		"fg":      fg,
		"bg":      bg,
		"help":    help,
	}
}

// Lookup returns the builtin named name, if there is one.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// IsBuiltin reports whether name is one of the builtins above.
func IsBuiltin(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names returns every builtin's name, for completion.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func exit(args []string, env map[string]string) error {
	code := 0
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			code = n
		}
	}
	os.Exit(code)
	return nil
}

func echo(args []string, env map[string]string) error {
	fmt.Println(strings.Join(args, " "))
	return nil
}

func typeCmd(args []string, env map[string]string) error {
	if len(args) == 0 {
		return nil
	}
	name := args[0]

	if IsBuiltin(name) {
		fmt.Printf("%s is a shell builtin\n", name)
		return nil
	}

	path, err := pathutil.Resolve(name)
	if err == nil {
		fmt.Printf("%s is %s\n", name, path)
		return nil
	}
	fmt.Printf("%s: not found\n", name)
	return nil
}

func pwd(args []string, env map[string]string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	fmt.Println(dir)
	return nil
}

func cd(args []string, env map[string]string) error {
	var target string
	switch {
	case len(args) == 0, args[0] == "~":
		target = env["HOME"]
		if target == "" {
			target = "."
		}
	case args[0] == "-":
		target = env["OLDPWD"]
		if target == "" {
			target = "."
		}
	default:
		target = pathutil.ExpandTilde(args[0])
	}

	oldPwd, err := os.Getwd()
	if err != nil {
		oldPwd = ""
	}

	if err := os.Chdir(target); err != nil {
		fmt.Printf("cd: %s: No such file or directory\n", target)
		return nil
	}
	if oldPwd != "" {
		env["OLDPWD"] = oldPwd
		os.Setenv("OLDPWD", oldPwd)
	}
	return nil
}

func help(args []string, env map[string]string) error {
	fmt.Print("\nAvailable Builtin Commands:\n")
	fmt.Println(strings.Repeat("-", 50))
	lines := [][2]string{
		{"exit [code]", "Exit the shell"},
		{"echo <args>", "Print arguments to stdout"},
		{"type <cmd>", "Show command type"},
		{"pwd", "Print working directory"},
		{"cd [dir]", "Change directory"},
		{"history [n]", "View command history"},
		{"jobs", "List background jobs"},
		{"fg [job]", "Bring job to foreground"},
		{"bg [job]", "Resume job in background"},
		{"help", "Show this help message"},
	}
	for _, l := range lines {
		fmt.Printf("%-18s - %s\n", l[0], l[1])
	}
	fmt.Println(strings.Repeat("-", 50))
	return nil
}
