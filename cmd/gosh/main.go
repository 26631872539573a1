package main

import (
	"flag"
	"fmt"
	"os"

	"gosh/internal/shell"
)

func main() {
	command := flag.String("c", "", "run a single command line and exit")
	flag.Parse()

	interactive := *command == "" && isTerminal(os.Stdin)

	sh, err := shell.New(interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
		os.Exit(1)
	}

	if err := sh.Bootstrap(); err != nil {
		fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
		os.Exit(1)
	}

	if *command != "" {
		if err := sh.RunLine(*command); err != nil {
			fmt.Fprintf(os.Stderr, "gosh: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sh.Run()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

