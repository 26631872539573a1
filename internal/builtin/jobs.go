package builtin

import (
	"fmt"
	"strconv"
	"strings"
)

// JobView is a read-only snapshot of one tracked job, handed to the
// builtins by a JobManager so this package never needs to import
// jobctl or procexec directly.
type JobView struct {
	ID          int
	CommandText string
	Stopped     bool
	Background  bool
}

// JobManager is satisfied by the orchestrator and lets jobs/fg/bg
// inspect and drive the job table without this package importing
// procexec, avoiding an import cycle.
type JobManager interface {
	Jobs() []JobView
	MostRecentJob() (JobView, bool)
	MostRecentStoppedJob() (JobView, bool)
	Foreground(id int) error
	Background(id int) error
}

var jobManager JobManager

// SetJobManager installs the JobManager jobs/fg/bg dispatch through.
func SetJobManager(jm JobManager) {
	jobManager = jm
}

// HistoryStore is satisfied by internal/shellhist.History.
type HistoryStore interface {
	All() []string
	Last(n int) []string
	Read(path string) error
	Write(path string) error
	Append(path string) error
}

var historyStore HistoryStore

// SetHistory installs the HistoryStore the history builtin reads and
// persists through.
func SetHistory(h HistoryStore) {
	historyStore = h
}

func jobs(args []string, env map[string]string) error {
	if jobManager == nil {
		return nil
	}
	for _, j := range jobManager.Jobs() {
		status := "Running"
		if j.Stopped {
			status = "Stopped"
		}
		fmt.Printf("[%d]  %-20s%s", j.ID, status, j.CommandText)
		if j.Background && !j.Stopped {
			fmt.Print(" &")
		}
		fmt.Println()
	}
	return nil
}

func resolveJobArg(args []string) (id int, explicit bool, err error) {
	if len(args) == 0 {
		return 0, false, nil
	}
	s := strings.TrimPrefix(args[0], "%")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("no such job")
	}
	return n, true, nil
}

func fg(args []string, env map[string]string) error {
	if jobManager == nil {
		return nil
	}
	id, explicit, err := resolveJobArg(args)
	if err != nil {
		fmt.Printf("fg: %s: no such job\n", args[0])
		return nil
	}
	if !explicit {
		j, ok := jobManager.MostRecentJob()
		if !ok {
			fmt.Println("fg: no current job")
			return nil
		}
		id = j.ID
	}
	if err := jobManager.Foreground(id); err != nil {
		fmt.Printf("fg: %d: no such job\n", id)
	}
	return nil
}

func bg(args []string, env map[string]string) error {
	if jobManager == nil {
		return nil
	}
	id, explicit, err := resolveJobArg(args)
	if err != nil {
		fmt.Printf("bg: %s: no such job\n", args[0])
		return nil
	}
	if !explicit {
		j, ok := jobManager.MostRecentStoppedJob()
		if !ok {
			fmt.Println("bg: no stopped jobs")
			return nil
		}
		id = j.ID
	}
	if err := jobManager.Background(id); err != nil {
		fmt.Printf("bg: %d: no such job\n", id)
	}
	return nil
}

func history(args []string, env map[string]string) error {
	if historyStore == nil {
		return nil
	}

	if len(args) >= 2 && args[0] == "-r" {
		if err := historyStore.Read(args[1]); err != nil {
			fmt.Printf("history: %s: No such file or directory\n", args[1])
		}
		return nil
	}
	if len(args) >= 2 && args[0] == "-w" {
		if err := historyStore.Write(args[1]); err != nil {
			fmt.Printf("history: %s: Error writing file\n", args[1])
		}
		return nil
	}
	if len(args) >= 2 && args[0] == "-a" {
		if err := historyStore.Append(args[1]); err != nil {
			fmt.Printf("history: %s: Error writing file\n", args[1])
		}
		return nil
	}

	entries := historyStore.All()
	start := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("history: %s: numeric argument required\n", args[0])
			return nil
		}
		if n < len(entries) {
			start = len(entries) - n
		}
	}
	for i := start; i < len(entries); i++ {
		fmt.Printf("    %d  %s\n", i+1, entries[i])
	}
	return nil
}
