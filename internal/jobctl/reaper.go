package jobctl

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// Reaper drains SIGCHLD notifications and updates a Table accordingly.
// Go cannot install an async-signal-safe handler directly, so instead
// of reaping from inside a signal handler as a C shell would, the
// reaper runs from a dedicated goroutine woken by os/signal and is
// also safe to call synchronously at prompt boundaries, which is the
// alternative this system's concurrency model calls for: move reaping
// off the signal handler and drain it from a dedicated point.
//
// Drain only ever waits on pids belonging to jobs currently marked
// Background. A foreground pipeline's pids are never in that set: the
// orchestrator itself owns waiting on them (with WUNTRACED, so it can
// notice a stop) until the job either exits or is stopped and
// registered in the table. fg briefly borrows a job back out of the
// background set the same way, so a Drain racing against either of
// those never contends for the same pid.
type Reaper struct {
	table *Table
	ch    chan os.Signal
}

// NewReaper creates a reaper over table. Call Start to begin draining
// on SIGCHLD.
func NewReaper(table *Table) *Reaper {
	return &Reaper{
		table: table,
		ch:    make(chan os.Signal, 8),
	}
}

// Start installs the SIGCHLD notification and launches the background
// drain loop.
func (r *Reaper) Start() {
	signal.Notify(r.ch, syscall.SIGCHLD)
	go func() {
		for range r.ch {
			r.Drain()
		}
	}()
}

// Drain polls every pid of every background job with WNOHANG and
// updates job state for whichever ones have something to report. Safe
// to call from the goroutine Start launches and, at prompt boundaries
// or from jobs/fg/bg, synchronously.
func (r *Reaper) Drain() {
	for id, pids := range r.table.backgroundSnapshot() {
		for _, pid := range pids {
			var status unix.WaitStatus
			got, err := unix.Wait4(pid, &status, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
			if err != nil || got <= 0 {
				continue
			}
			r.apply(id, got, status)
		}
	}
}

func (r *Reaper) apply(jobID, pid int, status unix.WaitStatus) {
	job, ok := r.table.Get(jobID)
	if !ok {
		return
	}

	switch {
	case status.Stopped():
		job.SetStopped(true)

	case status.Continued():
		job.SetStopped(false)

	case status.Exited(), status.Signaled():
		empty := job.removePid(pid)
		if empty {
			r.table.pruneEmpty(jobID, job)
			fmt.Fprintf(os.Stderr, "\n[%d]+ Done       %s\n", job.ID, job.CommandText)
		}
	}
}

// SendToGroup sends sig to every process in the group pgid (kill with
// a negative pid), used by fg/bg to deliver SIGCONT.
func SendToGroup(pgid int, sig unix.Signal) error {
	return unix.Kill(-pgid, sig)
}
