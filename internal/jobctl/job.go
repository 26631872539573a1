// Package jobctl tracks background and stopped jobs and reaps their
// children as SIGCHLD arrives, updating job state accordingly.
package jobctl

import (
	"sort"
	"sync"
)

// Job is a pipeline as tracked for suspension, continuation, and
// reaping. Pids is non-empty iff the job still exists in its owning
// Table; Stopped implies Pgid != 0; ID is strictly increasing over the
// shell's lifetime and never reused. Mutable fields are guarded by mu,
// not by the owning Table's lock, so that the reaper and the
// fg/bg/jobs builtins can each touch a Job without contending on the
// whole table.
type Job struct {
	ID          int
	Pgid        int
	CommandText string

	mu         sync.Mutex
	stopped    bool
	background bool
	pids       map[int]bool
}

func newJob(id, pgid int, commandText string, pids []int, background bool) *Job {
	set := make(map[int]bool, len(pids))
	for _, p := range pids {
		set[p] = true
	}
	return &Job{
		ID:          id,
		Pgid:        pgid,
		CommandText: commandText,
		background:  background,
		pids:        set,
	}
}

// Stopped reports whether the job is currently suspended.
func (j *Job) Stopped() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stopped
}

// Background reports whether the job is running detached from the
// controlling terminal.
func (j *Job) Background() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.background
}

// SetBackground flips the job's foreground/background flag, used by
// fg (false) and bg (true).
func (j *Job) SetBackground(background bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.background = background
}

// SetStopped flips the job's stopped flag.
func (j *Job) SetStopped(stopped bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopped = stopped
}

// Pids returns a snapshot slice of the job's still-alive process ids.
func (j *Job) Pids() []int {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]int, 0, len(j.pids))
	for p := range j.pids {
		out = append(out, p)
	}
	return out
}

// removePid deletes pid from the job's pid set and reports whether the
// set is now empty.
func (j *Job) removePid(pid int) (empty bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.pids, pid)
	return len(j.pids) == 0
}

// Table is the shell's job table.
type Table struct {
	mu     sync.Mutex
	jobs   map[int]*Job
	nextID int
}

// NewTable creates an empty job table with job ids starting at 1.
func NewTable() *Table {
	return &Table{
		jobs:   make(map[int]*Job),
		nextID: 1,
	}
}

// Add registers a running job (launched in the background) or, when
// background is false, a foreground pipeline that a caller has just
// discovered was stopped by SIGTSTP.
func (t *Table) Add(pgid int, commandText string, pids []int, background bool) *Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	job := newJob(t.nextID, pgid, commandText, pids, background)
	t.jobs[job.ID] = job
	t.nextID++
	return job
}

// AddStopped registers a foreground pipeline the orchestrator just
// observed stop, with whatever pids are still alive in it.
func (t *Table) AddStopped(pgid int, commandText string, pids []int) *Job {
	job := t.Add(pgid, commandText, pids, false)
	job.SetStopped(true)
	return job
}

// Get looks up a job by id.
func (t *Table) Get(id int) (*Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.jobs[id]
	return j, ok
}

// All returns every tracked job, ordered by increasing id.
func (t *Table) All() []*Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Job, 0, len(t.jobs))
	for _, j := range t.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// MostRecent returns the job with the highest id, or nil if the table
// is empty.
func (t *Table) MostRecent() *Job {
	all := t.All()
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// MostRecentStopped returns the highest-id stopped job, or nil.
func (t *Table) MostRecentStopped() *Job {
	all := t.All()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Stopped() {
			return all[i]
		}
	}
	return nil
}

// Finish removes id from the table unconditionally, used once a
// caller that was waiting on a job directly (fg, or the orchestrator's
// own foreground wait) has observed every one of its pids exit.
func (t *Table) Finish(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, id)
}

// pruneEmpty removes id from the table if its pid set is empty.
func (t *Table) pruneEmpty(id int, job *Job) {
	if len(job.Pids()) != 0 {
		return
	}
	t.mu.Lock()
	delete(t.jobs, id)
	t.mu.Unlock()
}

// backgroundSnapshot returns, for every job currently marked
// Background, its id and its live pids, as of the call. Used by the
// reaper so it only ever waits on pids belonging to jobs nobody else
// (a foreground wait, fg, bg) is concurrently waiting on.
func (t *Table) backgroundSnapshot() map[int][]int {
	out := make(map[int][]int)
	for _, j := range t.All() {
		if j.Background() {
			out[j.ID] = j.Pids()
		}
	}
	return out
}
