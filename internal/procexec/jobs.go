package procexec

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"gosh/internal/builtin"
	"gosh/internal/jobctl"
)

// Jobs implements builtin.JobManager for the jobs builtin.
func (o *Orchestrator) Jobs() []builtin.JobView {
	all := o.jobs.All()
	out := make([]builtin.JobView, 0, len(all))
	for _, j := range all {
		out = append(out, toView(j))
	}
	return out
}

// MostRecentJob implements builtin.JobManager for fg with no argument.
func (o *Orchestrator) MostRecentJob() (builtin.JobView, bool) {
	j := o.jobs.MostRecent()
	if j == nil {
		return builtin.JobView{}, false
	}
	return toView(j), true
}

// MostRecentStoppedJob implements builtin.JobManager for bg with no
// argument.
func (o *Orchestrator) MostRecentStoppedJob() (builtin.JobView, bool) {
	j := o.jobs.MostRecentStopped()
	if j == nil {
		return builtin.JobView{}, false
	}
	return toView(j), true
}

func toView(j *jobctl.Job) builtin.JobView {
	return builtin.JobView{
		ID:          j.ID,
		CommandText: j.CommandText,
		Stopped:     j.Stopped(),
		Background:  j.Background(),
	}
}

// Foreground implements builtin.JobManager for fg: it continues a
// stopped job if needed, hands it the terminal, and blocks until it
// either exits or stops again.
func (o *Orchestrator) Foreground(id int) error {
	job, ok := o.jobs.Get(id)
	if !ok {
		return fmt.Errorf("no such job")
	}

	fmt.Println(job.CommandText)

	if job.Stopped() {
		if err := jobctl.SendToGroup(job.Pgid, unix.SIGCONT); err != nil {
			return err
		}
		job.SetStopped(false)
	}
	job.SetBackground(false)

	if o.interactive {
		o.setForeground(job.Pgid)
	}

	stoppedAlive, err := o.waitForeground(job.Pids())
	if o.interactive {
		o.setForeground(o.shellPgid)
	}

	if len(stoppedAlive) > 0 {
		job.SetStopped(true)
	} else {
		o.jobs.Finish(job.ID)
	}
	return err
}

// Background implements builtin.JobManager for bg: it continues a
// stopped job without taking the terminal, leaving it to run
// detached.
func (o *Orchestrator) Background(id int) error {
	job, ok := o.jobs.Get(id)
	if !ok {
		return fmt.Errorf("no such job")
	}
	if !job.Stopped() {
		fmt.Fprintf(os.Stderr, "bg: job %d already in background\n", id)
		return nil
	}

	fmt.Printf("[%d]+ %s &\n", job.ID, job.CommandText)
	job.SetStopped(false)
	job.SetBackground(true)
	return jobctl.SendToGroup(job.Pgid, unix.SIGCONT)
}
