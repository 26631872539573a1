package procexec

import (
	"golang.org/x/sys/unix"
)

// waitForeground blocks on each of pids in turn with WUNTRACED. A pid
// that exits or is killed is dropped; a pid that stops is returned in
// stoppedAlive. SIGTSTP is delivered to the whole process group at
// once, so by the time one pid reports stopped the rest of the group
// has too, making a single pass over pids (rather than repeatedly
// polling) sufficient.
func (o *Orchestrator) waitForeground(pids []int) (stoppedAlive []int, err error) {
	for _, pid := range pids {
		var status unix.WaitStatus
		if _, werr := unix.Wait4(pid, &status, unix.WUNTRACED, nil); werr != nil {
			continue
		}
		if status.Stopped() {
			stoppedAlive = append(stoppedAlive, pid)
		}
	}
	return stoppedAlive, nil
}
