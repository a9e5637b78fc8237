package skim

import "sync"

// RunRegistry assigns a stable, monotonically increasing run number to
// each distinct command string. Two invocations of the same command
// string get the same run number, so a re-run of the same command
// produces the same ItemIDs. Model.onCmdQueryChange still drops the
// Selection's results and marks on every command change, whether or not
// the run number is reused.
type RunRegistry struct {
	mu   sync.Mutex
	next uint64
	seen map[string]uint64
}

// NewRunRegistry returns an empty registry. Run numbers start at 1 so the
// zero value of a run number can mean "no run yet" where useful.
func NewRunRegistry() *RunRegistry {
	return &RunRegistry{next: 1, seen: make(map[string]uint64)}
}

// RunNumberFor returns the run number for cmd, assigning a new one the
// first time cmd is seen.
func (r *RunRegistry) RunNumberFor(cmd string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.seen[cmd]; ok {
		return n
	}
	n := r.next
	r.next++
	r.seen[cmd] = n
	return n
}
