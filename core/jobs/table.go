// Package jobs tracks background processes and how processes terminated.
package jobs

import (
	"errors"
	"fmt"
)

var (
	// ErrTableFull is returned when adding to a table at capacity.
	ErrTableFull = errors.New("too many background jobs")
	// ErrDuplicate is returned when adding a PID that is already tracked.
	ErrDuplicate = errors.New("job already tracked")
)

// Table is an ordered, bounded set of background process IDs. It is owned by
// the interpreter loop and is not safe for concurrent use.
type Table struct {
	capacity int
	pids     []int
}

// NewTable creates a table holding at most capacity jobs.
func NewTable(capacity int) *Table {
	return &Table{capacity: capacity}
}

// Add appends pid to the table.
func (t *Table) Add(pid int) error {
	if t.Contains(pid) {
		return fmt.Errorf("%w: %d", ErrDuplicate, pid)
	}
	if t.Full() {
		return fmt.Errorf("%w: limit is %d", ErrTableFull, t.capacity)
	}
	t.pids = append(t.pids, pid)
	return nil
}

// Remove deletes pid from the table, reporting whether it was present.
func (t *Table) Remove(pid int) bool {
	for i, p := range t.pids {
		if p == pid {
			t.pids = append(t.pids[:i], t.pids[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether pid is tracked.
func (t *Table) Contains(pid int) bool {
	for _, p := range t.pids {
		if p == pid {
			return true
		}
	}
	return false
}

// Pids returns a copy of the tracked PIDs in launch order.
func (t *Table) Pids() []int {
	out := make([]int, len(t.pids))
	copy(out, t.pids)
	return out
}

func (t *Table) Len() int { return len(t.pids) }

func (t *Table) Cap() int { return t.capacity }

// Full reports whether another job can be added.
func (t *Table) Full() bool {
	return len(t.pids) >= t.capacity
}
