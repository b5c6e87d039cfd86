package engine

import "github.com/phanxgames/jade/blocks"

// ThreadID identifies a thread within one Engine. IDs start at 1.
type ThreadID uint64

// ThreadState is a thread's lifecycle state.
type ThreadState uint8

const (
	ThreadRunning ThreadState = iota
	// ThreadFinished is reached by running past the last command or by
	// "stop this script".
	ThreadFinished
	// ThreadStopped is reached by a global stop.
	ThreadStopped
)

func (s ThreadState) String() string {
	switch s {
	case ThreadRunning:
		return "running"
	case ThreadFinished:
		return "finished"
	case ThreadStopped:
		return "stopped"
	}
	return "unknown"
}

// Thread is one cooperative execution of a command chain.
type Thread struct {
	ID       ThreadID
	Sprite   *Sprite
	Hat      blocks.BlockID
	Trigger  blocks.Trigger
	Commands []blocks.Command
	Cursor   int
	State    ThreadState

	// Vars is the thread-local scope, separate from Sprite.Vars.
	Vars map[string]string
}

// Active reports whether the thread will take further steps.
func (t *Thread) Active() bool {
	return t.State == ThreadRunning
}
