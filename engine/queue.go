package engine

import (
	"container/heap"
	"time"
)

// step is a pending wake-up of a thread.
type step struct {
	due    time.Duration
	seq    uint64
	thread *Thread
}

// stepQueue is a min-heap ordered by due time, then by scheduling order.
type stepQueue []step

func (q stepQueue) Len() int { return len(q) }

func (q stepQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q stepQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *stepQueue) Push(x any) { *q = append(*q, x.(step)) }

func (q *stepQueue) Pop() any {
	old := *q
	n := len(old)
	s := old[n-1]
	old[n-1] = step{}
	*q = old[:n-1]
	return s
}

func (q *stepQueue) push(s step) { heap.Push(q, s) }

func (q *stepQueue) pop() step { return heap.Pop(q).(step) }

func (q stepQueue) peek() (step, bool) {
	if len(q) == 0 {
		return step{}, false
	}
	return q[0], true
}
