package input

import (
	"sync/atomic"

	"github.com/samuelbigos/tower-of-babylon/parameter"
)

// Action is a discrete button with press/release edges
type Action uint8

const (
	ActionNone Action = iota
	ActionJump
	ActionFire
)

func (a Action) String() string {
	switch a {
	case ActionJump:
		return "jump"
	case ActionFire:
		return "fire"
	default:
		return "none"
	}
}

// Edge is one press or release of an action
type Edge struct {
	Action  Action
	Pressed bool
}

// EdgeQueue is a lock-free MPSC ring buffer for input edges
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Drain: Single consumer (simulation step)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest edges overwritten when full
type EdgeQueue struct {
	edges     [parameter.EdgeQueueSize]Edge
	published [parameter.EdgeQueueSize]atomic.Bool
	head      atomic.Uint64
	tail      atomic.Uint64
}

func NewEdgeQueue() *EdgeQueue {
	return &EdgeQueue{}
}

// Push adds an edge using CAS with the published flags pattern
func (q *EdgeQueue) Push(e Edge) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & parameter.EdgeBufferMask

			q.edges[idx] = e
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread edges
			currentHead := q.head.Load()
			if nextTail-currentHead > parameter.EdgeQueueSize {
				q.head.CompareAndSwap(currentHead, nextTail-parameter.EdgeQueueSize)
			}
			return
		}
	}
}

// Drain returns all pending edges in FIFO order and advances head
func (q *EdgeQueue) Drain() []Edge {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		available := currentTail - currentHead
		if available > parameter.EdgeQueueSize {
			available = parameter.EdgeQueueSize
			currentHead = currentTail - parameter.EdgeQueueSize
		}

		result := make([]Edge, 0, available)
		for i := uint64(0); i < available; i++ {
			idx := (currentHead + i) & parameter.EdgeBufferMask
			if !q.published[idx].Load() {
				break // Writer incomplete
			}
			result = append(result, q.edges[idx])
			q.published[idx].Store(false)
		}

		if q.head.CompareAndSwap(currentHead, currentHead+uint64(len(result))) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns approximate pending edge count
func (q *EdgeQueue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	if diff := tail - head; diff < parameter.EdgeQueueSize {
		return int(diff)
	}
	return parameter.EdgeQueueSize
}
