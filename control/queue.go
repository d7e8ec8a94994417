// queue.go - lock-free command handoff carrying composite parameter changes to the audio thread
package control

import "sync/atomic"

// Kind tags a Command with the component it mutates. Queue keeps exactly
// one pending Command per Kind, so a later Push for the same Kind always
// supersedes an earlier, not-yet-drained one rather than queuing both.
type Kind uint8

const (
	KindCompressionMode Kind = iota
	KindNoiseMode
	KindEQBand
	KindEQPreset
	KindNoiseLearn
	KindReset
	KindOther

	kindCount
)

// Command is a composite parameter change built off the audio thread.
// Apply is invoked by the audio thread at the top of process; it must not
// allocate or block.
type Command struct {
	Kind  Kind
	Apply func()
}

// Queue hands one pending Command per Kind from any number of control
// threads to a single consumer (the audio thread), the same way the
// teacher's OtoPlayer hands a *SoundChip to its Read callback: one
// atomic.Pointer per slot, Store/Swap on the producer side, Load/Swap on
// the consumer side, no mutex anywhere on the path. Bounded by
// construction - there are exactly kindCount slots, never more.
type Queue struct {
	slots [kindCount]atomic.Pointer[Command]
}

// NewQueue builds an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push installs cmd in its Kind's slot. It reports whether a pending,
// not-yet-drained command of the same Kind was overwritten in the
// process - callers use this to log an overflow warning.
func (q *Queue) Push(cmd Command) (overwrote bool) {
	c := cmd
	old := q.slots[cmd.Kind%kindCount].Swap(&c)
	return old != nil
}

// Drain applies every pending command, one per Kind in Kind order, then
// clears the slots it consumed. Called once per process() call, before
// any DSP runs; never blocks and never allocates.
func (q *Queue) Drain() {
	for i := range q.slots {
		if cmd := q.slots[i].Swap(nil); cmd != nil {
			if cmd.Apply != nil {
				cmd.Apply()
			}
		}
	}
}

// Len reports the number of pending commands, for diagnostics/tests.
func (q *Queue) Len() int {
	n := 0
	for i := range q.slots {
		if q.slots[i].Load() != nil {
			n++
		}
	}
	return n
}
