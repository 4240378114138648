package effect

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Entry is a single provenance record. Seq is a logical timestamp from a
// monotonic Clock, not wall time, so traces are deterministic and
// replayable. Entries are audit data only; nothing reads them for
// control flow.
type Entry struct {
	Seq         int64
	CausaloidID uint64
	Message     string
}

// String renders the entry in the fixed trace format.
func (e Entry) String() string {
	return fmt.Sprintf("[%d] causaloid %d: %s", e.Seq, e.CausaloidID, e.Message)
}

// Log is an append-only sequence of entries. Composition concatenates
// logs; entries are never truncated, reordered, or deduplicated.
type Log []Entry

// Append returns a new log with the entries added. The receiver is not
// mutated; effects composed from a shared prefix must not alias each
// other's tails.
func (l Log) Append(entries ...Entry) Log {
	out := make(Log, 0, len(l)+len(entries))
	out = append(out, l...)
	out = append(out, entries...)
	return out
}

// Concat returns a new log holding l followed by other.
func (l Log) Concat(other Log) Log {
	if len(other) == 0 {
		return l
	}
	return l.Append(other...)
}

// Clone returns an independent copy of the log.
func (l Log) Clone() Log {
	if l == nil {
		return nil
	}
	out := make(Log, len(l))
	copy(out, l)
	return out
}

// String renders the full log, one entry per line.
func (l Log) String() string {
	if len(l) == 0 {
		return "(empty log)"
	}
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.String())
	}
	return b.String()
}

// Clock is a monotonic logical clock stamping log entries.
//
// Logical sequence numbers replace wall-clock timestamps so that the same
// evaluation always produces a byte-identical trace:
// - Deterministic ordering (no wall-clock race conditions)
// - Golden trace comparison works across machines
// - Causal relationships are explicit
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though a single propagation chain is strictly sequential.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used by replay to resume from the last persisted position.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
