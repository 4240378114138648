package effect

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppend_DoesNotMutateReceiver(t *testing.T) {
	base := Log{{Seq: 1, CausaloidID: 1, Message: "a"}}
	grown := base.Append(Entry{Seq: 2, CausaloidID: 1, Message: "b"})

	assert.Len(t, base, 1)
	require.Len(t, grown, 2)
	assert.Equal(t, "b", grown[1].Message)
}

// Two logs grown from the same prefix must not alias each other's tails.
func TestLogAppend_NoTailAliasing(t *testing.T) {
	base := make(Log, 0, 8)
	base = base.Append(Entry{Seq: 1, CausaloidID: 1, Message: "shared"})

	a := base.Append(Entry{Seq: 2, CausaloidID: 2, Message: "a"})
	b := base.Append(Entry{Seq: 3, CausaloidID: 3, Message: "b"})

	assert.Equal(t, "a", a[1].Message)
	assert.Equal(t, "b", b[1].Message)
}

func TestLogConcat_PreservesOrder(t *testing.T) {
	first := Log{{Seq: 1, CausaloidID: 1, Message: "one"}}
	second := Log{{Seq: 2, CausaloidID: 2, Message: "two"}, {Seq: 3, CausaloidID: 2, Message: "three"}}

	combined := first.Concat(second)

	require.Len(t, combined, 3)
	assert.Equal(t, "one", combined[0].Message)
	assert.Equal(t, "two", combined[1].Message)
	assert.Equal(t, "three", combined[2].Message)
}

func TestLogString_FixedFormat(t *testing.T) {
	l := Log{{Seq: 3, CausaloidID: 7, Message: "output: Value(42)"}}
	assert.Equal(t, "[3] causaloid 7: output: Value(42)", l.String())

	assert.Equal(t, "(empty log)", Log{}.String())
}

func TestClock_Monotonic(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestClockAt_ResumesFromPosition(t *testing.T) {
	c := NewClockAt(41)
	assert.Equal(t, int64(42), c.Next())
}

func TestClock_ConcurrentNextIsUnique(t *testing.T) {
	c := NewClock()
	const n = 100

	var wg sync.WaitGroup
	seen := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen[i] = c.Next()
		}(i)
	}
	wg.Wait()

	unique := make(map[int64]bool, n)
	for _, s := range seen {
		assert.False(t, unique[s], "duplicate seq %d", s)
		unique[s] = true
	}
}
