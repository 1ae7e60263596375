package solver

import (
	"math"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/play2048/play2048/board"
)

const entrySize = 32

const (
	minTableSizePowerOf2 = 12
	maxTableSizePowerOf2 = 26
)

// 32 bytes (entrySize)
type TableEntry struct {
	// The full board is kept: it is only 8 bytes and makes every hit exact.
	key   board.Board
	score float64
	// branch probability the score was computed at
	prob  float64
	gen   uint16
	depth uint8
}

// TranspositionTable memoizes chance-node values by board. Entries are
// tagged with the depth and branch probability they were computed at and
// are only reused for requests that are no deeper and no more probable.
// A generation counter invalidates the whole table in O(1).
//
// A table belongs to one search at a time; it is not safe for concurrent use.
type TranspositionTable struct {
	table        []TableEntry
	sizePowerOf2 int
	sizeMask     uint64
	gen          uint16

	created uint64
	lookups uint64
	hits    uint64
	// lookups that found another board in the slot
	collisions uint64
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

func (t *TranspositionTable) lookup(key board.Board, depth int, prob float64) (float64, bool) {
	t.lookups++
	e := &t.table[hashUint64(uint64(key))&t.sizeMask]
	if e.gen != t.gen {
		return 0, false
	}
	if e.key != key {
		t.collisions++
		return 0, false
	}
	if int(e.depth) < depth || e.prob < prob {
		return 0, false
	}
	t.hits++
	return e.score, true
}

func (t *TranspositionTable) store(key board.Board, depth int, prob float64, score float64) {
	// just overwrite whatever is there.
	t.table[hashUint64(uint64(key))&t.sizeMask] = TableEntry{
		key:   key,
		score: score,
		prob:  prob,
		gen:   t.gen,
		depth: uint8(depth),
	}
	t.created++
}

// Reset sizes the table to a fraction of system memory, rounded down to a
// power of two, and empties it.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	power := minTableSizePowerOf2
	if desiredNElems >= 1 {
		power = int(math.Log2(desiredNElems))
	}
	power = max(minTableSizePowerOf2, min(maxTableSizePowerOf2, power))

	numElems := 1 << power
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}
	t.sizePowerOf2 = power
	t.sizeMask = uint64(numElems - 1)
	t.gen = 1

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.resetCounters()
}

// Invalidate forgets every entry without touching memory.
func (t *TranspositionTable) Invalidate() {
	t.gen++
	if t.gen == 0 {
		// The counter wrapped; stale entries could now look current.
		clear(t.table)
		t.gen = 1
	}
}

func (t *TranspositionTable) resetCounters() {
	t.created = 0
	t.lookups = 0
	t.hits = 0
	t.collisions = 0
}

func (t *TranspositionTable) Size() int {
	return len(t.table)
}
