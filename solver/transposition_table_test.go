package solver

import (
	"testing"

	"github.com/matryer/is"

	"github.com/play2048/play2048/board"
)

func TestTTableEntry(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	is.Equal(tt.Size(), 1<<minTableSizePowerOf2)

	key := board.Board(9409641586937047728)
	tt.store(key, 3, 0.25, 12.5)

	v, ok := tt.lookup(key, 3, 0.25)
	is.True(ok)
	is.Equal(v, 12.5)

	// shallower or less likely requests can reuse the entry
	_, ok = tt.lookup(key, 2, 0.25)
	is.True(ok)
	_, ok = tt.lookup(key, 3, 0.1)
	is.True(ok)

	// deeper or more likely requests cannot
	_, ok = tt.lookup(key, 4, 0.25)
	is.True(!ok)
	_, ok = tt.lookup(key, 3, 0.5)
	is.True(!ok)

	is.Equal(tt.lookups, uint64(5))
	is.Equal(tt.hits, uint64(3))
	is.Equal(tt.created, uint64(1))
}

func TestTTableCollision(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	a := board.Board(1)
	// find another board in the same slot
	b := board.Board(2)
	for hashUint64(uint64(b))&tt.sizeMask != hashUint64(uint64(a))&tt.sizeMask {
		b++
	}
	tt.store(a, 1, 1, 7)
	_, ok := tt.lookup(b, 1, 1)
	is.True(!ok)
	is.Equal(tt.collisions, uint64(1))

	tt.store(b, 1, 1, 8)
	_, ok = tt.lookup(a, 1, 1)
	is.True(!ok)
	v, ok := tt.lookup(b, 1, 1)
	is.True(ok)
	is.Equal(v, 8.0)
}

func TestTTableInvalidate(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	key := board.Board(0x1234)
	tt.store(key, 2, 1, 3)
	_, ok := tt.lookup(key, 2, 1)
	is.True(ok)

	tt.Invalidate()
	_, ok = tt.lookup(key, 2, 1)
	is.True(!ok)

	// wrap the generation counter around
	tt.store(key, 2, 1, 3)
	for i := 0; i < 1<<16; i++ {
		tt.Invalidate()
	}
	is.True(tt.gen != 0)
	_, ok = tt.lookup(key, 2, 1)
	is.True(!ok)
}

func TestEmptyBoardKey(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	// a fresh table must not report the zero board as cached
	_, ok := tt.lookup(board.Board(0), 0, 0)
	is.True(!ok)
}
