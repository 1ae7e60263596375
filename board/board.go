// Package board holds the 4x4 2048 grid packed into a single uint64 and the
// table-driven move engine that transforms it.
package board

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	// NumTiles is the number of cells on the grid.
	NumTiles = 16
	// Dim is the side length of the grid.
	Dim = 4
	// MaxExponent is the largest exponent a 4-bit cell can hold.
	MaxExponent = 15
	// MaxTileValue is 2^MaxExponent.
	MaxTileValue = 1 << MaxExponent
)

// Board is an immutable 2048 position. Cell i (row-major, 0 is the top-left
// corner) lives in bits [4i, 4i+4) and stores the exponent of its tile, 0
// meaning empty. Row r therefore occupies bits [16r, 16r+16) with its
// leftmost cell in the low nibble.
type Board uint64

// FromValues builds a board from 16 tile values in row-major order. Every
// value must be 0 or a power of two in [2, MaxTileValue].
func FromValues(values []int) (Board, error) {
	if len(values) != NumTiles {
		return 0, fmt.Errorf("%w: expected %d values, got %d",
			ErrInvalidBoardRepr, NumTiles, len(values))
	}
	var b Board
	for idx, v := range values {
		exp, ok := exponentOf(v)
		if !ok {
			return 0, &InvalidTileValueError{Index: idx, Value: v}
		}
		b = b.SetExponent(idx, exp)
	}
	return b, nil
}

// MustFromValues is FromValues for values known to be valid. It panics
// otherwise.
func MustFromValues(values []int) Board {
	b, err := FromValues(values)
	if err != nil {
		panic(err)
	}
	return b
}

// Parse reads 16 tile values separated by commas or whitespace, such as
// "2,0,0,4 0,0,0,0 ...".
func Parse(s string) (Board, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	values := make([]int, len(fields))
	for idx, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidBoardRepr, f)
		}
		values[idx] = v
	}
	return FromValues(values)
}

// Values returns the 16 tile values in row-major order.
func (b Board) Values() []int {
	values := make([]int, NumTiles)
	for idx := range values {
		values[idx] = b.Get(idx)
	}
	return values
}

func exponentOf(value int) (uint8, bool) {
	if value == 0 {
		return 0, true
	}
	if value < 2 || value > MaxTileValue || value&(value-1) != 0 {
		return 0, false
	}
	return uint8(bits.TrailingZeros(uint(value))), true
}

func checkIndex(idx int) {
	if idx < 0 || idx >= NumTiles {
		panic(fmt.Sprintf("tile index %d out of range", idx))
	}
}

func checkLine(i int) {
	if i < 0 || i >= Dim {
		panic(fmt.Sprintf("row/column index %d out of range", i))
	}
}

// Exponent returns the exponent stored at cell idx.
func (b Board) Exponent(idx int) uint8 {
	checkIndex(idx)
	return uint8(b>>(4*idx)) & 0xF
}

// Get returns the tile value at cell idx, 0 if the cell is empty.
func (b Board) Get(idx int) int {
	e := b.Exponent(idx)
	if e == 0 {
		return 0
	}
	return 1 << e
}

// SetExponent returns a copy of b with cell idx holding exponent exp.
func (b Board) SetExponent(idx int, exp uint8) Board {
	checkIndex(idx)
	if exp > MaxExponent {
		panic(fmt.Sprintf("exponent %d out of range", exp))
	}
	shift := 4 * idx
	return b&^(Board(0xF)<<shift) | Board(exp)<<shift
}

// Set returns a copy of b with cell idx holding value. It panics if value
// is not a valid tile value; use FromValues for untrusted input.
func (b Board) Set(idx int, value int) Board {
	exp, ok := exponentOf(value)
	if !ok {
		panic(&InvalidTileValueError{Index: idx, Value: value})
	}
	return b.SetExponent(idx, exp)
}

// Row returns the packed cells of row i, leftmost cell in the low nibble.
func (b Board) Row(i int) uint16 {
	checkLine(i)
	return uint16(b >> (16 * i))
}

// Column returns the packed cells of column i, topmost cell in the low
// nibble.
func (b Board) Column(i int) uint16 {
	return b.Transpose().Row(i)
}

// Transpose swaps rows and columns. It is its own inverse.
func (b Board) Transpose() Board {
	x := uint64(b)
	a1 := x & 0xF0F00F0FF0F00F0F
	a2 := x & 0x0000F0F00000F0F0
	a3 := x & 0x0F0F00000F0F0000
	a := a1 | a2<<12 | a3>>12
	b1 := a & 0xFF00FF0000FF00FF
	b2 := a & 0x00FF00FF00000000
	b3 := a & 0x00000000FF00FF00
	return Board(b1 | b2>>24 | b3<<24)
}

func fromRows(rows [Dim]uint16) Board {
	return Board(rows[0]) | Board(rows[1])<<16 | Board(rows[2])<<32 | Board(rows[3])<<48
}

// Move pushes every tile in direction d. The result equals b when d is not
// a legal move from b.
func (b Board) Move(d Direction) Board {
	nb, _ := b.MoveScored(d)
	return nb
}

// MoveScored is Move that also reports the total value of the tiles created
// by merges.
func (b Board) MoveScored(d Direction) (Board, int) {
	t := Tables()
	var rows [Dim]uint16
	var score uint32

	src := b
	table, scores := &t.Left, &t.LeftScore
	switch d {
	case Left:
	case Right:
		table, scores = &t.Right, &t.RightScore
	case Up:
		src = b.Transpose()
	case Down:
		src = b.Transpose()
		table, scores = &t.Right, &t.RightScore
	default:
		return b, 0
	}
	for i := range rows {
		r := src.Row(i)
		rows[i] = table[r]
		score += scores[r]
	}
	out := fromRows(rows)
	if d == Up || d == Down {
		out = out.Transpose()
	}
	return out, int(score)
}

// CanMove reports whether d changes the board.
func (b Board) CanMove(d Direction) bool {
	return b.Move(d) != b
}

// LegalMoves returns the directions that change the board, in search order.
func (b Board) LegalMoves() []Direction {
	return lo.Filter(Directions[:], func(d Direction, _ int) bool {
		return b.CanMove(d)
	})
}

// IsGameOver reports whether no direction changes the board.
func (b Board) IsGameOver() bool {
	if b.CountEmpty() > 0 {
		return false
	}
	for _, d := range Directions {
		if b.CanMove(d) {
			return false
		}
	}
	return true
}

// HighestExponent returns the largest exponent on the board.
func (b Board) HighestExponent() uint8 {
	var m uint8
	for x := uint64(b); x != 0; x >>= 4 {
		if e := uint8(x & 0xF); e > m {
			m = e
		}
	}
	return m
}

// MaxValue returns the highest tile value on the board, 0 for an empty board.
func (b Board) MaxValue() int {
	e := b.HighestExponent()
	if e == 0 {
		return 0
	}
	return 1 << e
}

// CountEmpty returns the number of empty cells.
func (b Board) CountEmpty() int {
	x := uint64(b)
	x |= (x >> 2) & 0x3333333333333333
	x |= x >> 1
	x = ^x & 0x1111111111111111
	return bits.OnesCount64(x)
}

// EmptyTilesIndices returns the indices of the empty cells in increasing
// order.
func (b Board) EmptyTilesIndices() []int {
	indices := make([]int, 0, NumTiles)
	for idx := 0; idx < NumTiles; idx++ {
		if uint64(b)>>(4*idx)&0xF == 0 {
			indices = append(indices, idx)
		}
	}
	return indices
}

// CountDistinctTiles returns the number of distinct non-empty exponents.
func (b Board) CountDistinctTiles() int {
	var seen uint16
	for x := uint64(b); x != 0; x >>= 4 {
		seen |= 1 << (x & 0xF)
	}
	return bits.OnesCount16(seen &^ 1)
}
