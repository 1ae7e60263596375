package board

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const numRows = 1 << 16

// MoveTables holds, for every possible 16-bit row, the row that results
// from pushing it left or right, and the merge score earned doing so.
type MoveTables struct {
	Left       [numRows]uint16
	Right      [numRows]uint16
	LeftScore  [numRows]uint32
	RightScore [numRows]uint32
}

var (
	tablesOnce sync.Once
	tables     *MoveTables
)

// Tables returns the process-wide move tables, building them on first use.
// The returned tables must not be modified.
func Tables() *MoveTables {
	tablesOnce.Do(func() {
		tables = buildMoveTables()
		log.Debug().Int("rows", numRows).Msg("built-move-tables")
	})
	return tables
}

func buildMoveTables() *MoveTables {
	t := &MoveTables{}
	for r := 0; r < numRows; r++ {
		row := uint16(r)
		t.Left[row], t.LeftScore[row] = slideLeft(row)
	}
	// Pushing right is pushing the mirrored row left, mirrored back.
	for r := 0; r < numRows; r++ {
		row := uint16(r)
		rev := ReverseRow(row)
		t.Right[row] = ReverseRow(t.Left[rev])
		t.RightScore[row] = t.LeftScore[rev]
	}
	return t
}

// slideLeft compacts the row toward cell 0, merges equal neighbours once
// each, and compacts again. It returns the new row and the sum of the
// values of the tiles created by merges.
func slideLeft(row uint16) (uint16, uint32) {
	cells := RowExponents(row)

	var compact [4]uint8
	n := 0
	for _, e := range cells {
		if e != 0 {
			compact[n] = e
			n++
		}
	}

	var out [4]uint8
	var score uint32
	w := 0
	for i := 0; i < n; i++ {
		e := compact[i]
		if i+1 < n && compact[i+1] == e && e < MaxExponent {
			out[w] = e + 1
			score += 1 << (e + 1)
			i++
		} else {
			out[w] = e
		}
		w++
	}
	return PackRow(out), score
}

// RowExponents unpacks a row; index 0 is the leftmost (or topmost) cell.
func RowExponents(row uint16) [4]uint8 {
	return [4]uint8{
		uint8(row & 0xF),
		uint8(row >> 4 & 0xF),
		uint8(row >> 8 & 0xF),
		uint8(row >> 12 & 0xF),
	}
}

// PackRow is the inverse of RowExponents.
func PackRow(cells [4]uint8) uint16 {
	return uint16(cells[0]&0xF) |
		uint16(cells[1]&0xF)<<4 |
		uint16(cells[2]&0xF)<<8 |
		uint16(cells[3]&0xF)<<12
}

// ReverseRow mirrors the four cells of a row.
func ReverseRow(row uint16) uint16 {
	return row<<12 | (row<<4)&0x0F00 | (row>>4)&0x00F0 | row>>12
}
