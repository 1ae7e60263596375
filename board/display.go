package board

import (
	"strconv"
	"strings"
)

const cellWidth = 7

// String renders the board as a fixed-width grid. Empty cells are blank.
func (b Board) String() string {
	var sb strings.Builder
	sep := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", Dim) + "\n"
	sb.WriteString(sep)
	for r := 0; r < Dim; r++ {
		sb.WriteString("|")
		for c := 0; c < Dim; c++ {
			v := b.Get(r*Dim + c)
			cell := ""
			if v != 0 {
				cell = strconv.Itoa(v)
			}
			pad := cellWidth - len(cell)
			sb.WriteString(strings.Repeat(" ", pad-pad/2))
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", pad/2))
			sb.WriteString("|")
		}
		sb.WriteString("\n")
		sb.WriteString(sep)
	}
	return sb.String()
}
