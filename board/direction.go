package board

// Direction is one of the four ways the tiles can be pushed.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Directions lists every direction in the order the search tries them.
// Ties between equally valued moves resolve to the earliest entry.
var Directions = [4]Direction{Left, Right, Up, Down}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "none"
}

// ParseDirection accepts the full name or the first letter of a direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "left", "l", "L":
		return Left, true
	case "right", "r", "R":
		return Right, true
	case "up", "u", "U":
		return Up, true
	case "down", "d", "D":
		return Down, true
	}
	return 0, false
}
