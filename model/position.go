package model

import "fmt"

// Position is a raw map coordinate. It may lie outside the map; GameMap
// normalizes it before use as an index.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// DirectionalOffset returns the neighbouring position one step in d.
// The result is not normalized.
func (p Position) DirectionalOffset(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// SurroundingCardinals returns the four cardinal neighbours in Cardinals() order.
func (p Position) SurroundingCardinals() []Position {
	out := make([]Position, 0, 4)
	for _, d := range Cardinals() {
		out = append(out, p.DirectionalOffset(d))
	}
	return out
}

// Direction is a single-step move. Still means no movement.
type Direction byte

const (
	Still Direction = iota
	North
	East
	South
	West
)

// Cardinals lists the four moving directions in the order the heuristics scan them.
func Cardinals() []Direction {
	return []Direction{North, South, East, West}
}

// Delta returns the (dx, dy) step. North decreases y.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// Invert returns the opposite direction. Still inverts to itself.
func (d Direction) Invert() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return Still
}

// Char is the single-letter wire encoding used by the game host.
func (d Direction) Char() byte {
	switch d {
	case North:
		return 'n'
	case South:
		return 's'
	case East:
		return 'e'
	case West:
		return 'w'
	}
	return 'o'
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "still"
}
