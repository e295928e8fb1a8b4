package model

import (
	"github.com/lixenwraith/signal-collider/parameter"
)

// Point is a cell coordinate, origin top-left
type Point struct {
	X, Y int
}

// Direction is a unit step on the grid
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionNorth
	DirectionEast
	DirectionSouth
	DirectionWest
)

var directionDelta = [...]Point{
	DirectionNone:  {0, 0},
	DirectionNorth: {0, -1},
	DirectionEast:  {1, 0},
	DirectionSouth: {0, 1},
	DirectionWest:  {-1, 0},
}

// Valid reports whether p lies inside the grid
func (p Point) Valid() bool {
	return p.X >= 0 && p.X < parameter.GridWidth && p.Y >= 0 && p.Y < parameter.GridHeight
}

// Step returns the neighbour of p in direction d
func (p Point) Step(d Direction) Point {
	if int(d) >= len(directionDelta) {
		return p
	}
	delta := directionDelta[d]
	return Point{p.X + delta.X, p.Y + delta.Y}
}

// East returns the point n cells to the east, used for operator parameters
func (p Point) East(n int) Point {
	return Point{p.X + n, p.Y}
}
