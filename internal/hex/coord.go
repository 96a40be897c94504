// Package hex implements the axial hex-coordinate algebra and the
// shortest-path machinery used by the game-state processor. Everything
// in here must be fully deterministic: the same inputs have to produce
// bit-identical results on every machine, because movement results feed
// directly into consensus.
package hex

import "fmt"

// Coord is an axial coordinate on a flat-topped hex grid. The implicit
// cubic third coordinate is z = -x - y. Coord is a value type and can
// be used directly as a map key.
type Coord struct {
	X, Y int16
}

// Difference is a typed delta between two coordinates. It has the same
// layout as Coord but disjoint semantics: a Difference is a direction
// that can be added onto a position, never a position itself.
type Difference struct {
	X, Y int16
}

// neighbourDeltas is the fixed enumeration order of the six unit
// directions. Pathfinding tie-breaking and the path stepper depend on
// this order, so it must never change.
var neighbourDeltas = [6]Difference{
	{1, 0}, {-1, 0},
	{0, 1}, {0, -1},
	{1, -1}, {-1, 1},
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Z returns the implicit cubic third coordinate.
func (c Coord) Z() int16 {
	return -c.X - c.Y
}

// Add returns the coordinate shifted by the given delta.
func (c Coord) Add(d Difference) Coord {
	return Coord{c.X + d.X, c.Y + d.Y}
}

// Sub returns the delta from b to a, so that b.Add(Sub(a, b)) == a.
func Sub(a, b Coord) Difference {
	return Difference{a.X - b.X, a.Y - b.Y}
}

// Neighbours returns the six adjacent coordinates in the fixed
// enumeration order.
func (c Coord) Neighbours() [6]Coord {
	var res [6]Coord
	for i, d := range neighbourDeltas {
		res[i] = c.Add(d)
	}
	return res
}

// DistanceL1 computes the hex L1 distance between two coordinates,
// i.e. the minimum number of single-tile steps between them.
func DistanceL1(a, b Coord) int {
	dx := int(a.X) - int(b.X)
	dy := int(a.Y) - int(b.Y)
	return (abs(dx) + abs(dy) + abs(dx+dy)) / 2
}

// PrincipalDirectionTo reports whether target lies in one of the six
// principal directions from c. If it does, the unit direction and the
// (positive) number of steps are returned. The zero delta and any
// non-axis-aligned delta yield ok == false.
func (c Coord) PrincipalDirectionTo(target Coord) (dir Difference, steps int16, ok bool) {
	d := Sub(target, c)
	switch {
	case d.X == 0 && d.Y == 0:
		return Difference{}, 0, false
	case d.Y == 0:
		return Difference{sign(d.X), 0}, abs16(d.X), true
	case d.X == 0:
		return Difference{0, sign(d.Y)}, abs16(d.Y), true
	case int(d.X) == -int(d.Y):
		return Difference{sign(d.X), -sign(d.X)}, abs16(d.X), true
	}
	return Difference{}, 0, false
}

func (d Difference) String() string {
	return fmt.Sprintf("(%d, %d)", d.X, d.Y)
}

// Mul returns the delta scaled by the given factor.
func (d Difference) Mul(f int16) Difference {
	return Difference{d.X * f, d.Y * f}
}

// RotateCW rotates the delta clockwise by the given number of 60 degree
// steps around the origin. Negative steps rotate counter-clockwise;
// steps are reduced modulo six.
func (d Difference) RotateCW(steps int) Difference {
	n := steps % 6
	if n < 0 {
		n += 6
	}
	for ; n > 0; n-- {
		d = Difference{d.X + d.Y, -d.X}
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int16) int16 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
