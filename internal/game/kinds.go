package game

func shape(xy ...int) Shape {
	var s Shape
	for i := range s {
		s[i] = Point{X: xy[2*i], Y: xy[2*i+1]}
	}
	return s
}

// StandardKinds returns a fresh copy of the seven tetrominoes.
// Every state 0 has a cell on offset row 0, so a piece locked at the default
// spawn depth of -1 always reports overflow.
func StandardKinds() []*Kind {
	return []*Kind{
		{Name: "I", Color: Color{80, 200, 230}, Rotations: []Shape{
			shape(0, 0, 1, 0, 2, 0, 3, 0),
			shape(1, 0, 1, 1, 1, 2, 1, 3),
		}},
		{Name: "O", Color: Color{230, 200, 60}, Rotations: []Shape{
			shape(1, 0, 2, 0, 1, 1, 2, 1),
		}},
		{Name: "T", Color: Color{170, 80, 200}, Rotations: []Shape{
			shape(1, 0, 0, 1, 1, 1, 2, 1),
			shape(1, 0, 1, 1, 2, 1, 1, 2),
			shape(0, 0, 1, 0, 2, 0, 1, 1),
			shape(1, 0, 0, 1, 1, 1, 1, 2),
		}},
		{Name: "S", Color: Color{90, 200, 90}, Rotations: []Shape{
			shape(1, 0, 2, 0, 0, 1, 1, 1),
			shape(1, 0, 1, 1, 2, 1, 2, 2),
		}},
		{Name: "Z", Color: Color{220, 70, 70}, Rotations: []Shape{
			shape(0, 0, 1, 0, 1, 1, 2, 1),
			shape(2, 0, 1, 1, 2, 1, 1, 2),
		}},
		{Name: "J", Color: Color{60, 90, 210}, Rotations: []Shape{
			shape(0, 0, 0, 1, 1, 1, 2, 1),
			shape(1, 0, 2, 0, 1, 1, 1, 2),
			shape(0, 0, 1, 0, 2, 0, 2, 1),
			shape(1, 0, 1, 1, 0, 2, 1, 2),
		}},
		{Name: "L", Color: Color{230, 140, 50}, Rotations: []Shape{
			shape(2, 0, 0, 1, 1, 1, 2, 1),
			shape(1, 0, 1, 1, 1, 2, 2, 2),
			shape(0, 0, 1, 0, 2, 0, 0, 1),
			shape(0, 0, 1, 0, 1, 1, 1, 2),
		}},
	}
}
