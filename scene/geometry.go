package scene

// This file defines the geometry value types shared by the host tree,
// the overlay core and the canvas backend. All values are device pixels.

// Point is a position in device pixels, origin at the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Size is a width/height pair in device pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsEmpty reports whether the size has zero or negative area.
func (s Size) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

// Constraints bound a dry layout request. A zero MaxWidth/MaxHeight
// means unbounded in that axis.
type Constraints struct {
	MinWidth  float64 `json:"minWidth"`
	MaxWidth  float64 `json:"maxWidth"`
	MinHeight float64 `json:"minHeight"`
	MaxHeight float64 `json:"maxHeight"`
}

// Constrain clamps s into the constraint box.
func (c Constraints) Constrain(s Size) Size {
	w := s.Width
	h := s.Height
	if w < c.MinWidth {
		w = c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	if h < c.MinHeight {
		h = c.MinHeight
	}
	if c.MaxHeight > 0 && h > c.MaxHeight {
		h = c.MaxHeight
	}
	return Size{Width: w, Height: h}
}

// Loose returns constraints with only upper bounds taken from s.
func Loose(s Size) Constraints {
	return Constraints{MaxWidth: s.Width, MaxHeight: s.Height}
}
