package types

// Position is a window's top-left corner in screen coordinates.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a window's outer size.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// WindowSnapshot is a copy of a window's state.
type WindowSnapshot struct {
	Label    string   `json:"label" yaml:"label"`
	Title    string   `json:"title" yaml:"-"`
	Visible  bool     `json:"visible" yaml:"visible"`
	Focused  bool     `json:"focused" yaml:"-"`
	Position Position `json:"position" yaml:"position"`
	Size     Size     `json:"size" yaml:"size"`
}
