package state

import "fmt"

// Tool selects how pointer movement is interpreted by the drawing surface.
type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
	ToolShape  Tool = "shape"
	ToolText   Tool = "text"
	ToolSelect Tool = "select"
)

// Tools lists every valid tool in toolbar order.
var Tools = []Tool{ToolBrush, ToolEraser, ToolShape, ToolText, ToolSelect}

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	switch t {
	case ToolBrush, ToolEraser, ToolShape, ToolText, ToolSelect:
		return true
	}
	return false
}

// Freehand reports whether the tool paints sampled strokes directly onto the
// persistent layer.
func (t Tool) Freehand() bool {
	return t == ToolBrush || t == ToolEraser
}

// Previewed reports whether the tool renders on the scratch layer and commits
// on release.
func (t Tool) Previewed() bool {
	return t == ToolShape || t == ToolText
}

func ParseTool(s string) (Tool, error) {
	t := Tool(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tool %q", s)
	}
	return t, nil
}

// ShapeKind is the primitive drawn by the shape tool.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeArrow     ShapeKind = "arrow"
	ShapeLine      ShapeKind = "line"
)

// Shapes lists the shape library in display order.
var Shapes = []ShapeKind{ShapeRectangle, ShapeCircle, ShapeTriangle, ShapeArrow, ShapeLine}

func (k ShapeKind) Valid() bool {
	switch k {
	case ShapeRectangle, ShapeCircle, ShapeTriangle, ShapeArrow, ShapeLine:
		return true
	}
	return false
}

func ParseShape(s string) (ShapeKind, error) {
	k := ShapeKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown shape %q", s)
	}
	return k, nil
}

// ToolSettings is the style snapshot read by the drawing surface on every
// draw call. Color is an "#RRGGBB" string.
type ToolSettings struct {
	Tool      Tool      `json:"tool" toml:"tool"`
	Shape     ShapeKind `json:"shape" toml:"shape"`
	Color     string    `json:"color" toml:"color"`
	Size      float64   `json:"size" toml:"size"`
	Smoothing float64   `json:"smoothing" toml:"smoothing"`
	Text      string    `json:"text" toml:"text"`
}
