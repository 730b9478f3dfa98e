package state

import (
	"log"
	"sync"

	"WebCanvas/internal/surface"
)

const (
	MinSize = 1
	MaxSize = 50
)

// ToolState owns the single mutable ToolSettings instance.
type ToolState struct {
	mu       sync.RWMutex
	settings ToolSettings
	OnChange func(ToolSettings) // set by the UI to refresh its controls
}

// NewToolState starts from defaults, replacing invalid fields with the
// built-in ones.
func NewToolState(defaults ToolSettings) *ToolState {
	s := &ToolState{settings: DefaultSettings()}
	if defaults.Tool.Valid() {
		s.settings.Tool = defaults.Tool
	}
	if defaults.Shape.Valid() {
		s.settings.Shape = defaults.Shape
	}
	if _, err := surface.ParseColor(defaults.Color); err == nil {
		s.settings.Color = defaults.Color
	}
	if defaults.Size > 0 {
		s.settings.Size = clamp(defaults.Size, MinSize, MaxSize)
	}
	if defaults.Smoothing >= 0 && defaults.Smoothing <= 1 {
		s.settings.Smoothing = defaults.Smoothing
	}
	if defaults.Text != "" {
		s.settings.Text = defaults.Text
	}
	return s
}

// DefaultSettings mirrors the toolbar's initial state.
func DefaultSettings() ToolSettings {
	return ToolSettings{
		Tool:      ToolBrush,
		Shape:     ShapeRectangle,
		Color:     "#4F46E5",
		Size:      5,
		Smoothing: 0.5,
		Text:      "Text",
	}
}

// Settings returns a copy of the current settings.
func (s *ToolState) Settings() ToolSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetTool switches tools. Unknown tools are ignored.
func (s *ToolState) SetTool(t Tool) bool {
	if !t.Valid() {
		log.Printf("[TOOLS] Ignoring unknown tool %q", t)
		return false
	}
	s.update(func(ts *ToolSettings) { ts.Tool = t })
	return true
}

// SetShape picks a primitive from the shape library and activates the shape tool.
func (s *ToolState) SetShape(k ShapeKind) bool {
	if !k.Valid() {
		log.Printf("[TOOLS] Ignoring unknown shape %q", k)
		return false
	}
	s.update(func(ts *ToolSettings) {
		ts.Shape = k
		ts.Tool = ToolShape
	})
	return true
}

func (s *ToolState) SetColor(c string) bool {
	if _, err := surface.ParseColor(c); err != nil {
		log.Printf("[TOOLS] Ignoring color: %v", err)
		return false
	}
	s.update(func(ts *ToolSettings) { ts.Color = c })
	return true
}

func (s *ToolState) SetSize(size float64) {
	s.update(func(ts *ToolSettings) { ts.Size = clamp(size, MinSize, MaxSize) })
}

func (s *ToolState) SetSmoothing(v float64) {
	s.update(func(ts *ToolSettings) { ts.Smoothing = clamp(v, 0, 1) })
}

func (s *ToolState) SetText(text string) {
	s.update(func(ts *ToolSettings) { ts.Text = text })
}

func (s *ToolState) update(fn func(*ToolSettings)) {
	s.mu.Lock()
	fn(&s.settings)
	snapshot := s.settings
	s.mu.Unlock()

	if s.OnChange != nil {
		s.OnChange(snapshot)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
