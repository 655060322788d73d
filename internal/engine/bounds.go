package engine

import (
	"github.com/inamate/vecscene/internal/document"
)

// Rect is an axis-aligned box in scene units.
type Rect struct {
	X      int64 `json:"x"`
	Y      int64 `json:"y"`
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// Contains checks if a point is inside the rect, edges included.
func (r Rect) Contains(x, y int64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	minX, minY := min(r.X, other.X), min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// extent accumulates points into a bounding box.
type extent struct {
	rect Rect
	ok   bool
}

func (e *extent) add(x, y int64) {
	if !e.ok {
		e.rect, e.ok = Rect{X: x, Y: y}, true
		return
	}
	e.rect = e.rect.Union(Rect{X: x, Y: y})
}

func (e *extent) addRect(r Rect, ok bool) {
	if !ok {
		return
	}
	if !e.ok {
		e.rect, e.ok = r, true
		return
	}
	e.rect = e.rect.Union(r)
}

// Bounds returns the box covering shape once it and its ancestors'
// translations are applied. Rotation is not taken into account, and curves
// are bounded by their control points. Shapes without geometry (empty
// polylines, paths and groups) report false.
func Bounds(shape document.Shape, offsetX, offsetY int64) (Rect, bool) {
	ox := offsetX + int64(shape.Styles.Translate.X)
	oy := offsetY + int64(shape.Styles.Translate.Y)
	var e extent
	pt := func(p document.Point) { e.add(ox+int64(p.X), oy+int64(p.Y)) }

	switch v := shape.Variant.(type) {
	case document.Ellipse:
		cx, cy := ox+int64(v.Origin.X), oy+int64(v.Origin.Y)
		rx, ry := int64(v.RadiusX), int64(v.RadiusY)
		e.add(cx-rx, cy-ry)
		e.add(cx+rx, cy+ry)
	case document.Rectangle:
		x, y := ox+int64(v.Origin.X), oy+int64(v.Origin.Y)
		e.add(x, y)
		e.add(x+int64(v.Width), y+int64(v.Height))
	case document.Line:
		pt(v.From)
		pt(v.To)
	case document.Polyline:
		for _, p := range v.Points {
			pt(p)
		}
	case document.Polygon:
		for _, p := range v.Points {
			pt(p)
		}
	case document.Path:
		var cur document.Point
		for _, c := range v.Commands {
			switch c := c.(type) {
			case document.MoveTo:
				cur = c.To
			case document.LineTo:
				cur = c.To
			case document.HorizontalLineTo:
				cur.X = c.X
			case document.VerticalLineTo:
				cur.Y = c.Y
			case document.CubicCurveTo:
				pt(c.Control1)
				pt(c.Control2)
				cur = c.To
			case document.CubicCurveToShorthand:
				pt(c.Control2)
				cur = c.To
			case document.QuadraticCurveTo:
				pt(c.Control)
				cur = c.To
			case document.QuadraticCurveToShorthand:
				cur = c.To
			default:
				continue
			}
			pt(cur)
		}
	case document.Group:
		for _, child := range v.Children {
			e.addRect(Bounds(child, ox, oy))
		}
	}
	return e.rect, e.ok
}

// HitTest returns the address of the topmost shape whose bounds contain
// (x, y), or nil. Later shapes paint over earlier ones. Groups are never hit
// themselves, only their descendants.
func HitTest(s document.Scene, x, y int64) document.Address {
	return hitShapes(s.Shapes, nil, 0, 0, x, y)
}

func hitShapes(shapes []document.Shape, prefix document.Address, ox, oy, x, y int64) document.Address {
	for i := len(shapes) - 1; i >= 0; i-- {
		shape := shapes[i]
		addr := append(append(document.Address{}, prefix...), i)
		if g, ok := shape.Variant.(document.Group); ok {
			gx := ox + int64(shape.Styles.Translate.X)
			gy := oy + int64(shape.Styles.Translate.Y)
			if hit := hitShapes(g.Children, addr, gx, gy, x, y); hit != nil {
				return hit
			}
			continue
		}
		if r, ok := Bounds(shape, ox, oy); ok && r.Contains(x, y) {
			return addr
		}
	}
	return nil
}
