package snapshot

import (
	"fmt"

	"github.com/inamate/vecscene/internal/document"
)

// The persisted form is a tree of objects, arrays and scalars. Variants are
// externally tagged: a payload-carrying variant is a single-key object
// {"Tag": payload}, a payload-free one is the bare string "Tag".
type object = map[string]any

func sceneTree(s document.Scene) (object, error) {
	shapes, err := shapesTree(s.Shapes, "$.shapes")
	if err != nil {
		return nil, err
	}
	return object{
		"viewport": object{
			"from": pointTree(s.Viewport.From),
			"to":   pointTree(s.Viewport.To),
		},
		"shapes": shapes,
	}, nil
}

func shapesTree(shapes []document.Shape, path string) ([]any, error) {
	out := make([]any, len(shapes))
	for i, shape := range shapes {
		t, err := shapeTree(shape, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func shapeTree(shape document.Shape, path string) (object, error) {
	var payload any
	switch v := shape.Variant.(type) {
	case document.Ellipse:
		payload = object{
			"origin":   pointTree(v.Origin),
			"radius_x": int64(v.RadiusX),
			"radius_y": int64(v.RadiusY),
		}
	case document.Rectangle:
		payload = object{
			"origin": pointTree(v.Origin),
			"width":  int64(v.Width),
			"height": int64(v.Height),
		}
	case document.Line:
		payload = object{
			"from": pointTree(v.From),
			"to":   pointTree(v.To),
		}
	case document.Polyline:
		payload = pointsTree(v.Points)
	case document.Polygon:
		payload = pointsTree(v.Points)
	case document.Path:
		cmds := make([]any, len(v.Commands))
		for i, c := range v.Commands {
			t, err := commandTree(c)
			if err != nil {
				return nil, fmt.Errorf("%s.shape.Path[%d]: %w", path, i, err)
			}
			cmds[i] = t
		}
		payload = cmds
	case document.Group:
		children, err := shapesTree(v.Children, path+".shape.Group")
		if err != nil {
			return nil, err
		}
		payload = children
	default:
		return nil, fmt.Errorf("%s: unsupported shape variant %T", path, shape.Variant)
	}
	return object{
		"shape":  object{string(shape.Variant.Kind()): payload},
		"styles": stylesTree(shape.Styles),
	}, nil
}

func commandTree(c document.PathCommand) (any, error) {
	var payload any
	switch v := c.(type) {
	case document.MoveTo:
		payload = pointTree(v.To)
	case document.LineTo:
		payload = pointTree(v.To)
	case document.HorizontalLineTo:
		payload = int64(v.X)
	case document.VerticalLineTo:
		payload = int64(v.Y)
	case document.CubicCurveTo:
		payload = []any{pointTree(v.Control1), pointTree(v.Control2), pointTree(v.To)}
	case document.CubicCurveToShorthand:
		payload = []any{pointTree(v.Control2), pointTree(v.To)}
	case document.QuadraticCurveTo:
		payload = []any{pointTree(v.Control), pointTree(v.To)}
	case document.QuadraticCurveToShorthand:
		payload = pointTree(v.To)
	case document.EndOfPath:
		return v.Name(), nil
	default:
		return nil, fmt.Errorf("unsupported path command %T", c)
	}
	return object{c.Name(): payload}, nil
}

func stylesTree(st document.Styles) object {
	return object{
		"translate": pointTree(st.Translate),
		"rotate":    rotateTree(st.Rotate),
		"fill":      colorTree(st.Fill),
		"outline":   colorTree(st.Outline),
	}
}

func rotateTree(r document.Rotate) any {
	if r.Kind() == document.RotateCircular {
		return object{r.Kind().String(): int64(r.Degree())}
	}
	return r.Kind().String()
}

func colorTree(c document.Color) object {
	return object{
		"red":          int64(c.Red),
		"green":        int64(c.Green),
		"blue":         int64(c.Blue),
		"transparency": int64(c.Transparency),
	}
}

func pointTree(p document.Point) object {
	return object{"x": int64(p.X), "y": int64(p.Y)}
}

func pointsTree(points []document.Point) []any {
	out := make([]any, len(points))
	for i, p := range points {
		out[i] = pointTree(p)
	}
	return out
}
