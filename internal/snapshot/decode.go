package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/inamate/vecscene/internal/document"
)

var ErrDecode = errors.New("malformed scene snapshot")

// DecodeError reports the first structural violation found in a snapshot.
// Path is a JSONPath-like location such as $.shapes[2].styles.fill.red.
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode scene: %s: %s", e.Path, e.Reason)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func failf(path, format string, args ...any) error {
	return &DecodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func decodeScene(v any) (document.Scene, error) {
	const path = "$"
	obj, err := fields(v, path, "viewport", "shapes")
	if err != nil {
		return document.Scene{}, err
	}
	vp, err := fields(obj["viewport"], path+".viewport", "from", "to")
	if err != nil {
		return document.Scene{}, err
	}
	from, err := decodePoint(vp["from"], path+".viewport.from")
	if err != nil {
		return document.Scene{}, err
	}
	to, err := decodePoint(vp["to"], path+".viewport.to")
	if err != nil {
		return document.Scene{}, err
	}
	shapes, err := decodeShapes(obj["shapes"], path+".shapes")
	if err != nil {
		return document.Scene{}, err
	}
	return document.Scene{
		Viewport: document.Viewport{From: from, To: to},
		Shapes:   shapes,
	}, nil
}

func decodeShapes(v any, path string) ([]document.Shape, error) {
	items, err := array(v, path)
	if err != nil {
		return nil, err
	}
	shapes := make([]document.Shape, len(items))
	for i, item := range items {
		shapes[i], err = decodeShape(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
	}
	return shapes, nil
}

func decodeShape(v any, path string) (document.Shape, error) {
	obj, err := fields(v, path, "shape", "styles")
	if err != nil {
		return document.Shape{}, err
	}
	variant, err := decodeVariant(obj["shape"], path+".shape")
	if err != nil {
		return document.Shape{}, err
	}
	styles, err := decodeStyles(obj["styles"], path+".styles")
	if err != nil {
		return document.Shape{}, err
	}
	return document.Shape{Variant: variant, Styles: styles}, nil
}

func decodeVariant(v any, path string) (document.Variant, error) {
	tag, payload, ok, err := tagged(v, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, failf(path, "shape variant %q requires a payload", tag)
	}
	path += "." + tag
	switch document.ShapeKind(tag) {
	case document.KindEllipse:
		obj, err := fields(payload, path, "origin", "radius_x", "radius_y")
		if err != nil {
			return nil, err
		}
		origin, err := decodePoint(obj["origin"], path+".origin")
		if err != nil {
			return nil, err
		}
		rx, err := uint32Field(obj, path, "radius_x")
		if err != nil {
			return nil, err
		}
		ry, err := uint32Field(obj, path, "radius_y")
		if err != nil {
			return nil, err
		}
		return document.Ellipse{Origin: origin, RadiusX: rx, RadiusY: ry}, nil
	case document.KindRectangle:
		obj, err := fields(payload, path, "origin", "width", "height")
		if err != nil {
			return nil, err
		}
		origin, err := decodePoint(obj["origin"], path+".origin")
		if err != nil {
			return nil, err
		}
		w, err := uint32Field(obj, path, "width")
		if err != nil {
			return nil, err
		}
		h, err := uint32Field(obj, path, "height")
		if err != nil {
			return nil, err
		}
		return document.Rectangle{Origin: origin, Width: w, Height: h}, nil
	case document.KindLine:
		obj, err := fields(payload, path, "from", "to")
		if err != nil {
			return nil, err
		}
		from, err := decodePoint(obj["from"], path+".from")
		if err != nil {
			return nil, err
		}
		to, err := decodePoint(obj["to"], path+".to")
		if err != nil {
			return nil, err
		}
		return document.Line{From: from, To: to}, nil
	case document.KindPolyline:
		points, err := decodePoints(payload, path)
		if err != nil {
			return nil, err
		}
		return document.Polyline{Points: points}, nil
	case document.KindPolygon:
		points, err := decodePoints(payload, path)
		if err != nil {
			return nil, err
		}
		return document.Polygon{Points: points}, nil
	case document.KindPath:
		items, err := array(payload, path)
		if err != nil {
			return nil, err
		}
		cmds := make([]document.PathCommand, len(items))
		for i, item := range items {
			cmds[i], err = decodeCommand(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
		}
		return document.Path{Commands: cmds}, nil
	case document.KindGroup:
		children, err := decodeShapes(payload, path)
		if err != nil {
			return nil, err
		}
		return document.Group{Children: children}, nil
	}
	return nil, failf(path, "unknown shape variant %q", tag)
}

func decodeCommand(v any, path string) (document.PathCommand, error) {
	tag, payload, ok, err := tagged(v, path)
	if err != nil {
		return nil, err
	}
	if tag == (document.EndOfPath{}).Name() {
		if ok {
			return nil, failf(path, "EndOfPath takes no payload")
		}
		return document.EndOfPath{}, nil
	}
	if !ok {
		return nil, failf(path, "path command %q requires a payload", tag)
	}
	path += "." + tag
	switch tag {
	case "MoveTo", "LineTo", "QuadraticCurveToShorthand":
		p, err := decodePoint(payload, path)
		if err != nil {
			return nil, err
		}
		switch tag {
		case "MoveTo":
			return document.MoveTo{To: p}, nil
		case "LineTo":
			return document.LineTo{To: p}, nil
		}
		return document.QuadraticCurveToShorthand{To: p}, nil
	case "HorizontalLineTo":
		x, err := integer(payload, path, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return document.HorizontalLineTo{X: int32(x)}, nil
	case "VerticalLineTo":
		y, err := integer(payload, path, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return document.VerticalLineTo{Y: int32(y)}, nil
	case "CubicCurveTo":
		ps, err := pointTuple(payload, path, 3)
		if err != nil {
			return nil, err
		}
		return document.CubicCurveTo{Control1: ps[0], Control2: ps[1], To: ps[2]}, nil
	case "CubicCurveToShorthand":
		ps, err := pointTuple(payload, path, 2)
		if err != nil {
			return nil, err
		}
		return document.CubicCurveToShorthand{Control2: ps[0], To: ps[1]}, nil
	case "QuadraticCurveTo":
		ps, err := pointTuple(payload, path, 2)
		if err != nil {
			return nil, err
		}
		return document.QuadraticCurveTo{Control: ps[0], To: ps[1]}, nil
	}
	return nil, failf(path, "unknown path command %q", tag)
}

func decodeStyles(v any, path string) (document.Styles, error) {
	obj, err := fields(v, path, "translate", "rotate", "fill", "outline")
	if err != nil {
		return document.Styles{}, err
	}
	translate, err := decodePoint(obj["translate"], path+".translate")
	if err != nil {
		return document.Styles{}, err
	}
	rotate, err := decodeRotate(obj["rotate"], path+".rotate")
	if err != nil {
		return document.Styles{}, err
	}
	fill, err := decodeColor(obj["fill"], path+".fill")
	if err != nil {
		return document.Styles{}, err
	}
	outline, err := decodeColor(obj["outline"], path+".outline")
	if err != nil {
		return document.Styles{}, err
	}
	return document.Styles{Translate: translate, Rotate: rotate, Fill: fill, Outline: outline}, nil
}

func decodeRotate(v any, path string) (document.Rotate, error) {
	tag, payload, ok, err := tagged(v, path)
	if err != nil {
		return document.Rotate{}, err
	}
	switch tag {
	case document.RotateCircular.String():
		if !ok {
			return document.Rotate{}, failf(path, "Circular requires a degree")
		}
		// Stored degrees are already normalised, anything else is corrupt.
		deg, err := integer(payload, path+"."+tag, 0, 359)
		if err != nil {
			return document.Rotate{}, err
		}
		return document.Circular(uint(deg)), nil
	case document.RotateFlipX.String(), document.RotateFlipY.String():
		if ok {
			return document.Rotate{}, failf(path, "%s takes no payload", tag)
		}
		if tag == document.RotateFlipX.String() {
			return document.FlipX(), nil
		}
		return document.FlipY(), nil
	}
	return document.Rotate{}, failf(path, "unknown rotation %q", tag)
}

func decodeColor(v any, path string) (document.Color, error) {
	obj, err := fields(v, path, "red", "green", "blue", "transparency")
	if err != nil {
		return document.Color{}, err
	}
	var ch [4]uint8
	for i, name := range []string{"red", "green", "blue", "transparency"} {
		n, err := integer(obj[name], path+"."+name, 0, math.MaxUint8)
		if err != nil {
			return document.Color{}, err
		}
		ch[i] = uint8(n)
	}
	return document.RGBA(ch[0], ch[1], ch[2], ch[3]), nil
}

func decodePoint(v any, path string) (document.Point, error) {
	obj, err := fields(v, path, "x", "y")
	if err != nil {
		return document.Point{}, err
	}
	x, err := integer(obj["x"], path+".x", math.MinInt32, math.MaxInt32)
	if err != nil {
		return document.Point{}, err
	}
	y, err := integer(obj["y"], path+".y", math.MinInt32, math.MaxInt32)
	if err != nil {
		return document.Point{}, err
	}
	return document.Pt(int32(x), int32(y)), nil
}

func decodePoints(v any, path string) ([]document.Point, error) {
	items, err := array(v, path)
	if err != nil {
		return nil, err
	}
	points := make([]document.Point, len(items))
	for i, item := range items {
		points[i], err = decodePoint(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

func pointTuple(v any, path string, n int) ([]document.Point, error) {
	items, err := array(v, path)
	if err != nil {
		return nil, err
	}
	if len(items) != n {
		return nil, failf(path, "expected %d points, got %d", n, len(items))
	}
	return decodePoints(items, path)
}

func uint32Field(obj object, path, name string) (uint32, error) {
	n, err := integer(obj[name], path+"."+name, 0, math.MaxUint32)
	return uint32(n), err
}

// fields requires v to be an object with exactly the given keys.
func fields(v any, path string, names ...string) (object, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if _, ok := obj[name]; !ok {
			return nil, failf(path, "missing field %q", name)
		}
	}
	if len(obj) != len(names) {
		for _, key := range slices.Sorted(maps.Keys(obj)) {
			if !slices.Contains(names, key) {
				return nil, failf(path, "unknown field %q", key)
			}
		}
	}
	return obj, nil
}

// tagged reads an externally tagged variant. ok reports whether a payload
// was present.
func tagged(v any, path string) (tag string, payload any, ok bool, err error) {
	if s, isString := v.(string); isString {
		return s, nil, false, nil
	}
	obj, err := asObject(v, path)
	if err != nil {
		return "", nil, false, failf(path, "expected variant tag, got %s", kindOf(v))
	}
	if len(obj) != 1 {
		return "", nil, false, failf(path, "variant object must have exactly one key, got %d", len(obj))
	}
	for k, p := range obj {
		tag, payload = k, p
	}
	return tag, payload, true, nil
}

func asObject(v any, path string) (object, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(object, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, failf(path, "non-string key %v", k)
			}
			out[s] = val
		}
		return out, nil
	}
	return nil, failf(path, "expected object, got %s", kindOf(v))
}

func array(v any, path string) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, failf(path, "expected array, got %s", kindOf(v))
	}
	return items, nil
}

func integer(v any, path string, lo, hi int64) (int64, error) {
	var n int64
	switch x := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return 0, failf(path, "expected integer, got %s", x)
		}
		n = i
	case int:
		n = int64(x)
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt64 {
			return 0, failf(path, "value %d out of range [%d, %d]", x, lo, hi)
		}
		n = int64(x)
	default:
		return 0, failf(path, "expected integer, got %s", kindOf(v))
	}
	if n < lo || n > hi {
		return 0, failf(path, "value %d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, int, int64, uint64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
