package document

// ShapeKind names one case of the closed shape variant set.
type ShapeKind string

const (
	KindEllipse   ShapeKind = "Ellipse"
	KindRectangle ShapeKind = "Rectangle"
	KindLine      ShapeKind = "Line"
	KindPolyline  ShapeKind = "Polyline"
	KindPolygon   ShapeKind = "Polygon"
	KindPath      ShapeKind = "Path"
	KindGroup     ShapeKind = "Group"
)

// Variant is implemented only by the shape types of this package, so the
// tag of a Shape always agrees with its payload.
type Variant interface {
	Kind() ShapeKind
	cloneVariant() Variant
}

type Ellipse struct {
	Origin  Point
	RadiusX uint32
	RadiusY uint32
}

type Rectangle struct {
	Origin Point
	Width  uint32
	Height uint32
}

type Line struct {
	From Point
	To   Point
}

// Polyline is an open sequence of points.
type Polyline struct {
	Points []Point
}

// Polygon is implicitly closed when rendered.
type Polygon struct {
	Points []Point
}

// Path draws its commands in sequence order.
type Path struct {
	Commands []PathCommand
}

// Group owns an ordered sequence of child shapes, which may be groups.
type Group struct {
	Children []Shape
}

func (Ellipse) Kind() ShapeKind   { return KindEllipse }
func (Rectangle) Kind() ShapeKind { return KindRectangle }
func (Line) Kind() ShapeKind      { return KindLine }
func (Polyline) Kind() ShapeKind  { return KindPolyline }
func (Polygon) Kind() ShapeKind   { return KindPolygon }
func (Path) Kind() ShapeKind      { return KindPath }
func (Group) Kind() ShapeKind     { return KindGroup }

func (v Ellipse) cloneVariant() Variant   { return v }
func (v Rectangle) cloneVariant() Variant { return v }
func (v Line) cloneVariant() Variant      { return v }
func (v Polyline) cloneVariant() Variant  { return Polyline{Points: clonePoints(v.Points)} }
func (v Polygon) cloneVariant() Variant   { return Polygon{Points: clonePoints(v.Points)} }
func (v Path) cloneVariant() Variant      { return Path{Commands: cloneCommands(v.Commands)} }
func (v Group) cloneVariant() Variant     { return Group{Children: cloneShapes(v.Children)} }

// Shape pairs a variant with the styles applied to it.
type Shape struct {
	Variant Variant
	Styles  Styles
}

// Kind returns the variant's kind, or "" for a shape without a variant.
func (s Shape) Kind() ShapeKind {
	if s.Variant == nil {
		return ""
	}
	return s.Variant.Kind()
}

// WithStyles returns a copy of s using st.
func (s Shape) WithStyles(st Styles) Shape {
	s.Styles = st
	return s
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	if s.Variant == nil {
		return s
	}
	return Shape{Variant: s.Variant.cloneVariant(), Styles: s.Styles}
}

func NewEllipse(origin Point, radiusX, radiusY uint32) Shape {
	return Shape{Variant: Ellipse{Origin: origin, RadiusX: radiusX, RadiusY: radiusY}}
}

func NewRectangle(origin Point, width, height uint32) Shape {
	return Shape{Variant: Rectangle{Origin: origin, Width: width, Height: height}}
}

func NewLine(from, to Point) Shape {
	return Shape{Variant: Line{From: from, To: to}}
}

func NewPolyline(points ...Point) Shape {
	return Shape{Variant: Polyline{Points: clonePoints(points)}}
}

func NewPolygon(points ...Point) Shape {
	return Shape{Variant: Polygon{Points: clonePoints(points)}}
}

func NewPath(commands ...PathCommand) Shape {
	return Shape{Variant: Path{Commands: cloneCommands(commands)}}
}

func NewGroup(children ...Shape) Shape {
	return Shape{Variant: Group{Children: cloneShapes(children)}}
}

func clonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// Commands are plain values, so a shallow copy is a deep copy.
func cloneCommands(commands []PathCommand) []PathCommand {
	out := make([]PathCommand, len(commands))
	copy(out, commands)
	return out
}

func cloneShapes(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
