package document

// Point is a 2D integer coordinate.
type Point struct {
	X int32
	Y int32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Color holds four independent channels. Transparency is kept as the raw
// channel value and emitted unchanged.
type Color struct {
	Red          uint8
	Green        uint8
	Blue         uint8
	Transparency uint8
}

// RGBA is shorthand for a Color literal.
func RGBA(r, g, b, a uint8) Color {
	return Color{Red: r, Green: g, Blue: b, Transparency: a}
}

type RotateKind uint8

const (
	RotateCircular RotateKind = iota
	RotateFlipX
	RotateFlipY
)

func (k RotateKind) String() string {
	switch k {
	case RotateCircular:
		return "Circular"
	case RotateFlipX:
		return "Flipx"
	case RotateFlipY:
		return "Flipy"
	}
	return "unknown"
}

// Rotate is either a circular rotation in whole degrees or one of the two
// flips. The zero value is Circular(0).
type Rotate struct {
	kind   RotateKind
	degree uint16
}

// Circular returns a rotation of degree mod 360.
func Circular(degree uint) Rotate {
	return Rotate{kind: RotateCircular, degree: uint16(degree % 360)}
}

func FlipX() Rotate { return Rotate{kind: RotateFlipX} }
func FlipY() Rotate { return Rotate{kind: RotateFlipY} }

func (r Rotate) Kind() RotateKind { return r.kind }

// Degree is always in [0, 360) and is 0 for flips.
func (r Rotate) Degree() uint16 { return r.degree }

// Styles apply to a whole shape. For a Group they wrap the children rather
// than merging into the children's own styles.
type Styles struct {
	Translate Point
	Rotate    Rotate
	Fill      Color
	Outline   Color
}

// Viewport is the rendering window's bounding corners.
type Viewport struct {
	From Point
	To   Point
}

// Scene is the aggregate root: a viewport and an ordered shape forest. The
// scene exclusively owns its shapes; groups exclusively own their children.
type Scene struct {
	Viewport Viewport
	Shapes   []Shape
}

// NewScene creates a scene owning copies of the given shapes.
func NewScene(viewport Viewport, shapes ...Shape) Scene {
	return Scene{
		Viewport: viewport,
		Shapes:   cloneShapes(shapes),
	}
}

// Clone returns a deep copy sharing no slices with s.
func (s Scene) Clone() Scene {
	return Scene{
		Viewport: s.Viewport,
		Shapes:   cloneShapes(s.Shapes),
	}
}
