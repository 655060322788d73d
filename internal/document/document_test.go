package document

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
)

func TestCircularNormalization(t *testing.T) {
	var tests = []struct {
		degree   uint
		expected uint16
	}{
		{0, 0},
		{10, 10},
		{359, 359},
		{360, 0},
		{370, 10},
		{720, 0},
		{65535, 15},
	}
	for _, tt := range tests {
		r := Circular(tt.degree)
		test.T(t, r.Kind(), RotateCircular)
		test.T(t, r.Degree(), tt.expected)
	}
}

func TestRotateDefault(t *testing.T) {
	var st Styles
	test.T(t, st.Rotate, Circular(0))
	test.T(t, FlipX().Kind(), RotateFlipX)
	test.T(t, FlipY().Degree(), uint16(0))
	test.That(t, FlipX() != FlipY())
}

func TestInsertBounds(t *testing.T) {
	items := []int{1, 2, 3}

	out, err := InsertAt(items, 3, 4)
	test.Error(t, err)
	test.T(t, out, []int{1, 2, 3, 4})

	out, err = InsertAt(items, 0, 0)
	test.Error(t, err)
	test.T(t, out, []int{0, 1, 2, 3})
	test.T(t, items, []int{1, 2, 3})

	_, err = InsertAt(items, 4, 5)
	test.That(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = InsertAt(items, -1, 5)
	test.That(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestReplaceRemoveBounds(t *testing.T) {
	items := []string{"a", "b"}

	_, err := ReplaceAt(items, 2, "c")
	var idxErr *IndexError
	test.That(t, errors.As(err, &idxErr))
	test.T(t, idxErr.Op, "replace")
	test.T(t, idxErr.Length, 2)

	_, err = RemoveAt(items, 2)
	test.That(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = RemoveAt([]string{}, 0)
	test.That(t, errors.Is(err, ErrIndexOutOfRange))
	test.T(t, err.Error(), "remove index 0 out of range: sequence is empty")

	out, err := ReplaceAt(items, 1, "c")
	test.Error(t, err)
	test.T(t, out, []string{"a", "c"})
	test.T(t, items, []string{"a", "b"})

	out, err = RemoveAt(items, 0)
	test.Error(t, err)
	test.T(t, out, []string{"b"})
}

func TestSceneEditsLeaveStateOnError(t *testing.T) {
	s := NewScene(Viewport{}, NewLine(Pt(0, 0), Pt(1, 1)))

	test.That(t, s.InsertShape(2, NewEllipse(Pt(0, 0), 1, 1)) != nil)
	test.That(t, s.RemoveShape(1) != nil)
	test.That(t, s.ReplaceShape(1, NewEllipse(Pt(0, 0), 1, 1)) != nil)
	test.T(t, len(s.Shapes), 1)

	test.Error(t, s.InsertShape(1, NewEllipse(Pt(0, 0), 1, 1)))
	test.T(t, s.Shapes[1].Kind(), KindEllipse)
	test.Error(t, s.RemoveShape(0))
	test.T(t, s.Shapes[0].Kind(), KindEllipse)
}

func TestPointAndCommandEdits(t *testing.T) {
	pl := Polyline{}
	test.Error(t, pl.InsertPoint(0, Pt(1, 1)))
	test.Error(t, pl.InsertPoint(1, Pt(2, 2)))
	test.Error(t, pl.ReplacePoint(0, Pt(0, 0)))
	test.T(t, pl.Points, []Point{{0, 0}, {2, 2}})
	test.That(t, pl.RemovePoint(2) != nil)

	pg := Polygon{Points: []Point{{1, 1}}}
	test.Error(t, pg.RemovePoint(0))
	test.T(t, len(pg.Points), 0)

	p := Path{}
	test.Error(t, p.InsertCommand(0, MoveTo{To: Pt(0, 0)}))
	test.Error(t, p.InsertCommand(1, EndOfPath{}))
	test.Error(t, p.InsertCommand(1, LineTo{To: Pt(10, 10)}))
	test.T(t, p.Commands, []PathCommand{MoveTo{To: Pt(0, 0)}, LineTo{To: Pt(10, 10)}, EndOfPath{}})
	test.Error(t, p.ReplaceCommand(2, HorizontalLineTo{X: 4}))
	test.T(t, p.Commands[2].Code(), byte('H'))
	test.That(t, p.RemoveCommand(3) != nil)
}

func TestCloneIsDeep(t *testing.T) {
	s := NewScene(Viewport{}, NewGroup(NewPolyline(Pt(1, 2))))
	c := s.Clone()

	g := c.Shapes[0].Variant.(Group)
	pl := g.Children[0].Variant.(Polyline)
	pl.Points[0] = Pt(9, 9)

	orig := s.Shapes[0].Variant.(Group).Children[0].Variant.(Polyline)
	test.T(t, orig.Points[0], Pt(1, 2))
}

func TestConstructorsCopyInput(t *testing.T) {
	pts := []Point{{1, 1}, {2, 2}}
	shape := NewPolygon(pts...)
	pts[0] = Pt(5, 5)
	test.T(t, shape.Variant.(Polygon).Points[0], Pt(1, 1))

	empty := NewScene(Viewport{})
	test.That(t, empty.Shapes != nil)
	test.T(t, len(empty.Shapes), 0)
}

func TestShapeAt(t *testing.T) {
	s := NewScene(Viewport{},
		NewGroup(
			NewEllipse(Pt(0, 0), 1, 1),
			NewGroup(NewLine(Pt(0, 0), Pt(3, 3))),
		),
		NewRectangle(Pt(0, 0), 2, 2),
	)

	shape, err := s.ShapeAt(Address{0, 1, 0})
	test.Error(t, err)
	test.T(t, shape.Kind(), KindLine)

	shape.Styles.Fill = RGBA(1, 2, 3, 4)
	again, _ := s.ShapeAt(Address{0, 1, 0})
	test.T(t, again.Styles.Fill, RGBA(1, 2, 3, 4))

	_, err = s.ShapeAt(Address{1, 0})
	test.That(t, errors.Is(err, ErrNotGroup))

	_, err = s.ShapeAt(Address{0, 2})
	test.That(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = s.ShapeAt(Address{})
	test.That(t, errors.Is(err, ErrIndexOutOfRange))

	test.T(t, Address{0, 1, 0}.String(), "/0/1/0")
	test.T(t, Address{}.String(), "/")
}

func TestUpdateGroup(t *testing.T) {
	s := NewScene(Viewport{}, NewGroup())

	err := s.UpdateGroup(Address{0}, func(g *Group) error {
		return g.InsertChild(0, NewEllipse(Pt(1, 1), 2, 2))
	})
	test.Error(t, err)
	test.T(t, len(s.Shapes[0].Variant.(Group).Children), 1)

	err = s.UpdateGroup(nil, func(g *Group) error {
		return g.InsertChild(1, NewLine(Pt(0, 0), Pt(1, 1)))
	})
	test.Error(t, err)
	test.T(t, len(s.Shapes), 2)

	err = s.UpdateGroup(Address{1}, func(g *Group) error { return nil })
	test.That(t, errors.Is(err, ErrNotGroup))

	err = s.UpdateGroup(Address{0}, func(g *Group) error { return g.RemoveChild(5) })
	test.That(t, errors.Is(err, ErrIndexOutOfRange))
	test.T(t, len(s.Shapes[0].Variant.(Group).Children), 1)
}

func TestEqualTreatsEmptyAsNil(t *testing.T) {
	a := Scene{Shapes: nil}
	b := Scene{Shapes: []Shape{}}
	test.That(t, Equal(a, b))
	test.T(t, Diff(a, b), "")

	c := NewScene(Viewport{}, NewPath())
	d := Scene{Shapes: []Shape{{Variant: Path{}}}}
	test.That(t, Equal(c, d))

	e := NewScene(Viewport{}, NewEllipse(Pt(0, 0), 1, 2).WithStyles(Styles{Rotate: Circular(10)}))
	f := NewScene(Viewport{}, NewEllipse(Pt(0, 0), 1, 2).WithStyles(Styles{Rotate: Circular(370)}))
	test.That(t, Equal(e, f))
	test.That(t, !Equal(e, NewScene(Viewport{}, NewEllipse(Pt(0, 0), 1, 2))))
}

func TestSampleUsesEveryVariant(t *testing.T) {
	seen := map[ShapeKind]bool{}
	codes := map[byte]bool{}
	var walk func([]Shape)
	walk = func(shapes []Shape) {
		for _, s := range shapes {
			seen[s.Kind()] = true
			switch v := s.Variant.(type) {
			case Group:
				walk(v.Children)
			case Path:
				for _, c := range v.Commands {
					codes[c.Code()] = true
				}
			}
		}
	}
	walk(Sample().Shapes)
	test.T(t, len(seen), 7)
	test.T(t, len(codes), 9)
}
