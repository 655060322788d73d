package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Address locates a shape in the forest: the first index selects a
// top-level shape, each following index a child of the group reached so far.
type Address []int

func (a Address) String() string {
	if len(a) == 0 {
		return "/"
	}
	parts := make([]string, len(a))
	for i, idx := range a {
		parts[i] = strconv.Itoa(idx)
	}
	return "/" + strings.Join(parts, "/")
}

// ShapeAt returns a pointer to the addressed shape inside s. The pointer is
// valid until the containing sequence is next modified.
func (s *Scene) ShapeAt(addr Address) (*Shape, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("empty address: %w", ErrIndexOutOfRange)
	}
	shapes := s.Shapes
	var cur *Shape
	for depth, idx := range addr {
		if idx < 0 || idx >= len(shapes) {
			return nil, fmt.Errorf("address %s: %w", addr[:depth+1], &IndexError{Op: "lookup", Index: idx, Length: len(shapes)})
		}
		cur = &shapes[idx]
		if depth == len(addr)-1 {
			break
		}
		g, ok := cur.Variant.(Group)
		if !ok {
			return nil, fmt.Errorf("address %s: %w", addr[:depth+1], ErrNotGroup)
		}
		shapes = g.Children
	}
	return cur, nil
}

// UpdateGroup runs fn on the children of the group at addr, or on the
// top-level shapes when addr is empty. Changes are kept only if fn succeeds.
func (s *Scene) UpdateGroup(addr Address, fn func(g *Group) error) error {
	if len(addr) == 0 {
		g := Group{Children: s.Shapes}
		if err := fn(&g); err != nil {
			return err
		}
		s.Shapes = g.Children
		return nil
	}
	shape, err := s.ShapeAt(addr)
	if err != nil {
		return err
	}
	g, ok := shape.Variant.(Group)
	if !ok {
		return fmt.Errorf("address %s: %w", addr, ErrNotGroup)
	}
	if err := fn(&g); err != nil {
		return err
	}
	shape.Variant = g
	return nil
}

var equalOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.AllowUnexported(Rotate{}),
}

// Equal reports structural equality of two scenes, treating nil and empty
// sequences as equal.
func Equal(a, b Scene) bool {
	return cmp.Equal(a, b, equalOpts...)
}

// Diff returns a human readable difference, or "" when a and b are equal.
func Diff(a, b Scene) string {
	return cmp.Diff(a, b, equalOpts...)
}
