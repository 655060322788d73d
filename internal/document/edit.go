package document

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotGroup        = errors.New("shape is not a group")
)

// IndexError reports a mutation index outside the sequence bounds. Insert
// accepts [0, Length]; replace and remove accept [0, Length).
type IndexError struct {
	Op     string
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	upper := e.Length - 1
	if e.Op == "insert" {
		upper = e.Length
	}
	if upper < 0 {
		return fmt.Sprintf("%s index %d out of range: sequence is empty", e.Op, e.Index)
	}
	return fmt.Sprintf("%s index %d out of range [0, %d]", e.Op, e.Index, upper)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// InsertAt returns a new slice with item placed at index.
func InsertAt[T any](items []T, index int, item T) ([]T, error) {
	if index < 0 || index > len(items) {
		return nil, &IndexError{Op: "insert", Index: index, Length: len(items)}
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:index]...)
	out = append(out, item)
	out = append(out, items[index:]...)
	return out, nil
}

// ReplaceAt returns a new slice with the element at index replaced by item.
func ReplaceAt[T any](items []T, index int, item T) ([]T, error) {
	if index < 0 || index >= len(items) {
		return nil, &IndexError{Op: "replace", Index: index, Length: len(items)}
	}
	out := make([]T, len(items))
	copy(out, items)
	out[index] = item
	return out, nil
}

// RemoveAt returns a new slice without the element at index.
func RemoveAt[T any](items []T, index int) ([]T, error) {
	if index < 0 || index >= len(items) {
		return nil, &IndexError{Op: "remove", Index: index, Length: len(items)}
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	out = append(out, items[index+1:]...)
	return out, nil
}

// apply runs a pure slice edit and stores the result only on success, so a
// rejected edit leaves the sequence untouched.
func apply[T any](dst *[]T, edit func([]T) ([]T, error)) error {
	out, err := edit(*dst)
	if err != nil {
		return err
	}
	*dst = out
	return nil
}

func insertInto[T any](dst *[]T, index int, item T) error {
	return apply(dst, func(s []T) ([]T, error) { return InsertAt(s, index, item) })
}

func replaceIn[T any](dst *[]T, index int, item T) error {
	return apply(dst, func(s []T) ([]T, error) { return ReplaceAt(s, index, item) })
}

func removeFrom[T any](dst *[]T, index int) error {
	return apply(dst, func(s []T) ([]T, error) { return RemoveAt(s, index) })
}

func (s *Scene) InsertShape(index int, shape Shape) error {
	return insertInto(&s.Shapes, index, shape.Clone())
}

func (s *Scene) ReplaceShape(index int, shape Shape) error {
	return replaceIn(&s.Shapes, index, shape.Clone())
}

func (s *Scene) RemoveShape(index int) error {
	return removeFrom(&s.Shapes, index)
}

func (g *Group) InsertChild(index int, shape Shape) error {
	return insertInto(&g.Children, index, shape.Clone())
}

func (g *Group) ReplaceChild(index int, shape Shape) error {
	return replaceIn(&g.Children, index, shape.Clone())
}

func (g *Group) RemoveChild(index int) error {
	return removeFrom(&g.Children, index)
}

func (p *Polyline) InsertPoint(index int, pt Point) error  { return insertInto(&p.Points, index, pt) }
func (p *Polyline) ReplacePoint(index int, pt Point) error { return replaceIn(&p.Points, index, pt) }
func (p *Polyline) RemovePoint(index int) error            { return removeFrom(&p.Points, index) }

func (p *Polygon) InsertPoint(index int, pt Point) error  { return insertInto(&p.Points, index, pt) }
func (p *Polygon) ReplacePoint(index int, pt Point) error { return replaceIn(&p.Points, index, pt) }
func (p *Polygon) RemovePoint(index int) error            { return removeFrom(&p.Points, index) }

func (p *Path) InsertCommand(index int, cmd PathCommand) error {
	return insertInto(&p.Commands, index, cmd)
}

func (p *Path) ReplaceCommand(index int, cmd PathCommand) error {
	return replaceIn(&p.Commands, index, cmd)
}

func (p *Path) RemoveCommand(index int) error {
	return removeFrom(&p.Commands, index)
}
