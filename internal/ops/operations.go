package ops

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/snapshot"
)

var (
	ErrUnknownOperation = errors.New("unknown operation type")
	ErrMissingPayload   = errors.New("missing operation payload")
	ErrWrongTarget      = errors.New("operation target has the wrong shape kind")
	ErrMalformed        = errors.New("malformed operation")
)

const (
	TypeShapeInsert    = "shape.insert"
	TypeShapeReplace   = "shape.replace"
	TypeShapeRemove    = "shape.remove"
	TypePointInsert    = "point.insert"
	TypePointReplace   = "point.replace"
	TypePointRemove    = "point.remove"
	TypeCommandInsert  = "command.insert"
	TypeCommandReplace = "command.replace"
	TypeCommandRemove  = "command.remove"
	TypeStylesSet      = "styles.set"
	TypeViewportSet    = "viewport.set"
)

// Operation is one edit submitted by the editor. Payload fields hold JSON
// fragments in the snapshot wire format.
//
// Target addresses the sequence owner: for shape.* the parent group (empty
// for the top level), for point.* a polyline or polygon, for command.* a
// path, for styles.set the shape itself.
type Operation struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"`
	Target   document.Address `json:"target,omitempty"`
	Index    *int             `json:"index,omitempty"`
	Shape    json.RawMessage  `json:"shape,omitempty"`
	Point    json.RawMessage  `json:"point,omitempty"`
	Command  json.RawMessage  `json:"command,omitempty"`
	Styles   json.RawMessage  `json:"styles,omitempty"`
	Viewport json.RawMessage  `json:"viewport,omitempty"`
}

// At returns a pointer to i for Operation.Index.
func At(i int) *int {
	return &i
}

// Decode reads one operation. Unknown fields and trailing data are rejected,
// so a misspelled field never turns into an edit at index 0.
func Decode(r io.Reader) (Operation, error) {
	var op Operation
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&op); err != nil {
		return Operation{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Operation{}, fmt.Errorf("%w: unexpected data after operation", ErrMalformed)
	}
	return op, nil
}

// Apply returns the scene produced by op. The input scene is never modified,
// so a rejected operation leaves the caller's state intact.
func Apply(s document.Scene, op Operation) (document.Scene, error) {
	next := s.Clone()
	if err := applyTo(&next, op); err != nil {
		return s, fmt.Errorf("%s: %w", op.Type, err)
	}
	return next, nil
}

func applyTo(s *document.Scene, op Operation) error {
	var index int
	switch op.Type {
	case TypeShapeInsert, TypeShapeReplace, TypeShapeRemove,
		TypePointInsert, TypePointReplace, TypePointRemove,
		TypeCommandInsert, TypeCommandReplace, TypeCommandRemove:
		if op.Index == nil {
			return fmt.Errorf("%w: index", ErrMissingPayload)
		}
		index = *op.Index
	}

	switch op.Type {
	case TypeShapeInsert, TypeShapeReplace:
		shape, err := decodePayload(op.Shape, snapshot.DecodeShape)
		if err != nil {
			return err
		}
		return s.UpdateGroup(op.Target, func(g *document.Group) error {
			if op.Type == TypeShapeInsert {
				return g.InsertChild(index, shape)
			}
			return g.ReplaceChild(index, shape)
		})
	case TypeShapeRemove:
		return s.UpdateGroup(op.Target, func(g *document.Group) error {
			return g.RemoveChild(index)
		})
	case TypePointInsert, TypePointReplace, TypePointRemove:
		return applyPoint(s, op, index)
	case TypeCommandInsert, TypeCommandReplace, TypeCommandRemove:
		return applyCommand(s, op, index)
	case TypeStylesSet:
		styles, err := decodePayload(op.Styles, snapshot.DecodeStyles)
		if err != nil {
			return err
		}
		shape, err := s.ShapeAt(op.Target)
		if err != nil {
			return err
		}
		shape.Styles = styles
		return nil
	case TypeViewportSet:
		vp, err := decodePayload(op.Viewport, snapshot.DecodeViewport)
		if err != nil {
			return err
		}
		s.Viewport = vp
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownOperation, op.Type)
}

// pointEditor is satisfied by *Polyline and *Polygon.
type pointEditor interface {
	InsertPoint(int, document.Point) error
	ReplacePoint(int, document.Point) error
	RemovePoint(int) error
}

func applyPoint(s *document.Scene, op Operation, index int) error {
	shape, err := s.ShapeAt(op.Target)
	if err != nil {
		return err
	}
	var (
		editor pointEditor
		commit func()
	)
	switch v := shape.Variant.(type) {
	case document.Polyline:
		editor, commit = &v, func() { shape.Variant = v }
	case document.Polygon:
		editor, commit = &v, func() { shape.Variant = v }
	default:
		return fmt.Errorf("%w: %s is a %s", ErrWrongTarget, op.Target, shape.Kind())
	}

	switch op.Type {
	case TypePointRemove:
		err = editor.RemovePoint(index)
	default:
		var pt document.Point
		pt, err = decodePayload(op.Point, snapshot.DecodePoint)
		if err != nil {
			return err
		}
		if op.Type == TypePointInsert {
			err = editor.InsertPoint(index, pt)
		} else {
			err = editor.ReplacePoint(index, pt)
		}
	}
	if err != nil {
		return err
	}
	commit()
	return nil
}

func applyCommand(s *document.Scene, op Operation, index int) error {
	shape, err := s.ShapeAt(op.Target)
	if err != nil {
		return err
	}
	path, ok := shape.Variant.(document.Path)
	if !ok {
		return fmt.Errorf("%w: %s is a %s", ErrWrongTarget, op.Target, shape.Kind())
	}

	switch op.Type {
	case TypeCommandRemove:
		err = path.RemoveCommand(index)
	default:
		var cmd document.PathCommand
		cmd, err = decodePayload(op.Command, snapshot.DecodePathCommand)
		if err != nil {
			return err
		}
		if op.Type == TypeCommandInsert {
			err = path.InsertCommand(index, cmd)
		} else {
			err = path.ReplaceCommand(index, cmd)
		}
	}
	if err != nil {
		return err
	}
	shape.Variant = path
	return nil
}

func decodePayload[T any](raw json.RawMessage, decode func([]byte) (T, error)) (T, error) {
	if len(raw) == 0 {
		var zero T
		return zero, ErrMissingPayload
	}
	return decode(raw)
}
