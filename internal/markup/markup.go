// Package markup renders a scene as SVG text. Output is byte-exact: attribute
// order, quoting, separators and the one-letter path codes are fixed.
package markup

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inamate/vecscene/internal/document"
)

// ErrUnsupportedVariant is returned for a shape whose variant is nil or
// foreign to the document package.
var ErrUnsupportedVariant = errors.New("unsupported shape variant")

const (
	Namespace = "http://www.w3.org/2000/svg"
	indent    = "  "
)

// Write emits s as a complete <svg> document. Top-level shapes are written at
// depth 1. It fails when the sink rejects a write or a shape holds a nil or
// foreign variant.
func Write(w io.Writer, s document.Scene) error {
	e := newEmitter(w)
	e.writeString(`<svg xmlns="` + Namespace + `" viewport="`)
	e.writePoint(s.Viewport.From)
	e.writeByte(' ')
	e.writePoint(s.Viewport.To)
	e.writeString("\">\n")
	for _, shape := range s.Shapes {
		e.shape(shape, 1)
	}
	e.writeString("</svg>\n")
	return e.flush()
}

// WriteShape emits a single shape and, for groups, its descendants, starting
// at the given depth.
func WriteShape(w io.Writer, shape document.Shape, depth int) error {
	e := newEmitter(w)
	e.shape(shape, depth)
	return e.flush()
}

// Bytes returns the markup for s, or ErrUnsupportedVariant when a shape
// cannot be emitted.
func Bytes(s document.Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the markup for s. Output stops at the first shape that
// cannot be emitted; use Bytes for scenes not produced by the decoder or the
// document constructors.
func String(s document.Scene) string {
	var sb strings.Builder
	_ = Write(&sb, s)
	return sb.String()
}

// ShapeString returns the markup for a single shape at the given depth. Like
// String it drops the error.
func ShapeString(shape document.Shape, depth int) string {
	var sb strings.Builder
	_ = WriteShape(&sb, shape, depth)
	return sb.String()
}

// emitter buffers output and remembers the first write error so the
// recursive writers need not check every call.
type emitter struct {
	w   *bufio.Writer
	err error
}

func newEmitter(w io.Writer) *emitter {
	return &emitter{w: bufio.NewWriter(w)}
}

func (e *emitter) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func (e *emitter) writeByte(c byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(c)
}

func (e *emitter) writeInt(n int64) {
	if e.err != nil {
		return
	}
	var buf [20]byte
	_, e.err = e.w.Write(strconv.AppendInt(buf[:0], n, 10))
}

func (e *emitter) flush() error {
	if e.err == nil {
		e.err = e.w.Flush()
	}
	if e.err != nil && !errors.Is(e.err, ErrUnsupportedVariant) {
		return &document.SinkError{Op: "write markup", Err: e.err}
	}
	return e.err
}

func (e *emitter) indent(depth int) {
	for i := 0; i < depth; i++ {
		e.writeString(indent)
	}
}

// attr writes ` name="value"` for an integer value.
func (e *emitter) attr(name string, value int64) {
	e.writeByte(' ')
	e.writeString(name)
	e.writeString(`="`)
	e.writeInt(value)
	e.writeByte('"')
}

func (e *emitter) writePoint(p document.Point) {
	e.writeInt(int64(p.X))
	e.writeByte(' ')
	e.writeInt(int64(p.Y))
}

func (e *emitter) writePoints(points []document.Point) {
	for i, p := range points {
		if i > 0 {
			e.writeByte(' ')
		}
		e.writePoint(p)
	}
}

// writeColor always uses red, green, blue, transparency order.
func (e *emitter) writeColor(c document.Color) {
	e.writeString("rgba(")
	e.writeInt(int64(c.Red))
	e.writeByte(',')
	e.writeInt(int64(c.Green))
	e.writeByte(',')
	e.writeInt(int64(c.Blue))
	e.writeByte(',')
	e.writeInt(int64(c.Transparency))
	e.writeByte(')')
}

func (e *emitter) writeRotate(r document.Rotate) {
	switch r.Kind() {
	case document.RotateFlipX:
		e.writeString("rotateX(180)")
	case document.RotateFlipY:
		e.writeString("rotateY(180)")
	default:
		e.writeString("rotate(")
		e.writeInt(int64(r.Degree()))
		e.writeString(" deg)")
	}
}

// styles writes the leading space and the fill, outline and transform
// attributes.
func (e *emitter) styles(st document.Styles) {
	e.writeString(` fill="`)
	e.writeColor(st.Fill)
	e.writeString(`" outline="`)
	e.writeColor(st.Outline)
	e.writeString(`" transform="translate(`)
	e.writePoint(st.Translate)
	e.writeString(") ")
	e.writeRotate(st.Rotate)
	e.writeByte('"')
}

func (e *emitter) selfClose(st document.Styles) {
	e.styles(st)
	e.writeString(" />\n")
}

func (e *emitter) shape(shape document.Shape, depth int) {
	e.indent(depth)
	switch v := shape.Variant.(type) {
	case document.Ellipse:
		e.writeString("<ellipse")
		e.attr("cx", int64(v.Origin.X))
		e.attr("cy", int64(v.Origin.Y))
		e.attr("rx", int64(v.RadiusX))
		e.attr("ry", int64(v.RadiusY))
		e.selfClose(shape.Styles)
	case document.Rectangle:
		e.writeString("<rect")
		e.attr("x", int64(v.Origin.X))
		e.attr("y", int64(v.Origin.Y))
		e.attr("width", int64(v.Width))
		e.attr("height", int64(v.Height))
		e.selfClose(shape.Styles)
	case document.Line:
		e.writeString("<line")
		e.attr("x1", int64(v.From.X))
		e.attr("y1", int64(v.From.Y))
		e.attr("x2", int64(v.To.X))
		e.attr("y2", int64(v.To.Y))
		e.selfClose(shape.Styles)
	case document.Polyline:
		e.writeString(`<polyline points="`)
		e.writePoints(v.Points)
		e.writeByte('"')
		e.selfClose(shape.Styles)
	case document.Polygon:
		e.writeString(`<polygon points="`)
		e.writePoints(v.Points)
		e.writeByte('"')
		e.selfClose(shape.Styles)
	case document.Path:
		e.writeString(`<path d="`)
		e.pathData(v.Commands)
		e.writeByte('"')
		e.selfClose(shape.Styles)
	case document.Group:
		e.writeString("<g")
		e.styles(shape.Styles)
		e.writeString(">\n")
		for _, child := range v.Children {
			e.shape(child, depth+1)
		}
		e.indent(depth)
		e.writeString("</g>\n")
	default:
		if e.err == nil {
			e.err = fmt.Errorf("%w: %T", ErrUnsupportedVariant, shape.Variant)
		}
	}
}

func (e *emitter) pathData(commands []document.PathCommand) {
	for i, c := range commands {
		if c == nil {
			if e.err == nil {
				e.err = fmt.Errorf("%w: nil path command", ErrUnsupportedVariant)
			}
			return
		}
		if i > 0 {
			e.writeByte(' ')
		}
		e.writeByte(c.Code())
		switch v := c.(type) {
		case document.MoveTo:
			e.args(v.To)
		case document.LineTo:
			e.args(v.To)
		case document.HorizontalLineTo:
			e.writeByte(' ')
			e.writeInt(int64(v.X))
		case document.VerticalLineTo:
			e.writeByte(' ')
			e.writeInt(int64(v.Y))
		case document.CubicCurveTo:
			e.args(v.Control1, v.Control2, v.To)
		case document.CubicCurveToShorthand:
			e.args(v.Control2, v.To)
		case document.QuadraticCurveTo:
			e.args(v.Control, v.To)
		case document.QuadraticCurveToShorthand:
			e.args(v.To)
		case document.EndOfPath:
		}
	}
}

func (e *emitter) args(points ...document.Point) {
	for _, p := range points {
		e.writeByte(' ')
		e.writePoint(p)
	}
}
