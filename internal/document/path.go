package document

// PathCommand is one of the nine drawing commands of a Path. Only the types
// in this package implement it.
type PathCommand interface {
	// Code is the one-letter command code used in markup.
	Code() byte
	// Name is the command's tag in the persisted format.
	Name() string
	isPathCommand()
}

type MoveTo struct{ To Point }

type LineTo struct{ To Point }

// HorizontalLineTo draws to the absolute x coordinate X.
type HorizontalLineTo struct{ X int32 }

// VerticalLineTo draws to the absolute y coordinate Y.
type VerticalLineTo struct{ Y int32 }

type CubicCurveTo struct {
	Control1 Point
	Control2 Point
	To       Point
}

// CubicCurveToShorthand reflects the previous control point as its first one.
type CubicCurveToShorthand struct {
	Control2 Point
	To       Point
}

type QuadraticCurveTo struct {
	Control Point
	To      Point
}

// QuadraticCurveToShorthand reflects the previous control point.
type QuadraticCurveToShorthand struct{ To Point }

type EndOfPath struct{}

func (MoveTo) Code() byte                    { return 'M' }
func (LineTo) Code() byte                    { return 'L' }
func (HorizontalLineTo) Code() byte          { return 'H' }
func (VerticalLineTo) Code() byte            { return 'V' }
func (CubicCurveTo) Code() byte              { return 'C' }
func (CubicCurveToShorthand) Code() byte     { return 'S' }
func (QuadraticCurveTo) Code() byte          { return 'Q' }
func (QuadraticCurveToShorthand) Code() byte { return 'T' }
func (EndOfPath) Code() byte                 { return 'Z' }

func (MoveTo) Name() string                    { return "MoveTo" }
func (LineTo) Name() string                    { return "LineTo" }
func (HorizontalLineTo) Name() string          { return "HorizontalLineTo" }
func (VerticalLineTo) Name() string            { return "VerticalLineTo" }
func (CubicCurveTo) Name() string              { return "CubicCurveTo" }
func (CubicCurveToShorthand) Name() string     { return "CubicCurveToShorthand" }
func (QuadraticCurveTo) Name() string          { return "QuadraticCurveTo" }
func (QuadraticCurveToShorthand) Name() string { return "QuadraticCurveToShorthand" }
func (EndOfPath) Name() string                 { return "EndOfPath" }

func (MoveTo) isPathCommand()                    {}
func (LineTo) isPathCommand()                    {}
func (HorizontalLineTo) isPathCommand()          {}
func (VerticalLineTo) isPathCommand()            {}
func (CubicCurveTo) isPathCommand()              {}
func (CubicCurveToShorthand) isPathCommand()     {}
func (QuadraticCurveTo) isPathCommand()          {}
func (QuadraticCurveToShorthand) isPathCommand() {}
func (EndOfPath) isPathCommand()                 {}
