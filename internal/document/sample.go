package document

// Sample builds a small scene that uses every shape variant and path command.
func Sample() Scene {
	red := RGBA(220, 40, 40, 255)
	blue := RGBA(40, 80, 220, 255)
	ink := RGBA(20, 20, 30, 255)

	body := NewRectangle(Pt(20, 20), 200, 120).WithStyles(Styles{
		Fill:    blue,
		Outline: ink,
	})

	wheels := NewGroup(
		NewEllipse(Pt(60, 150), 20, 20).WithStyles(Styles{Fill: ink, Outline: ink}),
		NewEllipse(Pt(180, 150), 20, 20).WithStyles(Styles{Fill: ink, Outline: ink}),
	).WithStyles(Styles{Translate: Pt(0, 5)})

	flag := NewPath(
		MoveTo{To: Pt(240, 20)},
		VerticalLineTo{Y: 120},
		MoveTo{To: Pt(240, 20)},
		LineTo{To: Pt(280, 30)},
		HorizontalLineTo{X: 240},
		CubicCurveTo{Control1: Pt(250, 40), Control2: Pt(260, 50), To: Pt(270, 60)},
		CubicCurveToShorthand{Control2: Pt(290, 70), To: Pt(300, 80)},
		QuadraticCurveTo{Control: Pt(310, 90), To: Pt(320, 100)},
		QuadraticCurveToShorthand{To: Pt(330, 110)},
		EndOfPath{},
	).WithStyles(Styles{Fill: red, Outline: ink, Rotate: Circular(15)})

	road := NewLine(Pt(0, 180), Pt(400, 180)).WithStyles(Styles{Outline: ink})
	smoke := NewPolyline(Pt(30, 10), Pt(40, 0), Pt(50, 10), Pt(60, 0)).WithStyles(Styles{
		Outline: RGBA(128, 128, 128, 128),
		Rotate:  FlipX(),
	})
	sign := NewPolygon(Pt(350, 120), Pt(370, 160), Pt(330, 160)).WithStyles(Styles{
		Fill:   RGBA(250, 200, 0, 255),
		Rotate: FlipY(),
	})

	car := NewGroup(body, wheels).WithStyles(Styles{Translate: Pt(10, 0)})

	return NewScene(
		Viewport{From: Pt(0, 0), To: Pt(400, 200)},
		car, flag, road, smoke, sign,
	)
}
