// Package scalebar draws a map scale ruler and a north arrow onto a map.
//
// Geometry is computed in the map's data coordinates by NewLayout and
// submitted to a Surface. PlotSurface is a Surface that draws onto a gonum
// plot.
package scalebar

import (
	"image/color"
	"math"
	"strconv"

	"github.com/graxinc/errutil"
	"github.com/paulmach/orb"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg/draw"
)

// Bounds is a map extent. Min holds the lower-left corner (lon, lat) and
// Max the upper-right.
type Bounds = orb.Bound

// earthRadius is the mean earth radius in meters used to convert meters to
// degrees of longitude.
const earthRadius = 6371004

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// rulerHeight is the ruler height in base units.
const rulerHeight = 0.4

// A Piece is one filled polygon of an annotation.
type Piece struct {
	Ring orb.Ring
	Fill color.Color
}

// A Label is a piece of text placed in data coordinates.
type Label struct {
	At     orb.Point
	Text   string
	XAlign text.XAlignment
	YAlign text.YAlignment
}

// Layout is a computed scale ruler and compass.
type Layout struct {
	// Anchor is the ruler's lower-left corner.
	Anchor orb.Point
	// Delta is the length of one base unit in data coordinates.
	Delta float64
	// Accuracy is the length one base unit represents.
	Accuracy float64

	Ruler       []Piece
	RulerLabels []Label

	Compass      [2]Piece
	CompassLabel Label

	// Edge outlines every piece.
	Edge draw.LineStyle
	// TextStyle is used for every label, with each label's alignment.
	TextStyle text.Style
}

// AutoAccuracy returns a base unit length in meters derived from the width
// of b in degrees, rounded to a whole number of kilometers. It is an
// empirical heuristic, not a geodesic calculation.
func AutoAccuracy(b Bounds) float64 {
	width := b.Max[0] - b.Min[0]
	return float64(int(width/0.0003/1000+0.5)) * 1000
}

// AnchorPoint returns the point of b at the fractional position a.
func AnchorPoint(b Bounds, a Anchor) orb.Point {
	ax, ay := a[0], a[1]
	bx, by := 1-ax, 1-ay
	return orb.Point{
		(bx*b.Min[0] + ax*b.Max[0]) / (ax + bx),
		(by*b.Min[1] + ay*b.Max[1]) / (ay + by),
	}
}

// BaseLength returns the data length of one ruler base unit. For geographic
// bounds accuracy is in meters and is converted to degrees of longitude at
// the mean latitude of b; otherwise it is returned as is.
func BaseLength(b Bounds, accuracy float64, geographic bool) float64 {
	if !geographic {
		return accuracy
	}
	meanLat := (b.Min[1] + b.Max[1]) * math.Pi / 360
	return accuracy * 360 / (2 * math.Pi * earthRadius * math.Cos(meanLat))
}

// NewLayout computes the ruler and compass for a map with bounds b.
func NewLayout(b Bounds, o Options) (*Layout, error) {
	o = o.withDefaults()
	if err := o.validate(); err != nil {
		return nil, errutil.With(err)
	}
	if !(b.Max[0] > b.Min[0]) || !(b.Max[1] > b.Min[1]) {
		return nil, errutil.New(errutil.Tags{"msg": "degenerate bounds", "min": b.Min, "max": b.Max})
	}
	if o.Geographic && math.Abs(b.Min[1]+b.Max[1])/2 >= 90 {
		return nil, errutil.New(errutil.Tags{"msg": "mean latitude at pole", "min": b.Min, "max": b.Max})
	}

	accuracy := o.Accuracy
	if accuracy == 0 {
		accuracy = AutoAccuracy(b)
	}
	if accuracy <= 0 {
		return nil, errutil.New(errutil.Tags{"msg": "bounds too narrow for auto accuracy", "width": b.Max[0] - b.Min[0]})
	}

	l := &Layout{
		Anchor:   AnchorPoint(b, *o.Anchor),
		Delta:    BaseLength(b, accuracy, o.Geographic),
		Accuracy: accuracy,
		Edge: draw.LineStyle{
			Color: o.TextColor,
			Width: o.LineWidth,
		},
		TextStyle: o.textStyle(),
	}
	l.layoutRuler(o)
	l.layoutCompass(o)
	return l, nil
}

func (l *Layout) layoutRuler(o Options) {
	widths, _ := o.Style.widths()
	div, _ := o.Unit.divisor()

	x, y, d := l.Anchor[0], l.Anchor[1], l.Delta
	labelY := y + 0.5*d

	var units float64
	for i, w := range widths {
		x0 := x + units*d
		units += w
		x1 := x + units*d

		fill := color.Color(black)
		if i%2 == 1 {
			fill = white
		}
		l.Ruler = append(l.Ruler, Piece{
			Ring: rect(x0, y, x1, y+rulerHeight*d),
			Fill: fill,
		})
		l.RulerLabels = append(l.RulerLabels, Label{
			At:     orb.Point{x1, labelY},
			Text:   strconv.FormatFloat(math.Trunc(units*l.Accuracy/div), 'f', 0, 64),
			XAlign: text.XCenter,
			YAlign: text.YBottom,
		})
	}

	l.RulerLabels = append(l.RulerLabels, Label{
		At:     orb.Point{x + (units+0.5)*d, labelY},
		Text:   string(o.Unit),
		XAlign: text.XLeft,
		YAlign: text.YTop,
	})
}

func (l *Layout) layoutCompass(o Options) {
	d := l.Delta
	x := l.Anchor[0] - o.CompassSize*d
	y := l.Anchor[1]

	base, top := orb.Point{x, y}, orb.Point{x, y + d}
	l.Compass = [2]Piece{
		{Ring: orb.Ring{base, top, {x - d/2, y - d/2}, base}, Fill: black},
		{Ring: orb.Ring{base, top, {x + d/2, y - d/2}, base}, Fill: white},
	}
	l.CompassLabel = Label{
		At:     top,
		Text:   "N",
		XAlign: text.XCenter,
		YAlign: text.YBottom,
	}
}

// Bound returns the extent of every piece and label anchor of l.
func (l *Layout) Bound() orb.Bound {
	b := orb.Bound{Min: l.Anchor, Max: l.Anchor}
	for _, p := range l.pieces() {
		b = b.Union(p.Ring.Bound())
	}
	for _, lb := range l.labels() {
		b = b.Extend(lb.At)
	}
	return b
}

func (l *Layout) pieces() []Piece {
	return append(append([]Piece(nil), l.Ruler...), l.Compass[:]...)
}

func (l *Layout) labels() []Label {
	return append(append([]Label(nil), l.RulerLabels...), l.CompassLabel)
}

// rect returns a closed counter-clockwise rectangle ring.
func rect(x0, y0, x1, y1 float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}
