package scalebar

import (
	"github.com/graxinc/errutil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A Surface is something annotations are drawn onto, in data coordinates.
//
// Surfaces are generally not safe for concurrent use.
type Surface interface {
	// Polygon adds a filled, outlined polygon.
	Polygon(p Piece, edge draw.LineStyle)
	// Text adds a label. sty carries the label's alignment.
	Text(l Label, sty text.Style)
}

// Draw computes the ruler and compass for bounds b and submits them to s:
// ruler pieces, ruler labels, compass pieces and finally the "N" label.
func Draw(s Surface, b Bounds, o Options) error {
	l, err := NewLayout(b, o)
	if err != nil {
		return errutil.With(err)
	}
	l.DrawTo(s)
	return nil
}

// DrawTo submits l to s.
func (l *Layout) DrawTo(s Surface) {
	for _, p := range l.Ruler {
		s.Polygon(p, l.Edge)
	}
	for _, lb := range l.RulerLabels {
		s.Text(lb, l.labelStyle(lb))
	}
	for _, p := range l.Compass {
		s.Polygon(p, l.Edge)
	}
	s.Text(l.CompassLabel, l.labelStyle(l.CompassLabel))
}

func (l *Layout) labelStyle(lb Label) text.Style {
	sty := l.TextStyle
	sty.XAlign = lb.XAlign
	sty.YAlign = lb.YAlign
	return sty
}

type plotPolygon struct {
	piece Piece
	edge  draw.LineStyle
}

type plotText struct {
	label Label
	style text.Style
}

// PlotSurface is a Surface that draws onto a gonum plot. It implements
// plot.Plotter and plot.DataRanger. The zero value is ready to use; add it
// to a plot after drawing so the plot's axes take in its data range.
//
// Polygons are clipped to the plot's data area. A label is drawn only when
// its anchor point lies inside the data area and is then drawn whole, so a
// label anchored just outside a narrowed axis range is dropped even though
// its text would have reached into the plot.
type PlotSurface struct {
	polygons []plotPolygon
	texts    []plotText
}

// New returns a plotter drawing the ruler and compass for bounds b.
func New(b Bounds, o Options) (*PlotSurface, error) {
	s := &PlotSurface{}
	if err := Draw(s, b, o); err != nil {
		return nil, errutil.With(err)
	}
	return s, nil
}

// Polygon implements Surface.
func (s *PlotSurface) Polygon(p Piece, edge draw.LineStyle) {
	s.polygons = append(s.polygons, plotPolygon{piece: p, edge: edge})
}

// Text implements Surface.
func (s *PlotSurface) Text(l Label, sty text.Style) {
	s.texts = append(s.texts, plotText{label: l, style: sty})
}

// Plot implements plot.Plotter.
func (s *PlotSurface) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for _, p := range s.polygons {
		pts := make([]vg.Point, len(p.piece.Ring))
		for i, pt := range p.piece.Ring {
			pts[i] = vg.Point{X: trX(pt[0]), Y: trY(pt[1])}
		}
		if p.piece.Fill != nil {
			c.FillPolygon(p.piece.Fill, c.ClipPolygonXY(pts))
		}
		if p.edge.Color != nil && p.edge.Width > 0 {
			c.StrokeLines(p.edge, c.ClipLinesXY(pts)...)
		}
	}

	for _, t := range s.texts {
		pt := vg.Point{X: trX(t.label.At[0]), Y: trY(t.label.At[1])}
		if !c.Contains(pt) {
			continue
		}
		c.FillText(t.style, pt, t.label.Text)
	}
}

// DataRange implements plot.DataRanger.
func (s *PlotSurface) DataRange() (xmin, xmax, ymin, ymax float64) {
	first := true
	extend := func(x, y float64) {
		if first {
			xmin, xmax, ymin, ymax = x, x, y, y
			first = false
			return
		}
		xmin, xmax = min(xmin, x), max(xmax, x)
		ymin, ymax = min(ymin, y), max(ymax, y)
	}
	for _, p := range s.polygons {
		for _, pt := range p.piece.Ring {
			extend(pt[0], pt[1])
		}
	}
	for _, t := range s.texts {
		extend(t.label.At[0], t.label.At[1])
	}
	return xmin, xmax, ymin, ymax
}
