package basemap

import (
	"image/color"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Layer draws features onto a plot in data coordinates. Polygons are filled
// and outlined, lines are stroked and points are drawn as glyphs.
type Layer struct {
	Features []*geojson.Feature

	// Fill is the polygon fill. If nil, polygons are only outlined.
	Fill color.Color

	// FillFunc, if set, chooses the fill for each feature, overriding
	// Fill. Returning nil leaves the feature unfilled.
	FillFunc func(*geojson.Feature) color.Color

	// LineStyle outlines polygons and strokes lines.
	draw.LineStyle

	// GlyphStyle draws points.
	GlyphStyle draw.GlyphStyle
}

// NewLayer returns a Layer for the features of fc with a light gray fill
// and thin gray outlines.
func NewLayer(fc *geojson.FeatureCollection) *Layer {
	return &Layer{
		Features: fc.Features,
		Fill:     color.Gray{Y: 235},
		LineStyle: draw.LineStyle{
			Color: color.Gray{Y: 120},
			Width: vg.Points(0.5),
		},
		GlyphStyle: draw.GlyphStyle{
			Color:  color.Gray{Y: 60},
			Radius: vg.Points(1.5),
			Shape:  draw.CircleGlyph{},
		},
	}
}

// Plot implements plot.Plotter.
func (l *Layer) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	tr := func(pts []orb.Point) []vg.Point {
		out := make([]vg.Point, len(pts))
		for i, p := range pts {
			out[i] = vg.Point{X: trX(p[0]), Y: trY(p[1])}
		}
		return out
	}

	var drawGeom func(g orb.Geometry, fill color.Color)
	drawGeom = func(g orb.Geometry, fill color.Color) {
		switch g := g.(type) {
		case orb.Point:
			pt := tr([]orb.Point{g})[0]
			if c.Contains(pt) {
				c.DrawGlyph(l.GlyphStyle, pt)
			}
		case orb.MultiPoint:
			for _, p := range g {
				drawGeom(p, fill)
			}
		case orb.LineString:
			c.StrokeLines(l.LineStyle, c.ClipLinesXY(tr(g))...)
		case orb.MultiLineString:
			for _, ls := range g {
				drawGeom(ls, fill)
			}
		case orb.Ring:
			drawGeom(orb.Polygon{g}, fill)
		case orb.Polygon:
			rings := make([][]vg.Point, len(g))
			for i, r := range g {
				rings[i] = tr(r)
			}
			if fill != nil {
				c.SetColor(fill)
				c.Fill(polygonPath(c, rings))
			}
			if l.LineStyle.Color != nil && l.LineStyle.Width > 0 {
				for _, pts := range rings {
					c.StrokeLines(l.LineStyle, c.ClipLinesXY(pts)...)
				}
			}
		case orb.MultiPolygon:
			for _, p := range g {
				drawGeom(p, fill)
			}
		case orb.Collection:
			for _, gg := range g {
				drawGeom(gg, fill)
			}
		case orb.Bound:
			drawGeom(g.ToPolygon(), fill)
		}
	}

	for _, f := range l.Features {
		if f.Geometry == nil {
			continue
		}
		fill := l.Fill
		if l.FillFunc != nil {
			fill = l.FillFunc(f)
		}
		drawGeom(f.Geometry, fill)
	}
}

// polygonPath returns the clipped outer ring and holes of a polygon as one
// path. Holes are wound against the outer ring so they stay unfilled under
// both the even-odd and the non-zero rule.
func polygonPath(c draw.Canvas, rings [][]vg.Point) vg.Path {
	var (
		path  vg.Path
		outer bool
	)
	for i, r := range rings {
		pts := c.ClipPolygonXY(r)
		if len(pts) < 3 {
			continue
		}
		ccw := signedArea(pts) > 0
		if i == 0 {
			outer = ccw
		} else if ccw == outer {
			pts = reversed(pts)
		}
		path.Move(pts[0])
		for _, p := range pts[1:] {
			path.Line(p)
		}
		path.Close()
	}
	return path
}

func signedArea(pts []vg.Point) vg.Length {
	var a vg.Length
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func reversed(pts []vg.Point) []vg.Point {
	out := make([]vg.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// DataRange implements plot.DataRanger.
func (l *Layer) DataRange() (xmin, xmax, ymin, ymax float64) {
	b, ok := Bound(&geojson.FeatureCollection{Features: l.Features})
	if !ok {
		return 0, 0, 0, 0
	}
	return b.Min[0], b.Max[0], b.Min[1], b.Max[1]
}
