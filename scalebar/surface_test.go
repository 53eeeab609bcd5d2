package scalebar

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// render draws p at 72 DPI so one point is one pixel and returns the image
// with a function mapping data coordinates to pixels.
func render(t *testing.T, p *plot.Plot, w, h vg.Length) (image.Image, func(orb.Point) image.Point) {
	t.Helper()

	cnv := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(72))
	dc := draw.New(cnv)
	p.Draw(dc)

	da := p.DataCanvas(dc)
	trX, trY := p.Transforms(&da)
	px := func(pt orb.Point) image.Point {
		return image.Pt(int(trX(pt[0]).Points()), int(h.Points()-trY(pt[1]).Points()))
	}
	return cnv.Image(), px
}

func gray(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r + g + b) / 3 >> 8
}

func TestPlotSurface(t *testing.T) {
	b := bounds(0, 0, 10, 10)

	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = b.Min[0], b.Max[0]
	p.Y.Min, p.Y.Max = b.Min[1], b.Max[1]

	var s PlotSurface
	if err := Draw(&s, b, Options{Accuracy: 1, Anchor: &Anchor{0.2, 0.3}, CompassSize: 1.5}); err != nil {
		t.Fatal(err)
	}
	p.Add(&s)

	img, px := render(t, p, 400, 400)

	// Anchor is (2, 3), base unit 1 and ruler height 0.4.
	tests := []struct {
		name  string
		at    orb.Point
		black bool
	}{
		{"FirstSegment", orb.Point{2.5, 3.2}, true},
		{"SecondSegment", orb.Point{3.5, 3.2}, false},
		{"ThirdSegment", orb.Point{5, 3.2}, true},
		{"FourthSegment", orb.Point{8, 3.2}, false},
		{"LeftTriangle", orb.Point{0.4, 3.3}, true},
		{"RightTriangle", orb.Point{0.6, 3.3}, false},
	}
	for _, tt := range tests {
		g := gray(img.At(px(tt.at).X, px(tt.at).Y))
		if tt.black && g > 40 {
			t.Errorf("%s: got gray %d at %v, want black", tt.name, g, tt.at)
		}
		if !tt.black && g < 215 {
			t.Errorf("%s: got gray %d at %v, want white", tt.name, g, tt.at)
		}
	}
}

func TestNewPlotter(t *testing.T) {
	b := bounds(100, 30, 101, 31)
	s, err := New(b, Options{Geographic: true})
	if err != nil {
		t.Fatal(err)
	}

	xmin, xmax, ymin, ymax := s.DataRange()
	if !(xmin < 100.1 && xmax > 100.1 && ymin < 30.1 && ymax > 30.1) {
		t.Errorf("got data range %v..%v, %v..%v, want it to contain the anchor", xmin, xmax, ymin, ymax)
	}

	p := plot.New()
	p.Add(s)

	wt, err := p.WriterTo(10*vg.Centimeter, 10*vg.Centimeter, "png")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatal(err)
	}
}

func TestPlotSurfaceLabelClipping(t *testing.T) {
	sty := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, 40),
		XAlign:  text.XLeft,
		YAlign:  text.YCenter,
		Handler: plot.DefaultTextHandler,
	}

	var s PlotSurface
	s.Text(Label{At: orb.Point{0.5, 0.7}, Text: "MMMM"}, sty)
	s.Text(Label{At: orb.Point{-0.02, 0.3}, Text: "MMMM"}, sty)

	p := plot.New()
	p.HideAxes()
	p.Add(&s)
	// Narrow the view so the second label's anchor falls outside it.
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	img, px := render(t, p, 400, 400)

	dark := func(from, to orb.Point) bool {
		a, b := px(from), px(to)
		for x := a.X; x < b.X; x++ {
			for y := a.Y - 5; y <= a.Y+5; y++ {
				if gray(img.At(x, y)) < 128 {
					return true
				}
			}
		}
		return false
	}

	if !dark(orb.Point{0.5, 0.7}, orb.Point{0.8, 0.7}) {
		t.Error("label anchored inside the plot was not drawn")
	}
	if dark(orb.Point{0, 0.3}, orb.Point{0.3, 0.3}) {
		t.Error("label anchored outside the plot was drawn")
	}
}
