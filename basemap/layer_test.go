package basemap

import (
	"context"
	"image/color"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

func TestLayer(t *testing.T) {
	fc, err := Client{}.Load(context.Background(), "testdata/provinces.geojson")
	if err != nil {
		t.Fatal(err)
	}

	red := color.RGBA{R: 255, A: 255}
	l := NewLayer(fc)
	l.FillFunc = func(f *geojson.Feature) color.Color {
		if f.Properties.MustString("name", "") == "东区" {
			return red
		}
		return l.Fill
	}

	xmin, xmax, ymin, ymax := l.DataRange()
	if xmin != 100 || xmax != 101.2 || ymin != 30 || ymax != 31 {
		t.Errorf("got data range %v..%v, %v..%v", xmin, xmax, ymin, ymax)
	}

	p := plot.New()
	p.HideAxes()
	p.Add(l)

	const size = 300
	cnv := vgimg.NewWith(vgimg.UseWH(size, size), vgimg.UseDPI(72))
	dc := draw.New(cnv)
	p.Draw(dc)

	da := p.DataCanvas(dc)
	trX, trY := p.Transforms(&da)
	at := func(x, y float64) color.Color {
		return cnv.Image().At(int(trX(x).Points()), int(vg.Length(size).Points()-trY(y).Points()))
	}

	if r, g, b, _ := at(100.75, 30.25).RGBA(); r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("got east fill %v, want red", at(100.75, 30.25))
	}
	if r, _, _, _ := at(100.1, 30.8).RGBA(); r>>8 != 235 {
		t.Errorf("got west fill %v, want light gray", at(100.1, 30.8))
	}
	// Inside the hole of the west feature.
	if r, _, _, _ := at(100.25, 30.5).RGBA(); r>>8 != 255 {
		t.Errorf("got hole fill %v, want white background", at(100.25, 30.5))
	}
}

func TestLayerEnclave(t *testing.T) {
	square := func(x0, y0, x1, y1 float64) orb.Ring {
		return orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
	}

	enclave := geojson.NewFeature(orb.Polygon{square(4, 4, 6, 6)})
	enclave.Properties["name"] = "enclave"
	// The hole is wound the same way as the outer ring.
	host := geojson.NewFeature(orb.Polygon{square(0, 0, 10, 10), square(4, 4, 6, 6)})
	host.Properties["name"] = "host"

	fc := geojson.NewFeatureCollection()
	fc.Append(enclave)
	fc.Append(host)

	red := color.RGBA{R: 255, A: 255}
	l := NewLayer(fc)
	l.LineStyle.Width = 0
	l.FillFunc = func(f *geojson.Feature) color.Color {
		if f.Properties.MustString("name", "") == "enclave" {
			return red
		}
		return l.Fill
	}

	p := plot.New()
	p.HideAxes()
	p.Add(l)

	const size = 200
	cnv := vgimg.NewWith(vgimg.UseWH(size, size), vgimg.UseDPI(72))
	dc := draw.New(cnv)
	p.Draw(dc)

	da := p.DataCanvas(dc)
	trX, trY := p.Transforms(&da)
	at := func(x, y float64) color.Color {
		return cnv.Image().At(int(trX(x).Points()), int(vg.Length(size).Points()-trY(y).Points()))
	}

	if r, g, b, _ := at(5, 5).RGBA(); r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("got enclave fill %v, want red", at(5, 5))
	}
	if r, g, b, _ := at(2, 2).RGBA(); r>>8 != 235 || g>>8 != 235 || b>>8 != 235 {
		t.Errorf("got host fill %v, want light gray", at(2, 2))
	}
}
