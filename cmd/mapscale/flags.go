package main

import (
	"flag"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/danp/mapscale/fontconf"
	"github.com/danp/mapscale/scalebar"
	"github.com/graxinc/errutil"
	"github.com/paulmach/orb"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/vg"
)

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errutil.New(errutil.Tags{"msg": "wrong number of values", "want": n, "value": s})
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errutil.With(err)
		}
		out[i] = v
	}
	return out, nil
}

// boundsFlag is lon1,lat1,lon2,lat2.
type boundsFlag struct {
	b   orb.Bound
	set bool
}

func (f *boundsFlag) String() string {
	if !f.set {
		return ""
	}
	return fmt.Sprintf("%v,%v,%v,%v", f.b.Min[0], f.b.Min[1], f.b.Max[0], f.b.Max[1])
}

func (f *boundsFlag) Set(s string) error {
	vs, err := parseFloats(s, 4)
	if err != nil {
		return err
	}
	f.b = orb.Bound{Min: orb.Point{vs[0], vs[1]}, Max: orb.Point{vs[2], vs[3]}}
	f.set = true
	return nil
}

// anchorFlag is a,c.
type anchorFlag struct {
	a   scalebar.Anchor
	set bool
}

func (f *anchorFlag) String() string {
	if !f.set {
		return ""
	}
	return fmt.Sprintf("%v,%v", f.a[0], f.a[1])
}

func (f *anchorFlag) Set(s string) error {
	vs, err := parseFloats(s, 2)
	if err != nil {
		return err
	}
	f.a = scalebar.Anchor{vs[0], vs[1]}
	f.set = true
	return nil
}

// accuracyFlag is a length or "auto", which is stored as 0.
type accuracyFlag float64

func (f *accuracyFlag) String() string {
	if *f == 0 {
		return "auto"
	}
	return strconv.FormatFloat(float64(*f), 'g', -1, 64)
}

func (f *accuracyFlag) Set(s string) error {
	if s == "auto" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errutil.With(err)
	}
	if v <= 0 {
		return errutil.New(errutil.Tags{"msg": "accuracy must be positive or auto", "value": s})
	}
	*f = accuracyFlag(v)
	return nil
}

// lengthFlag is a gonum length such as 20cm or 300pt.
type lengthFlag vg.Length

func (f *lengthFlag) String() string {
	if *f == 0 {
		return ""
	}
	return fmt.Sprintf("%vpt", vg.Length(*f).Points())
}

func (f *lengthFlag) Set(s string) error {
	l, err := vg.ParseLength(s)
	if err != nil {
		return errutil.With(err)
	}
	*f = lengthFlag(l)
	return nil
}

// colorFlag is a color name or #rrggbb.
type colorFlag struct {
	c color.Color
}

func (f *colorFlag) String() string {
	if f.c == nil {
		return ""
	}
	return hexColor(f.c)
}

func (f *colorFlag) Set(s string) error {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		f.c = c
		return nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return errutil.New(errutil.Tags{"msg": "unknown color", "value": s})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return errutil.With(err)
	}
	f.c = color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
	return nil
}

// scaleFlags are the annotation flags shared by subcommands.
type scaleFlags struct {
	bounds    boundsFlag
	anchor    anchorFlag
	accuracy  accuracyFlag
	textColor colorFlag
	unit      string
	style     int
	compass   float64
	projected bool
	textSize  float64
}

func (f *scaleFlags) register(fs *flag.FlagSet) {
	fs.Var(&f.bounds, "bounds", "map bounds as lon1,lat1,lon2,lat2")
	fs.Var(&f.anchor, "anchor", "ruler position within the bounds as a,c fractions (default 0.1,0.1)")
	fs.Var(&f.accuracy, "accuracy", "length of one ruler unit in meters, or auto")
	fs.Var(&f.textColor, "color", "label and outline color, a name or #rrggbb (default black)")
	fs.StringVar(&f.unit, "unit", "KM", "ruler unit: KM, km, M or m")
	fs.IntVar(&f.style, "style", 1, "ruler style: 1 (1,1,2,4 units) or 2 (4,4 units)")
	fs.Float64Var(&f.compass, "compass", 1, "compass offset left of the ruler, in ruler units")
	fs.BoolVar(&f.projected, "projected", false, "bounds are in projected meters rather than degrees")
	fs.Float64Var(&f.textSize, "text-size", 8, "label size in points")
}

// check rejects values that scalebar.Options would read as "use the default".
func (f *scaleFlags) check() error {
	if f.style <= 0 {
		return errutil.New(errutil.Tags{"msg": "style must be positive", "style": f.style})
	}
	if f.compass <= 0 {
		return errutil.New(errutil.Tags{"msg": "compass must be positive", "compass": f.compass})
	}
	if f.textSize <= 0 {
		return errutil.New(errutil.Tags{"msg": "text size must be positive", "size": f.textSize})
	}
	return nil
}

func (f *scaleFlags) options(fc *fontconf.Config) scalebar.Options {
	o := scalebar.Options{
		TextColor:   f.textColor.c,
		TextSize:    vg.Points(f.textSize),
		CompassSize: f.compass,
		Geographic:  !f.projected,
		Accuracy:    float64(f.accuracy),
		Unit:        scalebar.Unit(f.unit),
		Style:       scalebar.Style(f.style),
		Font:        fc,
	}
	if f.anchor.set {
		a := f.anchor.a
		o.Anchor = &a
	}
	return o
}
