package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/danp/mapscale/scalebar"
	"github.com/graxinc/errutil"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func newLayoutCmd(rc *rootConfig) *ffcli.Command {
	var (
		sf scaleFlags
		fs = flag.NewFlagSet("mapscale layout", flag.ExitOnError)
	)
	sf.register(fs)

	return &ffcli.Command{
		Name:       "layout",
		ShortUsage: "mapscale layout -bounds lon1,lat1,lon2,lat2",
		ShortHelp:  "print the ruler and compass geometry as GeoJSON",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, args []string) error {
			if !sf.bounds.set {
				return errutil.New(errutil.Tags{"msg": "need -bounds"})
			}
			if err := sf.check(); err != nil {
				return errutil.With(err)
			}
			fc, err := rc.fonts()
			if err != nil {
				return errutil.With(err)
			}
			return layoutExec(os.Stdout, sf.bounds.b, sf.options(fc))
		},
	}
}

func layoutExec(w io.Writer, b orb.Bound, o scalebar.Options) error {
	l, err := scalebar.NewLayout(b, o)
	if err != nil {
		return errutil.With(err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(layoutFeatures(l)); err != nil {
		return errutil.With(err)
	}
	return nil
}

// layoutFeatures converts l to features: polygons carry "part", "index"
// and "fill" properties, labels are points with a "text" property.
func layoutFeatures(l *scalebar.Layout) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.BBox = geojson.NewBBox(l.Bound())
	fc.ExtraMembers = geojson.Properties{
		"anchor":   []float64{l.Anchor[0], l.Anchor[1]},
		"delta":    l.Delta,
		"accuracy": l.Accuracy,
	}

	addPiece := func(part string, i int, p scalebar.Piece) {
		f := geojson.NewFeature(orb.Polygon{p.Ring})
		f.Properties["part"] = part
		f.Properties["index"] = i
		f.Properties["fill"] = hexColor(p.Fill)
		fc.Append(f)
	}
	addLabel := func(part string, lb scalebar.Label) {
		f := geojson.NewFeature(lb.At)
		f.Properties["part"] = part
		f.Properties["text"] = lb.Text
		fc.Append(f)
	}

	for i, p := range l.Ruler {
		addPiece("ruler", i, p)
	}
	for _, lb := range l.RulerLabels {
		addLabel("ruler-label", lb)
	}
	for i, p := range l.Compass {
		addPiece("compass", i, p)
	}
	addLabel("compass-label", l.CompassLabel)
	return fc
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
