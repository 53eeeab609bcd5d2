package main

import (
	"context"
	"flag"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/danp/mapscale/basemap"
	"github.com/danp/mapscale/fontconf"
	"github.com/danp/mapscale/scalebar"
	"github.com/graxinc/errutil"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

type renderConfig struct {
	scale   scaleFlags
	geojson string
	out     string
	title   string
	axes    bool
	width   lengthFlag
	height  lengthFlag
}

func newRenderCmd(rc *rootConfig) *ffcli.Command {
	var (
		cfg = renderConfig{width: lengthFlag(20 * vg.Centimeter)}
		fs  = flag.NewFlagSet("mapscale render", flag.ExitOnError)
	)
	cfg.scale.register(fs)
	fs.StringVar(&cfg.geojson, "geojson", "", "GeoJSON base map, a file or http(s) URL")
	fs.StringVar(&cfg.out, "out", "map.png", "output image; format from the extension (png, jpg, svg, pdf, eps, tif)")
	fs.StringVar(&cfg.title, "title", "", "map title")
	fs.BoolVar(&cfg.axes, "axes", false, "draw axes")
	fs.Var(&cfg.width, "width", "image width, e.g. 20cm (default 20cm)")
	fs.Var(&cfg.height, "height", "image height, e.g. 15cm (default from the bounds' aspect)")

	return &ffcli.Command{
		Name:       "render",
		ShortUsage: "mapscale render -geojson provinces.geojson -out map.png",
		ShortHelp:  "draw a base map with a scale ruler and compass",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, args []string) error {
			fc, err := rc.fonts()
			if err != nil {
				return errutil.With(err)
			}
			return renderExec(ctx, rc, cfg, fc, basemap.Client{})
		},
	}
}

func renderExec(ctx context.Context, rc *rootConfig, cfg renderConfig, fc *fontconf.Config, cl basemap.Client) error {
	if cfg.geojson == "" && !cfg.scale.bounds.set {
		return errutil.New(errutil.Tags{"msg": "need -geojson or -bounds"})
	}
	if err := cfg.scale.check(); err != nil {
		return errutil.With(err)
	}

	var features *geojson.FeatureCollection
	if cfg.geojson != "" {
		var err error
		features, err = cl.Load(ctx, cfg.geojson)
		if err != nil {
			return errutil.With(err)
		}
		rc.logf("at=basemap src=%q features=%d", cfg.geojson, len(features.Features))
	}

	b := cfg.scale.bounds.b
	if !cfg.scale.bounds.set {
		fb, ok := basemap.Bound(features)
		if !ok {
			return errutil.New(errutil.Tags{"msg": "base map has no geometry", "src": cfg.geojson})
		}
		b = fb
	}

	p := plot.New()
	fc.Apply(p)
	p.Title.Text = cfg.title
	if !cfg.axes {
		p.HideAxes()
	}

	if features != nil {
		p.Add(basemap.NewLayer(features))
	}

	opts := cfg.scale.options(fc)
	sb, err := scalebar.New(b, opts)
	if err != nil {
		return errutil.With(err)
	}
	p.Add(sb)

	// The annotation may extend past the map; keep the view on the map.
	p.X.Min, p.X.Max = b.Min[0], b.Max[0]
	p.Y.Min, p.Y.Max = b.Min[1], b.Max[1]

	w, h := vg.Length(cfg.width), vg.Length(cfg.height)
	if h == 0 {
		h = aspectHeight(b, w, opts.Geographic)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(cfg.out)), ".")
	if format == "" {
		format = "png"
	}
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return errutil.With(err)
	}

	tmp := cfg.out + ".tmp"
	if err := writeFileFromWriterTo(tmp, wt); err != nil {
		os.Remove(tmp)
		return errutil.With(err)
	}
	if err := os.Rename(tmp, cfg.out); err != nil {
		return errutil.With(err)
	}

	pr := message.NewPrinter(language.English)
	acc := float64(cfg.scale.accuracy)
	if acc == 0 {
		acc = scalebar.AutoAccuracy(b)
	}
	rc.logf("%s", pr.Sprintf("at=wrote out=%q width=%.0fpt height=%.0fpt accuracy=%v", cfg.out, w.Points(), h.Points(), acc))
	return nil
}

// aspectHeight returns the height that keeps the map's aspect ratio at
// width w. Geographic bounds are corrected for longitude convergence at
// their mean latitude.
func aspectHeight(b orb.Bound, w vg.Length, geographic bool) vg.Length {
	dx, dy := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if geographic {
		dx *= math.Cos((b.Min[1] + b.Max[1]) * math.Pi / 360)
	}
	if dx <= 0 || dy <= 0 {
		return w
	}
	return vg.Length(float64(w) * dy / dx)
}

func writeFileFromWriterTo(file string, wt io.WriterTo) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := wt.WriteTo(f); err != nil {
		return err
	}

	return f.Close()
}
