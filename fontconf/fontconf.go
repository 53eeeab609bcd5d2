// Package fontconf registers font files with gonum plot so that text,
// including CJK text, renders with them.
//
// A Config holds the active font and minus-sign mode. It is passed to the
// code that draws rather than living in package-level state; ApplyDefaults
// exists for callers that want gonum's package defaults changed as well.
package fontconf

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"strings"

	"github.com/graxinc/errutil"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// unicodeMinus is the typographic minus sign substituted for '-' in numbers
// when a Config's minus mode allows it.
const unicodeMinus = "−"

// defaultFont is gonum's initial plot.DefaultFont. New does not read
// plot.DefaultFont itself since ApplyDefaults may have pointed it at a face
// only font.DefaultCache holds.
var defaultFont = font.Font{Typeface: "Liberation", Variant: "Serif"}

// Config is a rendering configuration: a font cache, the font used for
// text and how minus signs are rendered.
//
// A Config is not safe for concurrent mutation.
type Config struct {
	cache *font.Cache
	faces font.Collection

	fnt          font.Font
	unicodeMinus bool
}

// New returns a Config using gonum's default font and typographic minus
// signs. Its cache starts with the Liberation fonts.
func New() *Config {
	return &Config{
		cache: font.NewCache(liberation.Collection()),
		fnt:          defaultFont,
		unicodeMinus: true,
	}
}

// UseFont registers the font file at path and makes it the active font.
// Minus signs are switched to the ASCII hyphen-minus since CJK fonts often
// lack U+2212.
//
// Calling UseFont again replaces the active font; earlier fonts stay
// registered but are no longer used by default.
func (c *Config) UseFont(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errutil.With(err)
	}
	if _, err := c.UseFontBytes(b); err != nil {
		return errutil.With(err)
	}
	return nil
}

// UseFontBytes is like UseFont but takes the font data directly.
// It returns the family name the font was registered under.
func (c *Config) UseFontBytes(b []byte) (string, error) {
	f, err := parse(b)
	if err != nil {
		return "", errutil.With(err)
	}
	name, err := familyName(f)
	if err != nil {
		return "", errutil.With(err)
	}

	face := font.Face{
		Font: font.Font{Typeface: font.Typeface(name)},
		Face: f,
	}
	c.cache.Add(font.Collection{face})
	c.faces = append(c.faces, face)

	c.fnt = face.Font
	c.unicodeMinus = false
	return name, nil
}

// Family returns the typeface of the active font.
func (c *Config) Family() font.Typeface { return c.fnt.Typeface }

// UnicodeMinus reports whether numbers are formatted with U+2212.
func (c *Config) UnicodeMinus() bool { return c.unicodeMinus }

// SetUnicodeMinus overrides the minus-sign mode.
func (c *Config) SetUnicodeMinus(on bool) { c.unicodeMinus = on }

// Font returns the active font at the given size.
func (c *Config) Font(size vg.Length) font.Font {
	f := c.fnt
	f.Size = size
	return f
}

// Handler returns a plain text handler resolving fonts through c.
func (c *Config) Handler() text.Handler {
	return text.Plain{Fonts: c.cache}
}

// TextStyle returns a text style using the active font.
func (c *Config) TextStyle(size vg.Length, clr color.Color) text.Style {
	return text.Style{
		Color:   clr,
		Font:    c.Font(size),
		Handler: c.Handler(),
	}
}

// FormatNumber rewrites minus signs in s according to the minus mode.
func (c *Config) FormatNumber(s string) string {
	if !c.unicodeMinus {
		return s
	}
	return strings.ReplaceAll(s, "-", unicodeMinus)
}

// Apply sets the font of every text element of p to the active font,
// keeping their sizes, and formats tick labels according to the minus mode.
func (c *Config) Apply(p *plot.Plot) {
	h := c.Handler()
	p.TextHandler = h

	styles := []*text.Style{
		&p.Title.TextStyle,
		&p.Legend.TextStyle,
		&p.X.Label.TextStyle,
		&p.X.Tick.Label,
		&p.Y.Label.TextStyle,
		&p.Y.Tick.Label,
	}
	for _, sty := range styles {
		sty.Font = c.Font(sty.Font.Size)
		sty.Handler = h
	}

	p.X.Tick.Marker = minusTicker{p.X.Tick.Marker, c.FormatNumber}
	p.Y.Tick.Marker = minusTicker{p.Y.Tick.Marker, c.FormatNumber}
}

// ApplyDefaults writes the active font into gonum's package defaults so
// plots and plotters created afterwards use it. It changes process-wide
// state and must not race with plot creation.
func (c *Config) ApplyDefaults() {
	font.DefaultCache.Add(c.faces)

	f := c.fnt
	f.Size = 0
	plot.DefaultFont = f
	plotter.DefaultFont = f
	plot.DefaultTextHandler = text.Plain{Fonts: font.DefaultCache}
}

// FamilyName returns the display name of the font in b.
func FamilyName(b []byte) (string, error) {
	f, err := parse(b)
	if err != nil {
		return "", errutil.With(err)
	}
	return familyName(f)
}

var collectionTag = []byte("ttcf")

// parse reads a single font or the first font of a collection.
func parse(b []byte) (*opentype.Font, error) {
	if !bytes.HasPrefix(b, collectionTag) {
		f, err := opentype.Parse(b)
		if err != nil {
			return nil, errutil.With(err)
		}
		return f, nil
	}

	coll, err := opentype.ParseCollection(b)
	if err != nil {
		return nil, errutil.With(err)
	}
	if coll.NumFonts() == 0 {
		return nil, errutil.New(errutil.Tags{"msg": "empty font collection"})
	}
	f, err := coll.Font(0)
	if err != nil {
		return nil, errutil.With(err)
	}
	return f, nil
}

func familyName(f *opentype.Font) (string, error) {
	var buf sfnt.Buffer
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDTypographicFamily} {
		name, err := f.Name(&buf, id)
		if errors.Is(err, sfnt.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", errutil.With(err)
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}
	}
	return "", errutil.New(errutil.Tags{"msg": "font has no family name"})
}

type minusTicker struct {
	plot.Ticker
	format func(string) string
}

func (t minusTicker) Ticks(min, max float64) []plot.Tick {
	ticks := t.Ticker.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = t.format(ticks[i].Label)
	}
	return ticks
}
