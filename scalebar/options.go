package scalebar

import (
	"image/color"

	"github.com/danp/mapscale/fontconf"
	"github.com/graxinc/errutil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Anchor locates the ruler's lower-left corner within the bounds as a pair
// of fractions. {0, 0} is the lower-left corner of the bounds, {1, 1} the
// upper-right.
type Anchor [2]float64

// DefaultAnchor puts the ruler near the lower-left corner.
var DefaultAnchor = Anchor{0.1, 0.1}

// A Unit selects how ruler lengths are labelled.
type Unit string

const (
	Kilometers Unit = "KM"
	Meters     Unit = "M"
)

// divisor returns what lengths in meters are divided by for labels.
func (u Unit) divisor() (float64, bool) {
	switch u {
	case "KM", "km":
		return 1000, true
	case "M", "m":
		return 1, true
	}
	return 0, false
}

// A Style selects the ruler's segment pattern.
type Style int

const (
	// Stepped is a four segment ruler with widths 1, 1, 2 and 4 base units.
	Stepped Style = 1
	// Even is a two segment ruler with widths 4 and 4 base units.
	Even Style = 2
)

func (s Style) widths() ([]float64, bool) {
	switch s {
	case Stepped:
		return []float64{1, 1, 2, 4}, true
	case Even:
		return []float64{4, 4}, true
	}
	return nil, false
}

// Options configures an annotation. The zero value is usable; unset fields
// take the defaults noted on each.
type Options struct {
	// TextColor colors labels and outlines. Default black.
	TextColor color.Color
	// TextSize is the label font size. Default 8pt.
	TextSize vg.Length
	// LineWidth is the outline width. Default 0.6pt.
	LineWidth vg.Length

	// CompassSize is how many base units the compass sits left of the
	// ruler. Default 1.
	CompassSize float64

	// Geographic indicates the bounds are in degrees, in which case
	// Accuracy is converted from meters to degrees of longitude. When
	// false, Accuracy is already in the bounds' linear units.
	Geographic bool

	// Accuracy is the length of one base unit of the ruler.
	// Zero means derive it from the width of the bounds, see AutoAccuracy.
	Accuracy float64

	// Anchor positions the ruler. Nil means DefaultAnchor.
	Anchor *Anchor

	// Unit selects KM/km or M/m labels. Default Kilometers.
	Unit Unit
	// Style selects the ruler pattern. Default Stepped.
	Style Style

	// Font, if set, supplies the label font and text handler.
	Font *fontconf.Config
}

func (o Options) withDefaults() Options {
	if o.TextColor == nil {
		o.TextColor = color.Black
	}
	if o.TextSize == 0 {
		o.TextSize = vg.Points(8)
	}
	if o.LineWidth == 0 {
		o.LineWidth = vg.Points(0.6)
	}
	if o.CompassSize == 0 {
		o.CompassSize = 1
	}
	if o.Anchor == nil {
		a := DefaultAnchor
		o.Anchor = &a
	}
	if o.Unit == "" {
		o.Unit = Kilometers
	}
	if o.Style == 0 {
		o.Style = Stepped
	}
	return o
}

func (o Options) validate() error {
	if _, ok := o.Unit.divisor(); !ok {
		return errutil.New(errutil.Tags{"msg": "unknown unit", "unit": string(o.Unit)})
	}
	if _, ok := o.Style.widths(); !ok {
		return errutil.New(errutil.Tags{"msg": "unknown style", "style": int(o.Style)})
	}
	for _, v := range o.Anchor {
		if v < 0 || v > 1 {
			return errutil.New(errutil.Tags{"msg": "anchor out of range", "anchor": *o.Anchor})
		}
	}
	if o.CompassSize < 0 {
		return errutil.New(errutil.Tags{"msg": "negative compass size", "size": o.CompassSize})
	}
	if o.Accuracy < 0 {
		return errutil.New(errutil.Tags{"msg": "negative accuracy", "accuracy": o.Accuracy})
	}
	return nil
}

func (o Options) textStyle() text.Style {
	if o.Font != nil {
		return o.Font.TextStyle(o.TextSize, o.TextColor)
	}
	return text.Style{
		Color: o.TextColor,
		Font: font.Font{
			Typeface: plot.DefaultFont.Typeface,
			Variant:  plot.DefaultFont.Variant,
			Size:     o.TextSize,
		},
		Handler: plot.DefaultTextHandler,
	}
}
