package fontconf

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-fonts/liberation/liberationmonoregular"
	"github.com/go-fonts/liberation/liberationsansregular"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func writeFont(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	c := New()

	if got, want := c.Family(), plot.DefaultFont.Typeface; got != want {
		t.Errorf("got family %q, want %q", got, want)
	}
	if !c.UnicodeMinus() {
		t.Error("got ASCII minus for a fresh config, want unicode minus")
	}
	if got, want := c.FormatNumber("-12"), "−12"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUseFont(t *testing.T) {
	c := New()
	path := writeFont(t, "sans.ttf", liberationsansregular.TTF)

	if err := c.UseFont(path); err != nil {
		t.Fatal(err)
	}

	if got, want := c.Family(), font.Typeface("Liberation Sans"); got != want {
		t.Errorf("got family %q, want %q", got, want)
	}
	if c.UnicodeMinus() {
		t.Error("got unicode minus after UseFont, want ASCII minus")
	}
	if got, want := c.FormatNumber("-12"), "-12"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	f := c.Font(vg.Points(8))
	if got, want := f.Size, vg.Points(8); got != want {
		t.Errorf("got size %v, want %v", got, want)
	}
	if !c.cache.Has(font.Font{Typeface: "Liberation Sans"}) {
		t.Error("font not registered in cache")
	}
}

func TestUseFontLastWins(t *testing.T) {
	c := New()

	if err := c.UseFont(writeFont(t, "sans.ttf", liberationsansregular.TTF)); err != nil {
		t.Fatal(err)
	}
	if err := c.UseFont(writeFont(t, "mono.ttf", liberationmonoregular.TTF)); err != nil {
		t.Fatal(err)
	}

	if got, want := c.Family(), font.Typeface("Liberation Mono"); got != want {
		t.Errorf("got family %q, want %q", got, want)
	}
	if got, want := c.TextStyle(vg.Points(8), color.Black).Font.Typeface, font.Typeface("Liberation Mono"); got != want {
		t.Errorf("got text style typeface %q, want %q", got, want)
	}
}

func TestUseFontErrors(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		c := New()
		err := c.UseFont(filepath.Join(t.TempDir(), "nope.ttf"))
		if err == nil {
			t.Fatal("got nil error for missing file")
		}
		if got, want := c.Family(), plot.DefaultFont.Typeface; got != want {
			t.Errorf("got family %q after failure, want unchanged %q", got, want)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		c := New()
		path := writeFont(t, "bad.ttf", []byte("definitely not a font"))
		if err := c.UseFont(path); err == nil {
			t.Fatal("got nil error for malformed font")
		}
		if !c.UnicodeMinus() {
			t.Error("minus mode changed after failure")
		}
	})
}

func TestFamilyName(t *testing.T) {
	got, err := FamilyName(liberationmonoregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Liberation Mono"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply(t *testing.T) {
	c := New()
	if _, err := c.UseFontBytes(liberationsansregular.TTF); err != nil {
		t.Fatal(err)
	}

	p := plot.New()
	titleSize := p.Title.TextStyle.Font.Size
	c.Apply(p)

	if got, want := p.Title.TextStyle.Font.Typeface, font.Typeface("Liberation Sans"); got != want {
		t.Errorf("got title typeface %q, want %q", got, want)
	}
	if got, want := p.Title.TextStyle.Font.Size, titleSize; got != want {
		t.Errorf("got title size %v, want %v", got, want)
	}
	if got, want := p.Y.Tick.Label.Font.Typeface, font.Typeface("Liberation Sans"); got != want {
		t.Errorf("got tick typeface %q, want %q", got, want)
	}

	c.SetUnicodeMinus(true)
	for _, tk := range p.X.Tick.Marker.Ticks(-10, 10) {
		if tk.Value < 0 && tk.Label != "" && tk.Label[0] == '-' {
			t.Errorf("got tick label %q with ASCII minus", tk.Label)
		}
	}
}

// keepPlotDefaults restores gonum's package defaults when t ends.
func keepPlotDefaults(t *testing.T) {
	t.Helper()
	f, pf, h := plot.DefaultFont, plotter.DefaultFont, plot.DefaultTextHandler
	t.Cleanup(func() {
		plot.DefaultFont, plotter.DefaultFont, plot.DefaultTextHandler = f, pf, h
	})
}

func TestApplyDefaults(t *testing.T) {
	keepPlotDefaults(t)

	c := New()
	if _, err := c.UseFontBytes(liberationsansregular.TTF); err != nil {
		t.Fatal(err)
	}
	c.ApplyDefaults()
	if _, err := c.UseFontBytes(liberationmonoregular.TTF); err != nil {
		t.Fatal(err)
	}
	c.ApplyDefaults()

	mono := font.Typeface("Liberation Mono")
	if got := plot.New().Title.TextStyle.Font.Typeface; got != mono {
		t.Errorf("got title typeface %q, want %q", got, mono)
	}
	if got := plotter.DefaultFont.Typeface; got != mono {
		t.Errorf("got plotter typeface %q, want %q", got, mono)
	}
	for _, tf := range []font.Typeface{"Liberation Sans", mono} {
		if !font.DefaultCache.Has(font.Font{Typeface: tf}) {
			t.Errorf("default cache lacks %q", tf)
		}
	}

	// A fresh config still starts from gonum's built-in font.
	if got, want := New().Family(), font.Typeface("Liberation"); got != want {
		t.Errorf("got new family %q, want %q", got, want)
	}
}
