// Package expect compares test output against golden files kept under
// testdata/expect. Run tests with -update to rewrite them.
package expect

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/hexops/valast"
	"gonum.org/v1/plot/cmpimg"
)

var unsafeNameRe = regexp.MustCompile(`[^-.\w/]+`)

// Golden fails t if got differs from testdata/expect/<test name>/filename.
// Strings are compared as text with a trailing newline, []byte exactly
// (PNG images approximately) and anything else as its valast rendering.
func Golden(t testing.TB, filename string, got any) {
	t.Helper()

	path := filepath.Join("testdata", "expect", safeDir(t.Name()), filename)

	want, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatal(err)
		}
		want = nil
	}

	var msg, gotString, wantString string
	var save []byte

	switch got := got.(type) {
	case []byte:
		if strings.HasSuffix(filename, ".png") {
			// Images differ slightly across GOARCHes due to floating point fuzziness.
			ok, err := cmpimg.EqualApprox("png", got, want, 0.05)
			if err != nil && !update() {
				t.Fatal(err)
			}
			if !ok {
				msg = fmt.Sprintf("%v: image path %v does not match expected", filename, path)
			}
		} else if !bytes.Equal(got, want) {
			msg = fmt.Sprintf("%v: path %v does not match expected", filename, path)
		}
		save = got
	case string:
		gotString = got + "\n"
		wantString = string(want)
	default:
		gotString = valast.String(got) + "\n"
		wantString = string(want)
	}

	if update() {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			t.Fatal(err)
		}
		if save == nil {
			save = []byte(gotString)
		}
		if err := os.WriteFile(path, save, 0600); err != nil {
			t.Fatal(err)
		}
		return
	}

	if msg != "" {
		t.Fatal(msg)
	}
	if d := diff(gotString, wantString); d != "" {
		t.Fatalf("%v: path %v does not match expected\n%v", filename, path, d)
	}
}

// safeDir turns a test name into a relative directory, hashing any path
// element holding characters unsafe in file names.
func safeDir(name string) string {
	if !unsafeNameRe.MatchString(name) {
		return name
	}

	var parts []string
	for _, p := range strings.FieldsFunc(name, func(r rune) bool { return os.IsPathSeparator(uint8(r)) }) {
		if unsafeNameRe.MatchString(p) {
			ts := sha256.New224()
			ts.Write([]byte(name))
			p = unsafeNameRe.ReplaceAllString(p, "_") + "_" + hex.EncodeToString(ts.Sum(nil))[:8]
		}
		parts = append(parts, p)
	}
	return filepath.Join(parts...)
}

//nolint:gochecknoinits
func init() {
	// Other packages may also define -update; only define it once.
	if updateFlag := flag.Lookup("update"); updateFlag == nil {
		flag.Bool("update", false, "update golden files")
	}
}

func update() bool {
	return flag.Lookup("update").Value.(flag.Getter).Get().(bool)
}

func diff(got, want string) string {
	edits := myers.ComputeEdits(span.URIFromPath("out"), want, got)
	return fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
}
