// Package basemap loads GeoJSON base maps and draws them with gonum plot.
package basemap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/dimchansky/utfbom"
	"github.com/graxinc/errutil"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// defaultMaxBody caps how much of a remote base map is read.
const defaultMaxBody = 256 << 20

// Client loads GeoJSON base maps from files or http(s) URLs.
type Client struct {
	// Transport is the http.RoundTripper to use for remote base maps.
	// If nil, http.DefaultTransport is used.
	Transport http.RoundTripper

	// MaxBody is the largest remote base map accepted, in bytes.
	// If zero, 256MiB.
	MaxBody int64
}

// Load returns the features found at src. src is fetched if it is an http
// or https URL and read from the filesystem otherwise.
//
// src may hold a FeatureCollection, a single Feature or a bare geometry;
// the latter two are returned wrapped in a collection. A leading UTF-8 byte
// order mark is ignored.
func (c Client) Load(ctx context.Context, src string) (*geojson.FeatureCollection, error) {
	var (
		b   []byte
		err error
	)
	if u, perr := url.Parse(src); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		b, err = c.fetch(ctx, u)
	} else {
		b, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, errutil.With(err)
	}

	fc, err := Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errutil.New(errutil.Tags{"msg": "decoding base map", "src": src, "err": err})
	}
	return fc, nil
}

func (c Client) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errutil.With(err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, errutil.With(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errutil.New(errutil.Tags{"msg": "bad status", "status": resp.StatusCode, "url": u.String()})
	}

	limit := c.MaxBody
	if limit <= 0 {
		limit = defaultMaxBody
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errutil.With(err)
	}
	if int64(len(b)) > limit {
		return nil, errutil.New(errutil.Tags{"msg": "base map too large", "url": u.String(), "limit": limit})
	}
	return b, nil
}

func (c Client) do(req *http.Request) (*http.Response, error) {
	tr := c.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	return tr.RoundTrip(req)
}

// Decode reads GeoJSON from r. See Client.Load for what is accepted.
func Decode(r io.Reader) (*geojson.FeatureCollection, error) {
	b, err := io.ReadAll(utfbom.SkipOnly(r))
	if err != nil {
		return nil, errutil.With(err)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, errutil.With(err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			return nil, errutil.With(err)
		}
		return fc, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			return nil, errutil.With(err)
		}
		return geojson.NewFeatureCollection().Append(f), nil
	case "":
		return nil, errutil.New(errutil.Tags{"msg": "missing GeoJSON type"})
	}

	g, err := geojson.UnmarshalGeometry(b)
	if err != nil {
		return nil, errutil.With(err)
	}
	return geojson.NewFeatureCollection().Append(geojson.NewFeature(g.Geometry())), nil
}

// Bound returns the extent of every feature in fc. The second result is
// false if fc has no features with geometry.
func Bound(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var (
		b     orb.Bound
		found bool
	)
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		fb := f.Geometry.Bound()
		if !found {
			b, found = fb, true
			continue
		}
		b = b.Union(fb)
	}
	return b, found
}
