// Package thali prepares the uploaded aarti thali image: decoding the data
// URL produced by the file reader, the blurred glow shown behind it and the
// optional low-poly rendering.
package thali

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	// Decoders of the accepted uploads.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"github.com/esimov/stackblur-go"
	triangle "github.com/esimov/triangle/v2"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/esimov/bhaidooj-wasm/config"
)

// ErrNotDataURL is returned for inputs which are not base64 data URLs.
var ErrNotDataURL = errors.New("not a base64 data URL")

// Style selects how the thali is drawn.
type Style int

const (
	// Original shows the uploaded image as is.
	Original Style = iota
	// LowPoly shows a Delaunay triangulation of the image.
	LowPoly
)

// Decode parses a data URL such as "data:image/png;base64,...".
func Decode(dataURL string) (image.Image, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrNotDataURL
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Encode returns img as a PNG data URL.
func Encode(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Fit scales img down so that its longest side is at most maxDim.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Glow blurs the image with the given radius.
func Glow(img image.Image, radius uint32) (*image.NRGBA, error) {
	res, err := stackblur.Process(img, radius)
	if err != nil {
		return nil, fmt.Errorf("blur: %w", err)
	}
	return res, nil
}

// Polygonize draws the image as a mesh of flat colored triangles.
func Polygonize(img image.Image) (image.Image, error) {
	proc := triangle.Processor{
		BlurRadius:      2,
		Noise:           0,
		BlurFactor:      1,
		EdgeFactor:      6,
		PointRate:       0.075,
		MaxPoints:       config.LowPolyMaxPoints,
		PointsThreshold: 10,
		Wireframe:       triangle.WithoutWireframe,
		StrokeWidth:     0,
		IsStrokeSolid:   false,
		Grayscale:       false,
		BgColor:         "#ffffff00",
	}
	tri := &triangle.Image{Processor: proc}

	// Triangle draws into a fresh image of the source bounds.
	src := image.NewNRGBA(img.Bounds())
	draw.Draw(src, src.Bounds(), img, img.Bounds().Min, draw.Src)

	res, _, _, err := tri.Draw(src, proc, func() {})
	if err != nil {
		return nil, fmt.Errorf("triangulate: %w", err)
	}
	return res, nil
}

// Styler renders the thali styles. It implements app.Styler.
type Styler struct {
	mu     sync.Mutex
	Radius uint32
	MaxDim int
}

func (s *Styler) settings() (uint32, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Radius, s.MaxDim
}

// NewStyler returns a Styler with the default settings.
func NewStyler() *Styler {
	return &Styler{Radius: config.DefaultGlowRadius, MaxDim: config.ThaliMaxDim}
}

// Glow returns the glow of the uploaded image as a data URL.
func (s *Styler) Glow(dataURL string) (string, error) {
	img, err := Decode(dataURL)
	if err != nil {
		return "", err
	}
	radius, maxDim := s.settings()
	res, err := Glow(Fit(img, maxDim), radius)
	if err != nil {
		return "", err
	}
	return Encode(res)
}

// Rendered holds the data URLs of a thali rendering.
type Rendered struct {
	Image string
	Glow  string
}

// Render produces the image for the style and its glow concurrently.
func (s *Styler) Render(dataURL string, style Style) (Rendered, error) {
	img, err := Decode(dataURL)
	if err != nil {
		return Rendered{}, err
	}
	radius, maxDim := s.settings()
	img = Fit(img, maxDim)

	var (
		g   errgroup.Group
		out Rendered
	)
	g.Go(func() error {
		if style != LowPoly {
			out.Image = dataURL
			return nil
		}
		poly, err := Polygonize(img)
		if err != nil {
			return err
		}
		out.Image, err = Encode(poly)
		return err
	})
	g.Go(func() error {
		glow, err := Glow(img, radius)
		if err != nil {
			return err
		}
		out.Glow, err = Encode(glow)
		return err
	})
	if err := g.Wait(); err != nil {
		return Rendered{}, err
	}
	return out, nil
}

// Adjust changes the glow radius by delta within the allowed range.
func (s *Styler) Adjust(delta int) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := int(s.Radius) + delta
	if r < config.MinGlowRadius {
		r = config.MinGlowRadius
	}
	if r > config.MaxGlowRadius {
		r = config.MaxGlowRadius
	}
	s.Radius = uint32(r)
	return s.Radius
}
