// Package facehint finds the spot between the eyebrows where the tilak goes,
// so the client can draw a guide over the webcam feed.
package facehint

import (
	"errors"
	"fmt"
	"math"
	"sync"

	pigo "github.com/esimov/pigo/core"
)

// ErrNotReady is returned by Detect before the cascades are unpacked.
var ErrNotReady = errors.New("facehint: cascades not unpacked")

// Mark is the guide position in frame pixels.
type Mark struct {
	X, Y   float64
	Radius float64
	// Eyes reports whether both pupils were found.
	Eyes bool
}

// Detector wraps the pigo face and pupil cascades.
type Detector struct {
	mu        sync.Mutex
	face      *pigo.Pigo
	puploc    *pigo.PuplocCascade
	minQ      float32
	minSize   int
	maxSize   int
	shift     float64
	scale     float64
	perturbs  int
	iouThresh float64
}

// NewDetector returns a Detector which needs Unpack before use.
func NewDetector(minQuality float32) *Detector {
	return &Detector{
		minQ:      minQuality,
		minSize:   60,
		maxSize:   600,
		shift:     0.1,
		scale:     1.1,
		perturbs:  63,
		iouThresh: 0.2,
	}
}

// Unpack loads the face finder cascade and, when not empty, the pupil
// localization cascade.
func (d *Detector) Unpack(facefinder, puploc []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	face, err := pigo.NewPigo().Unpack(facefinder)
	if err != nil {
		return fmt.Errorf("facehint: unpack face cascade: %w", err)
	}
	d.face = face

	if len(puploc) > 0 {
		plc, err := pigo.NewPuplocCascade().UnpackCascade(puploc)
		if err != nil {
			return fmt.Errorf("facehint: unpack pupil cascade: %w", err)
		}
		d.puploc = plc
	}
	return nil
}

// Ready reports whether Unpack succeeded.
func (d *Detector) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.face != nil
}

// Detect returns the guide of the most confident face in a grayscale frame.
func (d *Detector) Detect(gray []uint8, width, height int) (Mark, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.face == nil {
		return Mark{}, false, ErrNotReady
	}
	if len(gray) < width*height {
		return Mark{}, false, fmt.Errorf("facehint: frame has %d pixels, want %d", len(gray), width*height)
	}

	img := pigo.ImageParams{
		Pixels: gray,
		Rows:   height,
		Cols:   width,
		Dim:    width,
	}
	dets := d.face.RunCascade(pigo.CascadeParams{
		MinSize:     d.minSize,
		MaxSize:     d.maxSize,
		ShiftFactor: d.shift,
		ScaleFactor: d.scale,
		ImageParams: img,
	}, 0.0)
	dets = d.face.ClusterDetections(dets, d.iouThresh)

	best, ok := strongest(dets, d.minQ)
	if !ok {
		return Mark{}, false, nil
	}

	var left, right *pigo.Puploc
	if d.puploc != nil {
		left = d.pupil(best, img, -0.175)
		right = d.pupil(best, img, 0.185)
	}
	return Forehead(best, left, right), true, nil
}

func (d *Detector) pupil(det pigo.Detection, img pigo.ImageParams, colShift float64) *pigo.Puploc {
	pl := pigo.Puploc{
		Row:      det.Row - int(0.075*float64(det.Scale)),
		Col:      det.Col + int(colShift*float64(det.Scale)),
		Scale:    float32(det.Scale) * 0.25,
		Perturbs: d.perturbs,
	}
	res := d.puploc.RunDetector(pl, img, 0.0, false)
	if res == nil || res.Row <= 0 || res.Col <= 0 {
		return nil
	}
	return res
}

// strongest returns the detection with the highest quality above minQ.
func strongest(dets []pigo.Detection, minQ float32) (pigo.Detection, bool) {
	var (
		best  pigo.Detection
		found bool
	)
	for _, det := range dets {
		if det.Q < minQ {
			continue
		}
		if !found || det.Q > best.Q {
			best, found = det, true
		}
	}
	return best, found
}

// Forehead places the mark between the eyebrows. With both pupils the mark
// sits above their midpoint by half the eye distance; otherwise it is
// derived from the face box alone.
func Forehead(det pigo.Detection, left, right *pigo.Puploc) Mark {
	scale := float64(det.Scale)
	m := Mark{Radius: math.Max(scale*0.06, 4)}

	if left != nil && right != nil {
		mx := float64(left.Col+right.Col) / 2
		my := float64(left.Row+right.Row) / 2
		dist := math.Hypot(float64(right.Col-left.Col), float64(right.Row-left.Row))
		m.X, m.Y = mx, my-dist*0.5
		m.Eyes = true
		return m
	}
	m.X = float64(det.Col)
	m.Y = float64(det.Row) - scale*0.25
	return m
}

// Grayscale converts RGBA pixel data to luminance.
func Grayscale(rgba []uint8, width, height int) []uint8 {
	n := width * height
	if len(rgba) < n*4 {
		n = len(rgba) / 4
	}
	gray := make([]uint8, n)
	for i := 0; i < n; i++ {
		r, g, b := float64(rgba[4*i]), float64(rgba[4*i+1]), float64(rgba[4*i+2])
		gray[i] = uint8(math.Round(0.2126*r + 0.7152*g + 0.0722*b))
	}
	return gray
}
