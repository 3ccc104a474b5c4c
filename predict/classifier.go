// Package predict grades skin and nail photographs into health findings.
//
// The grader is a color-statistics heuristic: pale, low-saturation imagery
// correlates with the nutritional deficiency presentations the screening
// targets. It is deliberately dependency-free so analyses stay deterministic
// and fast on commodity hardware; a learned model can be swapped in behind
// the Classifier interface later.
package predict

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nutriscan-health/nutriscan-api/who"
)

// Classifier grades one photograph of the given body site.
type Classifier interface {
	Classify(r io.Reader, site who.Site) (who.Finding, error)
}

// Thresholds are the HSV decision boundaries, on the 0-255 scale for both
// saturation and value channels.
type Thresholds struct {
	// A mean below both marks the image unhealthy.
	UnhealthySatMax float64
	UnhealthyValMax float64
	// Within the unhealthy region, means below either raise confidence.
	SevereSatMax float64
	SevereValMax float64
	// A mean above both marks the image confidently healthy.
	HealthySatMin float64
	HealthyValMin float64
}

// DefaultThresholds returns the calibrated decision boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		UnhealthySatMax: 60,
		UnhealthyValMax: 110,
		SevereSatMax:    45,
		SevereValMax:    90,
		HealthySatMin:   120,
		HealthyValMin:   160,
	}
}

// HSVClassifier implements Classifier with mean-saturation/value rules.
// The zero value is not usable; construct it with NewHSVClassifier.
type HSVClassifier struct {
	thresholds Thresholds
}

// NewHSVClassifier builds a classifier, defaulting zero-value thresholds.
func NewHSVClassifier(t Thresholds) *HSVClassifier {
	if t == (Thresholds{}) {
		t = DefaultThresholds()
	}
	return &HSVClassifier{thresholds: t}
}

// Classify decodes the image (PNG, JPEG or GIF), averages the saturation and
// value channels over every pixel, and maps the means to a labeled finding
// for the site. Undecodable or empty images are rejected, never defaulted.
func (c *HSVClassifier) Classify(r io.Reader, site who.Site) (who.Finding, error) {
	if site != who.SiteSkin && site != who.SiteNail {
		return who.Finding{}, &who.InvalidInputError{Field: "site", Reason: "must be skin or nail"}
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return who.Finding{}, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return who.Finding{}, &who.InvalidInputError{Field: "image", Reason: "empty image"}
	}

	var satSum, valSum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sat, val := hsvOf(img.At(x, y).RGBA())
			satSum += sat
			valSum += val
		}
	}
	pixels := float64(bounds.Dx() * bounds.Dy())

	healthy, confidence := c.grade(satSum/pixels, valSum/pixels)
	return who.Finding{
		Site:       site,
		Label:      labelFor(site, healthy),
		Confidence: confidence,
	}, nil
}

func (c *HSVClassifier) grade(sat, val float64) (healthy bool, confidence float64) {
	t := c.thresholds
	switch {
	case sat < t.UnhealthySatMax && val < t.UnhealthyValMax:
		if sat < t.SevereSatMax || val < t.SevereValMax {
			return false, 0.8
		}
		return false, 0.7
	case sat > t.HealthySatMin && val > t.HealthyValMin:
		return true, 0.75
	default:
		return true, 0.6
	}
}

// hsvOf converts premultiplied 16-bit RGBA to the saturation and value
// channels on the 0-255 scale. Hue is never needed.
func hsvOf(r, g, b, _ uint32) (sat, val float64) {
	r8 := float64(r >> 8)
	g8 := float64(g >> 8)
	b8 := float64(b >> 8)

	max := r8
	if g8 > max {
		max = g8
	}
	if b8 > max {
		max = b8
	}
	min := r8
	if g8 < min {
		min = g8
	}
	if b8 < min {
		min = b8
	}

	if max == 0 {
		return 0, 0
	}
	return (max - min) * 255 / max, max
}

func labelFor(site who.Site, healthy bool) string {
	switch {
	case site == who.SiteSkin && healthy:
		return "healthy_skin"
	case site == who.SiteSkin:
		return "unhealthy_skin"
	case healthy:
		return "healthy_nails"
	default:
		return "unhealthy_nails"
	}
}
