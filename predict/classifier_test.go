package predict

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan-health/nutriscan-api/who"
)

func solidImage(t *testing.T, c color.RGBA) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestClassifyDarkDesaturatedIsUnhealthyHighConfidence(t *testing.T) {
	classifier := NewHSVClassifier(Thresholds{})

	// Gray 70: saturation 0, value 70 -> unhealthy, severe band.
	finding, err := classifier.Classify(solidImage(t, color.RGBA{70, 70, 70, 255}), who.SiteSkin)
	require.NoError(t, err)
	assert.Equal(t, "unhealthy_skin", finding.Label)
	assert.InDelta(t, 0.8, finding.Confidence, 1e-9)
	assert.Equal(t, who.SiteSkin, finding.Site)
}

func TestClassifyBorderlineIsUnhealthyLowerConfidence(t *testing.T) {
	classifier := NewHSVClassifier(Thresholds{})

	// RGB(105,85,85): value 105, saturation ~48.6 -> unhealthy but above
	// both severe marks.
	finding, err := classifier.Classify(solidImage(t, color.RGBA{105, 85, 85, 255}), who.SiteNail)
	require.NoError(t, err)
	assert.Equal(t, "unhealthy_nails", finding.Label)
	assert.InDelta(t, 0.7, finding.Confidence, 1e-9)
}

func TestClassifyVividBrightIsHealthy(t *testing.T) {
	classifier := NewHSVClassifier(Thresholds{})

	finding, err := classifier.Classify(solidImage(t, color.RGBA{255, 120, 120, 255}), who.SiteSkin)
	require.NoError(t, err)
	assert.Equal(t, "healthy_skin", finding.Label)
	assert.InDelta(t, 0.75, finding.Confidence, 1e-9)
}

func TestClassifyAmbiguousDefaultsHealthy(t *testing.T) {
	classifier := NewHSVClassifier(Thresholds{})

	// Bright but washed out: neither rule fires.
	finding, err := classifier.Classify(solidImage(t, color.RGBA{200, 180, 180, 255}), who.SiteNail)
	require.NoError(t, err)
	assert.Equal(t, "healthy_nails", finding.Label)
	assert.InDelta(t, 0.6, finding.Confidence, 1e-9)
}

func TestClassifyRejectsGarbage(t *testing.T) {
	classifier := NewHSVClassifier(Thresholds{})

	_, err := classifier.Classify(strings.NewReader("not an image"), who.SiteSkin)
	assert.Error(t, err)
}

func TestClassifyRejectsBadSite(t *testing.T) {
	classifier := NewHSVClassifier(Thresholds{})

	_, err := classifier.Classify(solidImage(t, color.RGBA{70, 70, 70, 255}), who.Site("hair"))
	assert.IsType(t, &who.InvalidInputError{}, err)
}

func TestCustomThresholds(t *testing.T) {
	// Lower the healthy gate so the washed-out image from the ambiguous
	// case becomes confidently healthy.
	classifier := NewHSVClassifier(Thresholds{
		UnhealthySatMax: 60,
		UnhealthyValMax: 110,
		SevereSatMax:    45,
		SevereValMax:    90,
		HealthySatMin:   20,
		HealthyValMin:   150,
	})

	finding, err := classifier.Classify(solidImage(t, color.RGBA{200, 180, 180, 255}), who.SiteSkin)
	require.NoError(t, err)
	assert.Equal(t, "healthy_skin", finding.Label)
	assert.InDelta(t, 0.75, finding.Confidence, 1e-9)
}
