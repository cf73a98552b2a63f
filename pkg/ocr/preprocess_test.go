package ocr

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestPreprocessResizesWideImages(t *testing.T) {
	img := Preprocess(testImage(3000, 1500), PreprocessOptions{MaxWidth: 2000})
	assert.Equal(t, 2000, img.Bounds().Dx())
	// 等比缩放
	assert.Equal(t, 1000, img.Bounds().Dy())
}

func TestPreprocessKeepsSmallImages(t *testing.T) {
	img := Preprocess(testImage(800, 600), PreprocessOptions{MaxWidth: 2000})
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestPreprocessGrayscale(t *testing.T) {
	img := Preprocess(testImage(10, 10), PreprocessOptions{Grayscale: true})
	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestPreprocessNoopByDefault(t *testing.T) {
	src := testImage(100, 100)
	img := Preprocess(src, PreprocessOptions{})
	assert.Equal(t, src.Bounds(), img.Bounds())
}

func TestDefaultPreprocessOptions(t *testing.T) {
	opts := DefaultPreprocessOptions()
	assert.True(t, opts.Grayscale)
	assert.True(t, opts.Sharpen)
	assert.Equal(t, 2000, opts.MaxWidth)
	assert.NotZero(t, opts.Contrast)
}
