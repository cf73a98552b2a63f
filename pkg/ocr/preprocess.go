package ocr

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// PreprocessOptions 识别前的图片预处理选项
type PreprocessOptions struct {
	// MaxWidth 超过该宽度的图片先等比缩小，0表示不缩放
	MaxWidth int
	// Grayscale 转灰度图
	Grayscale bool
	// Contrast 对比度调整量，0表示不调整
	Contrast float64
	// Sharpen 锐化
	Sharpen bool
}

// DefaultPreprocessOptions 拍照收据的常用预处理组合
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		MaxWidth:  2000,
		Grayscale: true,
		Contrast:  0.2,
		Sharpen:   true,
	}
}

// Preprocess 对拍照收据做识别前的清理，提高 Tesseract 的命中率
// 手机拍摄的收据普遍偏大、偏灰、带彩色背景
func Preprocess(img image.Image, opts PreprocessOptions) image.Image {
	if opts.MaxWidth > 0 && img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}
	if opts.Grayscale {
		img = imaging.Grayscale(img)
	}
	if opts.Contrast != 0 {
		img = adjust.Contrast(img, opts.Contrast)
	}
	if opts.Sharpen {
		img = effect.Sharpen(img)
	}
	return img
}
