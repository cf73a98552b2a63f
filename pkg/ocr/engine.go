package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// ProgressFunc 识别进度回调，progress 取值 0-100
type ProgressFunc func(progress int)

// Engine 文字识别引擎，输入图片输出原始文本
type Engine interface {
	Recognize(ctx context.Context, img image.Image, onProgress ProgressFunc) (string, error)
}

// TesseractEngine 基于本地 Tesseract 的识别引擎
// 每次识别创建独立的 gosseract 客户端，可以并发使用
type TesseractEngine struct {
	languages   []string
	tessdataDir string
	logger      *zap.Logger
}

// NewTesseractEngine 创建识别引擎
// languages 为空时默认简体中文+英文，与收据内容匹配
func NewTesseractEngine(languages []string, tessdataDir string, logger *zap.Logger) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{"chi_sim", "eng"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TesseractEngine{
		languages:   languages,
		tessdataDir: tessdataDir,
		logger:      logger,
	}
}

// Recognize 识别一张图片中的文本
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image, onProgress ProgressFunc) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	report(onProgress, 0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("编码图片失败: %w", err)
	}
	report(onProgress, 20)

	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdataDir != "" {
		if err := client.SetTessdataPrefix(e.tessdataDir); err != nil {
			return "", fmt.Errorf("设置tessdata目录失败: %w", err)
		}
	}
	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("设置识别语言失败: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("设置图片失败: %w", err)
	}
	report(onProgress, 40)

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("文字识别失败: %w", err)
	}
	report(onProgress, 100)

	e.logger.Debug("识别完成", zap.Int("textLength", len(text)))
	return text, nil
}

func report(onProgress ProgressFunc, progress int) {
	if onProgress != nil {
		onProgress(progress)
	}
}
