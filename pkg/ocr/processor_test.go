package ocr

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dengfw/go-receipt-ocr/pkg/order"
)

// stubEngine 返回固定文本，测试里代替真实的Tesseract
type stubEngine struct {
	text string
	err  error
}

func (s stubEngine) Recognize(ctx context.Context, img image.Image, onProgress ProgressFunc) (string, error) {
	if onProgress != nil {
		onProgress(100)
	}
	return s.text, s.err
}

func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	return path
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestImage(t, dir, "receipt.png")

	engine := stubEngine{text: "中通快递 301342581579 ¥9.90 x2 淘宝订单"}
	processor := NewProcessor(engine, zaptest.NewLogger(t))
	processor.SetLanguages([]string{"chi_sim", "eng"})

	outputDir := filepath.Join(dir, "output")
	result, err := processor.ProcessFile(context.Background(), imagePath, ProcessOptions{
		OutputDir:   outputDir,
		SaveRawText: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.False(t, result.Skipped)

	o := result.Orders[0]
	assert.Equal(t, "301342581579", o.TrackingNumber)
	assert.Equal(t, 2, o.Quantity)
	assert.Equal(t, imagePath, o.ImageURL)

	// orders.json 要能被重新读回
	data, err := os.ReadFile(result.OrdersPath)
	require.NoError(t, err)
	var saved []order.Order
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, o.ID, saved[0].ID)

	// 元数据和原始文本也要落盘
	assert.FileExists(t, result.MetadataPath)
	assert.FileExists(t, filepath.Join(result.OutputDir, "raw.txt"))
}

func TestProcessFileSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestImage(t, dir, "receipt.png")

	engine := stubEngine{text: "¥9.90"}
	processor := NewProcessor(engine, zaptest.NewLogger(t))
	outputDir := filepath.Join(dir, "output")

	first, err := processor.ProcessFile(context.Background(), imagePath, ProcessOptions{OutputDir: outputDir})
	require.NoError(t, err)
	assert.False(t, first.Skipped)

	// 第二次处理同一张图片直接跳过
	second, err := processor.ProcessFile(context.Background(), imagePath, ProcessOptions{OutputDir: outputDir})
	require.NoError(t, err)
	assert.True(t, second.Skipped)
}

func TestProcessFileUnreadableImage(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(badPath, []byte("不是图片"), 0644))

	processor := NewProcessor(stubEngine{text: "x"}, zaptest.NewLogger(t))
	_, err := processor.ProcessFile(context.Background(), badPath, ProcessOptions{OutputDir: filepath.Join(dir, "output")})
	assert.Error(t, err)
}

func TestProcessMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	imagesDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(imagesDir, 0755))
	writeTestImage(t, imagesDir, "a.png")
	writeTestImage(t, imagesDir, "b.jpg")
	// 不支持的文件被忽略
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "notes.txt"), []byte("备注"), 0644))

	engine := stubEngine{text: "韵达快递 43466863401394 实付款: 59.9"}
	processor := NewProcessor(engine, zaptest.NewLogger(t))

	results, err := processor.ProcessMultipleFiles(context.Background(), []string{imagesDir}, ProcessOptions{
		OutputDir:       filepath.Join(dir, "output"),
		ContinueOnError: true,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestProcessMultipleFilesNoImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("备注"), 0644))

	processor := NewProcessor(stubEngine{text: "x"}, zaptest.NewLogger(t))
	_, err := processor.ProcessMultipleFiles(context.Background(), []string{filepath.Join(dir, "notes.txt")}, ProcessOptions{})
	assert.Error(t, err)
}

func TestProcessFileEngineFailure(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeTestImage(t, dir, "receipt.png")

	engine := stubEngine{err: assert.AnError}
	processor := NewProcessor(engine, zaptest.NewLogger(t))
	_, err := processor.ProcessFile(context.Background(), imagePath, ProcessOptions{OutputDir: filepath.Join(dir, "output")})
	assert.ErrorIs(t, err, assert.AnError)
}
