package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/dengfw/go-receipt-ocr/pkg/extract"
	"github.com/dengfw/go-receipt-ocr/pkg/order"
	"github.com/dengfw/go-receipt-ocr/pkg/utils"
)

// 支持的收据图片格式
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
}

// Processor 把收据图片批量转换成结构化订单
type Processor struct {
	engine    Engine
	parser    *extract.Parser
	logger    *zap.Logger
	languages []string
}

// NewProcessor 创建一个新的处理器
func NewProcessor(engine Engine, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		engine: engine,
		parser: extract.NewParser(logger),
		logger: logger,
	}
}

// SetLanguages 记录识别语言，仅写入元数据
func (p *Processor) SetLanguages(languages []string) {
	p.languages = languages
}

// checkOutputDir 检查输出目录是否已经存在并且orders.json不为空
func (p *Processor) checkOutputDir(outputDir string) (bool, error) {
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		return false, nil
	}

	ordersPath := filepath.Join(outputDir, "orders.json")
	fileInfo, err := os.Stat(ordersPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("检查orders.json文件失败: %w", err)
	}

	// 如果文件大小为0，则认为需要重新处理
	if fileInfo.Size() == 0 {
		return false, nil
	}

	return true, nil
}

// ProcessFile 处理单张收据图片并返回提取出的订单
func (p *Processor) ProcessFile(ctx context.Context, imagePath string, opts ProcessOptions) (*ProcessResult, error) {
	startTime := time.Now()
	p.logger.Info("开始处理图片", zap.String("imagePath", imagePath))

	// 确定输出文件名
	outputName := opts.CustomOutputName
	if outputName == "" {
		// 使用原始文件名(不带扩展名)
		outputName = strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	}

	// 创建输出目录
	outputDir := filepath.Join(opts.OutputDir, outputName)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录错误: %w", err)
	}

	// 检查输出目录是否已经存在并且orders.json不为空
	exists, err := p.checkOutputDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("检查输出目录失败: %w", err)
	}
	if exists {
		p.logger.Info("输出目录已存在且orders.json不为空，跳过处理", zap.String("outputDir", outputDir))
		return &ProcessResult{
			SourcePath:   imagePath,
			OutputDir:    outputDir,
			OrdersPath:   filepath.Join(outputDir, "orders.json"),
			MetadataPath: filepath.Join(outputDir, "metadata.json"),
			Skipped:      true,
		}, nil
	}

	// 读取图片，手机照片按EXIF方向自动旋转
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		p.logger.Error("读取图片失败", zap.Error(err), zap.String("imagePath", imagePath))
		return nil, fmt.Errorf("读取图片失败: %w", err)
	}

	// 识别前预处理
	p.logger.Debug("图片预处理...")
	img = Preprocess(img, opts.Preprocess)

	// 文字识别
	p.logger.Debug("进行文字识别...")
	rawText, err := p.engine.Recognize(ctx, img, opts.OnProgress)
	if err != nil {
		p.logger.Error("文字识别失败", zap.Error(err), zap.String("imagePath", imagePath))
		return nil, fmt.Errorf("文字识别失败: %w", err)
	}
	p.logger.Debug("文字识别完成", zap.Int("textLength", len(rawText)))

	// 解析订单：解析本身不会失败，字段缺失时填默认值
	extracted := p.parser.Parse(rawText)
	orders := order.FromExtracted(extracted, imagePath)
	p.logger.Info("订单解析完成", zap.Int("orders", len(orders)))

	// 保存结果
	result, err := p.saveResults(orders, rawText, imagePath, outputDir, opts)
	if err != nil {
		return nil, fmt.Errorf("保存结果失败: %w", err)
	}

	result.Elapsed = time.Since(startTime)
	p.logger.Info("处理完成",
		zap.String("outputDir", result.OutputDir),
		zap.Int("orders", len(result.Orders)),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}

// saveResults 保存提取出的订单和元数据
func (p *Processor) saveResults(orders []order.Order, rawText, imagePath, outputDir string, opts ProcessOptions) (*ProcessResult, error) {
	result := &ProcessResult{
		SourcePath: imagePath,
		OutputDir:  outputDir,
		Orders:     orders,
		RawText:    rawText,
	}

	// 保存订单
	ordersPath := filepath.Join(outputDir, "orders.json")
	ordersJSON, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化订单失败: %w", err)
	}
	if err := os.WriteFile(ordersPath, ordersJSON, 0644); err != nil {
		return nil, fmt.Errorf("保存订单输出错误: %w", err)
	}
	result.OrdersPath = ordersPath
	p.logger.Debug("保存了订单文件", zap.String("path", ordersPath))

	// 保存识别出的原始文本，便于排查提取问题
	rawTextPath := ""
	if opts.SaveRawText {
		rawTextPath = filepath.Join(outputDir, "raw.txt")
		if err := os.WriteFile(rawTextPath, []byte(rawText), 0644); err != nil {
			return nil, fmt.Errorf("保存原始文本错误: %w", err)
		}
		p.logger.Debug("保存了原始文本文件", zap.String("path", rawTextPath))
	}

	// 保存元数据
	errorOrders := 0
	for _, o := range orders {
		if o.HasError {
			errorOrders++
		}
	}
	metadata := ProcessMetadata{
		SourcePath:  imagePath,
		OutputDir:   outputDir,
		ProcessedAt: time.Now().Format(time.RFC3339),
		Languages:   p.languages,
		OrdersFound: len(orders),
		ErrorOrders: errorOrders,
		RawTextPath: rawTextPath,
	}
	metadataPath := filepath.Join(outputDir, "metadata.json")
	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		p.logger.Warn("序列化元数据失败", zap.Error(err))
	} else {
		if err := os.WriteFile(metadataPath, metadataJSON, 0644); err != nil {
			p.logger.Warn("写入元数据文件失败", zap.Error(err))
		} else {
			result.MetadataPath = metadataPath
			p.logger.Debug("保存了元数据文件", zap.String("path", metadataPath))
		}
	}

	return result, nil
}

// ProcessMultipleFiles 处理多张图片或目录
func (p *Processor) ProcessMultipleFiles(ctx context.Context, paths []string, opts ProcessOptions) ([]*ProcessResult, error) {
	var results []*ProcessResult
	var filesToProcess []string
	var errors []error
	var skippedFiles int

	// 收集所有需要处理的图片
	for _, path := range paths {
		fileInfo, err := os.Stat(path)
		if err != nil {
			p.logger.Error("获取文件信息失败", zap.String("path", path), zap.Error(err))
			if !opts.ContinueOnError {
				return nil, fmt.Errorf("获取文件信息失败: %w", err)
			}
			errors = append(errors, fmt.Errorf("获取文件信息失败 %s: %w", path, err))
			continue
		}

		if fileInfo.IsDir() {
			// 如果是目录，收集目录中所有的图片文件
			p.logger.Info("扫描目录中的图片文件", zap.String("dir", path))
			err := filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(filePath))] {
					filesToProcess = append(filesToProcess, filePath)
				}
				return nil
			})
			if err != nil {
				p.logger.Error("扫描目录失败", zap.String("dir", path), zap.Error(err))
				if !opts.ContinueOnError {
					return nil, fmt.Errorf("扫描目录失败: %w", err)
				}
				errors = append(errors, fmt.Errorf("扫描目录失败 %s: %w", path, err))
				continue
			}
		} else if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			filesToProcess = append(filesToProcess, path)
		} else {
			p.logger.Warn("跳过不支持的文件", zap.String("file", path))
		}
	}

	if len(filesToProcess) == 0 {
		if len(errors) > 0 {
			return nil, fmt.Errorf("没有找到可处理的图片文件，发生了 %d 个错误", len(errors))
		}
		return nil, fmt.Errorf("没有找到可处理的图片文件")
	}

	p.logger.Info("开始处理图片", zap.Int("total", len(filesToProcess)))

	// 终端里跑批量时显示进度条
	var tracker *utils.ProgressTracker
	if utils.IsTerminal() && len(filesToProcess) > 1 {
		tracker = utils.NewProgressTracker("识别收据", len(filesToProcess))
	}

	// 处理每张图片
	for i, filePath := range filesToProcess {
		p.logger.Info("处理图片", zap.Int("current", i+1), zap.Int("total", len(filesToProcess)), zap.String("file", filePath))

		// 为每张图片创建单独的输出名称
		fileOpts := opts
		if fileOpts.CustomOutputName == "" {
			fileOpts.CustomOutputName = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		} else if len(filesToProcess) > 1 {
			// 如果处理多张图片但指定了输出名称，则添加序号
			fileOpts.CustomOutputName = fmt.Sprintf("%s_%d", fileOpts.CustomOutputName, i+1)
		}

		result, err := p.ProcessFile(ctx, filePath, fileOpts)
		if tracker != nil {
			tracker.Step(filepath.Base(filePath))
		}
		if err != nil {
			p.logger.Error("处理图片失败", zap.String("file", filePath), zap.Error(err))
			errors = append(errors, fmt.Errorf("处理图片失败 %s: %w", filePath, err))
			if !opts.ContinueOnError {
				return results, fmt.Errorf("处理图片失败: %w", err)
			}
			// 继续处理其他图片，不中断整个过程
			continue
		}

		if result.Skipped {
			skippedFiles++
		}

		results = append(results, result)
	}

	if tracker != nil {
		tracker.Complete()
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("所有图片处理失败，发生了 %d 个错误", len(errors))
	}

	if len(errors) > 0 {
		p.logger.Warn("部分图片处理失败", zap.Int("success", len(results)), zap.Int("failed", len(errors)), zap.Int("total", len(filesToProcess)))
	}

	p.logger.Info("所有图片处理完成",
		zap.Int("success", len(results)),
		zap.Int("skipped", skippedFiles),
		zap.Int("total", len(filesToProcess)))
	return results, nil
}
