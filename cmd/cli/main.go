package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dengfw/go-receipt-ocr/internal/config"
	"github.com/dengfw/go-receipt-ocr/internal/logger"
	"github.com/dengfw/go-receipt-ocr/pkg/extract"
	"github.com/dengfw/go-receipt-ocr/pkg/ocr"
	"github.com/dengfw/go-receipt-ocr/pkg/order"
	"github.com/dengfw/go-receipt-ocr/pkg/utils"
)

var (
	// 默认配置
	cfg *config.Config
	log *zap.Logger

	// 命令行参数
	configFile   string
	languages    []string
	tessdataDir  string
	outputDir    string
	outputName   string
	saveRawText  bool
	noPreprocess bool
	logLevel     string
	dryRun       bool
)

// 配置生成相关参数
var (
	outputToFile string
)

func main() {
	// 创建根命令
	rootCmd := &cobra.Command{
		Use:   "receipt-ocr",
		Short: "识别收据图片并提取订单信息",
		Long:  `识别拍照收据中的文本，提取商品名称、快递单号、数量、价格和平台，输出结构化订单数据。一张图片包含多个快递单号时会自动拆成多条订单。`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 跳过gen命令的配置加载
			if cmd.Name() == "gen" && cmd.Parent().Name() == "config" {
				return nil
			}
			return setup()
		},
	}

	// 识别图片命令
	extractCmd := &cobra.Command{
		Use:   "extract [图片文件或目录...]",
		Short: "识别本地收据图片或目录",
		Long:  `识别一张或多张本地收据图片，或者处理目录中的所有图片文件。每张图片的订单输出为orders.json。`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  extractImages,
	}

	// 解析文本命令
	parseCmd := &cobra.Command{
		Use:   "parse [文本文件]",
		Short: "解析已识别出的原始文本",
		Long:  `跳过图片识别，直接解析已有的OCR原始文本并输出订单JSON。不传文件路径时从标准输入读取。`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  parseText,
	}

	// 配置命令
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "管理配置",
	}

	// 更新配置项命令
	setConfigCmd := &cobra.Command{
		Use:   "set [键] [值]",
		Short: "更新单个配置项",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.UpdateConfig(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("配置项 %s 已更新\n", args[0])
			return nil
		},
	}

	// 生成默认配置命令
	genConfigCmd := &cobra.Command{
		Use:   "gen",
		Short: "生成默认配置",
		Long:  "生成默认配置并输出到标准输出或指定文件",
		RunE:  generateConfig,
	}

	// 添加根命令标志
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "指定配置文件路径")
	rootCmd.PersistentFlags().StringSliceVar(&languages, "languages", nil, "Tesseract识别语言列表，用逗号分隔")
	rootCmd.PersistentFlags().StringVar(&tessdataDir, "tessdata", "", "tessdata语言包目录")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "输出目录")
	rootCmd.PersistentFlags().StringVar(&outputName, "output-name", "", "输出文件名")
	rootCmd.PersistentFlags().BoolVar(&saveRawText, "save-raw-text", true, "是否保存识别出的原始文本")
	rootCmd.PersistentFlags().BoolVar(&noPreprocess, "no-preprocess", false, "跳过图片预处理")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "不执行实际操作，仅打印将要执行的操作")

	// 添加genConfig命令标志
	genConfigCmd.Flags().StringVarP(&outputToFile, "output", "o", "", "将配置输出到文件而非标准输出")

	// 添加子命令
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(setConfigCmd)
	configCmd.AddCommand(genConfigCmd)

	// 执行命令
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// setup 初始化应用程序
func setup() error {
	var err error

	// 先初始化一个基本日志记录器，用于记录配置加载过程
	tempLogger, _ := zap.NewProduction()
	defer tempLogger.Sync()

	// 记录是否使用了自定义配置文件
	if configFile != "" {
		tempLogger.Info("使用自定义配置文件", zap.String("path", configFile))
	}

	// 加载配置，优先使用命令行指定的配置文件
	if configFile != "" {
		cfg, err = loadCustomConfig(configFile)
	} else {
		tempLogger.Debug("使用默认配置文件路径")
		cfg, err = config.LoadConfig()
	}

	if err != nil {
		tempLogger.Error("加载配置失败", zap.Error(err))
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 从命令行参数更新配置
	updateConfigFromFlags(tempLogger)

	// 初始化正式日志
	tempLogger.Debug("初始化日志系统", zap.String("level", cfg.LogLevel))
	log, err = logger.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		tempLogger.Error("初始化日志系统失败", zap.Error(err))
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	// 记录配置加载完成
	log.Info("配置加载完成",
		zap.Strings("languages", cfg.Languages),
		zap.String("outputDir", cfg.OutputDir),
		zap.Bool("preprocess", cfg.PreprocessEnabled),
		zap.String("logLevel", cfg.LogLevel))

	return nil
}

// updateConfigFromFlags 根据命令行参数更新配置
func updateConfigFromFlags(logger *zap.Logger) {
	if len(languages) > 0 {
		logger.Debug("从命令行参数更新识别语言", zap.Strings("languages", languages))
		cfg.Languages = languages
	}
	if tessdataDir != "" {
		logger.Debug("从命令行参数更新tessdata目录", zap.String("tessdataDir", tessdataDir))
		cfg.TessdataDir = tessdataDir
	}
	if outputDir != "" {
		logger.Debug("从命令行参数更新输出目录", zap.String("outputDir", outputDir))
		cfg.OutputDir = outputDir
	}
	if noPreprocess {
		logger.Debug("从命令行参数关闭图片预处理")
		cfg.PreprocessEnabled = false
	}
	if logLevel != "" {
		logger.Debug("从命令行参数更新日志级别", zap.String("logLevel", logLevel))
		cfg.LogLevel = logLevel
	}
}

// loadCustomConfig 从指定路径加载配置
func loadCustomConfig(configPath string) (*config.Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}
	return config.LoadConfigFromFile(configPath)
}

// generateConfig 生成默认配置
func generateConfig(cmd *cobra.Command, args []string) error {
	// 获取默认配置内容
	defaultConfig := config.GetDefaultConfig()

	if outputToFile == "" {
		// 输出到标准输出
		fmt.Println(defaultConfig)
	} else {
		// 确保目录存在
		dir := filepath.Dir(outputToFile)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("创建目录失败: %w", err)
			}
		}

		// 写入文件
		if err := os.WriteFile(outputToFile, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("写入配置文件失败: %w", err)
		}
		fmt.Printf("配置已保存到: %s\n", outputToFile)
	}

	return nil
}

// preprocessOptions 把配置转换成预处理选项
func preprocessOptions() ocr.PreprocessOptions {
	if !cfg.PreprocessEnabled {
		return ocr.PreprocessOptions{}
	}
	return ocr.PreprocessOptions{
		MaxWidth:  cfg.MaxWidth,
		Grayscale: cfg.Grayscale,
		Contrast:  cfg.Contrast,
		Sharpen:   cfg.Sharpen,
	}
}

// extractImages 识别本地收据图片
func extractImages(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		log.Info("处理单个文件或目录", zap.String("path", args[0]))
	} else {
		log.Info("处理多个文件或目录", zap.Strings("paths", args))
	}

	if dryRun {
		log.Info("空运行模式，不执行实际操作")
		return nil
	}

	// 创建识别引擎和处理器
	engine := ocr.NewTesseractEngine(cfg.Languages, cfg.TessdataDir, log)
	processor := ocr.NewProcessor(engine, log)
	processor.SetLanguages(cfg.Languages)

	opts := ocr.ProcessOptions{
		OutputDir:        cfg.OutputDir,
		CustomOutputName: outputName,
		SaveRawText:      saveRawText && cfg.SaveRawText,
		ContinueOnError:  cfg.ContinueOnError,
		Preprocess:       preprocessOptions(),
	}

	startTime := time.Now()
	results, err := processor.ProcessMultipleFiles(context.Background(), args, opts)
	if err != nil {
		log.Error("处理图片失败", zap.Error(err))
		return err
	}

	// 汇总识别出的订单数
	totalOrders := 0
	for _, result := range results {
		totalOrders += len(result.Orders)
	}

	log.Info("所有图片处理完成", zap.Int("processed", len(results)), zap.Int("orders", totalOrders))
	utils.PrintResult(cfg.OutputDir, totalOrders, time.Since(startTime))
	return nil
}

// parseText 解析已识别出的原始文本
func parseText(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error

	if len(args) == 1 {
		log.Info("解析文本文件", zap.String("file", args[0]))
		raw, err = os.ReadFile(args[0])
	} else {
		log.Info("从标准输入解析文本")
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Error("读取文本失败", zap.Error(err))
		return fmt.Errorf("读取文本失败: %w", err)
	}

	if dryRun {
		log.Info("空运行模式，不执行实际操作")
		return nil
	}

	// 解析订单
	parser := extract.NewParser(log)
	orders := order.FromExtracted(parser.Parse(string(raw)), "")

	output, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化订单失败: %w", err)
	}
	fmt.Println(string(output))

	log.Info("解析完成", zap.Int("orders", len(orders)))
	return nil
}
