package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	// 识别配置
	Languages   []string `mapstructure:"languages"`
	TessdataDir string   `mapstructure:"tessdata_dir"`

	// 错误处理配置
	ContinueOnError bool `mapstructure:"continue_on_error"`

	// 输出配置
	OutputDir   string `mapstructure:"output_dir"`
	SaveRawText bool   `mapstructure:"save_raw_text"`

	// 预处理配置
	PreprocessEnabled bool    `mapstructure:"preprocess_enabled"`
	Grayscale         bool    `mapstructure:"grayscale"`
	Contrast          float64 `mapstructure:"contrast"`
	Sharpen           bool    `mapstructure:"sharpen"`
	MaxWidth          int     `mapstructure:"max_width"`

	// 日志配置
	LogLevel  string `mapstructure:"log_level"`
	LogFile   string `mapstructure:"log_file"`
	LogFormat string `mapstructure:"log_format"`
}

// 默认配置文件内容
const defaultConfigContent = `# Receipt OCR 配置文件

# 识别配置
# Tesseract 识别语言，收据通常是简体中文加英文混排
languages = ["chi_sim", "eng"]
# tessdata 语言包目录，留空使用系统默认位置
tessdata_dir = ""

# 错误处理配置
continue_on_error = true  # 批量处理时，如果一张图片识别失败，是否继续处理其他图片

# 输出配置
output_dir = "./output"
save_raw_text = true  # 是否保存识别出的原始文本，便于排查提取问题

# 预处理配置
# 手机拍摄的收据先做缩放/灰度/对比度/锐化处理再识别，命中率更高
preprocess_enabled = true
grayscale = true
contrast = 0.2
sharpen = true
max_width = 2000  # 超过该宽度的图片先等比缩小，0表示不缩放

# 日志配置
log_level = "info"  # debug, info, warn, error
log_file = ""      # 留空表示输出到控制台
log_format = "console"  # console 或 json
`

// LoadConfig 从viper加载配置
func LoadConfig() (*Config, error) {
	// 设置默认值
	setDefaults()

	// 尝试从配置文件加载
	if err := loadConfigFile(); err != nil {
		// 如果找不到配置文件，创建一个默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createDefaultConfig(); err != nil {
				return nil, fmt.Errorf("无法创建默认配置: %w", err)
			}
		} else {
			return nil, fmt.Errorf("加载配置文件出错: %w", err)
		}
	}

	// 从环境变量加载配置
	loadFromEnv()

	// 解析配置到结构体
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置出错: %w", err)
	}

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults 设置默认配置
func setDefaults() {
	viper.SetDefault("languages", []string{"chi_sim", "eng"})
	viper.SetDefault("tessdata_dir", "")
	viper.SetDefault("continue_on_error", true)
	viper.SetDefault("output_dir", "./output")
	viper.SetDefault("save_raw_text", true)
	viper.SetDefault("preprocess_enabled", true)
	viper.SetDefault("grayscale", true)
	viper.SetDefault("contrast", 0.2)
	viper.SetDefault("sharpen", true)
	viper.SetDefault("max_width", 2000)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")
}

// loadConfigFile 尝试加载配置文件
func loadConfigFile() error {
	// 设置配置文件名称
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	// 添加配置文件路径
	// 1. 当前工作目录
	viper.AddConfigPath(".")

	// 2. 用户配置目录
	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".config", "receipt-ocr"))
	}

	// 3. 系统配置目录
	viper.AddConfigPath("/etc/receipt-ocr")

	// 加载配置文件
	return viper.ReadInConfig()
}

// createDefaultConfig 创建默认配置文件
func createDefaultConfig() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(homeDir, ".config", "receipt-ocr")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.toml")

	// 写入默认配置文件
	return os.WriteFile(configPath, []byte(defaultConfigContent), 0644)
}

// loadFromEnv 从环境变量加载配置
func loadFromEnv() {
	// 设置环境变量前缀
	viper.SetEnvPrefix("RECEIPT")

	// 将TESSDATA_PREFIX映射到tessdata_dir
	viper.BindEnv("tessdata_dir", "TESSDATA_PREFIX")

	// 自动映射其他环境变量
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	// 确保至少有一种识别语言
	if len(config.Languages) == 0 {
		config.Languages = []string{"chi_sim", "eng"}
	}

	// 确保输出目录存在
	if config.OutputDir != "" {
		if _, err := os.Stat(config.OutputDir); os.IsNotExist(err) {
			if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
				return fmt.Errorf("无法创建输出目录: %w", err)
			}
		}
	}

	return nil
}

// UpdateConfig 更新配置
func UpdateConfig(key string, value interface{}) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// SaveConfig 保存当前配置到文件
func SaveConfig(config *Config) error {
	for k, v := range map[string]interface{}{
		"languages":          config.Languages,
		"tessdata_dir":       config.TessdataDir,
		"continue_on_error":  config.ContinueOnError,
		"output_dir":         config.OutputDir,
		"save_raw_text":      config.SaveRawText,
		"preprocess_enabled": config.PreprocessEnabled,
		"grayscale":          config.Grayscale,
		"contrast":           config.Contrast,
		"sharpen":            config.Sharpen,
		"max_width":          config.MaxWidth,
		"log_level":          config.LogLevel,
		"log_file":           config.LogFile,
		"log_format":         config.LogFormat,
	} {
		viper.Set(k, v)
	}

	return viper.WriteConfig()
}

// LoadConfigFromFile 从指定路径加载配置文件
func LoadConfigFromFile(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// GetDefaultConfig 返回默认配置文件内容
func GetDefaultConfig() string {
	return defaultConfigContent
}
