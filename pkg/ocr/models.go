package ocr

import (
	"time"

	"github.com/dengfw/go-receipt-ocr/pkg/order"
)

// ProcessOptions 表示处理选项
type ProcessOptions struct {
	OutputDir        string
	CustomOutputName string
	SaveRawText      bool
	ContinueOnError  bool // 当处理多张图片时，如果一张识别失败，是否继续处理其他图片
	Preprocess       PreprocessOptions
	OnProgress       ProgressFunc
}

// ProcessResult 表示单张收据图片的处理结果
type ProcessResult struct {
	SourcePath   string
	OutputDir    string
	OrdersPath   string
	MetadataPath string
	Orders       []order.Order
	RawText      string
	Skipped      bool
	Elapsed      time.Duration
}

// ProcessMetadata 存储处理元数据，随订单一起写盘
type ProcessMetadata struct {
	SourcePath  string   `json:"source_path"`  // 原始图片路径
	OutputDir   string   `json:"output_dir"`   // 输出目录
	ProcessedAt string   `json:"processed_at"` // 处理时间
	Languages   []string `json:"languages"`    // 识别语言
	OrdersFound int      `json:"orders_found"` // 提取出的订单数
	ErrorOrders int      `json:"error_orders"` // 需要人工修正的订单数
	RawTextPath string   `json:"raw_text_path,omitempty"`
}
