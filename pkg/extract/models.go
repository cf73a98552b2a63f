package extract

// 字段的合理上限，超出视为识别错误
const (
	maxQuantity = 100000
	maxPrice    = 1000000
)

// 识别失败时填入的占位值，供前端标记人工修正
const (
	UnknownProduct  = "未識別"
	UnknownPlatform = "其他"
)

// ExtractedData 表示从一段识别文本中提取出的结构化订单数据
// 所有字段都保证有值：提取失败时退回默认值，不会留空缺
type ExtractedData struct {
	ProductName    string  `json:"productName"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	TrackingNumber string  `json:"trackingNumber"`
	Platform       string  `json:"platform"`
}
