// Package extract 把OCR识别出的原始收据文本解析成结构化订单数据。
//
// 解析流程：先扫描全文中的快递单号，只有一个时整段文本走一遍字段提取；
// 有多个时按单号切出文本窗口，每个窗口独立提取后组装成一条订单。
// 无论输入多糟糕，解析都不会失败：字段缺失时退回默认值。
package extract

import "go.uber.org/zap"

// Parser 收据文本解析器，无状态，可并发复用
type Parser struct {
	logger *zap.Logger
}

// NewParser 创建解析器，logger 传 nil 时不输出日志
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse 使用默认解析器解析文本
func Parse(text string) []ExtractedData {
	return NewParser(nil).Parse(text)
}

// Parse 解析识别文本，支持一张图片包含多个订单
// 返回的切片至少有一个元素，顺序与单号在文本中首次出现的顺序一致
func (p *Parser) Parse(text string) []ExtractedData {
	trackingNumbers := FindTrackingNumbers(text)

	// 只有一个或没有快递单号时，整段文本按单订单解析
	if len(trackingNumbers) <= 1 {
		return []ExtractedData{p.parseSingle(text)}
	}

	p.logger.Debug("检测到多个订单", zap.Int("count", len(trackingNumbers)))

	segments := splitByTrackingNumbers(text, trackingNumbers)
	if len(segments) == 0 {
		return []ExtractedData{p.parseSingle(text)}
	}

	orders := make([]ExtractedData, 0, len(segments))
	for _, segment := range segments {
		data := p.parseSingle(segment.text)
		// 锚定的单号优先于窗口内重新识别出的单号，
		// 保证每条订单归属到正确的快递单号
		data.TrackingNumber = segment.trackingNumber
		orders = append(orders, data)
		p.logger.Debug("解析分段订单",
			zap.String("trackingNumber", segment.trackingNumber),
			zap.String("productName", data.ProductName))
	}
	return orders
}

// parseSingle 对一段文本做一次完整的字段提取并填默认值
func (p *Parser) parseSingle(text string) ExtractedData {
	data := ExtractedData{
		ProductName:    extractProductName(text),
		Quantity:       extractQuantity(text),
		Price:          extractPrice(text),
		TrackingNumber: extractTrackingNumber(text),
		Platform:       extractPlatform(text),
	}

	if data.ProductName == "" {
		data.ProductName = UnknownProduct
	}
	if data.Platform == "" {
		data.Platform = UnknownPlatform
	}
	if data.Quantity <= 0 {
		data.Quantity = 1
	}

	p.logger.Debug("解析结果",
		zap.String("productName", data.ProductName),
		zap.Int("quantity", data.Quantity),
		zap.Float64("price", data.Price),
		zap.String("trackingNumber", data.TrackingNumber),
		zap.String("platform", data.Platform))

	return data
}
