// Package order 是提取结果的下游消费层：给每条识别出的订单
// 补上生成的标识和校验标记，供委托下单界面做人工复核。
package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dengfw/go-receipt-ocr/pkg/extract"
)

// Order 委托下单流程中的一条订单
type Order struct {
	ID string `json:"id"`
	extract.ExtractedData
	ImageURL string `json:"imageUrl"`
	// HasError 标记必填字段缺失的订单，界面上提示用户手动补全
	HasError bool `json:"hasError"`
}

// New 把一条识别结果包装成订单并生成标识
func New(data extract.ExtractedData, imageURL string) Order {
	return Order{
		ID:            uuid.NewString(),
		ExtractedData: data,
		ImageURL:      imageURL,
		HasError:      hasError(data),
	}
}

// NewManual 手动新增的订单，没有图片来源
func NewManual(data extract.ExtractedData) Order {
	return Order{
		ID:            fmt.Sprintf("manual-%d", time.Now().UnixMilli()),
		ExtractedData: data,
		HasError:      hasError(data),
	}
}

// FromExtracted 把一批识别结果包装成订单，保持原有顺序
func FromExtracted(items []extract.ExtractedData, imageURL string) []Order {
	orders := make([]Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, New(item, imageURL))
	}
	return orders
}

// hasError 检查必填字段：商品名称识别失败或缺少快递单号都需要人工修正
func hasError(data extract.ExtractedData) bool {
	return data.ProductName == extract.UnknownProduct || data.TrackingNumber == ""
}
