package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestParseExampleReceipt(t *testing.T) {
	orders := Parse("中通快递 301342581579 ¥9.90 x2 淘宝订单")
	require.Len(t, orders, 1)

	data := orders[0]
	assert.Equal(t, "301342581579", data.TrackingNumber)
	assert.InDelta(t, 9.90, data.Price, 1e-9)
	assert.Equal(t, 2, data.Quantity)
	assert.Equal(t, "淘寶", data.Platform)
	assert.NotEmpty(t, data.ProductName)
}

func TestParseAlwaysReturnsAtLeastOneRecord(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n  ",
		"!!!@@@###$$$",
		strings.Repeat("乱", 10000),
		string([]byte{0xff, 0xfe, 0x00, 0x01}),
	}

	for _, input := range inputs {
		orders := Parse(input)
		require.GreaterOrEqual(t, len(orders), 1)
		for _, data := range orders {
			// 所有字段都必须有值，提取失败时是默认值而不是空缺
			assert.NotEmpty(t, data.ProductName)
			assert.GreaterOrEqual(t, data.Quantity, 1)
			assert.GreaterOrEqual(t, data.Price, 0.0)
			assert.NotEmpty(t, data.Platform)
		}
	}
}

func TestParseDefaultsOnUnintelligibleText(t *testing.T) {
	orders := Parse("???")
	require.Len(t, orders, 1)

	data := orders[0]
	assert.Equal(t, UnknownProduct, data.ProductName)
	assert.Equal(t, UnknownPlatform, data.Platform)
	assert.Equal(t, 1, data.Quantity)
	assert.Zero(t, data.Price)
	assert.Empty(t, data.TrackingNumber)
}

func TestParseSingleGenericTrackingNumber(t *testing.T) {
	orders := Parse("包裹 123456789012 已入库")
	require.Len(t, orders, 1)
	assert.Equal(t, "123456789012", orders[0].TrackingNumber)
}

func TestParse16DigitRunIsNotTracking(t *testing.T) {
	orders := Parse("订单编号 1234567890123456 感谢购买")
	require.Len(t, orders, 1)
	assert.Empty(t, orders[0].TrackingNumber)
}

func TestParseMultipleOrders(t *testing.T) {
	filler := strings.Repeat("测", 650)
	text := "中通快递 301342581579 ¥9.90 x2\n" + filler + "\n韵达快递 436668634013 ¥15.00 x1"

	parser := NewParser(zaptest.NewLogger(t))
	orders := parser.Parse(text)
	require.Len(t, orders, 2)

	// 订单顺序与单号首次出现顺序一致
	assert.Equal(t, "301342581579", orders[0].TrackingNumber)
	assert.InDelta(t, 9.90, orders[0].Price, 1e-9)
	assert.Equal(t, 2, orders[0].Quantity)

	assert.Equal(t, "436668634013", orders[1].TrackingNumber)
	assert.InDelta(t, 15.00, orders[1].Price, 1e-9)
	assert.Equal(t, 1, orders[1].Quantity)
}

func TestParseAnchorOverridesLocalTracking(t *testing.T) {
	// 两个单号离得很近，第二段的窗口会覆盖到第一个单号，
	// 但锚定的单号必须胜出
	text := "中通快递 301342581579 第一单 韵达快递 436668634013 第二单"
	orders := Parse(text)
	require.Len(t, orders, 2)
	assert.Equal(t, "301342581579", orders[0].TrackingNumber)
	assert.Equal(t, "436668634013", orders[1].TrackingNumber)
}

func TestParseDuplicateTrackingNumberIsSingleOrder(t *testing.T) {
	// 同一个单号出现两次是一条订单，不能拆成两条
	orders := Parse("301342581579 派送中\n301342581579 已签收")
	require.Len(t, orders, 1)
	assert.Equal(t, "301342581579", orders[0].TrackingNumber)
}

func TestParseIdempotent(t *testing.T) {
	text := "中通快递 301342581579 ¥9.90 x2 淘宝订单\n" +
		strings.Repeat("测", 650) + "\n韵达快递 436668634013 实付款: 59.9"

	first := Parse(text)
	second := Parse(text)
	assert.Equal(t, first, second)
}
