package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractProductNameLabeled(t *testing.T) {
	text := "商品名稱: 不锈钢煎虾神器模具\n数量: 2"
	assert.Equal(t, "不锈钢煎虾神器模具", extractProductName(text))
}

func TestExtractProductNameBracketTag(t *testing.T) {
	// OCR经常在中文字之间插入空格，清理后应该合并
	text := "【優惠價】16款23cm奧特曼 卡片收藏冊\n¥128.50"
	assert.Equal(t, "16款23cm奧特曼卡片收藏冊", extractProductName(text))
}

func TestExtractProductNameMarketplaceTitle(t *testing.T) {
	text := "天猫 某某旗舰店\n布鲁可积木人偶套装 ¥59.00"
	assert.Equal(t, "布鲁可积木人偶套装", extractProductName(text))
}

func TestExtractProductNameRejectsTooShort(t *testing.T) {
	// 标签后的内容清理完不足5个字符，继续走后面的规则
	text := "品名: 积木\n一段不含商品信息的话"
	assert.NotEqual(t, "积木", extractProductName(text))
}

func TestExtractProductNameRejectsStatusNoise(t *testing.T) {
	// 唯一的长中文内容是物流状态和地址，不能被当成商品名
	text := "包裹已签收 感谢使用\n深圳市南山区科技园路10号\n电话 138****1234"
	assert.Equal(t, "", extractProductName(text))
}

func TestExtractProductNameKeywordLineScan(t *testing.T) {
	// 规则链没命中时按行扫描商品品类关键字
	text := "某某专营店\n奥特曼超人卡册收藏版\n发货时间 今天"
	assert.Equal(t, "奥特曼超人卡册收藏版", extractProductName(text))
}

func TestExtractProductNameCJKFallback(t *testing.T) {
	// 没有品类关键字时放宽为较长的连续中文行
	text := "abc123\n精美礼盒限量典藏版本月特供\nxyz"
	assert.Equal(t, "精美礼盒限量典藏版本月特供", extractProductName(text))
}

func TestExtractProductNameEmpty(t *testing.T) {
	assert.Equal(t, "", extractProductName(""))
	assert.Equal(t, "", extractProductName("12345678901234567890"))
}
