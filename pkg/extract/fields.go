package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// 数量识别规则（x1000, ×1 这类写法优先）
var quantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[xX×](\d+)`),
	regexp.MustCompile(`(?i)(?:數量|数量|件數|件数)[\s:：]*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:件|個|个|pcs)`),
}

// 价格识别规则（¥2.9, ¥2.83 这类写法）
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[¥￥]\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)(?:單價|单价|價格|价格|金額|金额|實付款|实付款|TWD)[\s:：]*[¥￥$]?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)TWD\s*(\d+\.?\d*)`),
}

// 平台识别规则，按优先级排列，命中即返回对应的规范名称
var platformRules = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`(?i)淘寶|淘宝|taobao`), "淘寶"},
	{regexp.MustCompile(`(?i)天貓|天猫|tmall`), "天貓"},
	{regexp.MustCompile(`(?i)京東|京东|jd`), "京東"},
	{regexp.MustCompile(`(?i)拼多多|pinduoduo|PDD`), "拼多多"},
	{regexp.MustCompile(`1688|阿里巴巴`), "1688"},
}

var longOrderID = regexp.MustCompile(`\d{18,}`)

// extractQuantity 提取购买数量，支持大批量订单，默认为1
func extractQuantity(text string) int {
	for _, p := range quantityPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			continue
		}
		qty, err := strconv.Atoi(m[1])
		if err == nil && qty > 0 && qty <= maxQuantity {
			return qty
		}
	}
	return 1
}

// extractPrice 提取单价：收集所有命中的金额后取最小值
// 收据上通常同时出现单价和总价，较小的金额更可能是单价
func extractPrice(text string) float64 {
	var prices []float64
	for _, p := range pricePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if m[1] == "" {
				continue
			}
			price, err := strconv.ParseFloat(m[1], 64)
			if err == nil && price > 0 && price < maxPrice {
				prices = append(prices, price)
			}
		}
	}
	if len(prices) == 0 {
		return 0
	}
	sort.Float64s(prices)
	return prices[0]
}

// extractPlatform 识别购买平台，失败时返回空串由上层填占位值
func extractPlatform(text string) string {
	for _, rule := range platformRules {
		if rule.pattern.MatchString(text) {
			return rule.name
		}
	}

	// 没有平台关键字时做弱推断：淘宝订单编号是18位以上长数字，
	// 台币金额也基本只出现在淘宝收据上
	if (strings.Contains(text, "訂單編號") || strings.Contains(text, "订单编号")) &&
		longOrderID.MatchString(text) {
		return "淘寶"
	}
	if strings.Contains(text, "TWD") {
		return "淘寶"
	}
	return ""
}
