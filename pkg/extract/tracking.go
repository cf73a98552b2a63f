package extract

import (
	"regexp"
	"strings"
)

// 独立出现的12-15位纯数字串，两侧必须是非数字字符
// 16位以上的长数字（如订单编号）不会命中
var genericTrackingPattern = regexp.MustCompile(`\b(\d{12,15})\b`)

// 快递单号识别规则，按优先级排列：先认快递公司关键字，再认通用标签，
// 最后退回到任意独立的12-15位数字串
var trackingPatterns = []*regexp.Regexp{
	// 中通快递: 301342581579, 75620248902690, 77335248077929
	regexp.MustCompile(`(?i)(?:中通快遞|中通快递|中通|ZTO)[\s:：]*(\d{12,15})`),
	// 申通快递
	regexp.MustCompile(`(?i)(?:申通快遞|申通快递|申通|STO)[\s:：]*(\d{12,15})`),
	// 韵达快递: 43466863401394
	regexp.MustCompile(`(?i)(?:韻達快遞|韵达快递|韻達|韵达|YUNDA)[\s:：]*(\d{12,15})`),
	// 顺丰快递
	regexp.MustCompile(`(?i)(?:順豐快遞|顺丰快递|順豐|顺丰|SF)[\s:：]*([A-Z0-9]{12,15})`),
	// 圆通快递
	regexp.MustCompile(`(?i)(?:圓通快遞|圆通快递|圓通|圆通|YTO)[\s:：]*(\d{12,15})`),
	// 通用单号标签
	regexp.MustCompile(`(?i)(?:快遞單號|快递单号|物流單號|物流单号|運單號|运单号)[\s:：]*(\d{12,15})`),
	genericTrackingPattern,
}

var (
	nonAlnum   = regexp.MustCompile(`(?i)[^A-Z0-9]`)
	pureDigits = regexp.MustCompile(`^\d+$`)
)

// FindTrackingNumbers 扫描全文中所有独立的12-15位数字串，
// 按首次出现顺序去重返回，用于判断一张图里有几个订单
func FindTrackingNumbers(text string) []string {
	var numbers []string
	seen := make(map[string]struct{})
	for _, m := range genericTrackingPattern.FindAllStringSubmatch(text, -1) {
		num := m[1]
		if _, ok := seen[num]; ok {
			continue
		}
		seen[num] = struct{}{}
		numbers = append(numbers, num)
	}
	return numbers
}

// extractTrackingNumber 按规则链提取单个快递单号，找不到时返回空串
func extractTrackingNumber(text string) string {
	for _, p := range trackingPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := m[0]
		if len(m) > 1 && m[1] != "" {
			candidate = m[1]
		}
		cleaned := strings.TrimSpace(nonAlnum.ReplaceAllString(candidate, ""))
		// 快递单号通常是12-15位纯数字
		if len(cleaned) >= 12 && len(cleaned) <= 15 && pureDigits.MatchString(cleaned) {
			return cleaned
		}
	}
	return ""
}
