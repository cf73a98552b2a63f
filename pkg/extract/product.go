package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// 商品名称识别规则，按优先级排列
var productPatterns = []*regexp.Regexp{
	// 1. 明确标注的商品名称
	regexp.MustCompile(`(?i)商品名[稱称][:：]\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?i)品名[:：]\s*(.+?)(?:\n|$)`),

	// 2. 【優惠價】等标签开头的完整商品名，贪婪匹配到空行或价格符号
	regexp.MustCompile(`(?is)【[^】]+】\s*(.{6,150}?)(?:\n\n|\n[¥￥]|$)`),

	// 3. 天猫/淘宝格式：店铺名称下一行的商品标题
	regexp.MustCompile(`(?i)(?:天猫|天貓|淘宝|淘寶|京东|京東)\s+[^\n]+\n\s*([^\n¥]{8,100}?)(?:\s*¥|\s*x\d|群星版|$)`),

	// 4. 价格前的商品名，允许跨行的较长名称
	regexp.MustCompile(`(?is)([^\n¥]{15,150}?)\s*(?:¥|￥)\s*[\d,]+`),

	// 5. 包含数量描述的商品名（如 16款23cm奧特曼）
	regexp.MustCompile(`(?i)(\d+款[^\n¥]{5,80}?)\s*(?:¥|可指定|送小|$)`),
}

// 物流状态、地址、联系方式等噪声，含有这些词的候选一律丢弃
var productNoise = []string{
	"已簽收", "已签收",
	"運輸中", "运输中",
	"深圳市",
	"電話", "电话",
	"收货人",
	"送至",
}

var (
	// 常见商品品类关键字，供按行扫描兜底用
	productKeywordLine = regexp.MustCompile(`布鲁可|奥特|积木|模具|人偶|玩具|手办|压肉器|饼模|不锈钢|帆布|馬甲|按摩|定制|手提|防水|logo|包|袋|衣|鞋|器|機|膜|套|特曼|超人|圆形|汉堡|神器|辅食|煎虾`)
	productNoiseLine   = regexp.MustCompile(`已簽收|已签收|運輸中|运输中|深圳|廣州|北京|上海|快遞|快递|物流|電話|电话|收货|送至|订单编号`)

	// 宽松兜底：连续5个以上中文字符，且不是地址/状态行
	cjkRun           = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]{5,}`)
	addressNoiseLine = regexp.MustCompile(`省|市|区|县|街道|路|号|楼|单元|已签收|运输中|快递|电话|收货人|送至|订单`)

	bracketChars  = regexp.MustCompile(`[【】\[\]]`)
	anyWhitespace = regexp.MustCompile(`\s+`)
	lineBreaks    = regexp.MustCompile(`[\n\r]+`)
)

// extractProductName 提取商品名称，失败时返回空串由上层填占位值
func extractProductName(text string) string {
	for _, p := range productPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			continue
		}

		// 清理括号和多余空格：OCR经常在中文字之间插入空格
		candidate := strings.TrimSpace(m[1])
		candidate = bracketChars.ReplaceAllString(candidate, "")
		candidate = anyWhitespace.ReplaceAllString(candidate, "")

		if utf8.RuneCountInString(candidate) < 5 {
			continue
		}
		if containsAny(candidate, productNoise) {
			continue
		}
		return candidate
	}

	// 规则链没命中时按行扫描，找带有商品品类关键字的行
	if name := scanProductLines(text); name != "" {
		return name
	}

	// 最后放宽条件：找含有连续中文且不是地址/状态信息的较长行
	return scanCJKLines(text)
}

func scanProductLines(text string) string {
	for _, line := range lineBreaks.Split(text, -1) {
		cleaned := strings.TrimSpace(line)
		if utf8.RuneCountInString(cleaned) <= 5 {
			continue
		}
		if productKeywordLine.MatchString(cleaned) && !productNoiseLine.MatchString(cleaned) {
			cleaned = anyWhitespace.ReplaceAllString(cleaned, "")
			return truncateRunes(cleaned, 100)
		}
	}
	return ""
}

func scanCJKLines(text string) string {
	for _, line := range lineBreaks.Split(text, -1) {
		cleaned := strings.TrimSpace(line)
		length := utf8.RuneCountInString(cleaned)
		if length < 10 || length > 200 {
			continue
		}
		if cjkRun.MatchString(cleaned) &&
			!addressNoiseLine.MatchString(cleaned) &&
			!pureDigits.MatchString(cleaned) {
			cleaned = anyWhitespace.ReplaceAllString(cleaned, "")
			return truncateRunes(cleaned, 100)
		}
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
