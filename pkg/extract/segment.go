package extract

// 分段时在单号前后保留的字符数
const (
	segmentLookbehind = 200
	segmentLookahead  = 400
)

// textSegment 以一个快递单号为锚点截取的文本窗口
// 窗口之间允许重叠，各自独立走一遍字段提取
type textSegment struct {
	trackingNumber string
	text           string
}

// splitByTrackingNumbers 按快递单号把全文切成多个窗口
// 定位采用严格递增的扫描游标：每个单号从上一个命中位置之后开始找，
// 避免数字重复时同一段文本被两个单号复用；找不到的单号直接跳过
func splitByTrackingNumbers(text string, trackingNumbers []string) []textSegment {
	runes := []rune(text)
	segments := make([]textSegment, 0, len(trackingNumbers))
	cursor := 0

	for _, trackingNumber := range trackingNumbers {
		idx := runeIndexFrom(runes, []rune(trackingNumber), cursor)
		if idx < 0 {
			continue
		}
		end := idx + len([]rune(trackingNumber))

		start := idx - segmentLookbehind
		if start < 0 {
			start = 0
		}
		stop := end + segmentLookahead
		if stop > len(runes) {
			stop = len(runes)
		}

		segments = append(segments, textSegment{
			trackingNumber: trackingNumber,
			text:           string(runes[start:stop]),
		})
		cursor = end
	}

	return segments
}

// runeIndexFrom 从 start 位置起查找子串首次出现的下标，找不到返回-1
func runeIndexFrom(runes, sub []rune, start int) int {
	if len(sub) == 0 || start < 0 {
		return -1
	}
	for i := start; i+len(sub) <= len(runes); i++ {
		matched := true
		for j := range sub {
			if runes[i+j] != sub[j] {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}
