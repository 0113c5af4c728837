package matcher

import "regexp"

// Dot 计算两个向量的点积，较长向量多出的部分被忽略
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// containsPattern 生成忽略大小写的字面包含匹配，查询中的正则元字符按字面处理
func containsPattern(query string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}
