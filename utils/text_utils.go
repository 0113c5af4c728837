package utils

import (
	"regexp"
	"strings"

	"skill_barter/models"
)

// DeduplicateSlice 去重字符串切片（忽略大小写），保留首次出现的写法
func DeduplicateSlice(input []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for _, val := range input {
		val = strings.TrimSpace(val)
		key := strings.ToLower(val)
		if val != "" && !seen[key] {
			result = append(result, val)
			seen[key] = true
		}
	}

	return result
}

// BuildSkillText 生成用于计算 embedding 的资料文本
// 格式: "Can teach: A, B. Wants to learn: C. Bio: ..."
func BuildSkillText(p *models.UserProfile) string {
	teaches := strings.Join(DeduplicateSlice(p.TeachSkills()), ", ")
	learns := strings.Join(DeduplicateSlice(p.LearnSkills()), ", ")
	return "Can teach: " + teaches + ". Wants to learn: " + learns + ". Bio: " + strings.TrimSpace(p.Bio)
}

var (
	markdownHeader = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	markdownEmph   = regexp.MustCompile(`\*{1,3}|_{2,3}`)
	multiSpace     = regexp.MustCompile(`\s+`)
)

// CleanGeneratedText 清理 LLM 输出：去掉 markdown 标记、首尾引号和多余空白
func CleanGeneratedText(text string) string {
	text = markdownHeader.ReplaceAllString(text, "")
	text = markdownEmph.ReplaceAllString(text, "")
	text = multiSpace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "\"'“”")
	return strings.TrimSpace(text)
}

// TruncateString 按字符截断，超出部分以 ... 结尾
func TruncateString(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}
