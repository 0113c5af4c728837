package models

import (
	"fmt"
	"strings"
)

// FilterType 匹配搜索模式
type FilterType int

const (
	FilterSkill FilterType = iota // 默认：语义 + 关键词
	FilterName                    // 按用户名精确查找
)

func (f FilterType) String() string {
	switch f {
	case FilterName:
		return "name"
	default:
		return "skill"
	}
}

// ParseFilterType 解析请求中的 filterType，空值视为 skill
func ParseFilterType(s string) (FilterType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skill":
		return FilterSkill, nil
	case "name":
		return FilterName, nil
	default:
		return FilterSkill, fmt.Errorf("unknown filterType %q", s)
	}
}

// MatchRequest 匹配请求体
type MatchRequest struct {
	Query      string `json:"query" example:"React"`
	FilterType string `json:"filterType,omitempty" enums:"skill,name" example:"skill"`
}

// ScoredResult 匹配结果，序列化时资料字段与 score 平铺
type ScoredResult struct {
	UserProfile
	Score float64 `json:"score"`
}
