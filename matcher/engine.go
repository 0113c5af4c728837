// Package matcher 按自由文本查询对用户资料排序：语义向量相似度加关键词加分
package matcher

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"skill_barter/models"
)

// ErrEmptyEmbedding 提供方返回了空向量
var ErrEmptyEmbedding = errors.New("embedding provider returned an empty vector")

// Embedder 将文本转换为语义向量
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedFunc 把普通函数适配为 Embedder
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

func (f EmbedFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// Config 可调的打分常量
type Config struct {
	// 技能模式下总分 <= Threshold 的结果被丢弃
	Threshold float64
	// 任一可教技能包含查询词时加分
	SkillBoost float64
	// 简介包含查询词时加分
	BioBoost float64
	// 用户名模式命中的固定分数
	NameScore float64
	// 单次匹配中 embedding 调用的超时
	EmbedTimeout time.Duration
}

// DefaultConfig 返回默认打分常量
func DefaultConfig() Config {
	return Config{
		Threshold:    0.1,
		SkillBoost:   0.5,
		BioBoost:     0.2,
		NameScore:    1,
		EmbedTimeout: 4 * time.Second,
	}
}

// Engine 对候选集打分，调用之间不保留状态
type Engine struct {
	embedder Embedder
	cfg      Config
	logger   *slog.Logger
}

// Option 配置 Engine
type Option func(*Engine)

// WithConfig 覆盖打分常量
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger 设置降级告警使用的日志器，nil 时保持 slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New 创建匹配引擎，embedder 为 nil 时只做关键词匹配
func New(embedder Embedder, opts ...Option) *Engine {
	e := &Engine{
		embedder: embedder,
		cfg:      DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config 返回引擎使用的打分常量
func (e *Engine) Config() Config {
	return e.cfg
}

// Match 按查询对候选用户排序，不返回错误：embedding 失败时降级为纯关键词打分
func (e *Engine) Match(ctx context.Context, query string, filter models.FilterType, candidates []models.UserProfile) []models.ScoredResult {
	q := strings.TrimSpace(query)
	if q == "" {
		return browseAll(candidates)
	}

	pattern := containsPattern(q)
	if filter == models.FilterName {
		return e.matchByName(pattern, candidates)
	}
	return e.matchBySkill(ctx, q, pattern, candidates)
}

func browseAll(candidates []models.UserProfile) []models.ScoredResult {
	results := make([]models.ScoredResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, models.ScoredResult{UserProfile: c, Score: 0})
	}
	return results
}

func (e *Engine) matchByName(pattern *regexp.Regexp, candidates []models.UserProfile) []models.ScoredResult {
	results := make([]models.ScoredResult, 0)
	for _, c := range candidates {
		if pattern.MatchString(c.Username) {
			results = append(results, models.ScoredResult{UserProfile: c, Score: e.cfg.NameScore})
		}
	}
	return results
}

func (e *Engine) matchBySkill(ctx context.Context, query string, pattern *regexp.Regexp, candidates []models.UserProfile) []models.ScoredResult {
	queryVec := e.embedQuery(ctx, query)

	results := make([]models.ScoredResult, 0, len(candidates))
	for _, c := range candidates {
		score := e.semanticScore(queryVec, c) + e.keywordBoost(pattern, c)
		if score <= e.cfg.Threshold {
			continue
		}
		results = append(results, models.ScoredResult{UserProfile: c, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// embedQuery 语义打分不可用时返回 nil
// 调用脱离请求的取消信号，使用独立超时
func (e *Engine) embedQuery(ctx context.Context, query string) []float32 {
	if e.embedder == nil {
		return nil
	}

	callCtx := context.WithoutCancel(ctx)
	if e.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, e.cfg.EmbedTimeout)
		defer cancel()
	}

	vec, err := e.embedder.Embed(callCtx, query)
	if err == nil && len(vec) == 0 {
		err = ErrEmptyEmbedding
	}
	if err != nil {
		e.logger.Warn("embedding failed, falling back to keyword search", "error", err)
		return nil
	}
	return vec
}

func (e *Engine) semanticScore(queryVec []float32, c models.UserProfile) float64 {
	if len(queryVec) == 0 || len(c.Embedding) == 0 {
		return 0
	}
	if len(c.Embedding) != len(queryVec) {
		e.logger.Warn("embedding dimension mismatch, semantic score zeroed",
			"user_id", c.ID, "query_dim", len(queryVec), "profile_dim", len(c.Embedding))
		return 0
	}
	s := Dot(queryVec, c.Embedding)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		e.logger.Warn("non-finite semantic score zeroed", "user_id", c.ID)
		return 0
	}
	return s
}

func (e *Engine) keywordBoost(pattern *regexp.Regexp, c models.UserProfile) float64 {
	boost := 0.0
	for _, s := range c.Skills {
		if s.Type == models.SkillTeach && pattern.MatchString(s.Name) {
			boost += e.cfg.SkillBoost
			break
		}
	}
	if pattern.MatchString(c.Bio) {
		boost += e.cfg.BioBoost
	}
	return boost
}
