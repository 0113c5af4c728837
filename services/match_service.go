package services

import (
	"context"
	"fmt"
	"time"

	"skill_barter/config"
	"skill_barter/matcher"
	"skill_barter/metrics"
	"skill_barter/models"
	"skill_barter/repository"
)

// MatchConfig 将配置文件中的匹配参数转换为引擎配置
func MatchConfig(cfg *config.Config) matcher.Config {
	mc := matcher.DefaultConfig()
	if cfg == nil {
		return mc
	}
	if cfg.Match.Threshold != 0 {
		mc.Threshold = cfg.Match.Threshold
	}
	if cfg.Match.SkillBoost != 0 {
		mc.SkillBoost = cfg.Match.SkillBoost
	}
	if cfg.Match.BioBoost != 0 {
		mc.BioBoost = cfg.Match.BioBoost
	}
	if cfg.Match.NameScore != 0 {
		mc.NameScore = cfg.Match.NameScore
	}
	if cfg.Embedding.TimeoutSec > 0 {
		mc.EmbedTimeout = time.Duration(cfg.Embedding.TimeoutSec) * time.Second
	}
	return mc
}

// MatchUsers 每次请求重新拉取候选池并交给匹配引擎打分
// 只有候选池读取失败才返回错误，embedding 失败在引擎内降级
func MatchUsers(ctx context.Context, query string, filter models.FilterType) ([]models.ScoredResult, error) {
	start := time.Now()
	defer func() {
		metrics.MatchDuration.WithLabelValues(filter.String()).Observe(time.Since(start).Seconds())
	}()
	metrics.MatchRequests.WithLabelValues(filter.String()).Inc()

	pool, err := repository.ListCandidateProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	_, eng := currentDeps()
	results := eng.Match(ctx, query, filter, pool)
	metrics.MatchResults.Observe(float64(len(results)))
	return results, nil
}
