package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"skill_barter/config"
	"skill_barter/logger"
	"skill_barter/matcher"
	"skill_barter/metrics"
	"skill_barter/models"
	"skill_barter/repository"
	"skill_barter/utils"
)

// errNoEmbedder 未配置 embedding 提供方
var errNoEmbedder = errors.New("embedding provider not configured")

// EmbedProfile 根据技能和简介计算资料的 embedding
func EmbedProfile(ctx context.Context, p *models.UserProfile, caller string) ([]float32, error) {
	d, _ := currentDeps()
	if d.Embedder == nil {
		return nil, errNoEmbedder
	}

	vec, err := d.Embedder.Embed(ctx, utils.BuildSkillText(p))
	if err == nil && len(vec) == 0 {
		err = matcher.ErrEmptyEmbedding
	}
	if err != nil {
		metrics.EmbeddingRequests.WithLabelValues(caller, "error").Inc()
		return nil, err
	}
	metrics.EmbeddingRequests.WithLabelValues(caller, "ok").Inc()
	return vec, nil
}

// BackfillEmbeddings 为 embedding 为空的用户补算向量，返回成功与失败数量
func BackfillEmbeddings(ctx context.Context, cfg *config.Config) (int, int, error) {
	d, _ := currentDeps()
	if d.Embedder == nil {
		logger.Debug("Embedding backfill skipped, no provider configured")
		return 0, 0, nil
	}

	profiles, err := repository.ListUsersMissingEmbedding(ctx, cfg.Scheduler.BackfillBatch)
	if err != nil {
		return 0, 0, err
	}
	if len(profiles) == 0 {
		return 0, 0, nil
	}
	logger.Info("开始补全用户 embedding", "count", len(profiles), "concurrency", cfg.Scheduler.Concurrency)

	maxConcurrency := cfg.Scheduler.Concurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	var (
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, maxConcurrency)
		ok, fail  atomic.Int32
	)
	for i := range profiles {
		wg.Add(1)
		go func(p *models.UserProfile) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			vec, err := EmbedProfile(ctx, p, "backfill")
			if err == nil {
				err = repository.UpdateEmbedding(ctx, p.ID, vec)
			}
			if err != nil {
				logger.Warn("补全 embedding 失败", "user_id", p.ID, "error", err)
				metrics.BackfillRuns.WithLabelValues("error").Inc()
				fail.Add(1)
				return
			}
			metrics.BackfillRuns.WithLabelValues("ok").Inc()
			ok.Add(1)
		}(&profiles[i])
	}
	wg.Wait()

	logger.Info("用户 embedding 补全完成", "success", ok.Load(), "failed", fail.Load())
	return int(ok.Load()), int(fail.Load()), nil
}
