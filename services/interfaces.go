package services

import (
	"context"
	"io"
	"sync"

	"skill_barter/config"
	"skill_barter/embedding"
	"skill_barter/logger"
	"skill_barter/matcher"
	"skill_barter/metrics"
)

// BioGenerator 根据技能生成个人简介
type BioGenerator interface {
	GenerateBio(ctx context.Context, teach, learn []string) (string, error)
}

// FileStore 上传文件到对象存储并返回可访问的 URL
type FileStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// Deps 服务层依赖的外部组件，任何一项为 nil 时对应功能降级
type Deps struct {
	Embedder embedding.Provider
	BioGen   BioGenerator
	Files    FileStore
}

var (
	depsMu sync.RWMutex
	deps   Deps
	engine = matcher.New(nil)
)

// Setup 注入外部依赖并按配置构建匹配引擎，在 main 中调用一次
func Setup(cfg *config.Config, d Deps) {
	depsMu.Lock()
	defer depsMu.Unlock()

	deps = d
	var embedder matcher.Embedder
	if d.Embedder != nil {
		embedder = countedEmbedder(d.Embedder, "match")
	}
	engine = matcher.New(embedder,
		matcher.WithConfig(MatchConfig(cfg)),
		matcher.WithLogger(logger.With("component", "matcher")))
}

// countedEmbedder 按调用方记录 embedding 调用结果，空向量计为失败
func countedEmbedder(p embedding.Provider, caller string) matcher.Embedder {
	return matcher.EmbedFunc(func(ctx context.Context, text string) ([]float32, error) {
		vec, err := p.Embed(ctx, text)
		if err != nil || len(vec) == 0 {
			metrics.EmbeddingRequests.WithLabelValues(caller, "error").Inc()
		} else {
			metrics.EmbeddingRequests.WithLabelValues(caller, "ok").Inc()
		}
		return vec, err
	})
}

func currentDeps() (Deps, *matcher.Engine) {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps, engine
}

// NewDepsFromConfig 根据配置创建外部组件，未配置的组件保持 nil
func NewDepsFromConfig(ctx context.Context, cfg *config.Config) (Deps, error) {
	var d Deps

	embedder, err := embedding.NewFromConfig(cfg)
	if err != nil {
		return d, err
	}
	if embedder != nil {
		d.Embedder = embedder
	} else {
		logger.Warn("Embedding API key not configured, matching falls back to keyword search")
	}

	if gen := NewLLMBioGenerator(cfg); gen != nil {
		d.BioGen = gen
	}

	store, err := NewS3Store(ctx, cfg)
	if err != nil {
		return d, err
	}
	if store != nil {
		d.Files = store
	} else {
		logger.Warn("Upload bucket not configured, file uploads are disabled")
	}
	return d, nil
}
