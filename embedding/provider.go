// Package embedding 外部文本向量服务的客户端
package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skill_barter/config"
)

// Provider 将文本转换为定长浮点向量
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewFromConfig 根据配置创建 embedding 提供方，并套上重试 / 熔断 / 限速
// 未配置 API Key 时返回 nil，调用方按纯关键词匹配处理
func NewFromConfig(cfg *config.Config) (Provider, error) {
	if cfg.Embedding.APIKey == "" {
		return nil, nil
	}

	var base Provider
	switch strings.ToLower(cfg.Embedding.Provider) {
	case "gemini", "":
		base = NewGemini(cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.BaseURL,
			time.Duration(cfg.Embedding.TimeoutSec)*time.Second)
	case "openai":
		base = NewOpenAI(cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}

	return NewResilient(base, ResilientOptions{
		MaxRetries: cfg.Embedding.MaxRetries,
		RatePerSec: cfg.Embedding.RatePerSec,
	}), nil
}
