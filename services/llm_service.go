package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"skill_barter/config"
	"skill_barter/logger"
	"skill_barter/utils"
)

const defaultLLMModel = "Qwen/Qwen2.5-7B-Instruct"

// LLMBioGenerator 通过 OpenAI 兼容接口（如 SiliconFlow）生成个人简介
type LLMBioGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewLLMBioGenerator 未配置 API Key 时返回 nil，注册流程跳过简介生成
func NewLLMBioGenerator(cfg *config.Config) *LLMBioGenerator {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.LLM.BaseURL, "/")
	}
	model := cfg.LLM.Model
	if model == "" {
		model = defaultLLMModel
	}
	return &LLMBioGenerator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: 20 * time.Second,
	}
}

// buildBioPrompt 构建生成简介的提示词
func buildBioPrompt(teach, learn []string) string {
	var sb strings.Builder
	sb.WriteString("Write a short, friendly first-person bio (max 2 sentences, under 40 words) ")
	sb.WriteString("for a member of a skill-exchange community.\n")
	if len(teach) > 0 {
		sb.WriteString("Skills they can teach: " + strings.Join(teach, ", ") + "\n")
	}
	if len(learn) > 0 {
		sb.WriteString("Skills they want to learn: " + strings.Join(learn, ", ") + "\n")
	}
	sb.WriteString("Return only the bio text, without quotes or markdown.")
	return sb.String()
}

// GenerateBio 调用 LLM 生成简介
func (g *LLMBioGenerator) GenerateBio(ctx context.Context, teach, learn []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	startTime := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You write concise user profile bios."},
			{Role: openai.ChatMessageRoleUser, Content: buildBioPrompt(teach, learn)},
		},
		Temperature: 0.7,
		MaxTokens:   120,
	})
	logger.Info("LLM请求耗时", "duration_ms", time.Since(startTime).Milliseconds(), "model", g.model)
	if err != nil {
		return "", fmt.Errorf("generate bio: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("API响应中没有内容")
	}

	bio := utils.CleanGeneratedText(resp.Choices[0].Message.Content)
	logger.Debug("成功获取LLM响应",
		"tokens_total", resp.Usage.TotalTokens,
		"finish_reason", resp.Choices[0].FinishReason,
		"bio_preview", utils.TruncateString(bio, 80))
	return bio, nil
}
