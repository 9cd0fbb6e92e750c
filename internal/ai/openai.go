package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/merial523/graduate-git/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// OpenAIGenerator 兼容 OpenAI 接口的生成服务（BaseURL 可指向其他兼容实现）
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(cfg config.AIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) ([]GeneratedQuestion, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req.Kind)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: json.RawMessage(questionSchema),
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return Decode(resp.Choices[0].Message.Content)
}

func systemPrompt(kind Kind) string {
	if kind == KindExample {
		return "あなたは社内研修の教材作成者です。各問題に選択肢を4つ作り、正解は必ず1つだけにしてください。"
	}
	return "あなたは社内検定の作問者です。各問題に2つ以上の選択肢を作り、正解を1つ以上含めてください。"
}

func userPrompt(req Request) string {
	count := req.Count
	if count <= 0 {
		count = 5
	}
	var b strings.Builder
	fmt.Fprintf(&b, "テーマ「%s」について%d問作成してください。", req.Topic, count)
	if req.Source != "" {
		b.WriteString("\n以下の資料の内容に基づいてください。\n")
		b.WriteString(req.Source)
	}
	return b.String()
}
