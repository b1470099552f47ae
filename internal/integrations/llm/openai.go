package llm

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"

	"sentimentbot/internal/classifier"
)

const defaultOpenAIModel = "gpt-4o-mini"

type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string, httpClient *http.Client) *OpenAI {
	if model == "" {
		model = defaultOpenAIModel
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (o *OpenAI) Infer(ctx context.Context, text string) (classifier.Prediction, error) {
	log.Printf("inference provider=openai model=%s chars=%d", o.model, utf8.RuneCountInString(text))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		log.Printf("inference openai error: %v", err)
		return classifier.Prediction{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return classifier.Prediction{}, fmt.Errorf("no choices in OpenAI response")
	}

	content := resp.Choices[0].Message.Content
	log.Printf("inference openai response size=%d tokens_in=%d tokens_out=%d", len(content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return parsePredictionResponse(content)
}
