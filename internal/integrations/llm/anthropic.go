package llm

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"sentimentbot/internal/classifier"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

type Anthropic struct {
	client anthropic.Client
	model  string
}

func NewAnthropic(apiKey, model string, httpClient *http.Client, opts ...option.RequestOption) *Anthropic {
	if model == "" {
		model = defaultAnthropicModel
	}
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		all = append(all, option.WithHTTPClient(httpClient))
	}
	all = append(all, opts...)
	return &Anthropic{
		client: anthropic.NewClient(all...),
		model:  model,
	}
}

func (a *Anthropic) Infer(ctx context.Context, text string) (classifier.Prediction, error) {
	log.Printf("inference provider=anthropic model=%s chars=%d", a.model, utf8.RuneCountInString(text))

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		log.Printf("inference anthropic error: %v", err)
		return classifier.Prediction{}, fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("inference anthropic response size=%d tokens_in=%d tokens_out=%d", len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return parsePredictionResponse(block.Text)
		}
	}
	return classifier.Prediction{}, fmt.Errorf("no text content in Anthropic response")
}
