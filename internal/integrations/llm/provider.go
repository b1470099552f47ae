package llm

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"sentimentbot/internal/classifier"
	"sentimentbot/internal/config"
)

type Config = config.Config

// Loader returns the LoadFunc for the configured provider. Loading the
// huggingface backend includes a warm-up call so model load latency is paid
// at start-up.
func Loader(cfg Config, httpClient *http.Client) classifier.LoadFunc {
	return func(ctx context.Context) (classifier.Inferencer, error) {
		switch cfg.InferenceProvider {
		case config.ProviderHuggingFace:
			hf := NewHuggingFace(cfg.HuggingFaceBaseURL, cfg.InferenceModel, cfg.HuggingFaceAPIToken, httpClient)
			if err := hf.Warmup(ctx); err != nil {
				return nil, fmt.Errorf("warming up %s: %w", hf.model, err)
			}
			log.Printf("inference backend ready provider=huggingface model=%s", hf.model)
			return hf, nil
		case config.ProviderAnthropic:
			a := NewAnthropic(cfg.AnthropicAPIKey, cfg.InferenceModel, httpClient)
			log.Printf("inference backend ready provider=anthropic model=%s", a.model)
			return a, nil
		case config.ProviderOpenAI:
			o := NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.InferenceModel, httpClient)
			log.Printf("inference backend ready provider=openai model=%s", o.model)
			return o, nil
		default:
			return nil, fmt.Errorf("unknown inference provider: %s", cfg.InferenceProvider)
		}
	}
}
