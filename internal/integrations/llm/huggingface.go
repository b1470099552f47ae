package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"sentimentbot/internal/classifier"
)

const (
	defaultHuggingFaceModel   = "mr4/phobert-base-vi-sentiment-analysis"
	defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co/models"
	warmupText                = "xin chào"
)

// HuggingFace calls the hosted inference API of a text-classification model.
type HuggingFace struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

func NewHuggingFace(baseURL, model, token string, httpClient *http.Client) *HuggingFace {
	if baseURL == "" {
		baseURL = defaultHuggingFaceBaseURL
	}
	if model == "" {
		model = defaultHuggingFaceModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HuggingFace{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		token:   token,
		client:  httpClient,
	}
}

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfScore struct {
	Label *string  `json:"label"`
	Score *float64 `json:"score"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Warmup sends one request asking the API to wait until the model is
// resident, so the first user submission does not pay the load latency.
func (h *HuggingFace) Warmup(ctx context.Context) error {
	log.Printf("inference huggingface warmup model=%s", h.model)
	_, err := h.do(ctx, warmupText, true)
	return err
}

func (h *HuggingFace) Infer(ctx context.Context, text string) (classifier.Prediction, error) {
	log.Printf("inference provider=huggingface model=%s chars=%d", h.model, utf8.RuneCountInString(text))
	return h.do(ctx, text, false)
}

func (h *HuggingFace) do(ctx context.Context, text string, waitForModel bool) (classifier.Prediction, error) {
	bodyBytes, err := json.Marshal(hfRequest{Inputs: text})
	if err != nil {
		return classifier.Prediction{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.model, bytes.NewReader(bodyBytes))
	if err != nil {
		return classifier.Prediction{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	if waitForModel {
		req.Header.Set("x-wait-for-model", "true")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("inference huggingface error: %v", err)
		return classifier.Prediction{}, fmt.Errorf("Hugging Face API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifier.Prediction{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			log.Printf("inference huggingface api error status=%d: %s", resp.StatusCode, apiErr.Error)
			return classifier.Prediction{}, fmt.Errorf("Hugging Face API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return classifier.Prediction{}, fmt.Errorf("Hugging Face API error: %d", resp.StatusCode)
	}

	return parseHuggingFaceResponse(respBody)
}

// parseHuggingFaceResponse accepts both [[{label,score}...]] and
// [{label,score}...] and keeps the highest scoring entry. An entry without a
// score makes the whole prediction scoreless.
func parseHuggingFaceResponse(body []byte) (classifier.Prediction, error) {
	var scores []hfScore

	var nested [][]hfScore
	if err := json.Unmarshal(body, &nested); err == nil {
		for _, inner := range nested {
			scores = append(scores, inner...)
		}
	} else if err := json.Unmarshal(body, &scores); err != nil {
		return classifier.Prediction{}, fmt.Errorf("parsing Hugging Face response: %w", err)
	}

	if len(scores) == 0 {
		return classifier.Prediction{}, fmt.Errorf("no scores in Hugging Face response")
	}

	best := scores[0]
	for _, s := range scores {
		if s.Score == nil {
			return classifier.Prediction{Label: s.Label}, nil
		}
		if best.Score == nil || *s.Score > *best.Score {
			best = s
		}
	}
	return classifier.Prediction{Label: best.Label, Score: best.Score}, nil
}
