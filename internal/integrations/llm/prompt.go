package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"sentimentbot/internal/classifier"
	"sentimentbot/internal/domain"
)

var systemPrompt = fmt.Sprintf(`You classify the sentiment of one short Vietnamese sentence.
The sentence has already been lower-cased and had common shorthand expanded.

Choose exactly one label from:
- "%s" (positive)
- "%s" (negative)
- "%s" (neutral)

Set score to your confidence in the chosen label, between 0 and 1.

Respond with JSON only (no markdown):
{"label": "%s", "score": 0.93}`,
	domain.LabelPositive, domain.LabelNegative, domain.LabelNeutral, domain.LabelPositive)

type predictionJSON struct {
	Label *string  `json:"label"`
	Score *float64 `json:"score"`
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parsePredictionResponse decodes a model reply. Missing fields stay nil so
// the adapter can reject them.
func parsePredictionResponse(responseText string) (classifier.Prediction, error) {
	responseText = stripFences(responseText)

	var p predictionJSON
	if err := json.Unmarshal([]byte(responseText), &p); err != nil {
		truncated := responseText
		if len(truncated) > 512 {
			truncated = truncated[:512] + fmt.Sprintf("... [truncated, total_length=%d]", len(responseText))
		}
		return classifier.Prediction{}, fmt.Errorf("parsing sentiment response: %w (response: %s)", err, truncated)
	}
	return classifier.Prediction{Label: p.Label, Score: p.Score}, nil
}
