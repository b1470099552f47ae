package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"sentimentbot/internal/domain"
)

var (
	ErrMissingLabel = errors.New("missing label")
	ErrMissingScore = errors.New("missing score")
)

// Prediction is the raw answer of an inference capability. Nil fields mean the
// backend response did not carry them.
type Prediction struct {
	Label *string
	Score *float64
}

type Inferencer interface {
	Infer(ctx context.Context, text string) (Prediction, error)
}

// Adapter turns one Infer call into a ClassificationResult. It does not retry,
// cache or batch.
type Adapter struct {
	inferencer Inferencer
}

func NewAdapter(inferencer Inferencer) *Adapter {
	return &Adapter{inferencer: inferencer}
}

func (a *Adapter) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	pred, err := a.inferencer.Infer(ctx, text)
	if err != nil {
		return domain.ClassificationResult{}, &domain.InferenceError{Op: "infer", Err: err}
	}
	return Validate(pred)
}

// Validate checks a Prediction against the capability contract.
func Validate(pred Prediction) (domain.ClassificationResult, error) {
	if pred.Label == nil || strings.TrimSpace(*pred.Label) == "" {
		return domain.ClassificationResult{}, &domain.InferenceError{Op: "validate", Err: ErrMissingLabel}
	}
	if pred.Score == nil {
		return domain.ClassificationResult{}, &domain.InferenceError{Op: "validate", Err: ErrMissingScore}
	}
	score := *pred.Score
	if math.IsNaN(score) || score < 0 || score > 1 {
		return domain.ClassificationResult{}, &domain.InferenceError{Op: "validate", Err: fmt.Errorf("score %v outside [0,1]", score)}
	}
	return domain.ClassificationResult{
		Label: domain.Label(strings.TrimSpace(*pred.Label)),
		Score: score,
	}, nil
}
