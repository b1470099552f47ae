package classifier

import (
	"context"
	"errors"
	"math"
	"testing"

	"sentimentbot/internal/domain"
)

type fakeInferencer struct {
	pred  Prediction
	err   error
	calls int
	texts []string
}

func (f *fakeInferencer) Infer(_ context.Context, text string) (Prediction, error) {
	f.calls++
	f.texts = append(f.texts, text)
	return f.pred, f.err
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestAdapterClassify(t *testing.T) {
	fake := &fakeInferencer{pred: Prediction{Label: strPtr("Tích cực"), Score: floatPtr(0.93)}}
	a := NewAdapter(fake)

	got, err := a.Classify(context.Background(), "hôm nay tôi rất vui")
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if got.Label != domain.LabelPositive || got.Score != 0.93 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if fake.calls != 1 || fake.texts[0] != "hôm nay tôi rất vui" {
		t.Fatalf("expected exactly one inference call with the text, got %d %v", fake.calls, fake.texts)
	}
}

func TestAdapterClassifyMalformed(t *testing.T) {
	tests := []struct {
		name string
		pred Prediction
		want error
	}{
		{name: "missing score", pred: Prediction{Label: strPtr("Tích cực")}, want: ErrMissingScore},
		{name: "missing label", pred: Prediction{Score: floatPtr(0.5)}, want: ErrMissingLabel},
		{name: "blank label", pred: Prediction{Label: strPtr("  "), Score: floatPtr(0.5)}, want: ErrMissingLabel},
		{name: "score above one", pred: Prediction{Label: strPtr("Tích cực"), Score: floatPtr(1.2)}},
		{name: "negative score", pred: Prediction{Label: strPtr("Tích cực"), Score: floatPtr(-0.1)}},
		{name: "nan score", pred: Prediction{Label: strPtr("Tích cực"), Score: floatPtr(math.NaN())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(&fakeInferencer{pred: tt.pred})
			_, err := a.Classify(context.Background(), "text")
			var ie *domain.InferenceError
			if !errors.As(err, &ie) {
				t.Fatalf("expected InferenceError, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAdapterClassifyBackendError(t *testing.T) {
	boom := errors.New("backend down")
	a := NewAdapter(&fakeInferencer{err: boom})
	_, err := a.Classify(context.Background(), "text")
	var ie *domain.InferenceError
	if !errors.As(err, &ie) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped InferenceError, got %v", err)
	}
}

func TestAdapterKeepsUnknownLabel(t *testing.T) {
	a := NewAdapter(&fakeInferencer{pred: Prediction{Label: strPtr("POS"), Score: floatPtr(0.6)}})
	got, err := a.Classify(context.Background(), "text")
	if err != nil {
		t.Fatalf("unknown labels are displayed, not rejected: %v", err)
	}
	if got.Label.Known() {
		t.Fatalf("expected unknown label, got %q", got.Label)
	}
}

func TestHandleLoadsOnce(t *testing.T) {
	loads := 0
	fake := &fakeInferencer{pred: Prediction{Label: strPtr("Trung tính"), Score: floatPtr(0.5)}}
	h := NewHandle(func(context.Context) (Inferencer, error) {
		loads++
		return fake, nil
	})

	for i := 0; i < 3; i++ {
		if _, err := h.Infer(context.Background(), "abc"); err != nil {
			t.Fatalf("Infer error: %v", err)
		}
	}
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}
	if fake.calls != 3 {
		t.Fatalf("expected 3 inference calls, got %d", fake.calls)
	}
}

func TestHandleKeepsLoadError(t *testing.T) {
	loads := 0
	boom := errors.New("model unavailable")
	h := NewHandle(func(context.Context) (Inferencer, error) {
		loads++
		return nil, boom
	})

	if _, err := h.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	_, err := NewAdapter(h).Classify(context.Background(), "abc")
	var ie *domain.InferenceError
	if !errors.As(err, &ie) || !errors.Is(err, boom) {
		t.Fatalf("expected InferenceError wrapping load error, got %v", err)
	}
	if loads != 1 {
		t.Fatalf("load must not be retried, got %d loads", loads)
	}
}
