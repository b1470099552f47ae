package sentiment

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"sentimentbot/internal/domain"
	"sentimentbot/internal/normalize"
)

const (
	msgEmptyInput   = "Vui lòng nhập câu trước khi phân tích!"
	msgTooShort     = "Câu quá ngắn, vui lòng nhập ít nhất 3 ký tự!"
	msgInvalidInput = "Câu nhập vào không hợp lệ!"
)

type Normalizer interface {
	Normalize(raw string) (string, bool)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (domain.ClassificationResult, error)
}

type HistoryStore interface {
	Append(ctx context.Context, text string, label domain.Label, at time.Time) (int64, error)
	Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Stats(ctx context.Context, since time.Time) (domain.SentimentStats, error)
}

// Outcome is what a submission produced. Saved is true only once the record
// is in the history store.
type Outcome struct {
	Raw        string
	Normalized string
	Result     domain.ClassificationResult
	RecordID   int64
	Saved      bool
}

// Service runs one interaction at a time; front-ends and the digest share it.
type Service struct {
	mu           sync.Mutex
	normalizer   Normalizer
	classifier   Classifier
	store        HistoryStore
	historyLimit int
	now          func() time.Time
}

func NewService(n Normalizer, c Classifier, store HistoryStore, historyLimit int) *Service {
	return &Service{
		normalizer:   n,
		classifier:   c,
		store:        store,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

func (s *Service) HistoryLimit() int { return s.historyLimit }

// Submit validates, normalizes, classifies and records one user sentence.
// Inference failures write nothing. A persistence failure still returns the
// classification in the outcome alongside the error.
func (s *Service) Submit(ctx context.Context, raw string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Outcome{Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return out, &domain.ValidationError{Reason: msgEmptyInput}
	}
	if normalize.TooShort(trimmed) {
		return out, &domain.ValidationError{Reason: msgTooShort}
	}

	normalized, ok := s.normalizer.Normalize(raw)
	if !ok || normalized == "" {
		return out, &domain.ValidationError{Reason: msgInvalidInput}
	}
	out.Normalized = normalized

	result, err := s.classifier.Classify(ctx, normalized)
	if err != nil {
		log.Printf("sentiment classify failed chars=%d: %v", utf8.RuneCountInString(normalized), err)
		return out, err
	}
	out.Result = result

	id, err := s.store.Append(ctx, raw, result.Label, s.now())
	if err != nil {
		log.Printf("sentiment history append failed label=%s: %v", result.Label, err)
		return out, err
	}
	out.RecordID = id
	out.Saved = true
	log.Printf("sentiment recorded id=%d label=%s score=%.4f", id, result.Label, result.Score)
	return out, nil
}

// History returns the configured number of most recent records.
func (s *Service) History(ctx context.Context) ([]domain.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Recent(ctx, s.historyLimit)
	if err != nil {
		log.Printf("sentiment history read failed: %v", err)
		return nil, err
	}
	return records, nil
}

// Stats counts records per label over the trailing window ending now.
func (s *Service) Stats(ctx context.Context, window time.Duration) (domain.SentimentStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	since := s.now().Add(-window)
	stats, err := s.store.Stats(ctx, since)
	if err != nil {
		log.Printf("sentiment stats read failed: %v", err)
		return stats, err
	}
	return stats, nil
}
