package slackbot

import (
	"context"
	"path/filepath"
	"testing"

	"sentimentbot/internal/classifier"
	"sentimentbot/internal/normalize"
	"sentimentbot/internal/sentiment"
	sqlitedb "sentimentbot/internal/storage/sqlite"
)

type staticInferencer struct {
	label string
	score float64
	err   error
}

func (s staticInferencer) Infer(context.Context, string) (classifier.Prediction, error) {
	if s.err != nil {
		return classifier.Prediction{}, s.err
	}
	return classifier.Prediction{Label: &s.label, Score: &s.score}, nil
}

func newTestService(t *testing.T, inf classifier.Inferencer) (*sentiment.Service, *sqlitedb.HistoryStore) {
	t.Helper()
	store := sqlitedb.NewHistoryStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("init test db: %v", err)
	}
	return sentiment.NewService(normalize.New(), classifier.NewAdapter(inf), store, 10), store
}
