package domain

import "time"

type Label string

const (
	LabelPositive Label = "Tích cực"
	LabelNegative Label = "Tiêu cực"
	LabelNeutral  Label = "Trung tính"
)

const unknownMarker = "❓"

var displayLabels = map[Label]string{
	LabelPositive: "TÍCH CỰC 😊",
	LabelNegative: "TIÊU CỰC 😞",
	LabelNeutral:  "TRUNG TÍNH 😐",
}

var labelIcons = map[Label]string{
	LabelPositive: "😊",
	LabelNegative: "😞",
	LabelNeutral:  "😐",
}

// Labels lists the canonical labels in display order.
func Labels() []Label {
	return []Label{LabelPositive, LabelNegative, LabelNeutral}
}

func (l Label) Known() bool {
	_, ok := displayLabels[l]
	return ok
}

// Display returns the decorated result string for a label. Labels outside the
// canonical three are shown with the unknown marker instead of failing.
func (l Label) Display() string {
	if s, ok := displayLabels[l]; ok {
		return s
	}
	return unknownMarker + " " + string(l)
}

func (l Label) Icon() string {
	if s, ok := labelIcons[l]; ok {
		return s
	}
	return unknownMarker
}

type ClassificationResult struct {
	Label Label
	Score float64
}

type HistoryRecord struct {
	ID        int64
	Text      string
	Label     Label
	Timestamp time.Time
}

type LabelCount struct {
	Label Label
	Count int
}

type SentimentStats struct {
	Since  time.Time
	Total  int
	Counts []LabelCount
}

// Count returns the number of records for a label, zero when absent.
func (s SentimentStats) Count(label Label) int {
	for _, c := range s.Counts {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}
