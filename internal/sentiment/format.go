package sentiment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sentimentbot/internal/domain"
)

const (
	msgNoHistory          = "📝 Chưa có lịch sử phân loại nào."
	msgHistoryUnavailable = "⚠️ Không thể đọc lịch sử phân loại lúc này."
	msgSaved              = "✅ Đã lưu kết quả vào lịch sử!"
	msgNotSaved           = "⚠️ Không thể lưu kết quả vào lịch sử."
	msgStatsUnavailable   = "⚠️ Không thể đọc thống kê cảm xúc lúc này."

	historyTimeLayout = "02/01/2006 15:04"
)

// FormatOutcome renders a classification for display. The saved line is only
// added when the record actually reached the store.
func FormatOutcome(o Outcome) string {
	var sb strings.Builder
	sb.WriteString("🎯 Kết quả phân loại\n")
	fmt.Fprintf(&sb, "Cảm xúc: %s\n", o.Result.Label.Display())
	fmt.Fprintf(&sb, "Độ tin cậy: %.2f%%\n", o.Result.Score*100)
	fmt.Fprintf(&sb, "Câu đã xử lý: %s\n", o.Normalized)
	if o.Saved {
		sb.WriteString(msgSaved)
	} else {
		sb.WriteString(msgNotSaved)
	}
	return sb.String()
}

// FormatHistory renders records most recent first. A read error degrades to a
// short notice instead of failing the caller.
func FormatHistory(records []domain.HistoryRecord, err error, loc *time.Location) string {
	if err != nil {
		return msgHistoryUnavailable
	}
	if len(records) == 0 {
		return msgNoHistory
	}
	if loc == nil {
		loc = time.Local
	}

	var sb strings.Builder
	sb.WriteString("📊 Lịch sử phân loại\n")
	for i, r := range records {
		fmt.Fprintf(&sb, "%d. %s\n   %s %s - %s\n",
			i+1, r.Text, r.Label.Icon(), r.Label, r.Timestamp.In(loc).Format(historyTimeLayout))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatStats renders per-label counts with the canonical labels always
// listed, followed by any unknown labels found in the store.
func FormatStats(stats domain.SentimentStats, title string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (từ %s)\n", title, stats.Since.In(loc).Format(historyTimeLayout))
	if stats.Total == 0 {
		sb.WriteString("Chưa có câu nào được phân loại.")
		return sb.String()
	}
	for _, l := range domain.Labels() {
		writeStatsLine(&sb, l, stats.Count(l), stats.Total)
	}
	for _, c := range stats.Counts {
		if !c.Label.Known() {
			writeStatsLine(&sb, c.Label, c.Count, stats.Total)
		}
	}
	fmt.Fprintf(&sb, "Tổng: %d", stats.Total)
	return sb.String()
}

func writeStatsLine(sb *strings.Builder, l domain.Label, count, total int) {
	fmt.Fprintf(sb, "%s %s: %d (%.0f%%)\n", l.Icon(), l, count, float64(count)*100/float64(total))
}

// UserMessage converts any pipeline error into text for the user.
func UserMessage(err error) string {
	var ve *domain.ValidationError
	var ie *domain.InferenceError
	var pe *domain.PersistenceError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "⚠️ " + ve.Reason
	case errors.As(err, &ie):
		return "❌ Lỗi khi phân tích: " + ie.Error()
	case errors.As(err, &pe):
		switch pe.Op {
		case "append":
			return msgNotSaved
		case "stats":
			return msgStatsUnavailable
		default:
			return msgHistoryUnavailable
		}
	default:
		return "❌ Lỗi: " + err.Error()
	}
}

// Reply renders the full response to a submission, including the result of a
// classification whose save failed.
func Reply(o Outcome, err error) string {
	var pe *domain.PersistenceError
	if err == nil || errors.As(err, &pe) {
		return FormatOutcome(o)
	}
	return UserMessage(err)
}
