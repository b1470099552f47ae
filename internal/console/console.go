package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"sentimentbot/internal/sentiment"
)

const statsWindow = 24 * time.Hour

const banner = "Phân loại cảm xúc tiếng Việt. Nhập một câu rồi nhấn Enter.\n" +
	"Lệnh: :history | :stats | :help | :quit"

// Run reads one submission per line from in until EOF, :quit or ctx is done.
func Run(ctx context.Context, in io.Reader, out io.Writer, svc *sentiment.Service, loc *time.Location) error {
	fmt.Fprintln(out, banner)

	sc := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			break
		}
		line := sc.Text()

		switch strings.TrimSpace(line) {
		case ":quit", ":q":
			fmt.Fprintln(out, "Tạm biệt!")
			return nil
		case ":history":
			records, err := svc.History(ctx)
			fmt.Fprintln(out, sentiment.FormatHistory(records, err, loc))
		case ":stats":
			stats, err := svc.Stats(ctx, statsWindow)
			if err != nil {
				fmt.Fprintln(out, sentiment.UserMessage(err))
				continue
			}
			fmt.Fprintln(out, sentiment.FormatStats(stats, "Thống kê cảm xúc 24 giờ qua", loc))
		case ":help":
			fmt.Fprintln(out, banner)
		default:
			o, err := svc.Submit(ctx, line)
			fmt.Fprintln(out, sentiment.Reply(o, err))
			records, histErr := svc.History(ctx)
			fmt.Fprintln(out, sentiment.FormatHistory(records, histErr, loc))
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
