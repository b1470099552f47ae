package digest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"

	"sentimentbot/internal/config"
	"sentimentbot/internal/domain"
	"sentimentbot/internal/sentiment"
)

type Config = config.Config

const window = 24 * time.Hour

type Poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// StartDigestScheduler posts the trailing 24h sentiment summary to the digest
// channel on every tick of digest_schedule. It returns immediately.
func StartDigestScheduler(cfg Config, svc *sentiment.Service, api Poster) {
	schedule := strings.TrimSpace(cfg.DigestSchedule)
	if schedule == "" {
		log.Println("Sentiment digest disabled (digest_schedule not set)")
		return
	}
	if cfg.DigestChannelID == "" {
		log.Println("Sentiment digest disabled: digest_channel_id not set")
		return
	}

	sched, err := config.ParseSchedule(schedule)
	if err != nil {
		log.Printf("Invalid digest_schedule '%s': %v, digest disabled", schedule, err)
		return
	}
	log.Printf("Sentiment digest scheduled (cron: %s) to channel=%s", schedule, cfg.DigestChannelID)

	go run(cfg, sched, svc, api)
}

func run(cfg Config, sched cron.Schedule, svc *sentiment.Service, api Poster) {
	for {
		now := time.Now().In(cfg.Location)
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next sentiment digest at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		time.Sleep(wait)

		if err := Post(context.Background(), cfg, svc, api); err != nil {
			log.Printf("Sentiment digest error: %v", err)
		}
	}
}

// Post sends one digest immediately.
func Post(ctx context.Context, cfg Config, svc *sentiment.Service, api Poster) error {
	stats, err := svc.Stats(ctx, window)
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}
	text := FormatDigest(stats, cfg.Location)
	if _, _, err := api.PostMessage(cfg.DigestChannelID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("posting digest: %w", err)
	}
	log.Printf("Sentiment digest posted channel=%s total=%d", cfg.DigestChannelID, stats.Total)
	return nil
}

// FormatDigest renders the stats with the dominant label called out.
func FormatDigest(stats domain.SentimentStats, loc *time.Location) string {
	body := sentiment.FormatStats(stats, "*Tổng hợp cảm xúc 24 giờ qua*", loc)
	if stats.Total == 0 {
		return body
	}
	top := stats.Counts[0]
	for _, c := range stats.Counts[1:] {
		if c.Count > top.Count {
			top = c
		}
	}
	return body + fmt.Sprintf("\nNổi bật: %s", top.Label.Display())
}
