package slackbot

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"sentimentbot/internal/config"
	"sentimentbot/internal/sentiment"
)

type Config = config.Config

const statsWindow = 24 * time.Hour

// Poster is the part of the Slack Web API the handlers reply through.
// *slack.Client satisfies it.
type Poster interface {
	PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error)
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

type Bot struct {
	cfg Config
	svc *sentiment.Service
	api Poster
}

func NewBot(cfg Config, svc *sentiment.Service, api Poster) *Bot {
	return &Bot{cfg: cfg, svc: svc, api: api}
}

// StartSlackBot runs the Socket Mode loop until the connection ends. Events
// are handled one at a time, in arrival order.
func StartSlackBot(cfg Config, svc *sentiment.Service, api *slack.Client) error {
	client := socketmode.New(api)
	bot := NewBot(cfg, svc, api)

	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeSlashCommand:
				client.Ack(*evt.Request)
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}
				log.Printf("Slash command received: %s from user=%s channel=%s", cmd.Command, cmd.UserID, cmd.ChannelID)
				bot.HandleSlashCommand(context.Background(), cmd)
			case socketmode.EventTypeEventsAPI:
				client.Ack(*evt.Request)
				eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				bot.HandleEventsAPI(context.Background(), eventsAPIEvent)
			case socketmode.EventTypeInteractive:
				client.Ack(*evt.Request)
			case socketmode.EventTypeConnected:
				log.Println("Slack bot connected via Socket Mode")
			}
		}
	}()

	return client.Run()
}

func (b *Bot) HandleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	switch cmd.Command {
	case "/sentiment", "/cx":
		b.handleClassify(ctx, cmd)
	case "/sentiment-history":
		b.handleHistory(ctx, cmd)
	case "/sentiment-stats":
		b.handleStats(ctx, cmd)
	case "/sentiment-help":
		b.postEphemeral(cmd.ChannelID, cmd.UserID, helpText())
	default:
		log.Printf("unknown slash command %s from user=%s", cmd.Command, cmd.UserID)
	}
}

func (b *Bot) handleClassify(ctx context.Context, cmd slack.SlashCommand) {
	out, err := b.svc.Submit(ctx, cmd.Text)
	if err != nil {
		log.Printf("sentiment command user=%s error: %v", cmd.UserID, err)
	}
	b.postEphemeral(cmd.ChannelID, cmd.UserID, sentiment.Reply(out, err))
}

func (b *Bot) handleHistory(ctx context.Context, cmd slack.SlashCommand) {
	records, err := b.svc.History(ctx)
	b.postEphemeral(cmd.ChannelID, cmd.UserID, sentiment.FormatHistory(records, err, b.cfg.Location))
	log.Printf("sentiment-history sent user=%s count=%d", cmd.UserID, len(records))
}

func (b *Bot) handleStats(ctx context.Context, cmd slack.SlashCommand) {
	stats, err := b.svc.Stats(ctx, statsWindow)
	if err != nil {
		b.postEphemeral(cmd.ChannelID, cmd.UserID, sentiment.UserMessage(err))
		return
	}
	b.postEphemeral(cmd.ChannelID, cmd.UserID, sentiment.FormatStats(stats, "*Thống kê cảm xúc 24 giờ qua*", b.cfg.Location))
	log.Printf("sentiment-stats sent user=%s total=%d", cmd.UserID, stats.Total)
}

func (b *Bot) HandleEventsAPI(ctx context.Context, event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		b.handleAppMention(ctx, ev)
	case *slackevents.MemberJoinedChannelEvent:
		b.handleMemberJoined(ev)
	}
}

// handleAppMention classifies the text after the mention and answers in the
// message thread.
func (b *Bot) handleAppMention(ctx context.Context, ev *slackevents.AppMentionEvent) {
	text := stripMentions(ev.Text)
	out, err := b.svc.Submit(ctx, text)
	if err != nil {
		log.Printf("app-mention user=%s channel=%s error: %v", ev.User, ev.Channel, err)
	}
	threadTS := ev.ThreadTimeStamp
	if threadTS == "" {
		threadTS = ev.TimeStamp
	}
	_, _, postErr := b.api.PostMessage(ev.Channel,
		slack.MsgOptionText(sentiment.Reply(out, err), false),
		slack.MsgOptionTS(threadTS),
	)
	if postErr != nil {
		log.Printf("app-mention reply error channel=%s: %v", ev.Channel, postErr)
	}
}

func (b *Bot) handleMemberJoined(ev *slackevents.MemberJoinedChannelEvent) {
	log.Printf("member-joined user=%s channel=%s", ev.User, ev.Channel)
	intro := "Xin chào! Mình phân loại cảm xúc câu tiếng Việt: tích cực, tiêu cực hoặc trung tính.\n\n" + helpText()
	_, _, err := b.api.PostMessage(ev.Channel,
		slack.MsgOptionText(intro, false),
		slack.MsgOptionPostEphemeral(ev.User),
	)
	if err != nil {
		log.Printf("member-joined intro error user=%s channel=%s: %v", ev.User, ev.Channel, err)
	}
}

func (b *Bot) postEphemeral(channelID, userID, text string) {
	_, err := b.api.PostEphemeral(channelID, userID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("Error posting ephemeral: %v", err)
	}
}

var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+(\|[^>]*)?>`)

func stripMentions(text string) string {
	return strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))
}

func helpText() string {
	lines := []string{
		"*Lệnh phân loại cảm xúc*",
		"",
		"`/sentiment <câu>` — Phân loại cảm xúc một câu tiếng Việt.",
		"`/cx` — Viết tắt của `/sentiment`.",
		">*Ví dụ:* `/sentiment Hôm nay tôi rat vui`",
		"`/sentiment-history` — Xem lịch sử phân loại gần đây.",
		"`/sentiment-stats` — Thống kê cảm xúc 24 giờ qua.",
		"`/sentiment-help` — Hiện trợ giúp này.",
		"",
		"Có thể nhắc tên bot trong kênh để phân loại câu ngay trong thread.",
	}
	return strings.Join(lines, "\n")
}
