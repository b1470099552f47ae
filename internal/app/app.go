package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"

	"sentimentbot/internal/classifier"
	"sentimentbot/internal/config"
	"sentimentbot/internal/console"
	"sentimentbot/internal/digest"
	"sentimentbot/internal/httpx"
	"sentimentbot/internal/integrations/llm"
	slackbot "sentimentbot/internal/integrations/slack"
	"sentimentbot/internal/normalize"
	"sentimentbot/internal/sentiment"
	"sentimentbot/internal/storage/sqlite"
)

func Main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.LoadConfig()
	appliedHTTPTimeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. Provider=%s DBPath=%s HistoryLimit=%d Shorthand=%s Slack=%t Digest=%t Timezone=%s ExternalHTTPTimeout=%s",
		cfg.InferenceProvider,
		cfg.DBPath,
		cfg.HistoryLimit,
		cfg.ShorthandPath,
		cfg.SlackConfigured(),
		cfg.DigestConfigured(),
		cfg.Location,
		appliedHTTPTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := sqlite.NewHistoryStore(cfg.DBPath)
	if err := store.Initialize(ctx); err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	log.Printf("Database initialized at %s", store.Path())

	normalizer, err := normalize.NewFromFile(cfg.ShorthandPath)
	if err != nil {
		log.Fatalf("Failed to load shorthand rules: %v", err)
	}
	log.Printf("Normalizer ready rules=%d", len(normalizer.Rules()))

	handle := classifier.NewHandle(llm.Loader(cfg, httpx.ExternalHTTPClient()))
	log.Printf("Loading sentiment model provider=%s...", cfg.InferenceProvider)
	if _, err := handle.Load(ctx); err != nil {
		log.Fatalf("Không thể khởi tạo model: %v", err)
	}

	svc := sentiment.NewService(normalizer, classifier.NewAdapter(handle), store, cfg.HistoryLimit)

	if !cfg.SlackConfigured() {
		log.Println("Slack not configured, starting console session")
		if err := console.Run(ctx, os.Stdin, os.Stdout, svc, cfg.Location); err != nil {
			log.Fatalf("Console error: %v", err)
		}
		return
	}

	api := slack.New(
		cfg.SlackBotToken,
		slack.OptionAppLevelToken(cfg.SlackAppToken),
	)

	digest.StartDigestScheduler(cfg, svc, api)

	log.Println("Starting Sentiment Bot...")
	if err := slackbot.StartSlackBot(cfg, svc, api); err != nil {
		log.Fatalf("Slack bot error: %v", err)
	}
}
