package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"sentimentbot/internal/normalize"
)

const defaultExternalHTTPTimeout = 90 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

const (
	ProviderHuggingFace = "huggingface"
	ProviderAnthropic   = "anthropic"
	ProviderOpenAI      = "openai"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

type Config struct {
	SlackBotToken string `yaml:"slack_bot_token"`
	SlackAppToken string `yaml:"slack_app_token"`

	InferenceProvider   string `yaml:"inference_provider"`
	InferenceModel      string `yaml:"inference_model"`
	HuggingFaceAPIToken string `yaml:"huggingface_api_token"`
	HuggingFaceBaseURL  string `yaml:"huggingface_base_url"`
	AnthropicAPIKey     string `yaml:"anthropic_api_key"`
	OpenAIAPIKey        string `yaml:"openai_api_key"`
	OpenAIBaseURL       string `yaml:"openai_base_url"`

	DBPath                     string `yaml:"db_path"`
	HistoryLimit               int    `yaml:"history_limit"`
	ShorthandPath              string `yaml:"shorthand_path"`
	ExternalHTTPTimeoutSeconds int    `yaml:"external_http_timeout_seconds"`

	DigestSchedule  string `yaml:"digest_schedule"`
	DigestChannelID string `yaml:"digest_channel_id"`
	Timezone        string `yaml:"timezone"`

	Location *time.Location `yaml:"-"` // computed from Timezone, not from YAML
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.InferenceProvider, "INFERENCE_PROVIDER")
	envOverride(&cfg.InferenceModel, "INFERENCE_MODEL")
	envOverride(&cfg.HuggingFaceAPIToken, "HUGGINGFACE_API_TOKEN")
	envOverride(&cfg.HuggingFaceBaseURL, "HUGGINGFACE_BASE_URL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverrideInt(&cfg.HistoryLimit, "HISTORY_LIMIT")
	envOverrideAllowEmpty(&cfg.ShorthandPath, "SHORTHAND_PATH")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")
	envOverrideAllowEmpty(&cfg.DigestSchedule, "DIGEST_SCHEDULE")
	envOverride(&cfg.DigestChannelID, "DIGEST_CHANNEL_ID")
	envOverride(&cfg.Timezone, "TIMEZONE")

	cfg.InferenceProvider = strings.ToLower(strings.TrimSpace(cfg.InferenceProvider))
	if cfg.InferenceProvider == "" {
		cfg.InferenceProvider = ProviderHuggingFace
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./sentiment_history.db"
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	if (cfg.SlackBotToken == "") != (cfg.SlackAppToken == "") {
		log.Fatalf("Partial Slack config: slack_bot_token and slack_app_token are required together")
	}
	if !cfg.SlackConfigured() {
		log.Printf("Slack is not configured, using the console front-end")
	}

	switch cfg.InferenceProvider {
	case ProviderHuggingFace:
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when inference_provider=anthropic")
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			log.Fatalf("openai_api_key is required when inference_provider=openai")
		}
	default:
		log.Fatalf("inference_provider must be 'huggingface', 'anthropic' or 'openai', got '%s'", cfg.InferenceProvider)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if cfg.HistoryLimit < 1 || cfg.HistoryLimit > maxHistoryLimit {
		log.Fatalf("invalid history_limit '%d': must be between 1 and %d", cfg.HistoryLimit, maxHistoryLimit)
	}
	if cfg.ExternalHTTPTimeoutSeconds < 5 {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= 5", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.ShorthandPath != "" {
		if _, err := normalize.LoadRules(cfg.ShorthandPath); err != nil {
			log.Fatalf("invalid shorthand_path '%s': %v", cfg.ShorthandPath, err)
		}
	}
	if schedule := strings.TrimSpace(cfg.DigestSchedule); schedule != "" {
		if _, err := ParseSchedule(schedule); err != nil {
			log.Fatalf("invalid digest_schedule '%s': %v", schedule, err)
		}
		if !cfg.SlackConfigured() || cfg.DigestChannelID == "" {
			log.Fatalf("digest_schedule requires Slack tokens and digest_channel_id")
		}
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideAllowEmpty(field *string, envKey string) {
	if val, ok := os.LookupEnv(envKey); ok {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackAppToken != ""
}

func (c Config) DigestConfigured() bool {
	return strings.TrimSpace(c.DigestSchedule) != "" && c.SlackConfigured() && c.DigestChannelID != ""
}

// ParseSchedule parses a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
func ParseSchedule(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(strings.TrimSpace(spec))
}
