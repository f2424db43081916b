package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Enrich   EnrichConfig   `mapstructure:"enrich"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Notion   NotionConfig   `mapstructure:"notion"`
	Prompts  PromptsConfig  `mapstructure:"prompts"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	PaaS     PaaSConfig     `mapstructure:"paas"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	File              string `mapstructure:"file"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// LLMConfig selects the completion provider. The default targets DeepSeek
// through its OpenAI-compatible endpoint.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

type EnrichConfig struct {
	BatchSize      int           `mapstructure:"batch_size"`
	SourceLookup   bool          `mapstructure:"source_lookup"`
	SourceCacheTTL time.Duration `mapstructure:"source_cache_ttl"`
}

type CacheConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type NotionConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Version      string        `mapstructure:"version"`
	ParentPageID string        `mapstructure:"parent_page_id"`
	DatabaseID   string        `mapstructure:"database_id"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type PromptsConfig struct {
	File  string `mapstructure:"file"`
	Watch bool   `mapstructure:"watch"`
}

// ScheduleConfig holds six-field cron specs (seconds first).
type ScheduleConfig struct {
	Timezone   string `mapstructure:"timezone"`
	PreMarket  string `mapstructure:"pre_market"`
	PostMarket string `mapstructure:"post_market"`
	Breaking   string `mapstructure:"breaking"`
	Earnings   string `mapstructure:"earnings"`
	Weekly     string `mapstructure:"weekly"`
	Sentiment  string `mapstructure:"sentiment"`
}

type PaaSConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Agent   string `mapstructure:"agent"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	setDefaults(v)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("log.file", "")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")

	v.SetDefault("llm.provider", "openai")
	// Empty: each provider picks its own endpoint.
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "deepseek-chat")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", "2s")

	v.SetDefault("enrich.batch_size", 5)
	v.SetDefault("enrich.source_lookup", true)
	v.SetDefault("enrich.source_cache_ttl", "168h")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("notion.base_url", "https://api.notion.com/v1")
	v.SetDefault("notion.api_key", "")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("notion.parent_page_id", "")
	v.SetDefault("notion.database_id", "")
	v.SetDefault("notion.timeout", "15s")

	v.SetDefault("prompts.file", "")
	v.SetDefault("prompts.watch", true)

	// Trading-day schedule, evaluated in schedule.timezone.
	v.SetDefault("schedule.timezone", "America/New_York")
	v.SetDefault("schedule.pre_market", "0 0 8 * * 1-5")
	v.SetDefault("schedule.post_market", "0 0 17 * * 1-5")
	v.SetDefault("schedule.breaking", "0 0 */2 * * *")
	v.SetDefault("schedule.earnings", "0 0 7 * * *")
	v.SetDefault("schedule.weekly", "0 0 20 * * 0")
	v.SetDefault("schedule.sentiment", "0 30 9,15 * * 1-5")

	v.SetDefault("paas.base_url", "")
	v.SetDefault("paas.api_key", "")
	v.SetDefault("paas.agent", "market-events-service")
}
