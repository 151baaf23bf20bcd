package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	pkgredis "github.com/lk2023060901/gost-search/internal/pkg/redis"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Edge     EdgeConfig     `mapstructure:"edge"`
	GigaChat GigaChatConfig `mapstructure:"gigachat"`
	Tavily   TavilyConfig   `mapstructure:"tavily"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	Mode        string   `mapstructure:"mode"`
}

type EdgeConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	BackendURL string        `mapstructure:"backend_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type GigaChatConfig struct {
	AuthKey          string        `mapstructure:"auth_key"`
	Scope            string        `mapstructure:"scope"`
	OAuthURL         string        `mapstructure:"oauth_url"`
	BaseURL          string        `mapstructure:"base_url"`
	Model            string        `mapstructure:"model"`
	Temperature      float32       `mapstructure:"temperature"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	MaxContextTokens int           `mapstructure:"max_context_tokens"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	// StatusVocabulary maps a status phrase to active, inactive or undetermined
	StatusVocabulary map[string]string `mapstructure:"status_vocabulary"`
}

type TavilyConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	MaxResults     int           `mapstructure:"max_results"`
	IncludeDomains []string      `mapstructure:"include_domains"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	// Driver selects the token store: redis, memory or none
	Driver       string        `mapstructure:"driver"`
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PingTimeout  time.Duration `mapstructure:"ping_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

type ClientConfig struct {
	EdgeURL string        `mapstructure:"edge_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// envBindings maps config keys to the environment variables the deployment uses
var envBindings = map[string]string{
	"gigachat.auth_key": "GIGACHAT_AUTH_KEY",
	"tavily.api_key":    "TAVILY_API_KEY",
	"redis.url":         "REDIS_URL",
	"edge.backend_url":  "BACKEND_URL",
	"server.port":       "PORT",
	"edge.port":         "EDGE_PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.mode", "release")

	v.SetDefault("edge.host", "0.0.0.0")
	v.SetDefault("edge.port", 3000)
	v.SetDefault("edge.backend_url", "http://localhost:4000")
	v.SetDefault("edge.timeout", 0)

	v.SetDefault("gigachat.scope", "GIGACHAT_API_PERS")
	v.SetDefault("gigachat.oauth_url", "https://ngw.devices.sberbank.ru:9443/api/v2/oauth")
	v.SetDefault("gigachat.base_url", "https://gigachat.devices.sberbank.ru/api/v1")
	v.SetDefault("gigachat.model", "GigaChat:latest")
	v.SetDefault("gigachat.temperature", 0.7)
	v.SetDefault("gigachat.max_tokens", 2000)
	v.SetDefault("gigachat.max_context_tokens", 6000)
	v.SetDefault("gigachat.token_ttl", 29*time.Minute)
	v.SetDefault("gigachat.timeout", 10*time.Second)
	v.SetDefault("gigachat.fetch_timeout", 10*time.Second)

	v.SetDefault("tavily.base_url", "https://api.tavily.com")
	v.SetDefault("tavily.max_results", 10)
	v.SetDefault("tavily.include_domains", []string{"gostinfo.ru", "protect.gost.ru", "files.stroyinf.ru"})
	v.SetDefault("tavily.timeout", 10*time.Second)

	v.SetDefault("redis.driver", "redis")
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.ping_timeout", 5*time.Second)
	v.SetDefault("redis.max_retries", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.enablecaller", true)
	v.SetDefault("log.enablestacktrace", true)
	v.SetDefault("log.file.filename", "logs/gost-search.log")
	v.SetDefault("log.file.maxsize", 100)
	v.SetDefault("log.file.maxage", 30)
	v.SetDefault("log.file.maxbackups", 10)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("client.edge_url", "http://localhost:3000")
	v.SetDefault("client.timeout", 15*time.Second)
}

// LoadConfig reads path (optional when empty) and overlays environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Warnings lists missing settings that leave part of the service unusable
func (c *Config) Warnings() []string {
	var warnings []string
	if c.GigaChat.AuthKey == "" {
		warnings = append(warnings, "GIGACHAT_AUTH_KEY is not set; analysis requests will fail")
	}
	if c.Tavily.APIKey == "" {
		warnings = append(warnings, "TAVILY_API_KEY is not set; search and fallback resolution will fail")
	}
	return warnings
}

// LoggerConfig converts the log section for logger.New
func (c *LogConfig) LoggerConfig() *logger.Config {
	return &logger.Config{
		Level:            c.Level,
		Format:           c.Format,
		Output:           c.Output,
		EnableCaller:     c.EnableCaller,
		EnableStacktrace: c.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   c.File.Filename,
			MaxSize:    c.File.MaxSize,
			MaxAge:     c.File.MaxAge,
			MaxBackups: c.File.MaxBackups,
			Compress:   c.File.Compress,
		},
	}
}

// ClientConfig converts the redis section for pkgredis.New
func (c *RedisConfig) ClientConfig() *pkgredis.Config {
	return &pkgredis.Config{
		URL:          c.URL,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PingTimeout:  c.PingTimeout,
		MaxRetries:   c.MaxRetries,
	}
}

// Addr returns host:port for the backend listener
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns host:port for the edge listener
func (c *EdgeConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
