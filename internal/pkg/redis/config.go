package redis

import (
	"errors"
	"time"
)

// Config Redis 配置
type Config struct {
	// URL 连接串，例如 redis://:password@localhost:6379/0
	URL string `mapstructure:"url" yaml:"url"`

	// 连接池配置（为 0 时沿用 URL 或驱动默认值）
	PoolSize     int `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`

	// 超时配置
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	PingTimeout  time.Duration `mapstructure:"ping_timeout" yaml:"ping_timeout"`

	// 重试配置
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PingTimeout:  5 * time.Second,
		MaxRetries:   1,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("redis: url is required")
	}
	if c.PoolSize < 0 {
		return errors.New("redis: pool_size must be >= 0")
	}
	if c.MinIdleConns < 0 {
		return errors.New("redis: min_idle_conns must be >= 0")
	}
	if c.PoolSize > 0 && c.MinIdleConns > c.PoolSize {
		return errors.New("redis: min_idle_conns cannot exceed pool_size")
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.PingTimeout < 0 {
		return errors.New("redis: timeouts must be >= 0")
	}
	if c.MaxRetries < 0 {
		return errors.New("redis: max_retries must be >= 0")
	}
	return nil
}
