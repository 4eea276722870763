// Package config manages application configuration.
package config

import "time"

// Config represents the application configuration.
type Config struct {
	Feishu     FeishuConfig     `yaml:"feishu"`
	Placement  PlacementConfig  `yaml:"placement"`
	Server     ServerConfig     `yaml:"server"`
	TokenCache TokenCacheConfig `yaml:"token_cache"`
	Log        LogConfig        `yaml:"log"`
}

// FeishuConfig holds the app credentials and client settings for the docx API.
type FeishuConfig struct {
	AppID      string        `yaml:"app_id"`
	AppSecret  string        `yaml:"app_secret"`
	BaseURL    string        `yaml:"base_url,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	MaxRetries int           `yaml:"max_retries,omitempty"`
}

// PlacementConfig controls how digest callouts are inserted.
type PlacementConfig struct {
	MaxItems     int           `yaml:"max_items"`
	ItemDelay    time.Duration `yaml:"item_delay"`
	HeadingAlign int           `yaml:"heading_align"` // 1 left, 2 center, 3 right
	MaxColor     int           `yaml:"max_color"`
	Emojis       []string      `yaml:"emojis,omitempty"`
	LinkLabel    string        `yaml:"link_label,omitempty"`
	LinkText     string        `yaml:"link_text,omitempty"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	APIKey       string   `yaml:"api_key"`
	AllowOrigins []string `yaml:"allow_origins,omitempty"`
}

// TokenCacheConfig selects where tenant access tokens are cached.
type TokenCacheConfig struct {
	Backend       string `yaml:"backend"` // memory or redis
	RedisAddr     string `yaml:"redis_addr,omitempty"`
	RedisPassword string `yaml:"redis_password,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"`
	KeyPrefix     string `yaml:"key_prefix,omitempty"`
}

// LogConfig contains logging options.
type LogConfig struct {
	Mode string `yaml:"mode"` // dev or prod
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Feishu: FeishuConfig{
			AppID:      "${LARKDOCX_APP_ID}",
			AppSecret:  "${LARKDOCX_APP_SECRET}",
			BaseURL:    "https://open.feishu.cn",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Placement: PlacementConfig{
			MaxItems:     3,
			ItemDelay:    500 * time.Millisecond,
			HeadingAlign: 2,
			MaxColor:     13,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			APIKey:       "${LARKDOCX_API_KEY}",
			AllowOrigins: []string{"*"},
		},
		TokenCache: TokenCacheConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			KeyPrefix: "larkdocx:",
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// ApplyEnv overrides fields from LARKDOCX_* environment variables when set.
func (c *Config) ApplyEnv() {
	c.Feishu.AppID = GetEnvOrDefault("LARKDOCX_APP_ID", c.Feishu.AppID)
	c.Feishu.AppSecret = GetEnvOrDefault("LARKDOCX_APP_SECRET", c.Feishu.AppSecret)
	c.Server.APIKey = GetEnvOrDefault("LARKDOCX_API_KEY", c.Server.APIKey)
	c.Log.Mode = GetEnvOrDefault("LARKDOCX_LOG_MODE", c.Log.Mode)
}

// UseRedis reports whether tokens should be cached in Redis.
func (c *Config) UseRedis() bool {
	return c.TokenCache.Backend == "redis"
}
