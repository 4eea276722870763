package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roboco-io/larkdocx/internal/block"
	"github.com/roboco-io/larkdocx/internal/config"
	"github.com/roboco-io/larkdocx/internal/digest"
	"github.com/roboco-io/larkdocx/internal/feishu"
	"github.com/roboco-io/larkdocx/internal/logger"
	"github.com/roboco-io/larkdocx/internal/placement"
)

// newLoader honours --config.
func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

// loadConfig reads the config file, then applies environment and flag overrides.
func loadConfig() (*config.Config, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()
	if logMode != "" {
		cfg.Log.Mode = logMode
	}
	return cfg, nil
}

// appEnv bundles what the commands share.
type appEnv struct {
	cfg   *config.Config
	log   *logger.Logger
	cache feishu.TokenCache
	close func()
}

func newAppEnv(ctx context.Context) (*appEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}

	rt := &appEnv{cfg: cfg, log: log, close: func() { log.Sync() }}

	if cfg.UseRedis() {
		rc, err := feishu.NewRedisCache(ctx, feishu.RedisConfig{
			Addr:      cfg.TokenCache.RedisAddr,
			Password:  cfg.TokenCache.RedisPassword,
			DB:        cfg.TokenCache.RedisDB,
			KeyPrefix: cfg.TokenCache.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect token cache: %w", err)
		}
		rt.cache = rc
		rt.close = func() {
			_ = rc.Close()
			log.Sync()
		}
	} else {
		rt.cache = feishu.NewMemoryCache()
	}
	return rt, nil
}

// client returns a Feishu client; empty arguments fall back to the config.
func (rt *appEnv) client(appID, appSecret string) (*feishu.Client, error) {
	fc := feishu.Config{
		AppID:      rt.cfg.Feishu.AppID,
		AppSecret:  rt.cfg.Feishu.AppSecret,
		BaseURL:    rt.cfg.Feishu.BaseURL,
		Timeout:    rt.cfg.Feishu.Timeout,
		MaxRetries: rt.cfg.Feishu.MaxRetries,
	}
	if appID != "" {
		fc.AppID = appID
	}
	if appSecret != "" {
		fc.AppSecret = appSecret
	}
	return feishu.New(rt.log, fc, rt.cache)
}

func (rt *appEnv) placementOptions() placement.Options {
	return placementOptions(rt.cfg)
}

func placementOptions(cfg *config.Config) placement.Options {
	opts := placement.DefaultOptions()
	pc := cfg.Placement
	if pc.MaxItems > 0 {
		opts.MaxItems = pc.MaxItems
	}
	if pc.ItemDelay >= 0 {
		opts.ItemDelay = pc.ItemDelay
	}
	if pc.HeadingAlign != 0 {
		opts.HeadingAlign = pc.HeadingAlign
	}
	if pc.MaxColor > 0 {
		opts.Palette.MaxColor = pc.MaxColor
	}
	if len(pc.Emojis) > 0 {
		opts.Palette.Emojis = pc.Emojis
	}
	opts.Compiler = block.Compiler{
		TitleType: block.TypeHeading2,
		LinkLabel: pc.LinkLabel,
		LinkText:  pc.LinkText,
	}
	return opts
}

func digestRegistry(cfg *config.Config) *digest.Registry {
	return digest.NewDefaultRegistry(cfg.Placement.LinkLabel)
}

// readInput reads path, or stdin when path is "" or "-".
func readInput(in io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func maskSecret(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
