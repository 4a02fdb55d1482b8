package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int

	DownloadDir string
	Quality     model.QualityTier
	Speed       model.SpeedProfile
	Format      model.FormatPref
	AvoidHLS    bool

	CookieMode    model.CookieMode
	CookieFile    string
	CookieBrowser string

	// Clients is the player client rotation for the strategy builder.
	Clients []string

	LogFile string

	// RatePerSecond and RateBurst bound how fast /convert accepts work.
	RatePerSecond float64
	RateBurst     int
}

// Load reads environment variables, applies defaults, and validates the
// result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:   getEnv("CONVERT2MP3_ENV", "development"),
		HTTPBind:      getEnv("CONVERT2MP3_HTTP_BIND", "localhost"),
		HTTPPort:      getEnvInt("CONVERT2MP3_HTTP_PORT", 8765),
		DownloadDir:   getEnv("CONVERT2MP3_DOWNLOAD_DIR", defaultDownloadDir()),
		Quality:       model.QualityTier(getEnvInt("CONVERT2MP3_QUALITY", int(model.Quality192))),
		Speed:         model.SpeedProfile(getEnv("CONVERT2MP3_SPEED", string(model.SpeedBalanced))),
		Format:        model.FormatPref(getEnv("CONVERT2MP3_FORMAT", string(model.FormatAuto))),
		AvoidHLS:      getEnvBool("CONVERT2MP3_AVOID_HLS", false),
		CookieMode:    model.CookieMode(getEnv("CONVERT2MP3_COOKIE_MODE", string(model.CookieNone))),
		CookieFile:    getEnv("CONVERT2MP3_COOKIE_FILE", ""),
		CookieBrowser: getEnv("CONVERT2MP3_COOKIE_BROWSER", "chrome"),
		Clients:       getEnvList("CONVERT2MP3_CLIENTS", nil),
		LogFile:       getEnv("CONVERT2MP3_LOG_FILE", "convert2mp3.log"),
		RatePerSecond: getEnvFloat("CONVERT2MP3_RATE_PER_SECOND", 2),
		RateBurst:     getEnvInt("CONVERT2MP3_RATE_BURST", 5),
	}

	if !cfg.Quality.IsValid() {
		return nil, fmt.Errorf("config: unsupported quality %d (use 128, 192 or 320)", cfg.Quality)
	}
	switch cfg.Speed {
	case model.SpeedFast, model.SpeedBalanced, model.SpeedQuality:
	default:
		return nil, fmt.Errorf("config: unsupported speed profile %q", cfg.Speed)
	}
	switch cfg.Format {
	case model.FormatAuto, model.FormatDirect, model.FormatCompatible:
	default:
		return nil, fmt.Errorf("config: unsupported format preference %q", cfg.Format)
	}
	switch cfg.CookieMode {
	case model.CookieNone, model.CookieBrowser, model.CookieFile:
	default:
		return nil, fmt.Errorf("config: unsupported cookie mode %q", cfg.CookieMode)
	}
	if cfg.CookieMode == model.CookieFile && cfg.CookieFile == "" {
		return nil, fmt.Errorf("config: cookie mode %q requires CONVERT2MP3_COOKIE_FILE", cfg.CookieMode)
	}

	return cfg, nil
}

// Request builds a download request for url with the configured defaults.
func (c *Config) Request(url string) model.DownloadRequest {
	req := model.DownloadRequest{
		URL:           url,
		OutputDir:     c.DownloadDir,
		Quality:       c.Quality,
		Speed:         c.Speed,
		Format:        c.Format,
		AvoidHLS:      c.AvoidHLS,
		CookieMode:    c.CookieMode,
		CookieFile:    c.CookieFile,
		CookieBrowser: c.CookieBrowser,
	}
	req.Normalize()
	return req
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, "Downloads", "convert2mp3")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return fallback
	}
	return list
}
