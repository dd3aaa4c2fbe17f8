package shared

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv      string `yaml:"app_env"`
	LogLevel    string `yaml:"log_level"`
	HTTPAddr    string `yaml:"http_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	MySQLDSN    string `yaml:"mysql_dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisPass   string `yaml:"redis_password"`

	CMSBase     string  `yaml:"cms_base_url"`
	CMSToken    string  `yaml:"cms_api_token"`
	CMSRPS      int     `yaml:"cms_rps"`
	CMSPageSize int     `yaml:"cms_page_size"`

	Workers  int           `yaml:"ingest_workers"`
	Locales  []string      `yaml:"ingest_locales"`
	CacheTTL time.Duration `yaml:"-"`

	BasePath      string `yaml:"base_path"`
	SiteURL       string `yaml:"site_url"`
	DefaultLocale string `yaml:"default_locale"`
	NewBadgeDays  int    `yaml:"new_badge_days"`
	Currency      string `yaml:"bonus_currency"`
}

// fileConfig carries the keys whose YAML form differs from the struct field.
type fileConfig struct {
	Config          `yaml:",inline"`
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// Load reads .env (if present), then the optional CONFIG_FILE YAML, then the
// process environment. Later sources win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	c := Config{
		AppEnv:        "prod",
		LogLevel:      "info",
		HTTPAddr:      ":8080",
		MetricsAddr:   ":9100",
		MySQLDSN:      "root:root@tcp(localhost:3306)/portal?parseTime=true&charset=utf8mb4&loc=UTC",
		RedisAddr:     "localhost:6379",
		CMSRPS:        5,
		CMSPageSize:   100,
		Workers:       4,
		Locales:       []string{"it"},
		CacheTTL:      900 * time.Second,
		BasePath:      "/it",
		SiteURL:       "https://www.example.com",
		DefaultLocale: "it",
		NewBadgeDays:  14,
		Currency:      "€",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := c.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	c.overlayEnv()

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	if c.CMSToken == "" {
		log.Warn().Msg("CMS_API_TOKEN is empty")
	}
	return c, nil
}

func (c *Config) overlayFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	fc := fileConfig{Config: *c, CacheTTLSeconds: int(c.CacheTTL.Seconds())}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	*c = fc.Config
	c.CacheTTL = time.Duration(fc.CacheTTLSeconds) * time.Second
	return nil
}

func (c *Config) overlayEnv() {
	str(&c.AppEnv, "APP_ENV")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.HTTPAddr, "HTTP_ADDR")
	str(&c.MetricsAddr, "METRICS_ADDR")
	str(&c.MySQLDSN, "MYSQL_DSN")
	str(&c.RedisAddr, "REDIS_ADDR")
	str(&c.RedisPass, "REDIS_PASSWORD")
	num(&c.RedisDB, "REDIS_DB")
	str(&c.CMSBase, "CMS_BASE_URL")
	str(&c.CMSToken, "CMS_API_TOKEN")
	num(&c.CMSRPS, "CMS_RPS")
	num(&c.CMSPageSize, "CMS_PAGE_SIZE")
	num(&c.Workers, "INGEST_WORKERS")
	if v := os.Getenv("INGEST_LOCALES"); v != "" {
		c.Locales = splitList(v)
	}
	ttl := int(c.CacheTTL.Seconds())
	num(&ttl, "CACHE_TTL_SECONDS")
	c.CacheTTL = time.Duration(ttl) * time.Second
	str(&c.BasePath, "NEXT_PUBLIC_BASE_PATH")
	str(&c.SiteURL, "NEXT_PUBLIC_SITE_URL")
	str(&c.DefaultLocale, "DEFAULT_LOCALE")
	num(&c.NewBadgeDays, "NEW_BADGE_DAYS")
	str(&c.Currency, "BONUS_CURRENCY")
}

func (c Config) validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("INGEST_WORKERS must be positive, got %d", c.Workers)
	case c.CMSPageSize <= 0 || c.CMSPageSize > 100:
		return fmt.Errorf("CMS_PAGE_SIZE must be within 1..100, got %d", c.CMSPageSize)
	case c.CMSRPS <= 0:
		return fmt.Errorf("CMS_RPS must be positive, got %d", c.CMSRPS)
	case c.CacheTTL < 0:
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative")
	case len(c.Locales) == 0:
		return fmt.Errorf("INGEST_LOCALES must name at least one locale")
	}
	return nil
}

func str(dst *string, k string) {
	if v := os.Getenv(k); v != "" {
		*dst = v
	}
}

func num(dst *int, k string) {
	v := os.Getenv(k)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		return
	}
	*dst = n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
