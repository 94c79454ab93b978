package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Record store drivers
const (
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
	StoreDriverNone     = "none"
)

// Asset source drivers
const (
	AssetsDriverFS    = "fs"
	AssetsDriverS3    = "s3"
	AssetsDriverMinIO = "minio"
	AssetsDriverNone  = "none"
)

var (
	storeDrivers  = []string{StoreDriverRedis, StoreDriverPostgres, StoreDriverSQLite, StoreDriverMemory, StoreDriverNone}
	assetsDrivers = []string{AssetsDriverFS, AssetsDriverS3, AssetsDriverMinIO, AssetsDriverNone}
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Store     StoreConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Assets    AssetsConfig
	Render    RenderConfig
	Docs      DocsConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the service runs in production.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// DocsConfig controls the Swagger endpoint at /swagger.
type DocsConfig struct {
	Enabled    bool
	AllowedIPs []string // IPs or CIDR ranges; required in production
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver         string // redis, postgres, sqlite, memory, none
	KeyPrefix      string // first segment of every key, e.g. "game" -> game:{id}
	MemoryFallback bool   // fall back to memory when Redis is unreachable at startup
	// AllowMemoryInProduction opts in to the memory driver in production.
	AllowMemoryInProduction bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds SQL record store connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	SQLitePath      string
}

// AssetsConfig selects the static asset source.
type AssetsConfig struct {
	Driver       string // fs, s3, minio, none
	Dir          string // root directory for fs
	Bucket       string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
	KeyPrefix    string // object key prefix inside the bucket
}

// RenderConfig holds page routing and rendering settings
type RenderConfig struct {
	RoutePrefix      string
	BaseTemplatePath string
	LandingPage      string
	DemoGameID       string
	PageCacheMaxAge  time.Duration // Cache-Control max-age for stored pages
	RenderedMaxAge   time.Duration // Cache-Control max-age for freshly rendered pages
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool          // Whether to enable OpenTelemetry
	CollectorEndpoint string        // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64       // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string        // Service name for traces
	Insecure          bool          // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool          // Export page and save counters
	MetricsInterval   time.Duration // Metrics export interval
	LogsEnabled       bool          // Export logs through the zap bridge
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_REDIS_HOST)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true cannot use the zero-value defaults below.
	v.SetDefault("store.memory_fallback", true)
	v.SetDefault("docs.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Store: StoreConfig{
			Driver:                  strings.ToLower(v.GetString("store.driver")),
			KeyPrefix:               v.GetString("store.key_prefix"),
			MemoryFallback:          v.GetBool("store.memory_fallback"),
			AllowMemoryInProduction: v.GetBool("store.allow_memory_in_production"),
		},
		Redis: RedisConfig{
			Host:         v.GetString("redis.host"),
			Port:         v.GetInt("redis.port"),
			Password:     v.GetString("redis.password"),
			DB:           v.GetInt("redis.db"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			SQLitePath:      v.GetString("database.sqlite_path"),
		},
		Assets: AssetsConfig{
			Driver:       strings.ToLower(v.GetString("assets.driver")),
			Dir:          v.GetString("assets.dir"),
			Bucket:       v.GetString("assets.bucket"),
			Endpoint:     v.GetString("assets.endpoint"),
			Region:       v.GetString("assets.region"),
			AccessKey:    v.GetString("assets.access_key"),
			SecretKey:    v.GetString("assets.secret_key"),
			UseSSL:       v.GetBool("assets.use_ssl"),
			UsePathStyle: v.GetBool("assets.use_path_style"),
			KeyPrefix:    v.GetString("assets.key_prefix"),
		},
		Render: RenderConfig{
			RoutePrefix:      v.GetString("render.route_prefix"),
			BaseTemplatePath: v.GetString("render.base_template_path"),
			LandingPage:      v.GetString("render.landing_page"),
			DemoGameID:       v.GetString("render.demo_game_id"),
			PageCacheMaxAge:  v.GetDuration("render.page_cache_max_age"),
			RenderedMaxAge:   v.GetDuration("render.rendered_max_age"),
		},
		Docs: DocsConfig{
			Enabled:    v.GetBool("docs.enabled"),
			AllowedIPs: v.GetStringSlice("docs.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // inline base64 images make save payloads large
	}
	// An empty CORS origin list allows no cross-origin requests.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverRedis
	}
	if cfg.Store.KeyPrefix == "" {
		cfg.Store.KeyPrefix = "game"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "storefront"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "storefront.db"
	}
	if cfg.Assets.Driver == "" {
		cfg.Assets.Driver = AssetsDriverFS
	}
	if cfg.Assets.Dir == "" {
		cfg.Assets.Dir = "./web"
	}
	if cfg.Assets.Region == "" {
		cfg.Assets.Region = "us-east-1"
	}
	if cfg.Render.RoutePrefix == "" {
		cfg.Render.RoutePrefix = "app"
	}
	if cfg.Render.BaseTemplatePath == "" {
		cfg.Render.BaseTemplatePath = "/templates/game.html"
	}
	if cfg.Render.LandingPage == "" {
		cfg.Render.LandingPage = "/index.html"
	}
	if cfg.Render.DemoGameID == "" {
		cfg.Render.DemoGameID = "1757350"
	}
	if cfg.Render.PageCacheMaxAge == 0 {
		cfg.Render.PageCacheMaxAge = 24 * time.Hour
	}
	if cfg.Render.RenderedMaxAge == 0 {
		cfg.Render.RenderedMaxAge = 60 * time.Second
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "storefront"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}

	// Production serves docs only to an explicit allow list.
	if cfg.App.IsProduction() && len(cfg.Docs.AllowedIPs) == 0 {
		cfg.Docs.Enabled = false
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if !slices.Contains(storeDrivers, c.Store.Driver) {
		return fmt.Errorf("store.driver must be one of %s, got %q", strings.Join(storeDrivers, ", "), c.Store.Driver)
	}
	if strings.Contains(c.Store.KeyPrefix, ":") {
		return fmt.Errorf("store.key_prefix must not contain ':'")
	}
	if !slices.Contains(assetsDrivers, c.Assets.Driver) {
		return fmt.Errorf("assets.driver must be one of %s, got %q", strings.Join(assetsDrivers, ", "), c.Assets.Driver)
	}
	if (c.Assets.Driver == AssetsDriverS3 || c.Assets.Driver == AssetsDriverMinIO) && c.Assets.Bucket == "" {
		return fmt.Errorf("assets.bucket is required for the %s driver", c.Assets.Driver)
	}
	if c.Assets.Driver == AssetsDriverMinIO && c.Assets.Endpoint == "" {
		return fmt.Errorf("assets.endpoint is required for the minio driver")
	}

	if c.Store.Driver == StoreDriverPostgres {
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be positive")
		}
		if c.Database.MaxIdleConns < 0 {
			return fmt.Errorf("database.max_idle_conns cannot be negative")
		}
		if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
			return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
				c.Database.MaxIdleConns, c.Database.MaxOpenConns)
		}
	}

	prefix := c.Render.RoutePrefix
	if strings.Trim(prefix, "/") == "" || strings.Contains(strings.Trim(prefix, "/"), "/") {
		return fmt.Errorf("render.route_prefix must be a single path segment, got %q", prefix)
	}
	c.Render.RoutePrefix = strings.Trim(prefix, "/")
	switch c.Render.RoutePrefix {
	case "api", "health", "test-worker", "swagger":
		return fmt.Errorf("render.route_prefix %q collides with a built-in route", c.Render.RoutePrefix)
	}
	if !isDigits(c.Render.DemoGameID) {
		return fmt.Errorf("render.demo_game_id must be numeric, got %q", c.Render.DemoGameID)
	}
	if !strings.HasPrefix(c.Render.BaseTemplatePath, "/") || !strings.HasPrefix(c.Render.LandingPage, "/") {
		return fmt.Errorf("render.base_template_path and render.landing_page must be absolute paths")
	}

	for _, entry := range c.Docs.AllowedIPs {
		if _, _, err := net.ParseCIDR(entry); err != nil && net.ParseIP(entry) == nil {
			return fmt.Errorf("docs.allowed_ips entry %q is neither an IP nor a CIDR range", entry)
		}
	}

	if c.App.IsProduction() {
		if c.Store.Driver == StoreDriverMemory && !c.Store.AllowMemoryInProduction {
			return fmt.Errorf("store.driver=memory loses saved games on restart; set store.allow_memory_in_production to use it in production")
		}
		if c.Store.Driver == StoreDriverPostgres && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
