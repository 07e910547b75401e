package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	StaticDir          string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type SecurityConfig struct {
	JWTSecret         string
	ResetSecret       string
	SessionTTL        time.Duration
	ResetTTL          time.Duration
	ResetSingleUse    bool
	InitialAdminEmail string
}

type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	NotifyEmail string
	FromName    string
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AppConfig is everything main needs to wire the service
type AppConfig struct {
	Environment string
	LogLevel    string
	FrontendURL string
	Server      ServerConfig
	DB          DBConfig
	Security    SecurityConfig
	Mail        MailConfig
	Redis       RedisConfig
}

// envBindings maps config keys to the environment variables the deployment already uses
var envBindings = map[string]string{
	"environment":                "ENVIRONMENT",
	"loglevel":                   "LOG_LEVEL",
	"frontendurl":                "FRONTEND_URL",
	"server.port":                "PORT",
	"server.readtimeout":         "SERVER_READ_TIMEOUT",
	"server.writetimeout":        "SERVER_WRITE_TIMEOUT",
	"server.corsallowedorigins":  "CORS_ALLOWED_ORIGINS",
	"server.staticdir":           "STATIC_DIR",
	"db.host":                    "DB_HOST",
	"db.port":                    "DB_PORT",
	"db.user":                    "DB_USER",
	"db.password":                "DB_PASSWORD",
	"db.name":                    "DB_NAME",
	"db.sslmode":                 "DB_SSLMODE",
	"db.maxconns":                "DB_MAX_CONNS",
	"security.jwtsecret":         "JWT_SECRET",
	"security.resetsecret":       "RESET_SECRET",
	"security.sessionttl":        "SESSION_TTL",
	"security.resetttl":          "RESET_TTL",
	"security.resetsingleuse":    "RESET_SINGLE_USE",
	"security.initialadminemail": "INITIAL_ADMIN_EMAIL",
	"mail.host":                  "SMTP_HOST",
	"mail.port":                  "SMTP_PORT",
	"mail.username":              "EMAIL_USER",
	"mail.password":              "EMAIL_PASS",
	"mail.notifyemail":           "NOTIFY_EMAIL",
	"mail.fromname":              "EMAIL_FROM_NAME",
	"mail.workers":               "MAIL_WORKERS",
	"mail.queuesize":             "MAIL_QUEUE_SIZE",
	"mail.sendtimeout":           "MAIL_SEND_TIMEOUT",
	"redis.addr":                 "REDIS_ADDR",
	"redis.password":             "REDIS_PASSWORD",
	"redis.db":                   "REDIS_DB",
}

// Load reads config.yaml (optional) and the environment. Call godotenv first so .env values are visible here.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Mail.NotifyEmail == "" {
		cfg.Mail.NotifyEmail = cfg.Mail.Username
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	cfg.Server.CORSAllowedOrigins = compact(cfg.Server.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("loglevel", "info")
	v.SetDefault("frontendurl", "http://localhost:5000")

	v.SetDefault("server.port", "5000")
	v.SetDefault("server.readtimeout", "10s")
	v.SetDefault("server.writetimeout", "15s")

	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.maxconns", 10)

	v.SetDefault("security.sessionttl", "1h")
	v.SetDefault("security.resetttl", "15m")
	v.SetDefault("security.resetsingleuse", false)

	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.fromname", "Bais Express Logistics")
	v.SetDefault("mail.workers", 2)
	v.SetDefault("mail.queuesize", 100)
	v.SetDefault("mail.sendtimeout", "20s")

	v.SetDefault("redis.db", 0)
}

// Validate rejects configurations the service cannot run safely with
func (c *AppConfig) Validate() error {
	if c.DB.Host == "" || c.DB.Port == "" || c.DB.User == "" || c.DB.Name == "" {
		return fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set in environment")
	}
	if c.Security.ResetSecret == "" {
		return fmt.Errorf("RESET_SECRET not set in environment")
	}
	if c.Security.JWTSecret == c.Security.ResetSecret {
		return fmt.Errorf("JWT_SECRET and RESET_SECRET must differ")
	}
	if c.Security.SessionTTL <= 0 || c.Security.ResetTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.Security.ResetSingleUse && c.Redis.Addr == "" {
		return fmt.Errorf("RESET_SINGLE_USE requires REDIS_ADDR")
	}
	return nil
}

// MailEnabled reports whether SMTP credentials were provided
func (c *AppConfig) MailEnabled() bool {
	return c.Mail.Username != "" && c.Mail.Password != ""
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
