package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"autopost-dashboard/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App          App          `json:"app"`
	Backend      Backend      `json:"backend"`
	Poller       Poller       `json:"poller"`
	Notification Notification `json:"notification"`
	Database     Database     `json:"database"`
	RedisClient  RedisClient  `json:"redisClient"`
	YouTube      YouTube      `json:"youtube"`
	Cors         Cors         `json:"cors"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

// Backend points at the upstream SaaS API and the dashboard paths it redirects to.
type Backend struct {
	BaseURL        string `json:"baseURL"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	CallbackPath   string `json:"callbackPath"`
	DashboardPath  string `json:"dashboardPath"`
	LoginPath      string `json:"loginPath"`
}

// Poller controls connection-status retries.
type Poller struct {
	MaxAttempts  int   `json:"maxAttempts"`
	DelaysMillis []int `json:"delaysMillis"`
}

type Notification struct {
	TTLSeconds int `json:"ttlSeconds"`
}

type Database struct {
	Vendor string `json:"vendor"`
	Psql   Db     `json:"psql"`
	Mssql  Db     `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	DB       int    `json:"db"`
}

// YouTube holds optional OAuth client credentials. When set, authorization
// codes are exchanged directly with Google instead of through the upstream.
type YouTube struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

var C Config

// EnvFiles are read before the JSON config; the process environment wins.
var EnvFiles = []string{"config.env", ".env"}

func init() {
	Load(EnvFiles...)
}

// Load fills C from env files, the JSON config and environment overrides.
func Load(envFiles ...string) {
	if n := LoadEnvFromFile(envFiles...); n > 0 {
		logger.GetLogger().WithField("count", n).Info("Loaded variables from env files")
	}
	LoadConfig()
	initApp(&C)
	initBackend(&C)
	initPoller(&C)
	initDatabase(&C)
	initRedis(&C)
	initYouTube(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
	if len(C.Cors.AllowOrigins) == 0 {
		C.Cors.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
}

func initBackend(C *Config) {
	if v := os.Getenv("BACKEND_BASE_URL"); v != "" {
		C.Backend.BaseURL = v
	}
	if C.Backend.BaseURL == "" {
		C.Backend.BaseURL = "http://localhost:8000"
	}
	C.Backend.BaseURL = strings.TrimRight(C.Backend.BaseURL, "/")
	if C.Backend.CallbackPath == "" {
		C.Backend.CallbackPath = "/dashboard/callback"
	}
	if C.Backend.DashboardPath == "" {
		C.Backend.DashboardPath = "/dashboard"
	}
	if C.Backend.LoginPath == "" {
		C.Backend.LoginPath = "/login"
	}
}

func initPoller(C *Config) {
	if C.Poller.MaxAttempts <= 0 {
		C.Poller.MaxAttempts = 3
	}
	if len(C.Poller.DelaysMillis) == 0 {
		C.Poller.DelaysMillis = []int{1000, 2000, 2000}
	}
	if C.Notification.TTLSeconds <= 0 {
		C.Notification.TTLSeconds = 5
	}
}

func initDatabase(C *Config) {
	if v := os.Getenv("DB_VENDOR"); v != "" {
		C.Database.Vendor = v
	}
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}

	if C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = os.Getenv("MSSQL_DB_NAME")
	}
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = os.Getenv("MSSQL_HOST")
	}
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = os.Getenv("MSSQL_USER")
	}
	if C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = os.Getenv("MSSQL_PASSWORD")
	}
	if C.Database.Mssql.Port == "" {
		if v := os.Getenv("MSSQL_PORT"); v != "" {
			C.Database.Mssql.Port = v
		} else {
			C.Database.Mssql.Port = "1433"
		}
	}
}

func initRedis(C *Config) {
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = getEnv("REDIS_PORT", "6379")
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func initYouTube(C *Config) {
	C.YouTube.ClientID = getConfigValue(C.YouTube.ClientID, "YOUTUBE_CLIENT_ID", "")
	C.YouTube.ClientSecret = getConfigValue(C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", "")
	C.YouTube.RedirectURI = getConfigValue(C.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL", "")
	// Prefer https redirect URIs locally when TLS enabled
	if C.App.TLSEnabled && C.YouTube.RedirectURI != "" && !hasHTTPS(C.YouTube.RedirectURI) {
		C.YouTube.RedirectURI = toHTTPSCallback(C.YouTube.RedirectURI)
	}
}

// Delays converts the configured delay table into durations.
func (p Poller) Delays() []time.Duration {
	out := make([]time.Duration, 0, len(p.DelaysMillis))
	for _, ms := range p.DelaysMillis {
		out = append(out, time.Duration(ms)*time.Millisecond)
	}
	return out
}

// NotificationTTL is the lifetime of a notification.
func (n Notification) TTL() time.Duration {
	return time.Duration(n.TTLSeconds) * time.Second
}

// RequestTimeout is zero (transport default) unless configured.
func (b Backend) RequestTimeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// DirectExchangeEnabled reports whether YouTube codes are exchanged with Google directly.
func (y YouTube) DirectExchangeEnabled() bool {
	return y.ClientID != "" && y.ClientSecret != "" && y.RedirectURI != ""
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// helpers to coerce local callback to https
func hasHTTPS(u string) bool { return strings.HasPrefix(u, "https://") }
func toHTTPSCallback(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
