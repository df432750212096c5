package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	// 以下为中间件参数
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxConcurrent   int64
	MaxBodyMB       int64
	RequestTimeoutS int
	CORSOrigins     []string
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

// JWT jwt.key 为 HS256 签名密钥，jwt.issuer 同时用作 iss 与 aud
type JWT struct {
	Key               string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled 未配置地址时关闭令牌吊销
func (r Redis) Enabled() bool { return r.Addr != "" }

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	Seed               bool
	SeedPassword       string
	LogLevel           string
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis `mapstructure:"redis"`
}

var ErrMissingJWTKey = errors.New("jwt.key is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bookstore-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.rateLimitRPS", 200)
	v.SetDefault("app.http.rateLimitBurst", 400)
	v.SetDefault("app.http.maxConcurrent", 300)
	v.SetDefault("app.http.maxBodyMB", 16)
	v.SetDefault("app.http.requestTimeoutS", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.key", "")
	v.SetDefault("jwt.issuer", "bookstore-api")
	v.SetDefault("jwt.accessTokenTTLMin", 5)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "bookstore.db?_foreign_keys=1")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("db.seedPassword", "")
	v.SetDefault("redis.addr", "")
}

// Load 读取 YAML 配置，APP_ 前缀环境变量覆盖（APP_JWT_KEY 覆盖 jwt.key）
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if strings.TrimSpace(c.JWT.Key) == "" {
		return nil, ErrMissingJWTKey
	}
	return &c, nil
}
