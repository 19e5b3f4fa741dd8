// Package config はYAMLファイルと環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata" // コンテナにタイムゾーンDBが無くても動くように埋め込む

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	AllowOrigins []string      `yaml:"allow_origins" env:"CORS_ALLOW_ORIGINS" env-default:"http://localhost:3000"`
	Timeout      time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`
}

// DBConfig はデータベース接続設定です。
// DSN が空の場合、mysql では Host/Port/User/Pass/Name から組み立てます。
type DBConfig struct {
	Driver          string        `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"` // mysql, postgres, sqlite
	DSN             string        `yaml:"dsn" env:"DB_DSN"`
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"DB_PORT" env-default:"3306"`
	User            string        `yaml:"user" env:"DB_USER"`
	Pass            string        `yaml:"pass" env:"DB_PASS"`
	Name            string        `yaml:"name" env:"DB_NAME"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

// OAuthConfig は外部IDプロバイダーの設定です。デフォルトはGoogleです。
type OAuthConfig struct {
	Provider     string   `yaml:"provider" env:"OAUTH_PROVIDER" env-default:"google"`
	ClientID     string   `yaml:"client_id" env:"OAUTH_CLIENT_ID"`
	ClientSecret string   `yaml:"client_secret" env:"OAUTH_CLIENT_SECRET"`
	AuthURL      string   `yaml:"auth_url" env:"OAUTH_AUTH_URL" env-default:"https://accounts.google.com/o/oauth2/auth"`
	TokenURL     string   `yaml:"token_url" env:"OAUTH_TOKEN_URL" env-default:"https://oauth2.googleapis.com/token"`
	UserInfoURL  string   `yaml:"userinfo_url" env:"OAUTH_USERINFO_URL" env-default:"https://openidconnect.googleapis.com/v1/userinfo"`
	RedirectURL  string   `yaml:"redirect_url" env:"OAUTH_REDIRECT_URL" env-default:"http://localhost:8080/api/auth/callback"`
	Scopes       []string `yaml:"scopes" env:"OAUTH_SCOPES" env-default:"openid,email,profile"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"24h"`
	OAuth     OAuthConfig   `yaml:"oauth"`
}

type Config struct {
	LogLevel string     `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	Timezone string     `yaml:"timezone" env:"APP_TIMEZONE" env-default:"UTC"`
	HTTP     HTTPConfig `yaml:"http"`
	DB       DBConfig   `yaml:"db"`
	Auth     AuthConfig `yaml:"auth"`
}

// Load は設定を読み込みます。
// configPath が空、またはファイルが存在しない場合は環境変数だけを使います。
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
		}
		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
	}
	return cfg, nil
}

// MustLoad は Load に失敗した場合にプロセスを終了します。
func MustLoad(configPath string) Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}
	return cfg
}

// Location は Timezone を time.Location に変換します。
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
