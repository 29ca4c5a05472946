package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	Tokens     `yaml:"tokens"`
	RabbitMQ   `yaml:"rabbitmq"`
	Postgres   `yaml:"postgres"`
	Redis      `yaml:"redis"`
	HTTPServer `yaml:"http_server"`
	RateLimit  `yaml:"rate_limit"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	BasePath    string        `yaml:"base_path" env-default:"/api/v1"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"postgres"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-required:"true"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
	MaxConns int32  `yaml:"max_conns" env-default:"10"`
}

// Redis holds the session cache settings. SessionTTL of zero keeps sessions
// until logout.
type Redis struct {
	Addr          string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password      string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB            int           `yaml:"db" env-default:"0"`
	SessionPrefix string        `yaml:"session_prefix"`
	SessionTTL    time.Duration `yaml:"session_ttl" env-default:"0s"`
}

type Tokens struct {
	ActivationSecret   string        `yaml:"activation_secret" env:"ACTIVATION_SECRET" env-required:"true"`
	ActivationTokenTTL time.Duration `yaml:"activation_token_ttl" env-default:"10m"`
	ActivationCodeTTL  time.Duration `yaml:"activation_code_ttl" env-default:"60s"`
	AccessSecret       string        `yaml:"access_secret" env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	AccessTokenTTL     time.Duration `yaml:"access_token_ttl" env-default:"5m"`
	RefreshSecret      string        `yaml:"refresh_secret" env:"REFRESH_TOKEN_SECRET" env-required:"true"`
	RefreshTokenTTL    time.Duration `yaml:"refresh_token_ttl" env-default:"72h"`
}

// RateLimit holds per-route request limits counted by client IP.
type RateLimit struct {
	RegisterRequests int           `yaml:"register_requests" env-default:"5"`
	RegisterWindow   time.Duration `yaml:"register_window" env-default:"1h"`
	ActivateRequests int           `yaml:"activate_requests" env-default:"10"`
	ActivateWindow   time.Duration `yaml:"activate_window" env-default:"10m"`
	LoginRequests    int           `yaml:"login_requests" env-default:"10"`
	LoginWindow      time.Duration `yaml:"login_window" env-default:"5m"`
	RefreshRequests  int           `yaml:"refresh_requests" env-default:"30"`
	RefreshWindow    time.Duration `yaml:"refresh_window" env-default:"10m"`
}

type RabbitMQ struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL" env-required:"true"`
	QueueName string `yaml:"queue_name" env-default:"emails"`
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	var cfg Config

	if err := read(configPath, &cfg); err != nil {
		return nil, err
	}

	if cfg.Tokens.AccessSecret == cfg.Tokens.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	return &cfg, nil
}

// Path resolves the config file from the -config flag, then CONFIG_PATH,
// then the default location.
func Path() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "./config/config.yaml"
	}

	return res
}

func read(configPath string, cfg any) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	return nil
}
