// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилища.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageDriver           string `yaml:"storage_driver" env-default:"postgres"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	HTTPServer              `yaml:"http_server"`
	GRPCServer              `yaml:"grpc_server"`
	JWTToken                `yaml:"jwttoken"`
	Wallet                  `yaml:"wallet"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// GRPCServer адрес gRPC health-сервера. Пустой адрес отключает сервер.
type GRPCServer struct {
	AddressGRPC string `yaml:"address"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RabbitMQ настройки брокера уведомлений. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url"`
	Exchange   string        `yaml:"exchange" env-default:"notifications"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Wallet бизнес-настройки кошелька.
type Wallet struct {
	MinTopup            int64    `yaml:"min_topup" env-default:"100"`
	LeaderboardSize     int      `yaml:"leaderboard_size" env-default:"10"`
	ActivityLogLimit    int      `yaml:"activity_log_limit" env-default:"100"`
	BootstrapAdminIDs   []string `yaml:"bootstrap_admin_ids"`
	ProvisioningKeyHash string   `yaml:"provisioning_key_hash"`
}

// RateLimit ограничение частоты пишущих запросов пользователя.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"3"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг из файла CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает и проверяет конфиг по пути path.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.StorageConnectionString == "" {
			return fmt.Errorf("storage_connection_string is required for driver %q", c.StorageDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage_driver %q", c.StorageDriver)
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("jwttoken.jwt_secret_key is required")
	}
	if c.MinTopup <= 0 {
		return fmt.Errorf("wallet.min_topup must be positive")
	}
	if c.LeaderboardSize <= 0 || c.ActivityLogLimit <= 0 {
		return fmt.Errorf("wallet.leaderboard_size and wallet.activity_log_limit must be positive")
	}
	return nil
}

// IsBootstrapAdmin сообщает, входит ли id в список первичных администраторов.
func (w Wallet) IsBootstrapAdmin(id string) bool {
	for _, adminID := range w.BootstrapAdminIDs {
		if adminID == id {
			return true
		}
	}
	return false
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageDriver: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"GRPCServer:\n"+
			"  Address: %s\n"+
			"Wallet:\n"+
			"  MinTopup: %d\n"+
			"  LeaderboardSize: %d\n"+
			"  ActivityLogLimit: %d\n",
		c.Env,
		c.StorageDriver,
		c.AddressRedis,
		c.DB,
		c.Exchange,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.AddressGRPC,
		c.MinTopup,
		c.LeaderboardSize,
		c.ActivityLogLimit,
	)
}
