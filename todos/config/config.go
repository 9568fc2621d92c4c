package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Address  string        `yaml:"address" env:"REDIS_ADDRESS"` // empty => no users cache
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	UsersTTL time.Duration `yaml:"users_ttl" env:"REDIS_USERS_TTL" env-default:"5m"`
}

type Config struct {
	LogLevel  string      `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	Address   string      `yaml:"todos_address" env:"TODOS_ADDRESS" env-default:":8080"`
	DBAddress string      `yaml:"db_address" env:"DB_ADDRESS" env-required:"true"`
	Redis     RedisConfig `yaml:"redis"`
}

func MustLoad(configPath string) Config {
	// .env только дополняет окружение, его отсутствие не ошибка
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("cannot read .env: %s", err)
	}

	var cfg Config

	// если путь пустой - просто env
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	// пробуем файл, если его нет - env
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
