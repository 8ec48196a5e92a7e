// Package config предоставляет структуры и функцию для загрузки конфигурации.
// Все настройки берутся из переменных окружения; при заданном CONFIG_PATH
// значения дополнительно читаются из файла (.env или yaml).
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса.
type Config struct {
	Env         string   `yaml:"env" env:"ENV" env-default:"local"`
	CORSOrigins []string `yaml:"cors_origins" env:"BACKEND_CORS_ORIGINS"` // разрешённые источники, через запятую

	MongoConnection `yaml:"mongo_connection"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	Mail            `yaml:"mail"`
}

// MongoConnection структура для настройки подключения к MongoDB.
type MongoConnection struct {
	MongoURL    string        `yaml:"mongo_url" env:"MONGODB_URL" env-default:"mongodb://localhost:27017"`
	MongoDBName string        `yaml:"mongo_db_name" env:"MONGODB_DB_NAME" env-default:"stockflow_db"`
	MongoTimout time.Duration `yaml:"mongo_timeout" env:"MONGODB_TIMEOUT" env-default:"10s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:"0.0.0.0:8000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	SecretKey     string `yaml:"secret_key" env:"SECRET_KEY" env-default:"CHANGE_THIS_TO_A_SECURE_SECRET_KEY_IN_PRODUCTION"`
	Algorithm     string `yaml:"algorithm" env:"ALGORITHM" env-default:"HS256"`
	ExpireMinutes int    `yaml:"access_token_expire_minutes" env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"30"`
}

// Mail структура для настройки исходящей почты. Используется только
// сервисом отправки писем; при пустом MAIL_SERVER отправка отключена.
type Mail struct {
	MailServer   string `yaml:"mail_server" env:"MAIL_SERVER"`
	MailPort     int    `yaml:"mail_port" env:"MAIL_PORT" env-default:"587"`
	MailUsername string `yaml:"mail_username" env:"MAIL_USERNAME"`
	MailPassword string `yaml:"mail_password" env:"MAIL_PASSWORD"`
	MailFrom     string `yaml:"mail_from" env:"MAIL_FROM" env-default:"noreply@stockflow.com"`
	MailFromName string `yaml:"mail_from_name" env:"MAIL_FROM_NAME" env-default:"StockFlow"`
	MailStartTLS bool   `yaml:"mail_starttls" env:"MAIL_STARTTLS" env-default:"true"`
	MailSSLTLS   bool   `yaml:"mail_ssl_tls" env:"MAIL_SSL_TLS" env-default:"false"`
}

// TokenTTL возвращает время жизни токена доступа.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.ExpireMinutes) * time.Minute
}

// MailEnabled сообщает, настроена ли исходящая почта.
func (c *Config) MailEnabled() bool {
	return c.MailServer != ""
}

// MustLoad загружает конфигурацию и завершает процесс при ошибке.
//
// Если переменная CONFIG_PATH задана, значения читаются из указанного
// файла и дополняются переменными окружения; иначе — только из окружения.
func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("file: %s - does not exist", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MongoConnection:\n"+
			"  URL: %s\n"+
			"  DBName: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  Algorithm: %s\n"+
			"  ExpireMinutes: %d\n"+
			"Mail:\n"+
			"  Server: %s:%d\n"+
			"CORSOrigins: %v\n",
		c.Env,
		c.MongoURL,
		c.MongoDBName,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.Algorithm,
		c.ExpireMinutes,
		c.MailServer,
		c.MailPort,
		c.CORSOrigins,
	)
}
