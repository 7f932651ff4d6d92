package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port           string   `mapstructure:"port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`
	Database struct {
		Driver       string `mapstructure:"driver"`
		URL          string `mapstructure:"url"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Auth struct {
		SecretKey       string `mapstructure:"secret_key"`
		TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
	} `mapstructure:"auth"`
	Mail struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"mail"`
	Schedule struct {
		RejectDoubleBooking bool `mapstructure:"reject_double_booking"`
	} `mapstructure:"schedule"`
	Uploads struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"uploads"`
}

// environment variable bound to each key
var envKeys = map[string]string{
	"server.port":                    "SERVER_PORT",
	"server.allowed_origins":         "ALLOWED_ORIGINS",
	"database.driver":                "DB_DRIVER",
	"database.url":                   "DB_URL",
	"database.max_open_conns":        "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns":        "DB_MAX_IDLE_CONNS",
	"redis.addr":                     "REDIS_ADDR",
	"redis.password":                 "REDIS_PASSWORD",
	"redis.db":                       "REDIS_DB",
	"auth.secret_key":                "SECRET_KEY",
	"auth.token_ttl_minutes":         "TOKEN_TTL_MINUTES",
	"mail.host":                      "SMTP_HOST",
	"mail.port":                      "SMTP_PORT",
	"mail.username":                  "SMTP_USERNAME",
	"mail.password":                  "SMTP_PASSWORD",
	"mail.from":                      "SMTP_FROM",
	"schedule.reject_double_booking": "REJECT_DOUBLE_BOOKING",
	"uploads.dir":                    "UPLOADS_DIR",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("auth.token_ttl_minutes", 120)
	v.SetDefault("mail.port", 587)
	v.SetDefault("schedule.reject_double_booking", false)
	v.SetDefault("uploads.dir", "uploads")
}

// Load reads .env, the environment and an optional config.yaml, in that order of precedence
// from lowest to highest: defaults, config.yaml, environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envKeys {
		v.BindEnv(key, env)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: config error: %s", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.URL == "" {
		log.Fatal("DB_URL is required for the postgres driver")
	}
	if cfg.Auth.SecretKey == "" {
		log.Println("Warning: SECRET_KEY is empty, tokens are signed with an empty key")
	}

	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	// ALLOWED_ORIGINS arrives as a single comma separated string
	if len(cfg.Server.AllowedOrigins) == 1 && strings.Contains(cfg.Server.AllowedOrigins[0], ",") {
		cfg.Server.AllowedOrigins = strings.Split(cfg.Server.AllowedOrigins[0], ",")
	}
	return &cfg, nil
}
