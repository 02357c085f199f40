package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Server  ServerConfig `mapstructure:"server"`
	DB      DBConfig     `mapstructure:"db"`
	JWT     JWTConfig    `mapstructure:"jwt"`
	Bcrypt  BcryptConfig `mapstructure:"bcrypt"`
	Backup  BackupConfig `mapstructure:"backup"`
	Log     LogConfig    `mapstructure:"log"`
	CORS    CORSConfig   `mapstructure:"cors"`
	AppHost string       `mapstructure:"host"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

type BcryptConfig struct {
	Cost int `mapstructure:"cost"`
}

type BackupConfig struct {
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const minSecretLength = 32

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("db.source", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "multipitch-sync")
	v.SetDefault("jwt.access_ttl", 5*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 24*time.Hour)
	v.SetDefault("bcrypt.cost", bcrypt.DefaultCost)
	v.SetDefault("backup.max_upload_bytes", 64<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("./configs")
	v.AddConfigPath("/configs")
	v.SetConfigName("settings")
	v.SetConfigType("yml")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the server cannot run with. A missing signing
// secret is fatal rather than silently defaulted.
func (c *Config) Validate() error {
	var errs []error

	if c.DB.Source == "" {
		errs = append(errs, errors.New("db.source is required"))
	}
	if len(c.JWT.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("jwt.secret must be at least %d bytes", minSecretLength))
	}
	if c.JWT.AccessTTL <= 0 {
		errs = append(errs, errors.New("jwt.access_ttl must be positive"))
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		errs = append(errs, errors.New("jwt.refresh_ttl must not be shorter than jwt.access_ttl"))
	}
	if c.Bcrypt.Cost < bcrypt.MinCost || c.Bcrypt.Cost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt.cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Backup.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("backup.max_upload_bytes must be positive"))
	}

	return errors.Join(errs...)
}
