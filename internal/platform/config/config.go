package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Session  SessionConfig  `mapstructure:"session"`
	Security SecurityConfig `mapstructure:"security"`
	Links    LinksConfig    `mapstructure:"links"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SessionConfig controls the signed session cookie. Secret is the HMAC key;
// when empty a random key is generated at startup.
type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
	Secret     string `mapstructure:"secret"`
	Secure     bool   `mapstructure:"secure"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// LinksConfig configures short code generation. BaseURL is the public origin
// used when printing short URLs; when empty the request host is used.
type LinksConfig struct {
	ShortCodeLength int    `mapstructure:"short_code_length"`
	BaseURL         string `mapstructure:"base_url"`
}

// StorageConfig selects the store backend: "memory" or "sqlite". Both keep
// all data inside the process.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.secure", false)

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("links.short_code_length", 6)
	v.SetDefault("links.base_url", "")

	v.SetDefault("storage.driver", "memory")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")
}

// Load reads the YAML file at path on top of the built-in defaults. A missing
// file is not an error. Environment variables override both, with dots
// replaced by underscores (SERVER_PORT, SESSION_SECRET, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 0 and 65535")
	}
	if c.Session.CookieName == "" {
		return errors.New("session.cookie_name is required")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return errors.New("security.bcrypt_cost must be between 4 and 31")
	}
	if c.Links.ShortCodeLength < 4 || c.Links.ShortCodeLength > 32 {
		return errors.New("links.short_code_length must be between 4 and 32")
	}
	switch c.Storage.Driver {
	case "memory", "sqlite":
	default:
		return errors.New("storage.driver must be 'memory' or 'sqlite'")
	}
	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}
