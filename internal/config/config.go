package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port    string
	AppName string `mapstructure:"app_name"`
	Env     string // development | production
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	TimeZone    string
	TablePrefix string `mapstructure:"table_prefix"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	// ExpirationHours is the token lifetime; 168 (7 days) when unset.
	ExpirationHours int `mapstructure:"expiration_hours"`
}

type AuthConfig struct {
	// BcryptCost is the hashing work factor; 10 when unset.
	BcryptCost int `mapstructure:"bcrypt_cost"`
	// LoginFields is the ordered list of user columns a login identifier
	// is matched against. Set to ["email"] for the legacy email-only
	// contract, which also enables the email-format precondition.
	LoginFields []string `mapstructure:"login_fields"`
}

func LoadConfig() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Error reading config file, %s", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	applyDefaults(&config)
	return &config
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.JWT.ExpirationHours <= 0 {
		cfg.JWT.ExpirationHours = 168
	}
	if cfg.Auth.BcryptCost <= 0 {
		cfg.Auth.BcryptCost = 10
	}
	if len(cfg.Auth.LoginFields) == 0 {
		cfg.Auth.LoginFields = []string{"email", "username", "nic", "tel"}
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}
