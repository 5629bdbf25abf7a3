package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ProviderCredentials holds the OAuth2 client registration for one
// external identity provider.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Config holds all configuration for the server. It is assembled once at
// startup and passed down through constructors; nothing re-reads the
// environment per call.
type Config struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	RedisDB     int    `mapstructure:"REDIS_DB"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogPretty   bool   `mapstructure:"LOG_PRETTY"`

	// IssuerURL is the iss claim stamped into access tokens.
	IssuerURL string `mapstructure:"ISSUER_URL"`

	// JWTSecret signs access tokens. Required: there is no default and an
	// unset secret aborts startup.
	JWTSecret string `mapstructure:"JWT_SECRET"`

	DiscordClientID     string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI  string `mapstructure:"DISCORD_REDIRECT_URI"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `mapstructure:"GOOGLE_REDIRECT_URI"`
}

// Load reads configuration from an optional config file, environment
// variables and defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/auth-service/")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "auth_service")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("ISSUER_URL", "https://auth.seekr.games/")

	// No default for JWT_SECRET. Binding it explicitly makes AutomaticEnv
	// pick it up even though it never appears in a config file.
	for _, key := range []string{
		"JWT_SECRET",
		"DISCORD_CLIENT_ID", "DISCORD_CLIENT_SECRET", "DISCORD_REDIRECT_URI",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URI",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return &cfg, nil
}

// Providers returns the credentials for every configured provider, keyed
// by provider name. Providers with no client id are omitted.
func (c *Config) Providers() map[string]ProviderCredentials {
	creds := make(map[string]ProviderCredentials)
	if c.DiscordClientID != "" {
		creds["discord"] = ProviderCredentials{
			ClientID:     c.DiscordClientID,
			ClientSecret: c.DiscordClientSecret,
			RedirectURL:  c.DiscordRedirectURI,
		}
	}
	if c.GoogleClientID != "" {
		creds["google"] = ProviderCredentials{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			RedirectURL:  c.GoogleRedirectURI,
		}
	}
	return creds
}
