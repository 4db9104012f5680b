package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT" validate:"required"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH" validate:"required"`
	DiscordClientID               string        `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string        `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string        `mapstructure:"DISCORD_REDIRECT_URL" validate:"omitempty,url"`
	DiscordGuildID                string        `mapstructure:"DISCORD_GUILD_ID" validate:"required_with=DiscordClientID"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET" validate:"required"`
	FrontendURL                   string        `mapstructure:"FRONTEND_URL" validate:"omitempty,url"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat                     string        `mapstructure:"LOG_FORMAT" validate:"oneof=json text"`
	TracksFile                    string        `mapstructure:"TRACKS_FILE"`
	SessionTTL                    time.Duration `mapstructure:"SESSION_TTL" validate:"gt=0"`
	SessionPurgeSchedule          string        `mapstructure:"SESSION_PURGE_SCHEDULE" validate:"required"`
}

// LoadConfig reads .env (when present), the environment and the defaults
// below, in increasing order of precedence for the environment.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_PATH", "career-fair.db")
	v.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	v.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000/registrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_PURGE_SCHEDULE", "@every 10m")

	for _, key := range []string{
		"DISCORD_CLIENT_ID",
		"DISCORD_CLIENT_SECRET",
		"DISCORD_GUILD_ID",
		"DISCORD_BOT_TOKEN",
		"DISCORD_NOTIFICATIONS_CHANNEL_ID",
		"JWT_SECRET",
		"TRACKS_FILE",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
