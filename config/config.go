package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Gateway struct {
		Port          string `mapstructure:"port"`
		IdentityURL   string `mapstructure:"identity_url"`
		LedgerURL     string `mapstructure:"ledger_url"`
		SecureCookies bool   `mapstructure:"secure_cookies"`
	} `mapstructure:"gateway"`
	Identity struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"identity"`
	Ledger struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"ledger"`
	JWT struct {
		AccessSecret     string `mapstructure:"access_secret"`
		RefreshSecret    string `mapstructure:"refresh_secret"`
		AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
		RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
	} `mapstructure:"jwt"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.access_ttl_minutes", 20)
	viper.SetDefault("jwt.refresh_ttl_days", 7)

	viper.AutomaticEnv()

	// The signing secrets come from the environment, never from the config file.
	viper.BindEnv("jwt.access_secret", "ACCESS_SECRET_KEY")
	viper.BindEnv("jwt.refresh_secret", "REFRESH_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

// MustValidateSecrets refuses to let the process serve with an absent or
// empty signing secret. An empty key would make every token forgeable.
func MustValidateSecrets() {
	if strings.TrimSpace(AppConfig.JWT.AccessSecret) == "" {
		log.Fatal("ACCESS_SECRET_KEY must be a non-empty string")
	}
	if strings.TrimSpace(AppConfig.JWT.RefreshSecret) == "" {
		log.Fatal("REFRESH_SECRET_KEY must be a non-empty string")
	}
}
