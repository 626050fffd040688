package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ImportConfig carries the expected bank statement CSV headers. The header
// strings depend on the bank export, so they are deployment configuration,
// not parser constants.
type ImportConfig struct {
	DateHeader        string `mapstructure:"date_header"`
	ValueDateHeader   string `mapstructure:"value_date_header"`
	AmountHeader      string `mapstructure:"amount_header"`
	DescriptionHeader string `mapstructure:"description_header"`
	BalanceHeader     string `mapstructure:"balance_header"`
	MaxUploadBytes    int64  `mapstructure:"max_upload_bytes"`
}

type AppSubConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Import   ImportConfig   `mapstructure:"import"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// reference deployment: five-column French bank export
		v.SetDefault("import.date_header", "Date")
		v.SetDefault("import.value_date_header", "Date de valeur")
		v.SetDefault("import.amount_header", "Montant")
		v.SetDefault("import.description_header", "Libellé")
		v.SetDefault("import.balance_header", "Solde")
		v.SetDefault("import.max_upload_bytes", 5<<20)
		v.SetDefault("app.page_size", 20)

		// environment overrides, e.g. ASSO_SERVER_PORT=9000
		v.SetEnvPrefix("ASSO")
		v.AutomaticEnv()

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
